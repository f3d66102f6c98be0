// This file is part of memsim.
//
// memsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// memsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with memsim.  If not, see <https://www.gnu.org/licenses/>.

package plugin

import "github.com/memsim/memsim/request"

// BLISS tracks consecutive issues from the same source and blacklists a
// source for BlacklistCycles once its streak exceeds StreakThreshold
// (spec §4.7.6); the scheduler then deprioritizes blacklisted sources.
type BLISS struct {
	StreakThreshold int
	BlacklistCycles uint64

	lastSource      int
	haveLastSource  bool
	streak          int
	now             uint64
	blacklistUntil  map[int]uint64
}

// NewBLISS builds a BLISS plugin.
func NewBLISS(streakThreshold int, blacklistCycles uint64) *BLISS {
	return &BLISS{
		StreakThreshold: streakThreshold,
		BlacklistCycles: blacklistCycles,
		blacklistUntil:  map[int]uint64{},
	}
}

func (b *BLISS) Update(found bool, req *request.Request, ctx Context) {
	b.now = ctx.Clk
	if !found {
		return
	}
	if b.haveLastSource && req.SourceID == b.lastSource {
		b.streak++
	} else {
		b.lastSource = req.SourceID
		b.haveLastSource = true
		b.streak = 1
	}
	if b.streak > b.StreakThreshold {
		b.blacklistUntil[req.SourceID] = ctx.Clk + b.BlacklistCycles
	}
}

// IsBlacklisted implements Blacklister.
func (b *BLISS) IsBlacklisted(source int) bool {
	return b.blacklistUntil[source] > b.now
}
