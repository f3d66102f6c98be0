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

package controller

import (
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/request"
)

// RefreshManager is ticked once per memory cycle, ahead of schedule
// selection (spec §4.2 step 2), and injects refresh requests into the
// controller's priority buffer on its own clock-aligned schedule.
type RefreshManager interface {
	Tick(clk uint64, c *Controller)
}

// AllBankRefresh is the all-bank periodic refresh manager of spec §4.4: on
// every nREFI-aligned boundary, enqueue one all-bank refresh per rank.
type AllBankRefresh struct {
	Interval uint64
	next     uint64
}

// NewAllBankRefresh builds an AllBankRefresh firing every interval cycles,
// first at clk == interval.
func NewAllBankRefresh(interval uint64) *AllBankRefresh {
	return &AllBankRefresh{Interval: interval, next: interval}
}

func (r *AllBankRefresh) Tick(clk uint64, c *Controller) {
	if clk < r.next {
		return
	}
	r.next += r.Interval
	for idx := range c.ranks {
		if !c.PrioritySend(newRankRequest(request.RefreshAllBank, idx)) {
			panic(errors.Errorf(errors.PriorityBufferFull))
		}
	}
}

// SameBankRefresh is the supplemented same-bank refresh manager (recovered
// from original_source's per-bank refresh rotation, not named by spec §4.4
// beyond "future variants... choose a subset of the address-vec"): on
// every interval-aligned boundary it enqueues a same-bank refresh per
// rank, rotating which bank index is targeted so every bank is eventually
// covered without needing a separate all-bank sweep.
type SameBankRefresh struct {
	Interval uint64
	NumBanks int

	next    uint64
	bankIdx int
}

// NewSameBankRefresh builds a SameBankRefresh rotating across numBanks
// bank indices, firing every interval cycles.
func NewSameBankRefresh(interval uint64, numBanks int) *SameBankRefresh {
	return &SameBankRefresh{Interval: interval, NumBanks: numBanks, next: interval}
}

func (r *SameBankRefresh) Tick(clk uint64, c *Controller) {
	if clk < r.next {
		return
	}
	r.next += r.Interval
	for idx := range c.ranks {
		req := newRankRequest(request.RefreshSameBank, idx)
		req.Scratchpad[1] = r.bankIdx
		if !c.PrioritySend(req) {
			panic(errors.Errorf(errors.PriorityBufferFull))
		}
	}
	if r.NumBanks > 0 {
		r.bankIdx = (r.bankIdx + 1) % r.NumBanks
	}
}
