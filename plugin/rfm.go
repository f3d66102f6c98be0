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

import (
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/request"
)

// RFM is a bare activation-count-based refresh-management injector: every
// Threshold activations to a bank, issue one RFMab targeting the rank that
// bank belongs to (ctx.Rank, resolved from the triggering request's own
// address vector -- RFMab is a rank-scope command, so a fixed rank would
// silently refresh-manage the wrong rank on a multi-rank device). It
// carries none of PRAC's alert-back-off state machine, matching the
// original's standalone rfm.cpp companion to prac.cpp (recovered from
// original_source, not named directly in spec §4.7).
type RFM struct {
	Threshold int
	counts    map[int]int
}

// NewRFM builds an RFM plugin with the given per-bank activation
// threshold.
func NewRFM(threshold int) *RFM {
	return &RFM{Threshold: threshold, counts: map[int]int{}}
}

func (r *RFM) Update(found bool, req *request.Request, ctx Context) {
	if !found || !IsActivate(ctx.Cmd) {
		return
	}
	r.counts[ctx.BankKey]++
	if r.counts[ctx.BankKey] >= r.Threshold {
		r.counts[ctx.BankKey] = 0
		if !ctx.Sender.PrioritySend(rankRequest(request.RFMAllBank, ctx.Rank)) {
			panic(errors.Errorf(errors.PluginInjectFailed, "RFM"))
		}
	}
}
