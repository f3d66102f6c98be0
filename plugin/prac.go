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

type pracPhase int

const (
	pracNormal pracPhase = iota
	pracPreRecovery
	pracRecovery
	pracDelay
)

// PRAC tracks a per-row activation count and, once a row crosses
// ABOThreshold, walks a NORMAL -> PRE_RECOVERY -> RECOVERY -> DELAY ->
// NORMAL state machine (spec §4.7.5): wait ABOActCycles, issue one PREA per
// rank, issue RFMabCount RFMab commands per rank (one rank-wide sweep per
// cycle, RFMabCount cycles total), then require DelayActs ordinary
// activations to elapse before returning to NORMAL.
type PRAC struct {
	ABOThreshold int
	ABOActCycles uint64
	RFMabCount   int
	DelayActs    int

	counts      map[[2]int]int
	phase       pracPhase
	alertAt     uint64
	rfmIssued   int
	actsInDelay int
	nextRecoveryClk uint64
}

// NewPRAC builds a PRAC plugin.
func NewPRAC(aboThreshold int, aboActCycles uint64, rfmabCount, delayActs int) *PRAC {
	return &PRAC{
		ABOThreshold: aboThreshold, ABOActCycles: aboActCycles,
		RFMabCount: rfmabCount, DelayActs: delayActs,
		counts: map[[2]int]int{},
	}
}

func rankRequest(typ request.TypeID, rank int) *request.Request {
	req := request.New(0, typ, request.ControllerSource, nil)
	req.Scratchpad[0] = rank
	return req
}

// ranksOrOne returns ctx.NumRanks, falling back to 1 for a hand-built
// Context (e.g. in a test) that never set it -- the controller always
// populates NumRanks from the live device, so this only matters off the
// production path.
func ranksOrOne(ctx Context) int {
	if ctx.NumRanks > 0 {
		return ctx.NumRanks
	}
	return 1
}

func (p *PRAC) Update(found bool, req *request.Request, ctx Context) {
	switch p.phase {
	case pracNormal:
		if found && IsActivate(ctx.Cmd) {
			key := [2]int{ctx.BankKey, ctx.Row}
			p.counts[key]++
			if p.counts[key] >= p.ABOThreshold {
				p.phase = pracPreRecovery
				p.alertAt = ctx.Clk
				p.nextRecoveryClk = ctx.Clk + p.ABOActCycles
			}
		}
	case pracPreRecovery:
		if ctx.Clk >= p.alertAt+p.ABOActCycles {
			for rank := 0; rank < ranksOrOne(ctx); rank++ {
				if !ctx.Sender.PrioritySend(rankRequest(request.CloseAllBanks, rank)) {
					panic(errors.Errorf(errors.PluginInjectFailed, "PRAC (PREA)"))
				}
			}
			p.phase = pracRecovery
			p.rfmIssued = 0
			p.nextRecoveryClk = ctx.Clk + 1
		}
	case pracRecovery:
		if p.rfmIssued < p.RFMabCount {
			for rank := 0; rank < ranksOrOne(ctx); rank++ {
				if !ctx.Sender.PrioritySend(rankRequest(request.RFMAllBank, rank)) {
					panic(errors.Errorf(errors.PluginInjectFailed, "PRAC (RFMab)"))
				}
			}
			p.rfmIssued++
			p.nextRecoveryClk = ctx.Clk + 1
		} else {
			p.phase = pracDelay
			p.actsInDelay = 0
			p.nextRecoveryClk = 0
		}
	case pracDelay:
		if found && IsActivate(ctx.Cmd) {
			p.actsInDelay++
		}
		if p.actsInDelay >= p.DelayActs {
			p.phase = pracNormal
			p.counts = map[[2]int]int{}
		}
	}
}

// NextRecoveryCycle implements RecoveryAware: the scheduler avoids
// starting work that can't complete before PRAC's next forced transition.
func (p *PRAC) NextRecoveryCycle() uint64 {
	return p.nextRecoveryClk
}
