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
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/plugin"
	"github.com/memsim/memsim/request"
)

// Scheduler picks a winner among already-filtered candidates from one
// buffer (spec §4.3). Candidates arrive with Command already recomputed to
// their current prerequisite; Select must not mutate that.
type Scheduler interface {
	Select(c *Controller, candidates []*request.Request, clk uint64) *request.Request
}

func ready(c *Controller, r *request.Request, clk uint64) bool {
	return c.Device.CheckReady(dram.CmdID(r.Command), r.AddrVec, clk)
}

// DefaultScheduler implements the Default/BH comparison: ready beats
// not-ready, ties broken FCFS by arrival cycle.
type DefaultScheduler struct{}

// NewDefaultScheduler builds a DefaultScheduler.
func NewDefaultScheduler() *DefaultScheduler { return &DefaultScheduler{} }

func (s *DefaultScheduler) Select(c *Controller, candidates []*request.Request, clk uint64) *request.Request {
	return pickReadyFCFS(c, candidates, clk)
}

func pickReadyFCFS(c *Controller, candidates []*request.Request, clk uint64) *request.Request {
	var best *request.Request
	var bestReady bool
	for _, r := range candidates {
		rr := ready(c, r, clk)
		if best == nil || (rr != bestReady && rr) || (rr == bestReady && r.Arrive < best.Arrive) {
			best, bestReady = r, rr
		}
	}
	return best
}

// findBlacklister returns the first plugin in c.Plugins that is a
// plugin.Blacklister, or nil if none is.
func findBlacklister(c *Controller) plugin.Blacklister {
	var found plugin.Blacklister
	c.Plugins.Each(func(p plugin.Plugin) {
		if found != nil {
			return
		}
		if b, ok := p.(plugin.Blacklister); ok {
			found = b
		}
	})
	return found
}

func findActSafetyChecker(c *Controller) plugin.ActSafetyChecker {
	var found plugin.ActSafetyChecker
	c.Plugins.Each(func(p plugin.Plugin) {
		if found != nil {
			return
		}
		if chk, ok := p.(plugin.ActSafetyChecker); ok {
			found = chk
		}
	})
	return found
}

func findRecoveryAware(c *Controller) plugin.RecoveryAware {
	var found plugin.RecoveryAware
	c.Plugins.Each(func(p plugin.Plugin) {
		if found != nil {
			return
		}
		if a, ok := p.(plugin.RecoveryAware); ok {
			found = a
		}
	})
	return found
}

// BLISSScheduler prioritizes requests from a source BLISS hasn't
// blacklisted, then falls back to the default ready/FCFS comparison.
type BLISSScheduler struct{}

// NewBLISSScheduler builds a BLISSScheduler.
func NewBLISSScheduler() *BLISSScheduler { return &BLISSScheduler{} }

func (s *BLISSScheduler) Select(c *Controller, candidates []*request.Request, clk uint64) *request.Request {
	bl := findBlacklister(c)
	var best *request.Request
	var bestSafe, bestReady bool
	for _, r := range candidates {
		safe := bl == nil || !bl.IsBlacklisted(r.SourceID)
		rr := ready(c, r, clk)
		if best == nil || better(safe, rr, r, bestSafe, bestReady, best) {
			best, bestSafe, bestReady = r, safe, rr
		}
	}
	return best
}

func better(keyA, keyB bool, r *request.Request, bestA, bestB bool, best *request.Request) bool {
	if keyA != bestA {
		return keyA
	}
	if keyB != bestB {
		return keyB
	}
	return r.Arrive < best.Arrive
}

// BlockingScheduler filters out candidate activations BlockHammer has
// flagged unsafe, then defers to the default comparison among what's left
// (spec §4.3's "Blocking" variant, §4.7.4).
type BlockingScheduler struct{}

// NewBlockingScheduler builds a BlockingScheduler.
func NewBlockingScheduler() *BlockingScheduler { return &BlockingScheduler{} }

func (s *BlockingScheduler) Select(c *Controller, candidates []*request.Request, clk uint64) *request.Request {
	checker := findActSafetyChecker(c)
	filtered := candidates
	if checker != nil {
		filtered = make([]*request.Request, 0, len(candidates))
		for _, r := range candidates {
			cmd := dram.CmdID(r.Command)
			if plugin.IsActivate(cmd) {
				bankKey := int(c.Device.BankNode(r.AddrVec))
				if !checker.IsActSafe(r.SourceID, bankKey) {
					continue
				}
			}
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return pickReadyFCFS(c, filtered, clk)
}

// PRACScheduler prefers requests that can still finish before PRAC's next
// forced recovery window, then falls back to ready/FCFS (spec §4.3's
// "PRAC" variant).
type PRACScheduler struct{}

// NewPRACScheduler builds a PRACScheduler.
func NewPRACScheduler() *PRACScheduler { return &PRACScheduler{} }

func (s *PRACScheduler) Select(c *Controller, candidates []*request.Request, clk uint64) *request.Request {
	aware := findRecoveryAware(c)
	var best *request.Request
	var bestFits, bestReady bool
	for _, r := range candidates {
		fits := true
		if aware != nil {
			fits = clk+minCyclesWithPreall(c.Device) < aware.NextRecoveryCycle()
		}
		rr := ready(c, r, clk)
		if best == nil || better(fits, rr, r, bestFits, bestReady, best) {
			best, bestFits, bestReady = r, fits, rr
		}
	}
	return best
}

// minCyclesWithPreall is a coarse worst-case estimate of how long a
// request still needs -- including a trailing precharge and reopen -- used
// only to decide whether PRACScheduler should start it before the next
// forced recovery window. It deliberately doesn't walk the full
// constraint/prerequisite chain; it's a scheduling hint, not a timing
// guarantee.
func minCyclesWithPreall(d *dram.Device) uint64 {
	t := d.Spec.Timings
	return t.NRCD + t.NCL + t.NBL + t.NRP
}
