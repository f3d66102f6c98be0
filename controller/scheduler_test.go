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
	"testing"

	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/plugin"
	"github.com/memsim/memsim/request"
)

// fakeBlacklister implements plugin.Blacklister for tests without pulling
// in the real BLISS state machine.
type fakeBlacklister struct{ blocked map[int]bool }

func (f fakeBlacklister) Update(found bool, req *request.Request, ctx plugin.Context) {}
func (f fakeBlacklister) IsBlacklisted(source int) bool                              { return f.blocked[source] }

func TestBLISSSchedulerPrefersUnblacklistedSource(t *testing.T) {
	c, device := newTestController()
	c.Plugins = plugin.NewChain(fakeBlacklister{blocked: map[int]bool{1: true}})
	c.Scheduler = NewBLISSScheduler()

	blocked := request.New(0, request.Read, 1, nil)
	blocked.AddrVec = ddr4Addr(0, 0, 0, 5, 0)
	blocked.FinalCommand = int(dram.RD)
	blocked.Command = int(device.GetPreqCommand(dram.RD, blocked.AddrVec))

	clear := request.New(0, request.Read, 2, nil)
	clear.AddrVec = ddr4Addr(0, 1, 0, 5, 0)
	clear.FinalCommand = int(dram.RD)
	clear.Command = int(device.GetPreqCommand(dram.RD, clear.AddrVec))

	best := c.Scheduler.Select(c, []*request.Request{blocked, clear}, 0)
	if best != clear {
		t.Fatalf("BLISSScheduler picked the blacklisted source's request over the clear one")
	}
}

// fakeActSafety implements plugin.ActSafetyChecker, flagging one bank key
// unsafe regardless of source.
type fakeActSafety struct{ unsafeBank int }

func (f fakeActSafety) Update(found bool, req *request.Request, ctx plugin.Context) {}
func (f fakeActSafety) IsActSafe(source, bankKey int) bool                          { return bankKey != f.unsafeBank }

func TestBlockingSchedulerFiltersUnsafeActivation(t *testing.T) {
	c, device := newTestController()
	c.Scheduler = NewBlockingScheduler()

	unsafeReq := request.New(0, request.Read, 0, nil)
	unsafeReq.AddrVec = ddr4Addr(0, 0, 0, 5, 0)
	unsafeReq.FinalCommand = int(dram.RD)
	unsafeReq.Command = int(device.GetPreqCommand(dram.RD, unsafeReq.AddrVec))

	bankKey := int(device.BankNode(unsafeReq.AddrVec))
	c.Plugins = plugin.NewChain(fakeActSafety{unsafeBank: bankKey})

	best := c.Scheduler.Select(c, []*request.Request{unsafeReq}, 0)
	if best != nil {
		t.Fatalf("BlockingScheduler should have filtered out the only, unsafe, candidate")
	}
}

// fakeRecoveryAware implements plugin.RecoveryAware with a fixed horizon.
type fakeRecoveryAware struct{ next uint64 }

func (f fakeRecoveryAware) Update(found bool, req *request.Request, ctx plugin.Context) {}
func (f fakeRecoveryAware) NextRecoveryCycle() uint64                                   { return f.next }

func TestPRACSchedulerFallsBackToFCFSWhenNothingFits(t *testing.T) {
	c, device := newTestController()
	c.Scheduler = NewPRACScheduler()
	c.Plugins = plugin.NewChain(fakeRecoveryAware{next: 1})

	fits := request.New(0, request.Read, 0, nil)
	fits.AddrVec = ddr4Addr(0, 0, 0, 5, 0)
	fits.FinalCommand = int(dram.RD)
	fits.Command = int(device.GetPreqCommand(dram.RD, fits.AddrVec))
	fits.Arrive = 5

	tooLate := request.New(0, request.Read, 0, nil)
	tooLate.AddrVec = ddr4Addr(0, 1, 0, 5, 0)
	tooLate.FinalCommand = int(dram.RD)
	tooLate.Command = int(device.GetPreqCommand(dram.RD, tooLate.AddrVec))
	tooLate.Arrive = 0

	best := c.Scheduler.Select(c, []*request.Request{fits, tooLate}, 0)
	if best != tooLate {
		t.Fatalf("with NextRecoveryCycle=1, neither request fits before it; PRACScheduler should fall back to FCFS and pick the earlier arrival")
	}
}

func TestDefaultSchedulerPrefersReadyOverNotReady(t *testing.T) {
	c, device := newTestController()

	// Activating bank 0 of bankgroup 0 pushes bank 1 of the *same*
	// bankgroup's next activate out by nRRD cycles (sibling constraint);
	// an activate to a different bankgroup is unaffected.
	device.IssueCommand(dram.ACT, ddr4Addr(0, 0, 0, 5, 0), 0)

	notReady := request.New(0, request.Read, 0, nil)
	notReady.AddrVec = ddr4Addr(0, 0, 1, 9, 0)
	notReady.FinalCommand = int(dram.ACT)
	notReady.Command = int(dram.ACT)
	notReady.Arrive = 0

	readyReq := request.New(0, request.Read, 0, nil)
	readyReq.AddrVec = ddr4Addr(0, 1, 0, 9, 0)
	readyReq.FinalCommand = int(dram.ACT)
	readyReq.Command = int(dram.ACT)
	readyReq.Arrive = 10

	if device.CheckReady(dram.ACT, notReady.AddrVec, 0) {
		t.Fatalf("test setup invalid: expected the same-bankgroup activate to be blocked by nRRD")
	}
	if !device.CheckReady(dram.ACT, readyReq.AddrVec, 0) {
		t.Fatalf("test setup invalid: expected the other-bankgroup activate to be unaffected")
	}

	best := c.Scheduler.Select(c, []*request.Request{notReady, readyReq}, 0)
	if best != readyReq {
		t.Fatalf("DefaultScheduler should prefer the ready candidate even though it arrived later")
	}
}
