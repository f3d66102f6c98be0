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
	"github.com/memsim/memsim/request"
)

func newTestController() (*Controller, *dram.Device) {
	spec := dram.NewDDR4_8Gb_x8(1600)
	device := dram.NewDevice(spec)
	c := NewController(device, 8, 8, 8, 8, 2, 6,
		NewDefaultScheduler(), nil, NewOpenRowPolicy(), nil)
	return c, device
}

func ddr4Addr(rank, bg, bank, row, col int) []int {
	return []int{0, rank, bg, bank, row, col}
}

func TestReadRoundTrip(t *testing.T) {
	c, _ := newTestController()

	var done bool
	req := request.New(0, request.Read, 3, func(r *request.Request) { done = true })
	req.AddrVec = ddr4Addr(0, 0, 0, 5, 3)
	if !c.Send(req) {
		t.Fatalf("read buffer rejected the request")
	}

	for clk := uint64(0); clk < 60 && !done; clk++ {
		c.Tick(clk)
	}
	if !done {
		t.Fatalf("read never completed")
	}
	if c.Stats().ReadsCompleted != 1 {
		t.Fatalf("ReadsCompleted = %d, want 1", c.Stats().ReadsCompleted)
	}
}

func TestWriteCompletesWithoutPending(t *testing.T) {
	c, _ := newTestController()

	var done bool
	req := request.New(0, request.Write, 1, func(r *request.Request) { done = true })
	req.AddrVec = ddr4Addr(0, 0, 0, 5, 3)
	c.Send(req)

	for clk := uint64(0); clk < 60 && !done; clk++ {
		c.Tick(clk)
	}
	if !done {
		t.Fatalf("write never completed")
	}
	if c.Stats().WritesCompleted != 1 {
		t.Fatalf("WritesCompleted = %d, want 1", c.Stats().WritesCompleted)
	}
}

func TestReportReflectsCompletedWork(t *testing.T) {
	c, _ := newTestController()

	req := request.New(0, request.Read, 3, nil)
	req.AddrVec = ddr4Addr(0, 0, 0, 5, 3)
	c.Send(req)
	for clk := uint64(0); clk < 60 && c.Stats().ReadsCompleted == 0; clk++ {
		c.Tick(clk)
	}

	n := c.Report("Generic", "0")
	if n.Ifce != "DRAMController" || n.Impl != "Generic" || n.ID != "0" {
		t.Fatalf("unexpected report header: %+v", n)
	}
	if n.Values["reads_completed"] != uint64(1) {
		t.Fatalf("reads_completed = %v, want 1", n.Values["reads_completed"])
	}
}

func TestAllBankRefreshFiresOnSchedule(t *testing.T) {
	spec := dram.NewDDR4_8Gb_x8(1600)
	device := dram.NewDevice(spec)
	refresh := NewAllBankRefresh(spec.Timings.NREFI)
	c := NewController(device, 8, 8, 8, 8, 2, 6,
		NewDefaultScheduler(), refresh, NewOpenRowPolicy(), nil)

	for clk := uint64(0); clk <= spec.Timings.NREFI; clk++ {
		c.Tick(clk)
	}

	rankNode := device.RanksUnder()[0]
	if device.Nodes[rankNode].State != dram.Refreshing {
		t.Fatalf("rank state after scheduled all-bank refresh = %v, want Refreshing", device.Nodes[rankNode].State)
	}
}

func TestClosedRowPolicyEnqueuesCloseRowAtCap(t *testing.T) {
	spec := dram.NewDDR4_8Gb_x8(1600)
	device := dram.NewDevice(spec)
	policy := NewClosedRowPolicy(2)
	c := NewController(device, 8, 8, 8, 8, 2, 6,
		NewDefaultScheduler(), nil, policy, nil)

	addr := ddr4Addr(0, 0, 0, 5, 3)
	policy.Observe(c, true, dram.RD, addr)
	if c.priority.Len() != 0 {
		t.Fatalf("close-row enqueued before reaching the cap")
	}
	policy.Observe(c, true, dram.RD, addr)
	if c.priority.Len() != 1 {
		t.Fatalf("close-row not enqueued at the cap, priority buffer has %d entries", c.priority.Len())
	}
	req := c.priority.Peek()[0]
	if req.Type != request.CloseRow {
		t.Fatalf("enqueued request type = %v, want CloseRow", req.Type)
	}
}

func TestWriteModeTogglesOnWatermarks(t *testing.T) {
	c, _ := newTestController()

	for i := 0; i < 6; i++ {
		req := request.New(0, request.Write, 0, nil)
		req.AddrVec = ddr4Addr(0, 0, i%4, 1, 0)
		c.Send(req)
	}
	c.updateWriteMode()
	if !c.IsWriteMode() {
		t.Fatalf("write mode should engage once the write buffer reaches its high watermark")
	}
}

func TestActiveBufferCollisionBlocksClosingCommand(t *testing.T) {
	c, _ := newTestController()

	active := request.New(0, request.Read, 0, nil)
	active.AddrVec = ddr4Addr(0, 0, 0, 5, 0)
	active.FinalCommand = int(dram.RD)
	active.Command = int(dram.RD)
	c.active.Push(active)

	closing := request.New(0, request.Write, 1, nil)
	closing.AddrVec = ddr4Addr(0, 0, 0, 5, 0)
	closing.FinalCommand = int(dram.WR)
	closing.Command = int(dram.PRE)

	filtered := c.filterCollisions([]*request.Request{closing})
	if len(filtered) != 0 {
		t.Fatalf("a closing command addressing the same bank as an active request should be filtered out")
	}
}
