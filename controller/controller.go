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

// Package controller drives one memory-clock cycle at a time: admitting
// requests from the frontend/address-mapper into per-class buffers,
// selecting at most one candidate per cycle via a pluggable Scheduler,
// coordinating a RefreshManager and RowPolicy, running the plugin chain,
// and issuing the winning command into the device (spec §4.2-§4.5).
package controller

import (
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/logger"
	"github.com/memsim/memsim/plugin"
	"github.com/memsim/memsim/request"
)

// Stats is the small set of cumulative counters the controller keeps for
// itself; the bulk of reporting (per-command histograms, traces) lives in
// observer plugins instead.
type Stats struct {
	ReadsCompleted  uint64
	WritesCompleted uint64
}

// Controller wires a device to its four request-class buffers (spec §3):
// read, write, priority (refresh/row-policy/plugin maintenance) and active
// (requests that have opened a row and are waiting to finish).
type Controller struct {
	Device    *dram.Device
	Scheduler Scheduler
	Refresh   RefreshManager
	RowPolicy RowPolicy
	Plugins   *plugin.Chain

	WriteLow, WriteHigh int

	read     *request.Buffer
	write    *request.Buffer
	priority *request.Buffer
	active   *request.Buffer
	pending  []*request.Request

	ranks []dram.NodeID

	isWriteMode bool
	clk         uint64
	stats       Stats
}

// NewController builds a Controller over device with the given per-buffer
// capacities (a capacity of 0 means unbounded, matching request.Buffer's
// convention and the priority buffer's "effectively unbounded" requirement
// from spec §4.4).
func NewController(device *dram.Device, readCap, writeCap, priorityCap, activeCap int, writeLow, writeHigh int, scheduler Scheduler, refresh RefreshManager, rowPolicy RowPolicy, plugins *plugin.Chain) *Controller {
	if plugins == nil {
		plugins = plugin.NewChain()
	}
	return &Controller{
		Device:    device,
		Scheduler: scheduler,
		Refresh:   refresh,
		RowPolicy: rowPolicy,
		Plugins:   plugins,
		WriteLow:  writeLow,
		WriteHigh: writeHigh,
		read:      request.NewBuffer(readCap),
		write:     request.NewBuffer(writeCap),
		priority:  request.NewBuffer(priorityCap),
		active:    request.NewBuffer(activeCap),
		ranks:     device.RanksUnder(),
	}
}

// Stats returns the controller's cumulative completion counters.
func (c *Controller) Stats() Stats { return c.stats }

// IsWriteMode reports the controller's current read/write scheduling
// priority (spec §4.2's write-mode policy).
func (c *Controller) IsWriteMode() bool { return c.isWriteMode }

// Pending reports whether this controller still holds any in-flight work:
// a queued or active request, or a completed read parked for its read
// latency. Used by sim's run loop to decide when a channel has truly
// drained rather than just momentarily emptied its read/write buffers.
func (c *Controller) Pending() bool {
	return c.read.Len() > 0 || c.write.Len() > 0 || c.priority.Len() > 0 ||
		c.active.Len() > 0 || len(c.pending) > 0
}

// Send admits a frontend request (already address-mapped: AddrVec must be
// populated) into the read or write buffer. Returns false if that buffer is
// full; the frontend must stall and retry.
func (c *Controller) Send(req *request.Request) bool {
	cmd, ok := c.Device.TranslationFor(req.Type)
	if !ok {
		panic(errors.Errorf(errors.UnknownTranslation, req.Type))
	}
	req.FinalCommand = int(cmd)
	req.Arrive = c.clk
	if req.IsWrite() {
		return c.write.Push(req)
	}
	return c.read.Push(req)
}

// PrioritySend implements plugin.PrioritySender: it is the one place that
// resolves a plugin- or refresh-manager-synthesized request's address
// vector. Such requests arrive with AddrVec == nil and, per the convention
// established between this package and plugin, stash just enough to
// reconstruct a concrete address: Scratchpad[0] is a bank key (the
// dram.NodeID of the target bank) for bank-scope commands, or a rank index
// for rank-scope ones; Scratchpad[1] is the target row for bank-scope
// commands, or the target bank index for the same-bank refresh family.
// Plugins never need to know any of this; they only ever call
// plugin.NewVictimRefresh or construct a rank/bank request through this
// package's own helpers.
func (c *Controller) PrioritySend(req *request.Request) bool {
	cmd, ok := c.Device.TranslationFor(req.Type)
	if !ok {
		panic(errors.Errorf(errors.UnknownTranslation, req.Type))
	}
	req.FinalCommand = int(cmd)
	req.Arrive = c.clk
	if req.AddrVec == nil {
		c.resolveAddr(req, cmd)
	}
	req.Command = int(c.Device.GetPreqCommand(cmd, req.AddrVec))
	return c.priority.Push(req)
}

func isSameBankFamily(cmd dram.CmdID) bool {
	switch cmd {
	case dram.PREsb, dram.REFsb, dram.RFMsb, dram.DRFMsb, dram.RRFMsb:
		return true
	}
	return false
}

func (c *Controller) resolveAddr(req *request.Request, cmd dram.CmdID) {
	scope := c.Device.Spec.Commands[cmd].Scope
	if scope != dram.LevelRank {
		bankKey, row := req.Scratchpad[0], req.Scratchpad[1]
		vec := c.Device.AddrVecTemplate(dram.NodeID(bankKey))
		if pos := c.Device.Spec.Org.Pos(dram.LevelRow); pos >= 0 {
			vec[pos] = row
		}
		req.AddrVec = vec
		return
	}

	rankIdx := req.Scratchpad[0]
	vec := c.Device.AddrVecTemplate(c.ranks[rankIdx])
	if isSameBankFamily(cmd) {
		if pos := c.Device.Spec.Org.Pos(dram.LevelBank); pos >= 0 {
			vec[pos] = req.Scratchpad[1]
		}
	}
	req.AddrVec = vec
}

func newBankRequest(typ request.TypeID, bankKey, row int) *request.Request {
	req := request.New(0, typ, request.ControllerSource, nil)
	req.Scratchpad[0] = bankKey
	req.Scratchpad[1] = row
	return req
}

func newRankRequest(typ request.TypeID, rankIdx int) *request.Request {
	req := request.New(0, typ, request.ControllerSource, nil)
	req.Scratchpad[0] = rankIdx
	return req
}

// rankIndexOf maps a rank-level dram.NodeID back to its position within
// c.ranks, the same rank index space plugin-synthesized rank/bank requests
// address via Scratchpad (see newRankRequest/resolveAddr). Returns -1 if
// nodeID isn't one of this controller's ranks.
func (c *Controller) rankIndexOf(nodeID dram.NodeID) int {
	for i, r := range c.ranks {
		if r == nodeID {
			return i
		}
	}
	return -1
}

func rowIndexOf(d *dram.Device, addrVec []int) int {
	pos := d.Spec.Org.Pos(dram.LevelRow)
	if pos < 0 || pos >= len(addrVec) {
		return -1
	}
	return addrVec[pos]
}

func bankIndexOf(d *dram.Device, addrVec []int) int {
	pos := d.Spec.Org.Pos(dram.LevelBank)
	if pos < 0 || pos >= len(addrVec) {
		return -1
	}
	return addrVec[pos]
}

// Tick runs one memory-clock cycle's worth of the controller's per-cycle
// algorithm (spec §4.2, steps 1 and 2 and 4-6; step 3's PRAC-specific ABO
// buffer is folded into the ordinary priority buffer here, since PRAC
// injects its PREA/RFMab through the same plugin.PrioritySender channel
// every other plugin uses -- see DESIGN.md).
func (c *Controller) Tick(clk uint64) {
	c.clk = clk

	for len(c.pending) > 0 && c.pending[0].Depart <= clk {
		req := c.pending[0]
		c.pending = c.pending[1:]
		if req.Callback != nil {
			req.Callback(req)
		}
	}

	if c.Refresh != nil {
		c.Refresh.Tick(clk, c)
	}
	c.Device.Tick(clk)
	c.updateWriteMode()

	req, buf := c.schedule(clk)

	ctx := plugin.Context{Clk: clk, Sender: c, Rank: -1, NumRanks: len(c.ranks)}
	var cmd dram.CmdID = -1
	if req != nil {
		cmd = dram.CmdID(req.Command)
		ctx.Cmd = cmd
		ctx.BankKey = int(c.Device.BankNode(req.AddrVec))
		ctx.Row = rowIndexOf(c.Device, req.AddrVec)
		ctx.Source = req.SourceID
		ctx.Rank = c.rankIndexOf(c.Device.RankNode(req.AddrVec))
	}
	if c.RowPolicy != nil {
		c.RowPolicy.Observe(c, req != nil, cmd, addrVecOrNil(req))
	}
	c.Plugins.Update(req != nil, req, ctx)

	if req == nil {
		return
	}
	c.issue(req, buf, cmd, clk)
}

func addrVecOrNil(req *request.Request) []int {
	if req == nil {
		return nil
	}
	return req.AddrVec
}

func (c *Controller) issue(req *request.Request, buf *request.Buffer, cmd dram.CmdID, clk uint64) {
	def := c.Device.Spec.Commands[cmd]
	c.Device.IssueCommand(cmd, req.AddrVec, clk)
	logger.Logf("controller", "issued %s for source %d", cmd, req.SourceID)

	if req.Command == req.FinalCommand {
		buf.Remove(req)
		if req.Type == request.Read {
			req.Depart = clk + c.Device.Spec.Timings.ReadLatency
			c.pending = append(c.pending, req)
			c.stats.ReadsCompleted++
			return
		}
		req.Depart = clk
		if req.Type == request.Write {
			c.stats.WritesCompleted++
		}
		if req.Callback != nil {
			req.Callback(req)
		}
		return
	}
	if def.IsOpening {
		buf.Remove(req)
		if !c.active.Push(req) {
			panic(errors.Errorf(errors.ActiveBufferCollision, req.SourceID))
		}
	}
}

func (c *Controller) updateWriteMode() {
	if c.write.Len() >= c.WriteHigh || c.read.Len() == 0 {
		c.isWriteMode = true
	}
	if c.write.Len() < c.WriteLow && c.read.Len() > 0 {
		c.isWriteMode = false
	}
}

// schedule implements §4.2 step 4 / §4.3's buffer ordering: active first,
// then priority, then read/write per the write-mode flag.
func (c *Controller) schedule(clk uint64) (*request.Request, *request.Buffer) {
	if req := c.selectFrom(c.active, clk); req != nil {
		return req, c.active
	}
	if req := c.selectFrom(c.priority, clk); req != nil {
		return req, c.priority
	}
	first, second := c.read, c.write
	if c.isWriteMode {
		first, second = c.write, c.read
	}
	if req := c.selectFrom(first, clk); req != nil {
		return req, first
	}
	if req := c.selectFrom(second, clk); req != nil {
		return req, second
	}
	return nil, nil
}

func (c *Controller) selectFrom(buf *request.Buffer, clk uint64) *request.Request {
	items := buf.Peek()
	if len(items) == 0 {
		return nil
	}
	for _, r := range items {
		r.Command = int(c.Device.GetPreqCommand(dram.CmdID(r.FinalCommand), r.AddrVec))
	}
	candidates := c.filterCollisions(items)
	if len(candidates) == 0 {
		return nil
	}
	best := c.Scheduler.Select(c, candidates, clk)
	if best == nil || !ready(c, best, clk) {
		return nil
	}
	return best
}

// filterCollisions implements the active-buffer collision rule (spec
// §4.2): a candidate whose current command is a closing command is
// dropped this cycle if some other in-flight active-buffer request
// addresses the same node at or above that command's scope.
func (c *Controller) filterCollisions(items []*request.Request) []*request.Request {
	out := make([]*request.Request, 0, len(items))
	for _, r := range items {
		def := c.Device.Spec.Commands[dram.CmdID(r.Command)]
		if !def.IsClosing {
			out = append(out, r)
			continue
		}
		scopeIdx := c.Device.Spec.Org.Pos(def.Scope)
		collide := false
		for _, a := range c.active.Peek() {
			if a == r {
				continue
			}
			if r.MatchesScope(a, scopeIdx) {
				collide = true
				break
			}
		}
		if !collide {
			out = append(out, r)
		}
	}
	return out
}
