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

// Package sim is the top-level orchestrator: it wires a frontend trace
// through an address mapper into one DRAM controller/device pair per
// channel, alternating the frontend and memory clock domains the way
// clock.Domain describes (spec §5).
package sim

import (
	"github.com/memsim/memsim/clock"
	"github.com/memsim/memsim/controller"
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/frontend"
	"github.com/memsim/memsim/request"
)

// Channel pairs one DRAM device with the controller that drives it (spec
// §3's per-channel controller/device pairing).
type Channel struct {
	Device     *dram.Device
	Controller *controller.Controller
}

// Engine drives channels one memory cycle at a time, pumping the frontend
// trace on whichever cycles the clock ratio marks as a frontend tick.
type Engine struct {
	trace    *frontend.Trace
	channels []*Channel
	domain   *clock.Domain

	// channelAt indexes into a resolved AddrVec to find which channel a
	// request belongs to. It is -1 whenever there's only one channel, since
	// every address mapper in this module resolves the channel level to 0
	// unconditionally (spec's multi-channel routing is otherwise unused by
	// a single-mapper configuration).
	channelAt int
}

// NewEngine builds an Engine over an already-open trace and a built set of
// channels (at least one). org is consulted only to find the channel index
// in an address vector, and only when there's more than one channel.
func NewEngine(trace *frontend.Trace, channels []*Channel, ratio clock.Ratio, org dram.Organization) *Engine {
	pos := -1
	if len(channels) > 1 {
		pos = org.Pos(dram.LevelChannel)
	}
	return &Engine{
		trace:     trace,
		channels:  channels,
		domain:    clock.NewDomain(ratio),
		channelAt: pos,
	}
}

// Send implements frontend.Sink: it routes req to the channel named by its
// address vector's channel index, defaulting to channel 0.
func (e *Engine) Send(req *request.Request) bool {
	idx := 0
	if e.channelAt >= 0 && e.channelAt < len(req.AddrVec) {
		idx = req.AddrVec[e.channelAt]
	}
	if idx < 0 || idx >= len(e.channels) {
		idx = 0
	}
	return e.channels[idx].Controller.Send(req)
}

// Clk returns the current memory-clock cycle.
func (e *Engine) Clk() uint64 { return e.domain.Clk() }

// Delivered is the number of trace lines admitted into a channel so far.
func (e *Engine) Delivered() int { return e.trace.Delivered() }

// Channels returns the engine's channels, in the order passed to
// NewEngine, for callers that need to report per-channel stats once a run
// finishes.
func (e *Engine) Channels() []*Channel { return e.channels }

// Step advances every channel by one memory cycle, pumping one trace line
// into Send on cycles the clock ratio marks as a frontend tick. It reports
// whether the trace has any lines left to deliver; a malformed trace line
// panics with a curated error (spec §7: configuration errors are always
// fatal).
func (e *Engine) Step() bool {
	memClk, frontendTick := e.domain.Step()
	for _, ch := range e.channels {
		ch.Controller.Tick(memClk)
	}
	if !frontendTick {
		return true
	}
	more, err := e.trace.Pump(e)
	if err != nil {
		panic(err)
	}
	return more
}

// Run steps the engine until the trace is exhausted and every in-flight
// request has completed, or maxCycles memory cycles have elapsed (0 means
// unbounded). It returns the final memory-clock cycle reached.
func (e *Engine) Run(maxCycles uint64) uint64 {
	for {
		if maxCycles > 0 && e.Clk() >= maxCycles {
			return e.Clk()
		}
		traceOpen := e.Step()
		if !traceOpen && e.drained() {
			return e.Clk()
		}
	}
}

func (e *Engine) drained() bool {
	for _, ch := range e.channels {
		if ch.Controller.Pending() {
			return false
		}
	}
	return true
}
