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
	"fmt"
	"io"

	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/request"
)

// CommandCounter only observes issued commands, tallying a per-command-type
// histogram (recovered from original_source's cmd_counter.cpp; spec §4.7.7
// names only a bare total). It never injects.
type CommandCounter struct {
	counts [dram.NumCommands]uint64
}

// NewCommandCounter builds an empty CommandCounter.
func NewCommandCounter() *CommandCounter {
	return &CommandCounter{}
}

func (c *CommandCounter) Update(found bool, req *request.Request, ctx Context) {
	if !found {
		return
	}
	c.counts[ctx.Cmd]++
}

// Histogram returns the non-zero per-command-type counts by mnemonic.
func (c *CommandCounter) Histogram() map[string]uint64 {
	out := map[string]uint64{}
	for i, n := range c.counts {
		if n > 0 {
			out[dram.CmdID(i).String()] = n
		}
	}
	return out
}

// Finalize writes the histogram as "mnemonic count" lines, one per
// supported command that was ever issued.
func (c *CommandCounter) Finalize(w io.Writer) error {
	for i, n := range c.counts {
		if n == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %d\n", dram.CmdID(i), n); err != nil {
			return err
		}
	}
	return nil
}

type traceEntry struct {
	clk    uint64
	cmd    dram.CmdID
	source int
}

// TraceRecorder only observes issued commands, appending each to an
// in-memory log flushed on Finalize (spec §4.7.7).
type TraceRecorder struct {
	entries []traceEntry
}

// NewTraceRecorder builds an empty TraceRecorder.
func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{}
}

func (t *TraceRecorder) Update(found bool, req *request.Request, ctx Context) {
	if !found {
		return
	}
	source := request.ControllerSource
	if req != nil {
		source = req.SourceID
	}
	t.entries = append(t.entries, traceEntry{clk: ctx.Clk, cmd: ctx.Cmd, source: source})
}

// Finalize writes "clk mnemonic source" lines in issue order.
func (t *TraceRecorder) Finalize(w io.Writer) error {
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(w, "%d %s %d\n", e.clk, e.cmd, e.source); err != nil {
			return err
		}
	}
	return nil
}
