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
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/request"
)

type trackerEntry struct {
	count int
	life  int // TWiCe only
}

// hotRowTable is the bounded row -> activation-count map with spillover
// eviction shared by Graphene, TWiCe and Oracle (spec §4.7.1).
type hotRowTable struct {
	capacity  int
	spillover int
	rows      map[int]*trackerEntry
}

func newHotRowTable(capacity int) *hotRowTable {
	return &hotRowTable{capacity: capacity, rows: map[int]*trackerEntry{}}
}

// observe increments row's count, inserting it (possibly by evicting a
// spillover-level entry) if absent, and returns the entry's new count.
func (h *hotRowTable) observe(row int) int {
	if e, ok := h.rows[row]; ok {
		e.count++
		return e.count
	}
	if len(h.rows) < h.capacity {
		h.rows[row] = &trackerEntry{count: 1}
		return 1
	}
	for r, e := range h.rows {
		if e.count == h.spillover {
			delete(h.rows, r)
			h.rows[row] = &trackerEntry{count: h.spillover + 1}
			return h.spillover + 1
		}
	}
	h.spillover++
	return 0
}

func (h *hotRowTable) reset() {
	h.rows = map[int]*trackerEntry{}
	h.spillover = 0
}

// Graphene enqueues a victim-row-refresh once a (bank,row)'s activation
// count within the current reset epoch crosses threshold. The table resets
// every resetPeriod cycles (a stand-in for Graphene's fixed-ns wall).
type Graphene struct {
	Threshold  int
	ResetPeriod uint64

	tables     map[int]*hotRowTable
	capacity   int
	lastReset  uint64
}

// NewGraphene builds a Graphene tracker: capacity bounds the per-bank
// activation table, threshold is the victim-refresh trigger count.
func NewGraphene(capacity, threshold int, resetPeriod uint64) *Graphene {
	return &Graphene{
		Threshold:   threshold,
		ResetPeriod: resetPeriod,
		tables:      map[int]*hotRowTable{},
		capacity:    capacity,
	}
}

func (g *Graphene) tableFor(bank int) *hotRowTable {
	t, ok := g.tables[bank]
	if !ok {
		t = newHotRowTable(g.capacity)
		g.tables[bank] = t
	}
	return t
}

func (g *Graphene) Update(found bool, req *request.Request, ctx Context) {
	if g.ResetPeriod > 0 && ctx.Clk-g.lastReset >= g.ResetPeriod {
		for _, t := range g.tables {
			t.reset()
		}
		g.lastReset = ctx.Clk
	}
	if !found || !IsActivate(ctx.Cmd) {
		return
	}
	count := g.tableFor(ctx.BankKey).observe(ctx.Row)
	if count >= g.Threshold {
		victim := NewVictimRefresh(ctx.BankKey, ctx.Row)
		if !ctx.Sender.PrioritySend(victim) {
			panic(errors.Errorf(errors.PluginInjectFailed, "Graphene"))
		}
	}
}

// TWiCe additionally tracks a life counter per entry and prunes entries
// whose act/life ratio has dropped below pruningRatio at each refresh-tick
// reset, rather than discarding the whole table (spec §4.7.1).
type TWiCe struct {
	Threshold    int
	PruningRatio float64

	tables   map[int]*hotRowTable
	capacity int
}

func NewTWiCe(capacity, threshold int, pruningRatio float64) *TWiCe {
	return &TWiCe{
		Threshold:    threshold,
		PruningRatio: pruningRatio,
		tables:       map[int]*hotRowTable{},
		capacity:     capacity,
	}
}

func (tw *TWiCe) tableFor(bank int) *hotRowTable {
	t, ok := tw.tables[bank]
	if !ok {
		t = newHotRowTable(tw.capacity)
		tw.tables[bank] = t
	}
	return t
}

func (tw *TWiCe) Update(found bool, req *request.Request, ctx Context) {
	for _, t := range tw.tables {
		for _, e := range t.rows {
			e.life++
		}
	}
	if ctx.Cmd == dram.REFab {
		for _, t := range tw.tables {
			for row, e := range t.rows {
				if e.life > 0 && float64(e.count)/float64(e.life) < tw.PruningRatio {
					delete(t.rows, row)
				}
			}
		}
	}
	if !found || !IsActivate(ctx.Cmd) {
		return
	}
	count := tw.tableFor(ctx.BankKey).observe(ctx.Row)
	if count >= tw.Threshold {
		victim := NewVictimRefresh(ctx.BankKey, ctx.Row)
		if !ctx.Sender.PrioritySend(victim) {
			panic(errors.Errorf(errors.PluginInjectFailed, "TWiCe"))
		}
	}
}

// Oracle resets its tables at every all-bank refresh boundary instead of a
// fixed-ns wall, and compares against a configured RowHammer tolerance
// rather than a conservative JEDEC threshold (spec §4.7.1).
type Oracle struct {
	Tolerance int

	tables   map[int]*hotRowTable
	capacity int
}

func NewOracle(capacity, tolerance int) *Oracle {
	return &Oracle{Tolerance: tolerance, tables: map[int]*hotRowTable{}, capacity: capacity}
}

func (o *Oracle) tableFor(bank int) *hotRowTable {
	t, ok := o.tables[bank]
	if !ok {
		t = newHotRowTable(o.capacity)
		o.tables[bank] = t
	}
	return t
}

func (o *Oracle) Update(found bool, req *request.Request, ctx Context) {
	if ctx.Cmd == dram.REFab {
		for _, t := range o.tables {
			t.reset()
		}
	}
	if !found || !IsActivate(ctx.Cmd) {
		return
	}
	count := o.tableFor(ctx.BankKey).observe(ctx.Row)
	if count >= o.Tolerance {
		victim := NewVictimRefresh(ctx.BankKey, ctx.Row)
		if !ctx.Sender.PrioritySend(victim) {
			panic(errors.Errorf(errors.PluginInjectFailed, "Oracle"))
		}
	}
}
