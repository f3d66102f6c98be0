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
	"math/rand"

	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/request"
)

// ritOps is the slice of the address mapper's interface the row-swap
// plugins need: insert/remove/unlock/full on the row-indirection table.
// Defined locally (rather than importing addrmap) so plugins stay
// dependency-free of the mapper's concrete package.
type ritOps interface {
	RITInsert(bank, logicalRow, physicalRow int) bool
	RITRemove(bank, logicalRow int) bool
	RITUnlock(bank, logicalRow int)
	IsRITFull(bank int) bool
}

// rowSwapper holds the bookkeeping common to RRS and AQUA: a hot-row
// tracker per bank, a local mirror of the mappings currently held in the
// mapper's RIT (used to pick a victim to undo when the table is full), and
// a pending-set guarding against starting a second swap mid-migration
// (spec §4.7.3).
type rowSwapper struct {
	mapper   ritOps
	tables   map[int]*hotRowTable
	capacity int

	mappings map[int]map[int]int // bank -> logicalRow -> destRow
	pending  map[[2]int]bool
}

func newRowSwapper(mapper ritOps, capacity int) rowSwapper {
	return rowSwapper{
		mapper:   mapper,
		tables:   map[int]*hotRowTable{},
		capacity: capacity,
		mappings: map[int]map[int]int{},
		pending:  map[[2]int]bool{},
	}
}

func (s *rowSwapper) tableFor(bank int) *hotRowTable {
	t, ok := s.tables[bank]
	if !ok {
		t = newHotRowTable(s.capacity)
		s.tables[bank] = t
	}
	return t
}

// migrate issues a priority read of srcRow followed (once it completes) by
// a priority write of destRow, then updates the RIT and marks the swap
// complete. Modeled as a read/write pair chained through Request.Callback,
// the same mechanism ordinary requests use to signal completion.
func (s *rowSwapper) migrate(bank, srcRow, destRow int, ctx Context, done func()) {
	rd := request.New(0, request.Read, request.ControllerSource, nil)
	rd.Scratchpad[0] = bank
	rd.Scratchpad[1] = srcRow
	rd.Callback = func(_ *request.Request) {
		wr := request.New(0, request.Write, request.ControllerSource, nil)
		wr.Scratchpad[0] = bank
		wr.Scratchpad[1] = destRow
		wr.Callback = func(_ *request.Request) { done() }
		if !ctx.Sender.PrioritySend(wr) {
			panic(errors.Errorf(errors.PluginInjectFailed, "row-swap (write)"))
		}
	}
	if !ctx.Sender.PrioritySend(rd) {
		panic(errors.Errorf(errors.PluginInjectFailed, "row-swap (read)"))
	}
}

// evictOne picks an arbitrary existing mapping in bank and undoes it
// (migrates the data back from its destination row to its logical row,
// then drops the RIT entry), freeing one slot for a new swap.
func (s *rowSwapper) evictOne(bank int, ctx Context) {
	for srcRow, destRow := range s.mappings[bank] {
		s.migrate(bank, destRow, srcRow, ctx, func() {
			s.mapper.RITRemove(bank, srcRow)
			delete(s.mappings[bank], srcRow)
		})
		return
	}
}

// swap starts a migration of bank/row to destRow if one isn't already in
// flight for that (bank,row), evicting a victim mapping first if the RIT
// is full.
func (s *rowSwapper) swap(bank, row, destRow int, ctx Context) {
	key := [2]int{bank, row}
	if s.pending[key] {
		return
	}
	if s.mapper.IsRITFull(bank) {
		s.evictOne(bank, ctx)
	}
	if !s.mapper.RITInsert(bank, row, destRow) {
		return
	}
	s.pending[key] = true
	s.migrate(bank, row, destRow, ctx, func() {
		if s.mappings[bank] == nil {
			s.mappings[bank] = map[int]int{}
		}
		s.mappings[bank][row] = destRow
		s.mapper.RITUnlock(bank, row)
		delete(s.pending, key)
	})
}

// RRS swaps a hot row's data to a uniformly random destination row within
// the same bank once its hot-row tracker crosses Threshold (spec §4.7.3).
type RRS struct {
	rowSwapper
	Threshold      int
	NumRowsPerBank int
	rng            *rand.Rand
}

// NewRRS builds an RRS plugin over mapper's RIT: trackerCapacity bounds the
// per-bank hot-row table, threshold is the swap trigger count,
// numRowsPerBank sizes the random destination draw.
func NewRRS(mapper ritOps, trackerCapacity, threshold, numRowsPerBank int, seed int64) *RRS {
	return &RRS{
		rowSwapper:     newRowSwapper(mapper, trackerCapacity),
		Threshold:      threshold,
		NumRowsPerBank: numRowsPerBank,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

func (r *RRS) Update(found bool, req *request.Request, ctx Context) {
	if !found || !IsActivate(ctx.Cmd) {
		return
	}
	if r.tableFor(ctx.BankKey).observe(ctx.Row) >= r.Threshold {
		dest := r.rng.Intn(r.NumRowsPerBank)
		r.swap(ctx.BankKey, ctx.Row, dest, ctx)
	}
}

// AQUA swaps a hot row's data into a reserved quarantine zone (spec
// §4.7.3): the low QuarantineSize(bank) rows of the bank, which the
// address mapper never assigns to application pages.
type AQUA struct {
	rowSwapper
	Threshold       int
	quarantineSize  func(bank int) int
	rng             *rand.Rand
}

// aquaMapper adds the quarantine-size query to ritOps, satisfied by
// *addrmap.LinearMapper without this package importing addrmap.
type aquaMapper interface {
	ritOps
	QuarantineSize(bank int) int
}

// NewAQUA builds an AQUA plugin over mapper's RIT and quarantine zone.
func NewAQUA(mapper aquaMapper, trackerCapacity, threshold int, seed int64) *AQUA {
	return &AQUA{
		rowSwapper:     newRowSwapper(mapper, trackerCapacity),
		Threshold:      threshold,
		quarantineSize: mapper.QuarantineSize,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

func (a *AQUA) Update(found bool, req *request.Request, ctx Context) {
	if !found || !IsActivate(ctx.Cmd) {
		return
	}
	n := a.quarantineSize(ctx.BankKey)
	if n <= 0 {
		return
	}
	if a.tableFor(ctx.BankKey).observe(ctx.Row) >= a.Threshold {
		dest := a.rng.Intn(n)
		a.swap(ctx.BankKey, ctx.Row, dest, ctx)
	}
}
