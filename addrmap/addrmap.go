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

// Package addrmap resolves a request's linear physical address into a
// per-level address vector (spec §4.6), and maintains the row-indirection
// table (RIT) that row-swap mitigations (RRS, AQUA) use to remap hot rows
// to cooler physical rows without the rest of the engine noticing.
package addrmap

import (
	"math/bits"

	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/request"
)

// Mapper is the address mapper interface the controller depends on. The
// controller never interprets a Mapper's internals; it only requires
// AddrVec to be fully populated by the time a request reaches scheduling.
type Mapper interface {
	Apply(req *request.Request)

	InitRIT(numBanks, capacity int)
	RITInsert(bank, logicalRow, physicalRow int) bool
	RITRemove(bank, logicalRow int) bool
	CheckRIT(bank, logicalRow int) (physicalRow int, ok bool)
	IsRITFull(bank int) bool
	RITUnlock(bank, logicalRow int)
}

type ritEntry struct {
	physicalRow int
	locked      bool
}

// LinearMapper bit-slices a linear address across the organization's
// levels, lowest bits to the most column-adjacent level, so that
// sequential addresses land in the same row before spilling to the next
// one (row-buffer-friendly interleaving).
type LinearMapper struct {
	org   dram.Organization
	order []dram.Level // bit-slicing order, least-significant first
	width map[dram.Level]int

	rit        map[int]map[int]ritEntry
	ritCap     int
	quarantine map[int]int // bank -> rows reserved at the low end for AQUA
}

// NewLinearMapper builds a mapper for org. Bit widths are derived from
// org.Fanout; row and column (addressing-only levels) get their own slices
// even though they have no tree Node.
func NewLinearMapper(org dram.Organization) *LinearMapper {
	m := &LinearMapper{
		org:        org,
		width:      map[dram.Level]int{},
		quarantine: map[int]int{},
	}
	// Column is innermost (lowest bits), channel outermost; everything else
	// follows org.Levels in reverse.
	for i := len(org.Levels) - 1; i >= 0; i-- {
		lvl := org.Levels[i]
		if lvl == dram.LevelChannel {
			continue
		}
		n := org.Fanout[lvl]
		if n <= 0 {
			n = 1
		}
		m.order = append(m.order, lvl)
		m.width[lvl] = bits.Len(uint(n - 1))
	}
	return m
}

// Apply resolves req.Addr into req.AddrVec (spec §4.6), applying any RIT
// redirection for the bank/row the bit-slice alone would have produced.
func (m *LinearMapper) Apply(req *request.Request) {
	vec := make([]int, m.org.AddrVecLen())
	vec[m.org.Pos(dram.LevelChannel)] = 0

	addr := req.Addr
	for _, lvl := range m.order {
		w := m.width[lvl]
		idx := 0
		if w > 0 {
			mask := uint64(1)<<uint(w) - 1
			idx = int(addr & mask)
			addr >>= uint(w)
		}
		vec[m.org.Pos(lvl)] = idx
	}

	bankPos, rowPos := m.org.Pos(dram.LevelBank), m.org.Pos(dram.LevelRow)
	if bankPos < 0 || rowPos < 0 {
		req.AddrVec = vec
		return
	}

	if n := m.quarantine[vec[bankPos]]; n > 0 {
		vec[rowPos] += n
	}
	if phys, ok := m.CheckRIT(vec[bankPos], vec[rowPos]); ok {
		vec[rowPos] = phys
	}

	req.AddrVec = vec
}

// ReserveQuarantine dedicates the low numRows rows of bank as a swap
// destination zone (AQUA, spec §4.7.3) and shifts every application row
// index in that bank up by numRows so the mapper never assigns one there.
func (m *LinearMapper) ReserveQuarantine(bank, numRows int) {
	m.quarantine[bank] = numRows
}

// QuarantineRow reports whether row in bank falls inside the reserved
// quarantine zone.
func (m *LinearMapper) QuarantineRow(bank, row int) bool {
	return row < m.quarantine[bank]
}

// QuarantineSize returns the number of rows reserved as bank's quarantine
// zone (0 if none was reserved), letting AQUA pick a destination row inside
// it without the plugin needing to know the mapper's concrete type.
func (m *LinearMapper) QuarantineSize(bank int) int {
	return m.quarantine[bank]
}

// InitRIT allocates the row-indirection table with capacity entries per
// bank.
func (m *LinearMapper) InitRIT(numBanks, capacity int) {
	m.rit = make(map[int]map[int]ritEntry, numBanks)
	for b := 0; b < numBanks; b++ {
		m.rit[b] = make(map[int]ritEntry, capacity)
	}
	m.ritCap = capacity
}

// RITInsert records that logicalRow in bank currently resides at
// physicalRow, locked until RITUnlock releases it (the swap plugin holds
// the lock for the duration of the copy). Returns false if the bank's
// table is already at capacity.
func (m *LinearMapper) RITInsert(bank, logicalRow, physicalRow int) bool {
	if m.IsRITFull(bank) {
		return false
	}
	if _, exists := m.rit[bank][logicalRow]; !exists && len(m.rit[bank]) >= m.ritCap {
		return false
	}
	m.rit[bank][logicalRow] = ritEntry{physicalRow: physicalRow, locked: true}
	return true
}

// RITRemove deletes logicalRow's entry in bank, reporting whether one
// existed.
func (m *LinearMapper) RITRemove(bank, logicalRow int) bool {
	if _, ok := m.rit[bank][logicalRow]; !ok {
		return false
	}
	delete(m.rit[bank], logicalRow)
	return true
}

// CheckRIT looks up logicalRow's current physical row in bank. A locked
// entry (swap in progress) is reported as absent so the mapper routes
// through the pre-swap row until RITUnlock clears the lock.
func (m *LinearMapper) CheckRIT(bank, logicalRow int) (int, bool) {
	e, ok := m.rit[bank][logicalRow]
	if !ok || e.locked {
		return 0, false
	}
	return e.physicalRow, true
}

// IsRITFull reports whether bank's table has reached capacity.
func (m *LinearMapper) IsRITFull(bank int) bool {
	return len(m.rit[bank]) >= m.ritCap
}

// RITUnlock releases the lock RITInsert placed on logicalRow's entry,
// making it visible to CheckRIT. Called by a swap plugin once its
// migration copy has completed.
func (m *LinearMapper) RITUnlock(bank, logicalRow int) {
	if e, ok := m.rit[bank][logicalRow]; ok {
		e.locked = false
		m.rit[bank][logicalRow] = e
	}
}
