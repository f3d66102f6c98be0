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

import "github.com/memsim/memsim/request"

type histEntry struct {
	clk uint64
	row int
}

// BlockHammer maintains K counting filters per bank with staggered epochs
// (spec §4.7.4). A simple map-backed counting filter stands in for a real
// counting Bloom filter: the distinction (hashed buckets vs. exact counts)
// doesn't change the throttling decision this model makes.
type BlockHammer struct {
	K             int
	EpochLen      uint64
	RowThreshold  int
	HistoryWindow uint64
	MaxMSHRShrink float64

	filters   map[int][]map[int]int
	active    map[int]int // bank -> index of the current "test" filter
	lastEpoch uint64
	history   map[int][]histEntry

	attackCount map[[2]int]int // (source,bank) -> throttle events
	rhli        map[[2]int]float64
	unsafe      map[[2]int]bool // (source,bank) -> currently act-unsafe
}

// NewBlockHammer builds a BlockHammer plugin: k staggered filters per bank,
// each covering epochLen cycles; rowThreshold is the per-filter activation
// cap; historyWindow bounds how long a row stays "recently hot" in the
// per-bank history buffer.
func NewBlockHammer(k int, epochLen uint64, rowThreshold int, historyWindow uint64) *BlockHammer {
	return &BlockHammer{
		K: k, EpochLen: epochLen, RowThreshold: rowThreshold, HistoryWindow: historyWindow,
		MaxMSHRShrink: 1.0,
		filters:       map[int][]map[int]int{},
		active:        map[int]int{},
		history:       map[int][]histEntry{},
		attackCount:   map[[2]int]int{},
		rhli:          map[[2]int]float64{},
		unsafe:        map[[2]int]bool{},
	}
}

func (b *BlockHammer) filtersFor(bank int) []map[int]int {
	fs, ok := b.filters[bank]
	if !ok {
		fs = make([]map[int]int, b.K)
		for i := range fs {
			fs[i] = map[int]int{}
		}
		b.filters[bank] = fs
	}
	return fs
}

func (b *BlockHammer) Update(found bool, req *request.Request, ctx Context) {
	if ctx.Clk-b.lastEpoch >= b.EpochLen {
		for bank, fs := range b.filters {
			idx := b.active[bank]
			fs[idx] = map[int]int{}
			b.active[bank] = (idx + 1) % b.K
		}
		b.lastEpoch = ctx.Clk
		// is_act_safe is a live filter/history test, not a permanent
		// blacklist: an epoch rotation is where its unsafe verdicts age out.
		b.unsafe = map[[2]int]bool{}
	}

	if !found || !IsActivate(ctx.Cmd) {
		return
	}

	fs := b.filtersFor(ctx.BankKey)
	for _, f := range fs {
		f[ctx.Row]++
	}

	hist := append(b.history[ctx.BankKey], histEntry{clk: ctx.Clk, row: ctx.Row})
	cutoff := uint64(0)
	if ctx.Clk > b.HistoryWindow {
		cutoff = ctx.Clk - b.HistoryWindow
	}
	trimmed := hist[:0]
	for _, h := range hist {
		if h.clk >= cutoff {
			trimmed = append(trimmed, h)
		}
	}
	b.history[ctx.BankKey] = trimmed

	active := fs[b.active[ctx.BankKey]]
	if active[ctx.Row] < b.RowThreshold {
		return
	}
	seenRecently := false
	for _, h := range trimmed {
		if h.row == ctx.Row {
			seenRecently = true
			break
		}
	}
	if !seenRecently {
		return
	}

	key := [2]int{ctx.Source, ctx.BankKey}
	b.attackCount[key]++
	rhli := float64(b.attackCount[key]) / (float64(b.attackCount[key]) + 4)
	if rhli > 1 {
		rhli = 1
	}
	b.rhli[key] = rhli
	b.unsafe[key] = true
}

// IsActSafe implements ActSafetyChecker: an activation is unsafe once its
// (source,bank) pair has tripped the attack throttler for this bank, until
// the next epoch rotation ages that verdict out.
func (b *BlockHammer) IsActSafe(source, bankKey int) bool {
	return !b.unsafe[[2]int{source, bankKey}]
}

// RHLI returns the current RowHammer-likelihood index for (source,bank),
// the value the LLC reads to shrink that source's available MSHRs
// proportional to (1 - rhli).
func (b *BlockHammer) RHLI(source, bank int) float64 {
	return b.rhli[[2]int{source, bank}]
}
