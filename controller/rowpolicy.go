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
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/request"
)

// RowPolicy observes the command about to be issued this cycle (spec
// §4.5); found is false when the scheduler picked nothing.
type RowPolicy interface {
	Observe(c *Controller, found bool, cmd dram.CmdID, addrVec []int)
}

// OpenRowPolicy is the open-row policy: the hook is a no-op, rows stay
// open until some other pressure (refresh, a conflicting access) closes
// them.
type OpenRowPolicy struct{}

// NewOpenRowPolicy builds an OpenRowPolicy.
func NewOpenRowPolicy() OpenRowPolicy { return OpenRowPolicy{} }

func (OpenRowPolicy) Observe(c *Controller, found bool, cmd dram.CmdID, addrVec []int) {}

// ClosedRowPolicy enforces a per-bank column-access cap: once Cap
// back-to-back accesses have hit an open row without an intervening
// close, it enqueues a close-row request for that bank (spec §4.5).
type ClosedRowPolicy struct {
	Cap    int
	counts map[int]int
}

// NewClosedRowPolicy builds a ClosedRowPolicy with the given per-bank
// access cap.
func NewClosedRowPolicy(cap int) *ClosedRowPolicy {
	return &ClosedRowPolicy{Cap: cap, counts: map[int]int{}}
}

func (p *ClosedRowPolicy) Observe(c *Controller, found bool, cmd dram.CmdID, addrVec []int) {
	if !found {
		return
	}
	def := c.Device.Spec.Commands[cmd]
	switch {
	case def.Scope == dram.LevelRank && (def.IsClosing || def.IsRefreshing):
		rankNode := c.Device.ResolveNode(addrVec, dram.LevelRank)
		if isSameBankFamily(cmd) {
			for _, b := range sameBankAcrossGroups(c.Device, rankNode, bankIndexOf(c.Device, addrVec)) {
				delete(p.counts, int(b))
			}
			return
		}
		for _, b := range c.Device.BanksUnder(rankNode) {
			delete(p.counts, int(b))
		}
	case def.Scope == dram.LevelBank && (def.IsClosing || def.IsRefreshing):
		delete(p.counts, int(c.Device.BankNode(addrVec)))
	case def.Scope == dram.LevelBank && def.IsAccessing:
		key := int(c.Device.BankNode(addrVec))
		p.counts[key]++
		if p.counts[key] < p.Cap {
			return
		}
		p.counts[key] = 0
		req := newBankRequest(request.CloseRow, key, rowIndexOf(c.Device, addrVec))
		if !c.PrioritySend(req) {
			panic(errors.Errorf(errors.PriorityBufferFull))
		}
	}
}

// sameBankAcrossGroups resolves the bank at bankIdx within every
// bankgroup child of rankNode (or the single bank directly under the rank,
// absent a bankgroup level) -- the controller-side counterpart of the
// device tree's own same-bank addressing, needed here because a
// rank-scope same-bank command's addrVec only carries a bank index, not a
// full per-bankgroup node list.
func sameBankAcrossGroups(d *dram.Device, rankNode dram.NodeID, bankIdx int) []dram.NodeID {
	if bankIdx < 0 {
		return nil
	}
	rank := &d.Nodes[rankNode]
	if !d.Spec.Org.Has(dram.LevelBankGroup) {
		if bankIdx < int(rank.ChildHi-rank.ChildLo) {
			return []dram.NodeID{rank.ChildLo + dram.NodeID(bankIdx)}
		}
		return nil
	}
	var out []dram.NodeID
	for bg := rank.ChildLo; bg < rank.ChildHi; bg++ {
		bgNode := &d.Nodes[bg]
		if bankIdx < int(bgNode.ChildHi-bgNode.ChildLo) {
			out = append(out, bgNode.ChildLo+dram.NodeID(bankIdx))
		}
	}
	return out
}
