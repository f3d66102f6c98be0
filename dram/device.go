package dram

import (
	"container/heap"

	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/request"
)

// PreqFunc derives the prerequisite command for cmd at the node nodeID
// (whose Level is the key this function is registered under). It returns
// cmd itself if the prerequisite is already satisfied at this node, or a
// replacement command that must be issued first.
type PreqFunc func(d *Device, nodeID NodeID, cmd CmdID, addrVec []int) CmdID

// ActionFunc applies cmd's state-transition effect at nodeID.
type ActionFunc func(d *Device, nodeID NodeID, addrVec []int, clk uint64)

// Timings collects the named cycle counts referenced directly by the
// controller and refresh manager; the bulk of command-to-command latency
// still flows through the TimingTable, but a handful of quantities (the
// refresh interval, the read latency) are needed outside the table walk.
type Timings struct {
	MTps        int
	NRCD, NRP   uint64
	NRAS, NCL   uint64
	NBL         uint64
	NREFI, NRFC uint64
	NRFCsb      uint64
	NRRD, NFAW  uint64
	NCCDS, NCCDL uint64
	NWR, NRTP   uint64
	ReadLatency uint64
}

// Spec is everything that differs between DRAM standards (spec §3, §4.1):
// organization, command table, timing table, request translation, and the
// per-(level,command) prerequisite/action handlers.
type Spec struct {
	Name     string
	Org      Organization
	Commands [NumCommands]CommandDef
	Timing   TimingTable
	Translation map[request.TypeID]CmdID
	Preq     map[Level]map[CmdID]PreqFunc
	Actions  map[Level]map[CmdID]ActionFunc
	Timings  Timings

	// OpenCmd is ACT for every standard except LPDDR5, which splits
	// activation into ACT1 (pre-open)/ACT2 (finalize).
	OpenCmd CmdID
}

// futureAction is a deferred state-transition scheduled by IssueCommand for
// commands whose CommandDef.Deferred is non-zero (spec §4.1 step 3).
type futureAction struct {
	clk     uint64
	seq     uint64
	cmd     CmdID
	addrVec []int
}

type futureQueue []futureAction

func (q futureQueue) Len() int { return len(q) }
func (q futureQueue) Less(i, j int) bool {
	if q[i].clk != q[j].clk {
		return q[i].clk < q[j].clk
	}
	return q[i].seq < q[j].seq
}
func (q futureQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *futureQueue) Push(x interface{}) { *q = append(*q, x.(futureAction)) }
func (q *futureQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Device is one channel's worth of the DRAM hierarchy: the node arena plus
// a small priority queue of deferred end-of-refresh-family transitions.
type Device struct {
	Spec   *Spec
	Nodes  []Node
	Root   NodeID
	future futureQueue
	seq    uint64
}

// NewDevice builds the tree for spec. Structural levels (channel..bank) get
// nodes; row and column are addressing-only.
func NewDevice(spec *Spec) *Device {
	d := &Device{Spec: spec}

	var structural []Level
	for _, l := range spec.Org.Levels {
		if l.IsStructural() {
			structural = append(structural, l)
		}
	}

	d.Nodes = append(d.Nodes, newNode(spec, structural[0], 0, InvalidNode))
	d.Root = 0
	heap.Init(&d.future)

	level := []NodeID{d.Root}
	for i := 1; i < len(structural); i++ {
		lvl := structural[i]
		fanout := spec.Org.Fanout[lvl]
		var next []NodeID
		for _, parentID := range level {
			lo := NodeID(len(d.Nodes))
			for k := 0; k < fanout; k++ {
				d.Nodes = append(d.Nodes, newNode(spec, lvl, k, parentID))
				next = append(next, NodeID(len(d.Nodes)-1))
			}
			hi := NodeID(len(d.Nodes))
			d.Nodes[parentID].ChildLo = lo
			d.Nodes[parentID].ChildHi = hi
		}
		level = next
	}

	return d
}

func newNode(spec *Spec, lvl Level, idx int, parent NodeID) Node {
	n := Node{Level: lvl, Index: idx, Parent: parent, ChildLo: InvalidNode, ChildHi: InvalidNode}
	switch lvl {
	case LevelBank:
		n.State = Closed
		n.RowState = make(map[int]bool)
	case LevelRank:
		n.State = PowerUp
	default:
		n.State = NotApplicable
	}
	for cmd := CmdID(0); cmd < NumCommands; cmd++ {
		n.cmdHistory[cmd] = newHistory(spec.Timing.MaxWindow(lvl, cmd))
	}
	return n
}

// walkPath resolves the concrete node path from the channel root down to
// (and including) scope, using addrVec to pick a child index at every
// structural level in between. Per spec §3's addressing invariant, every
// index from channel down to scope must be concrete (no wildcards above or
// at scope).
func (d *Device) walkPath(addrVec []int, scope Level) []NodeID {
	path := make([]NodeID, 0, 6)
	cur := d.Root
	path = append(path, cur)
	if scope == LevelChannel {
		return path
	}
	for _, lvl := range d.Spec.Org.Levels {
		if lvl == LevelChannel || !lvl.IsStructural() {
			continue
		}
		pos := d.Spec.Org.Pos(lvl)
		idx := addrVec[pos]
		if idx < 0 {
			break
		}
		node := &d.Nodes[cur]
		if idx >= int(node.ChildHi-node.ChildLo) {
			panic(errors.Errorf(errors.InvalidAddressIndex, idx, lvl))
		}
		cur = node.ChildLo + NodeID(idx)
		path = append(path, cur)
		if lvl == scope {
			break
		}
	}
	return path
}

func (d *Device) preqFn(lvl Level, cmd CmdID) PreqFunc {
	if m, ok := d.Spec.Preq[lvl]; ok {
		return m[cmd]
	}
	return nil
}

func (d *Device) actionFn(lvl Level, cmd CmdID) ActionFunc {
	if m, ok := d.Spec.Actions[lvl]; ok {
		return m[cmd]
	}
	return nil
}

// GetPreqCommand walks from the channel node down to cmd's scope, returning
// the first replacement command a registered handler demands, or cmd
// unchanged if every visited node is satisfied (spec §4.1).
func (d *Device) GetPreqCommand(cmd CmdID, addrVec []int) CmdID {
	def := d.Spec.Commands[cmd]
	if !def.Supported {
		return cmd
	}
	path := d.walkPath(addrVec, def.Scope)
	for _, nodeID := range path {
		lvl := d.Nodes[nodeID].Level
		if fn := d.preqFn(lvl, cmd); fn != nil {
			if r := fn(d, nodeID, cmd, addrVec); r != cmd {
				return r
			}
		}
	}
	return cmd
}

// CheckReady walks the same path as GetPreqCommand, failing if clk hasn't
// reached cmd_ready_clk[cmd] at any visited node (spec §4.1).
func (d *Device) CheckReady(cmd CmdID, addrVec []int, clk uint64) bool {
	def := d.Spec.Commands[cmd]
	if !def.Supported {
		return false
	}
	path := d.walkPath(addrVec, def.Scope)
	for _, nodeID := range path {
		if clk < d.Nodes[nodeID].cmdReadyClk[cmd] {
			return false
		}
	}
	return true
}

// ResolveNode walks addrVec down to scope and returns the node reached,
// exposing walkPath's result to callers outside this package (the
// controller's row policy and refresh manager, which need to enumerate
// banks under a rank or bankgroup node for a just-issued rank-scope
// command). Every level from channel down to scope must be concrete in
// addrVec; a wildcard encountered first returns whatever node was reached.
func (d *Device) ResolveNode(addrVec []int, scope Level) NodeID {
	path := d.walkPath(addrVec, scope)
	return path[len(path)-1]
}

// BankNode resolves addrVec down to its bank-level node, giving callers
// outside this package (the controller, plugins via the bank key it hands
// out) a stable identifier for "this physical bank" without exposing the
// tree-walk machinery itself.
func (d *Device) BankNode(addrVec []int) NodeID {
	return d.ResolveNode(addrVec, LevelBank)
}

// RankNode resolves addrVec down to its rank-level node.
func (d *Device) RankNode(addrVec []int) NodeID {
	return d.ResolveNode(addrVec, LevelRank)
}

// AddrVecTemplate returns a full-length address vector with every
// structural level from channel down to nodeID's level set to its
// concrete index, and every level below that (including row/column)
// wildcarded. Used to reconstruct a complete address vector for a
// controller- or plugin-synthesized request that only knows a bank (or
// rank) key.
func (d *Device) AddrVecTemplate(nodeID NodeID) []int {
	vec := make([]int, d.Spec.Org.AddrVecLen())
	for i := range vec {
		vec[i] = -1
	}
	for cur := nodeID; cur != InvalidNode; cur = d.Nodes[cur].Parent {
		n := &d.Nodes[cur]
		if pos := d.Spec.Org.Pos(n.Level); pos >= 0 {
			vec[pos] = n.Index
		}
	}
	return vec
}

// RanksUnder returns every rank-level node in the device.
func (d *Device) RanksUnder() []NodeID {
	var out []NodeID
	for id := range d.Nodes {
		if d.Nodes[id].Level == LevelRank {
			out = append(out, NodeID(id))
		}
	}
	return out
}

// CheckRowBufferHit reports whether the bank addressed by addrVec is open
// to exactly the row addrVec requests.
func (d *Device) CheckRowBufferHit(addrVec []int) bool {
	path := d.walkPath(addrVec, LevelBank)
	bank := &d.Nodes[path[len(path)-1]]
	rowPos := d.Spec.Org.Pos(LevelRow)
	if rowPos < 0 || rowPos >= len(addrVec) {
		return false
	}
	return bank.State == Opened && bank.RowState[addrVec[rowPos]]
}

// CheckNodeOpen reports whether the node addressed by addrVec at level lvl
// is in the Opened state.
func (d *Device) CheckNodeOpen(addrVec []int, lvl Level) bool {
	path := d.walkPath(addrVec, lvl)
	return d.Nodes[path[len(path)-1]].State == Opened
}

// BanksUnder collects every bank-level descendant of nodeID (inclusive if
// nodeID is itself a bank).
func (d *Device) BanksUnder(nodeID NodeID) []NodeID {
	n := &d.Nodes[nodeID]
	if n.Level == LevelBank {
		return []NodeID{nodeID}
	}
	var out []NodeID
	for id := n.ChildLo; id < n.ChildHi; id++ {
		out = append(out, d.BanksUnder(id)...)
	}
	return out
}

// Siblings returns nodeID's siblings (same parent, same level), excluding
// nodeID itself.
func (d *Device) Siblings(nodeID NodeID) []NodeID {
	n := &d.Nodes[nodeID]
	if n.Parent == InvalidNode {
		return nil
	}
	parent := &d.Nodes[n.Parent]
	var out []NodeID
	for id := parent.ChildLo; id < parent.ChildHi; id++ {
		if id != nodeID {
			out = append(out, id)
		}
	}
	return out
}

// IssueCommand applies cmd's timing and state effects at clk (spec §4.1:
// update_timing then update_states), and schedules its deferred End action
// if CommandDef.Deferred is non-zero.
func (d *Device) IssueCommand(cmd CmdID, addrVec []int, clk uint64) {
	def := d.Spec.Commands[cmd]
	path := d.walkPath(addrVec, def.Scope)

	d.updateTiming(cmd, path, clk)

	if fn := d.actionFn(def.Scope, cmd); fn != nil {
		fn(d, path[len(path)-1], addrVec, clk)
	}

	if def.Deferred > 0 {
		addrCopy := append([]int(nil), addrVec...)
		heap.Push(&d.future, futureAction{
			clk:     clk + def.Deferred - 1,
			seq:     d.seq,
			cmd:     def.End,
			addrVec: addrCopy,
		})
		d.seq++
	}
}

func (d *Device) updateTiming(cmd CmdID, path []NodeID, clk uint64) {
	for _, nodeID := range path {
		node := &d.Nodes[nodeID]
		node.cmdHistory[cmd].push(clk)

		for _, c := range d.Spec.Timing[node.Level][cmd] {
			past, ok := node.cmdHistory[cmd].nth(c.Window)
			if !ok {
				continue
			}
			ready := past + c.Latency
			if c.Sibling {
				for _, sib := range d.Siblings(nodeID) {
					sn := &d.Nodes[sib]
					if ready > sn.cmdReadyClk[c.Following] {
						sn.cmdReadyClk[c.Following] = ready
					}
				}
				continue
			}
			if ready > node.cmdReadyClk[c.Following] {
				node.cmdReadyClk[c.Following] = ready
			}
		}
	}
}

// Tick processes every deferred future action whose clock has arrived. It
// is called once per memory cycle, before that cycle's command is scheduled
// and issued (spec §4.1 step 3, §5 "processed at the next tick").
func (d *Device) Tick(clk uint64) {
	for d.future.Len() > 0 && d.future[0].clk <= clk {
		fa := heap.Pop(&d.future).(futureAction)
		def := d.Spec.Commands[fa.cmd]
		path := d.walkPath(fa.addrVec, def.Scope)
		if fn := d.actionFn(def.Scope, fa.cmd); fn != nil {
			fn(d, path[len(path)-1], fa.addrVec, clk)
		}
	}
}

// TranslationFor maps an abstract request kind to this standard's final
// command (spec §3 "request translation").
func (d *Device) TranslationFor(t request.TypeID) (CmdID, bool) {
	cmd, ok := d.Spec.Translation[t]
	return cmd, ok
}
