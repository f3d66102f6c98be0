package dram

// policies.go holds the prerequisite-derivation and state-transition
// handlers shared by every standard (spec §4.1's bulleted policies).
// Standards differ in which commands they support and in their timing
// parameters, not in how a given command behaves once supported, so these
// handlers are registered once per Spec by buildCommonPolicies rather than
// being reimplemented per standard.

func rowOf(org Organization, addrVec []int) int {
	pos := org.Pos(LevelRow)
	if pos < 0 || pos >= len(addrVec) {
		return -1
	}
	return addrVec[pos]
}

func bankOf(org Organization, addrVec []int) int {
	pos := org.Pos(LevelBank)
	if pos < 0 || pos >= len(addrVec) {
		return -1
	}
	return addrVec[pos]
}

// preqRDWR implements "bank-level RD/WR": closed -> open command; opened
// with matching row -> pass through; opened with a different row -> PRE;
// refreshing -> open command.
func preqRDWR(d *Device, nodeID NodeID, cmd CmdID, addrVec []int) CmdID {
	bank := &d.Nodes[nodeID]
	switch bank.State {
	case Closed, Refreshing:
		return d.Spec.OpenCmd
	case PreOpened:
		return ACT2
	case Opened:
		if bank.RowState[rowOf(d.Spec.Org, addrVec)] {
			return cmd
		}
		return PRE
	default:
		return cmd
	}
}

// preqVictimRefresh implements "bank-level VRR/RVRR: require bank Closed,
// else emit PRE".
func preqVictimRefresh(d *Device, nodeID NodeID, cmd CmdID, addrVec []int) CmdID {
	bank := &d.Nodes[nodeID]
	if bank.State != Closed {
		return PRE
	}
	return cmd
}

// preqAllBankRefresh implements "rank-level REFab/RFMab/DRFMab: require all
// banks Closed or Refreshing; if any bank Opened -> PREA".
func preqAllBankRefresh(d *Device, nodeID NodeID, cmd CmdID, addrVec []int) CmdID {
	for _, b := range d.BanksUnder(nodeID) {
		if d.Nodes[b].State == Opened {
			return PREA
		}
	}
	return cmd
}

// sameBankNodes resolves, from a rank node, the bank at bankIdx within
// every bankgroup child (or the single bank directly under rank, if this
// organization has no bankgroup level). This is how same-bank refresh
// commands reach "the same bank across every bankgroup" without needing a
// dedicated wildcard convention beyond ordinary indexing.
func sameBankNodes(d *Device, rankID NodeID, bankIdx int) []NodeID {
	rank := &d.Nodes[rankID]
	var out []NodeID
	if d.Spec.Org.Has(LevelBankGroup) {
		for bg := rank.ChildLo; bg < rank.ChildHi; bg++ {
			bgNode := &d.Nodes[bg]
			if bankIdx >= 0 && bankIdx < int(bgNode.ChildHi-bgNode.ChildLo) {
				out = append(out, bgNode.ChildLo+NodeID(bankIdx))
			}
		}
		return out
	}
	if bankIdx >= 0 && bankIdx < int(rank.ChildHi-rank.ChildLo) {
		out = append(out, rank.ChildLo+NodeID(bankIdx))
	}
	return out
}

// preqSameBankRefresh implements "rank-level same-bank refresh
// (REFsb/RFMsb/DRFMsb/RRFMsb): require the target bank across every
// bankgroup to be Closed or Refreshing, else PREsb".
func preqSameBankRefresh(d *Device, nodeID NodeID, cmd CmdID, addrVec []int) CmdID {
	for _, b := range sameBankNodes(d, nodeID, bankOf(d.Spec.Org, addrVec)) {
		if d.Nodes[b].State == Opened {
			return PREsb
		}
	}
	return cmd
}

func actionOpenFirstPhase(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	d.Nodes[nodeID].State = PreOpened
}

func actionOpenFinalize(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	bank := &d.Nodes[nodeID]
	bank.State = Opened
	bank.RowState = map[int]bool{rowOf(d.Spec.Org, addrVec): true}
}

// actionOpen handles plain single-cycle ACT (standards without LPDDR5's
// two-phase activate).
func actionOpen(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	actionOpenFinalize(d, nodeID, addrVec, clk)
}

func actionClose(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	bank := &d.Nodes[nodeID]
	bank.State = Closed
	bank.RowState = map[int]bool{}
}

func actionCloseAllBanksUnderRank(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	for _, b := range d.BanksUnder(nodeID) {
		actionClose(d, b, addrVec, clk)
	}
}

func actionCloseSameBank(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	for _, b := range sameBankNodes(d, nodeID, bankOf(d.Spec.Org, addrVec)) {
		actionClose(d, b, addrVec, clk)
	}
}

func actionRefreshAllBanks(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	d.Nodes[nodeID].State = Refreshing
	for _, b := range d.BanksUnder(nodeID) {
		d.Nodes[b].State = Refreshing
	}
}

func actionEndRefreshAllBanks(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	d.Nodes[nodeID].State = PowerUp
	for _, b := range d.BanksUnder(nodeID) {
		actionClose(d, b, addrVec, clk)
	}
}

func actionRefreshSameBank(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	for _, b := range sameBankNodes(d, nodeID, bankOf(d.Spec.Org, addrVec)) {
		d.Nodes[b].State = Refreshing
	}
}

func actionEndRefreshSameBank(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	for _, b := range sameBankNodes(d, nodeID, bankOf(d.Spec.Org, addrVec)) {
		actionClose(d, b, addrVec, clk)
	}
}

func actionVictimRefresh(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	d.Nodes[nodeID].State = Refreshing
}

func actionEndVictimRefresh(d *Device, nodeID NodeID, addrVec []int, clk uint64) {
	actionClose(d, nodeID, addrVec, clk)
}

// buildCommonPolicies registers the shared handlers above for every command
// a Spec marks Supported, keyed by that command's scope level. It must be
// called after Commands/OpenCmd have been populated.
func buildCommonPolicies(spec *Spec) {
	spec.Preq = map[Level]map[CmdID]PreqFunc{}
	spec.Actions = map[Level]map[CmdID]ActionFunc{}

	reg := func(lvl Level, cmd CmdID, pf PreqFunc, af ActionFunc) {
		if !spec.Commands[cmd].Supported {
			return
		}
		if pf != nil {
			if spec.Preq[lvl] == nil {
				spec.Preq[lvl] = map[CmdID]PreqFunc{}
			}
			spec.Preq[lvl][cmd] = pf
		}
		if af != nil {
			if spec.Actions[lvl] == nil {
				spec.Actions[lvl] = map[CmdID]ActionFunc{}
			}
			spec.Actions[lvl][cmd] = af
		}
	}

	reg(LevelBank, RD, preqRDWR, nil)
	reg(LevelBank, WR, preqRDWR, nil)
	reg(LevelBank, RDA, preqRDWR, actionClose)
	reg(LevelBank, WRA, preqRDWR, actionClose)

	if spec.Commands[ACT1].Supported {
		reg(LevelBank, ACT1, nil, actionOpenFirstPhase)
		reg(LevelBank, ACT2, nil, actionOpenFinalize)
	} else {
		reg(LevelBank, ACT, nil, actionOpen)
	}

	reg(LevelBank, PRE, nil, actionClose)
	reg(LevelRank, PREA, nil, actionCloseAllBanksUnderRank)
	reg(LevelRank, PREsb, preqSameBankRefresh, actionCloseSameBank)

	reg(LevelBank, VRR, preqVictimRefresh, actionVictimRefresh)
	reg(LevelBank, VRREnd, nil, actionEndVictimRefresh)
	reg(LevelBank, RVRR, preqVictimRefresh, actionVictimRefresh)
	reg(LevelBank, RVRREnd, nil, actionEndVictimRefresh)

	reg(LevelRank, REFab, preqAllBankRefresh, actionRefreshAllBanks)
	reg(LevelRank, REFabEnd, nil, actionEndRefreshAllBanks)
	reg(LevelRank, REFsb, preqSameBankRefresh, actionRefreshSameBank)
	reg(LevelRank, REFsbEnd, nil, actionEndRefreshSameBank)

	reg(LevelRank, RFMab, preqAllBankRefresh, actionRefreshAllBanks)
	reg(LevelRank, RFMabEnd, nil, actionEndRefreshAllBanks)
	reg(LevelRank, RFMsb, preqSameBankRefresh, actionRefreshSameBank)
	reg(LevelRank, RFMsbEnd, nil, actionEndRefreshSameBank)

	reg(LevelRank, DRFMab, preqAllBankRefresh, actionRefreshAllBanks)
	reg(LevelRank, DRFMabEnd, nil, actionEndRefreshAllBanks)
	reg(LevelRank, DRFMsb, preqSameBankRefresh, actionRefreshSameBank)
	reg(LevelRank, DRFMsbEnd, nil, actionEndRefreshSameBank)

	reg(LevelRank, RRFMsb, preqSameBankRefresh, actionRefreshSameBank)
	reg(LevelRank, RRFMsbEnd, nil, actionEndRefreshSameBank)
}
