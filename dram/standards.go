package dram

import "github.com/memsim/memsim/request"

// features selects the optional per-standard behaviors that buildSpec wires
// up via buildCommonPolicies and addCommonTiming: which commands exist at
// all, and which organization levels are present.
type features struct {
	bankGroup      bool
	pseudoChannel  bool
	twoPhaseOpen   bool // LPDDR5 ACT1/ACT2
	rfm            bool
	drfm           bool
	rrfmSameBank   bool
	sameBankRefresh bool
}

// baseCommands marks the always-present commands Supported and fills in
// their scope/meta flags; buildSpec then flips on the optional ones.
func baseCommands(f features) [NumCommands]CommandDef {
	var c [NumCommands]CommandDef

	mark := func(id CmdID, scope Level, opening, closing, accessing, refreshing bool) {
		c[id] = CommandDef{Supported: true, Scope: scope, IsOpening: opening, IsClosing: closing, IsAccessing: accessing, IsRefreshing: refreshing}
	}

	if f.twoPhaseOpen {
		mark(ACT1, LevelBank, true, false, false, false)
		mark(ACT2, LevelBank, true, false, false, false)
	} else {
		mark(ACT, LevelBank, true, false, false, false)
	}
	mark(PRE, LevelBank, false, true, false, false)
	mark(PREA, LevelRank, false, true, false, false)
	mark(RD, LevelBank, false, false, true, false)
	mark(WR, LevelBank, false, false, true, false)
	mark(RDA, LevelBank, false, true, true, false)
	mark(WRA, LevelBank, false, true, true, false)

	mark(REFab, LevelRank, false, false, false, true)
	c[REFab].Deferred = 1 // overwritten with nRFC by buildSpec
	c[REFab].End = REFabEnd
	mark(REFabEnd, LevelRank, false, false, false, false)

	if f.bankGroup {
		mark(PREsb, LevelRank, false, true, false, false)
	}
	if f.sameBankRefresh {
		mark(REFsb, LevelRank, false, false, false, true)
		c[REFsb].End = REFsbEnd
		mark(REFsbEnd, LevelRank, false, false, false, false)
	}
	if f.rfm {
		mark(RFMab, LevelRank, false, false, false, true)
		c[RFMab].End = RFMabEnd
		mark(RFMabEnd, LevelRank, false, false, false, false)
		if f.sameBankRefresh {
			mark(RFMsb, LevelRank, false, false, false, true)
			c[RFMsb].End = RFMsbEnd
			mark(RFMsbEnd, LevelRank, false, false, false, false)
		}
	}
	if f.drfm {
		mark(DRFMab, LevelRank, false, false, false, true)
		c[DRFMab].End = DRFMabEnd
		mark(DRFMabEnd, LevelRank, false, false, false, false)
		if f.sameBankRefresh {
			mark(DRFMsb, LevelRank, false, false, false, true)
			c[DRFMsb].End = DRFMsbEnd
			mark(DRFMsbEnd, LevelRank, false, false, false, false)
		}
	}
	if f.rrfmSameBank {
		mark(RRFMsb, LevelRank, false, false, false, true)
		c[RRFMsb].End = RRFMsbEnd
		mark(RRFMsbEnd, LevelRank, false, false, false, false)
	}

	mark(VRR, LevelBank, false, false, false, true)
	c[VRR].End = VRREnd
	mark(VRREnd, LevelBank, false, false, false, false)
	if f.drfm || f.rfm {
		mark(RVRR, LevelBank, false, false, false, true)
		c[RVRR].End = RVRREnd
		mark(RVRREnd, LevelBank, false, false, false, false)
	}

	return c
}

// addCommonTiming registers the constraint rows shared by every standard:
// activate/precharge/access spacing at bank level, the nRRD/nFAW activation
// cadence, nCCD column spacing, and the refresh-recovery gate on ACT.
func addCommonTiming(spec *Spec, t Timings) {
	tab := TimingTable{}

	tab.Add(LevelBank, spec.OpenCmd, Constraint{Following: RD, Latency: t.NRCD})
	tab.Add(LevelBank, spec.OpenCmd, Constraint{Following: WR, Latency: t.NRCD})
	tab.Add(LevelBank, spec.OpenCmd, Constraint{Following: PRE, Latency: t.NRAS})
	tab.Add(LevelBank, PRE, Constraint{Following: spec.OpenCmd, Latency: t.NRP})
	tab.Add(LevelBank, RD, Constraint{Following: PRE, Latency: t.NRTP})
	tab.Add(LevelBank, WR, Constraint{Following: PRE, Latency: t.NWR})

	// nRRD: activating one bank delays activation of every sibling bank.
	tab.Add(LevelBank, spec.OpenCmd, Constraint{Following: spec.OpenCmd, Latency: t.NRRD, Sibling: true})
	// nFAW: the 4th-most-recent activate anywhere in the rank gates the
	// next activate anywhere in the rank (self constraint at rank level,
	// since every bank's ACT path passes through its rank ancestor).
	tab.Add(LevelRank, spec.OpenCmd, Constraint{Following: spec.OpenCmd, Latency: t.NFAW, Window: 4})

	// column-to-column spacing: within the same bankgroup (or, absent
	// bankgroups, within the same bank's siblings) it's nCCDL; across
	// bankgroups it's nCCDS.
	if spec.Org.Has(LevelBankGroup) {
		tab.Add(LevelBank, RD, Constraint{Following: RD, Latency: t.NCCDL, Sibling: true})
		tab.Add(LevelBank, WR, Constraint{Following: WR, Latency: t.NCCDL, Sibling: true})
		tab.Add(LevelBankGroup, RD, Constraint{Following: RD, Latency: t.NCCDS, Sibling: true})
		tab.Add(LevelBankGroup, WR, Constraint{Following: WR, Latency: t.NCCDS, Sibling: true})
	} else {
		tab.Add(LevelBank, RD, Constraint{Following: RD, Latency: t.NCCDS, Sibling: true})
		tab.Add(LevelBank, WR, Constraint{Following: WR, Latency: t.NCCDS, Sibling: true})
	}

	// refresh-recovery: ACT can't proceed anywhere in the rank until nRFC
	// after an all-bank refresh, or nRFCsb after a same-bank refresh.
	tab.Add(LevelRank, REFab, Constraint{Following: spec.OpenCmd, Latency: t.NRFC})
	if spec.Commands[REFsb].Supported {
		tab.Add(LevelRank, REFsb, Constraint{Following: spec.OpenCmd, Latency: t.NRFCsb})
	}
	if spec.Commands[RFMab].Supported {
		tab.Add(LevelRank, RFMab, Constraint{Following: spec.OpenCmd, Latency: t.NRFC})
	}
	if spec.Commands[RFMsb].Supported {
		tab.Add(LevelRank, RFMsb, Constraint{Following: spec.OpenCmd, Latency: t.NRFCsb})
	}

	spec.Timing = tab
	spec.Timings = t
	spec.Timings.ReadLatency = t.NCL + t.NBL
}

// defaultTranslation maps the abstract request kinds of spec §3 onto this
// standard's final commands.
func defaultTranslation(spec *Spec) {
	spec.Translation = map[request.TypeID]CmdID{
		request.Read:  RD,
		request.Write: WR,
		request.RefreshAllBank: REFab,
		request.VictimRowRefresh: VRR,
		request.CloseRow: PRE,
		request.CloseAllBanks: PREA,
	}
	if spec.Commands[REFsb].Supported {
		spec.Translation[request.RefreshSameBank] = REFsb
	}
	if spec.Commands[RFMab].Supported {
		spec.Translation[request.RFMAllBank] = RFMab
	}
	if spec.Commands[RFMsb].Supported {
		spec.Translation[request.RFMSameBank] = RFMsb
	}
	if spec.Commands[DRFMab].Supported {
		spec.Translation[request.DirectedRFMAllBank] = DRFMab
	}
	if spec.Commands[DRFMsb].Supported {
		spec.Translation[request.DirectedRFMSameBank] = DRFMsb
	}
	if spec.Commands[RVRR].Supported {
		spec.Translation[request.ReducedVictimRowRefresh] = RVRR
	}
	spec.Translation[request.OpenRow] = spec.OpenCmd
}

// rankCount returns the per-standard rank fanout a preset constructor
// should use: ranks[0] if the caller supplied one, else the JEDEC-typical
// single rank. Presets take this as a trailing variadic argument so every
// existing single-rank call site keeps compiling unchanged.
func rankCount(ranks []int) int {
	if len(ranks) > 0 && ranks[0] > 0 {
		return ranks[0]
	}
	return 1
}

// buildSpec assembles a Spec from an organization, feature set and timing
// parameters. Every per-standard file (ddr3.go, ddr4.go, ...) is just a
// thin call into this.
func buildSpec(name string, org Organization, f features, t Timings) *Spec {
	spec := &Spec{Name: name, Org: org}

	if f.twoPhaseOpen {
		spec.OpenCmd = ACT1
	} else {
		spec.OpenCmd = ACT
	}

	spec.Commands = baseCommands(f)
	spec.Commands[REFab].Deferred = t.NRFC
	if spec.Commands[REFsb].Supported {
		spec.Commands[REFsb].Deferred = t.NRFCsb
	}
	if spec.Commands[RFMab].Supported {
		spec.Commands[RFMab].Deferred = t.NRFC
	}
	if spec.Commands[RFMsb].Supported {
		spec.Commands[RFMsb].Deferred = t.NRFCsb
	}
	if spec.Commands[DRFMab].Supported {
		spec.Commands[DRFMab].Deferred = t.NRFC
	}
	if spec.Commands[DRFMsb].Supported {
		spec.Commands[DRFMsb].Deferred = t.NRFCsb
	}
	if spec.Commands[RRFMsb].Supported {
		spec.Commands[RRFMsb].Deferred = t.NRFCsb
	}
	spec.Commands[VRR].Deferred = t.NRFCsb
	if spec.Commands[RVRR].Supported {
		spec.Commands[RVRR].Deferred = t.NRFCsb / 2
	}

	buildCommonPolicies(spec)
	addCommonTiming(spec, t)
	defaultTranslation(spec)

	return spec
}
