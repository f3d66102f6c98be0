package dram

// NewHBM2_8Gb_Stack builds an HBM2 preset: each rank models one die in the
// stack, split into 2 pseudo-channels, each with its own bank-group/bank
// hierarchy, per spec §3's note that pseudo-channel-organized standards
// still fit the generic Levels/Fanout shape. ranks overrides the rank count
// (default 1, i.e. one die).
func NewHBM2_8Gb_Stack(mtps int, ranks ...int) *Spec {
	org := Organization{
		Name:   "HBM2_8Gb_Stack",
		Levels: []Level{LevelChannel, LevelRank, LevelPseudoChannel, LevelBankGroup, LevelBank, LevelRow, LevelColumn},
		Fanout: map[Level]int{
			LevelRank:          rankCount(ranks),
			LevelPseudoChannel: 2,
			LevelBankGroup:     4,
			LevelBank:          4,
			LevelRow:           16384,
			LevelColumn:        1024,
		},
		DQ: 32,
	}
	org.DensityMb = ComputeDensityMb(org)

	f := features{
		bankGroup:     true,
		pseudoChannel: true,
	}

	t := Timings{
		MTps: mtps,
		NRCD: 14, NRP: 14, NRAS: 33, NCL: 14, NBL: 2,
		NREFI: 3900, NRFC: 160, NRFCsb: 160,
		NRRD: 4, NFAW: 16,
		NCCDS: 2, NCCDL: 3,
		NWR: 8, NRTP: 5,
	}

	return buildSpec(org.Name, org, f, t)
}
