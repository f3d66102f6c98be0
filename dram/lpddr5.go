package dram

// NewLPDDR5_12Gb_x16 builds an LPDDR5 preset: bank-group organization, the
// two-phase ACT1/ACT2 activate split, and both RFM and DRFM same-bank
// refresh variants, matching spec §8's LPDDR5 RowHammer scenario. ranks
// overrides the rank count (default 1).
func NewLPDDR5_12Gb_x16(mtps int, ranks ...int) *Spec {
	org := Organization{
		Name:   "LPDDR5_12Gb_x16",
		Levels: []Level{LevelChannel, LevelRank, LevelBankGroup, LevelBank, LevelRow, LevelColumn},
		Fanout: map[Level]int{
			LevelRank:      rankCount(ranks),
			LevelBankGroup: 4,
			LevelBank:      4,
			LevelRow:       98304,
			LevelColumn:    1024,
		},
		DQ: 16,
	}
	org.DensityMb = ComputeDensityMb(org)

	f := features{
		bankGroup:       true,
		twoPhaseOpen:    true,
		rfm:             true,
		drfm:            true,
		sameBankRefresh: true,
	}

	t := Timings{
		MTps: mtps,
		NRCD: 18, NRP: 18, NRAS: 42, NCL: 17, NBL: 4,
		NREFI: 3900, NRFC: 140, NRFCsb: 60,
		NRRD: 4, NFAW: 16,
		NCCDS: 4, NCCDL: 8,
		NWR: 14, NRTP: 8,
	}

	return buildSpec(org.Name, org, f, t)
}
