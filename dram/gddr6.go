package dram

// NewGDDR6_16Gb_x16 builds a GDDR6 preset: bank-group organization at a much
// higher data rate than the DDR4/DDR5 DIMM presets, narrower column counts
// per the wide per-chip DQ typical of graphics memory. ranks overrides the
// rank count (default 1).
func NewGDDR6_16Gb_x16(mtps int, ranks ...int) *Spec {
	org := Organization{
		Name:   "GDDR6_16Gb_x16",
		Levels: []Level{LevelChannel, LevelRank, LevelBankGroup, LevelBank, LevelRow, LevelColumn},
		Fanout: map[Level]int{
			LevelRank:      rankCount(ranks),
			LevelBankGroup: 4,
			LevelBank:      4,
			LevelRow:       32768,
			LevelColumn:    512,
		},
		DQ: 16,
	}
	org.DensityMb = ComputeDensityMb(org)

	f := features{
		bankGroup: true,
	}

	t := Timings{
		MTps: mtps,
		NRCD: 20, NRP: 20, NRAS: 46, NCL: 20, NBL: 2,
		NREFI: 7800, NRFC: 330, NRFCsb: 330,
		NRRD: 6, NFAW: 24,
		NCCDS: 2, NCCDL: 4,
		NWR: 16, NRTP: 10,
	}

	return buildSpec(org.Name, org, f, t)
}
