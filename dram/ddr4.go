package dram

// NewDDR4_8Gb_x8 builds the DDR4_8Gb_x8 preset used in spec §8 scenario 1
// and 2 (run at a 2133 MT/s data rate): 1 rank by default, 4 bank groups of
// 4 banks, 65536 rows, 1024 columns, x8 DQ. ranks overrides the rank count
// (default 1); spec §8 scenario 5's multi-rank PRAC recovery needs more
// than one.
func NewDDR4_8Gb_x8(mtps int, ranks ...int) *Spec {
	org := Organization{
		Name:   "DDR4_8Gb_x8",
		Levels: []Level{LevelChannel, LevelRank, LevelBankGroup, LevelBank, LevelRow, LevelColumn},
		Fanout: map[Level]int{
			LevelRank:      rankCount(ranks),
			LevelBankGroup: 4,
			LevelBank:      4,
			LevelRow:       65536,
			LevelColumn:    1024,
		},
		DQ: 8,
	}
	org.DensityMb = ComputeDensityMb(org)

	f := features{
		bankGroup: true,
	}

	t := Timings{
		MTps: mtps,
		NRCD: 15, NRP: 15, NRAS: 35, NCL: 15, NBL: 4,
		NREFI: 8320, NRFC: 373, NRFCsb: 373,
		NRRD: 4, NFAW: 20,
		NCCDS: 4, NCCDL: 5,
		NWR: 12, NRTP: 8,
	}

	return buildSpec(org.Name, org, f, t)
}
