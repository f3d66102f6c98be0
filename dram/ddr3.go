package dram

// NewDDR3_8Gb_x8 builds a DDR3 preset with no bank-group level (DDR3's 8
// banks hang directly off the rank) and none of the RowHammer-era refresh
// variants (RFM/DRFM/same-bank refresh) that first appeared with DDR4-VRR
// and DDR5. ranks overrides the rank count (default 1); spec §8 scenario 5's
// multi-rank PRAC recovery needs more than one.
func NewDDR3_8Gb_x8(mtps int, ranks ...int) *Spec {
	org := Organization{
		Name:   "DDR3_8Gb_x8",
		Levels: []Level{LevelChannel, LevelRank, LevelBank, LevelRow, LevelColumn},
		Fanout: map[Level]int{
			LevelRank:   rankCount(ranks),
			LevelBank:   8,
			LevelRow:    65536,
			LevelColumn: 1024,
		},
		DQ: 8,
	}
	org.DensityMb = ComputeDensityMb(org)

	f := features{}

	t := Timings{
		MTps: mtps,
		NRCD: 11, NRP: 11, NRAS: 28, NCL: 11, NBL: 4,
		NREFI: 6240, NRFC: 280, NRFCsb: 280,
		NRRD: 5, NFAW: 20,
		NCCDS: 4, NCCDL: 4,
		NWR: 10, NRTP: 6,
	}

	return buildSpec(org.Name, org, f, t)
}
