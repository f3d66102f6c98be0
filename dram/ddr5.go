package dram

// NewDDR5_16Gb_x8 builds a DDR5 preset: 8 bank groups of 4 banks, same-bank
// refresh (REFsb) and RFM/RFMsb wired up, per spec §8's RowHammer scenarios
// that target DDR5-class refresh-management commands. ranks overrides the
// rank count (default 1); spec §8 scenario 5's multi-rank PRAC recovery
// needs more than one.
func NewDDR5_16Gb_x8(mtps int, ranks ...int) *Spec {
	org := Organization{
		Name:   "DDR5_16Gb_x8",
		Levels: []Level{LevelChannel, LevelRank, LevelBankGroup, LevelBank, LevelRow, LevelColumn},
		Fanout: map[Level]int{
			LevelRank:      rankCount(ranks),
			LevelBankGroup: 8,
			LevelBank:      4,
			LevelRow:       131072,
			LevelColumn:    1024,
		},
		DQ: 8,
	}
	org.DensityMb = ComputeDensityMb(org)

	f := features{
		bankGroup:       true,
		rfm:             true,
		sameBankRefresh: true,
	}

	t := Timings{
		MTps: mtps,
		NRCD: 28, NRP: 28, NRAS: 52, NCL: 28, NBL: 4,
		NREFI: 6400, NRFC: 410, NRFCsb: 130,
		NRRD: 6, NFAW: 32,
		NCCDS: 6, NCCDL: 10,
		NWR: 24, NRTP: 12,
	}

	return buildSpec(org.Name, org, f, t)
}
