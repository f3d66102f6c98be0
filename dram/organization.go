package dram

import (
	"fmt"

	"github.com/memsim/memsim/errors"
)

// Level is a position in the device hierarchy. Row and Column are
// addressing-only levels: they never get a tree Node (rows are tracked by
// the owning bank's RowState map; columns aren't tracked at all), but they
// still occupy a slot in Organization.Levels and in a request's address
// vector.
type Level int

const (
	LevelChannel Level = iota
	LevelRank
	LevelBankGroup
	LevelPseudoChannel
	LevelBank
	LevelRow
	LevelColumn

	numLevelKinds
)

var levelNames = [numLevelKinds]string{
	LevelChannel: "channel", LevelRank: "rank", LevelBankGroup: "bankgroup",
	LevelPseudoChannel: "pseudochannel", LevelBank: "bank", LevelRow: "row",
	LevelColumn: "column",
}

func (l Level) String() string {
	if l < 0 || l >= numLevelKinds {
		return "?"
	}
	return levelNames[l]
}

// IsStructural reports whether l gets a tree Node (channel..bank); row and
// column are addressing-only.
func (l Level) IsStructural() bool {
	return l <= LevelBank
}

// Organization is the ordered hierarchy plus per-level fanout (spec §3).
// Levels always starts at LevelChannel and ends at LevelColumn; BankGroup
// and PseudoChannel may be omitted by a standard that doesn't use them.
type Organization struct {
	Name      string
	Levels    []Level
	Fanout    map[Level]int // children-per-parent at each level
	DensityMb int           // stated per-device density, in Mb
	DQ        int           // data bus width
}

// Pos returns the index of lvl within o.Levels, or -1 if the organization
// doesn't include that level.
func (o Organization) Pos(lvl Level) int {
	for i, l := range o.Levels {
		if l == lvl {
			return i
		}
	}
	return -1
}

// Has reports whether the organization includes lvl.
func (o Organization) Has(lvl Level) bool {
	return o.Pos(lvl) >= 0
}

// AddrVecLen is the length an address vector must have to index this
// organization, one slot per level.
func (o Organization) AddrVecLen() int {
	return len(o.Levels)
}

// ComputeDensityMb computes the chip-density invariant of spec §3: the
// product of per-level counts below rank, times DQ, converted to megabits.
func ComputeDensityMb(o Organization) int {
	computed := o.DQ
	below := false
	for _, lvl := range o.Levels {
		if lvl == LevelRank {
			below = true
			continue
		}
		if !below {
			continue
		}
		if n, ok := o.Fanout[lvl]; ok && n > 0 {
			computed *= n
		}
	}
	return computed / (1 << 20)
}

// CheckDensity enforces the chip-density invariant of spec §3.
func (o Organization) CheckDensity() error {
	mb := ComputeDensityMb(o)
	if mb != o.DensityMb {
		return errors.Errorf(errors.DensityMismatch, o.DensityMb, mb)
	}
	return nil
}

func (o Organization) String() string {
	return fmt.Sprintf("%s (%dMb x%d)", o.Name, o.DensityMb, o.DQ)
}
