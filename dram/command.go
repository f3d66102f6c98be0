// This file is part of memsim.
//
// memsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// memsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with memsim.  If not, see <https://www.gnu.org/licenses/>.

// Package dram implements the hierarchical device tree and timing engine
// (spec §3, §4.1): a dense command table, a three-dimensional timing
// constraint table, and an arena-based tree of per-level nodes tracking
// state, command readiness and issue history, parameterized per DRAM
// standard (DDR3/4/5, LPDDR5, HBM2, GDDR6).
package dram

// CmdID is a dense index into the union of every command name used by any
// supported standard. A given Spec only supports a subset; unsupported
// entries in its Commands table are simply zero-valued and never issued.
type CmdID int

const (
	ACT CmdID = iota
	ACT1
	ACT2
	PRE
	PREA
	PREsb
	RD
	WR
	RDA
	WRA
	CASRD
	CASWR
	REFab
	REFabEnd
	REFsb
	REFsbEnd
	RFMab
	RFMabEnd
	RFMsb
	RFMsbEnd
	DRFMab
	DRFMabEnd
	DRFMsb
	DRFMsbEnd
	VRR
	VRREnd
	RVRR
	RVRREnd
	RRFMsb
	RRFMsbEnd

	NumCommands
)

var cmdNames = [NumCommands]string{
	ACT: "ACT", ACT1: "ACT-1", ACT2: "ACT-2",
	PRE: "PRE", PREA: "PREA", PREsb: "PREsb",
	RD: "RD", WR: "WR", RDA: "RDA", WRA: "WRA",
	CASRD: "CASRD", CASWR: "CASWR",
	REFab: "REFab", REFabEnd: "REFab_end",
	REFsb: "REFsb", REFsbEnd: "REFsb_end",
	RFMab: "RFMab", RFMabEnd: "RFMab_end",
	RFMsb: "RFMsb", RFMsbEnd: "RFMsb_end",
	DRFMab: "DRFMab", DRFMabEnd: "DRFMab_end",
	DRFMsb: "DRFMsb", DRFMsbEnd: "DRFMsb_end",
	VRR: "VRR", VRREnd: "VRR_end",
	RVRR: "RVRR", RVRREnd: "RVRR_end",
	RRFMsb: "RRFMsb", RRFMsbEnd: "RRFMsb_end",
}

// String returns the JEDEC-ish mnemonic for cmd.
func (cmd CmdID) String() string {
	if cmd < 0 || cmd >= NumCommands {
		return "?"
	}
	return cmdNames[cmd]
}

// CommandDef is a single row of the command table (spec §3): scope level,
// meta flags, and whether the command has a deferred (two-cycle) effect
// that must be scheduled as a future action rather than applied
// immediately on issue.
type CommandDef struct {
	Supported bool
	Scope     Level

	IsOpening   bool
	IsClosing   bool
	IsAccessing bool
	IsRefreshing bool

	// Deferred, when non-zero, is the number of cycles after issue at
	// which the command's matching *End action fires (DDR5-family
	// REFab/REFsb/RFMab/RFMsb/DRFMab/DRFMsb/VRR/RVRR/RRFMsb).
	Deferred uint64

	// End, when set, is the CmdID whose action undoes this command's
	// state effect once Deferred cycles have elapsed.
	End CmdID
}
