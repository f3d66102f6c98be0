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

package errors

// configuration errors: raised during initialisation, always fatal.
const (
	UnknownPreset           = "config error: unknown preset (%v)"
	MissingParameter        = "config error: missing required parameter (%v)"
	DensityMismatch         = "config error: organization density mismatch: wanted %v Mb, computed %v Mb"
	InterfaceNotRegistered  = "config error: no implementation registered for interface %v (impl %v)"
	TypeCoerceFailure       = "config error: cannot coerce parameter %v to %v"
	IncludeFileError        = "config error: cannot process !include %v: %v"
	CommandLineOverrideBad  = "config error: malformed command-line override %v"
	MissingTimingConstraint = "config error: no timing table registered for standard %v"
	MalformedTraceLine      = "config error: malformed trace line %q"
)

// runtime invariant violations: indicate a modeling bug, not a simulated
// event. Always fatal, never caught.
const (
	PriorityBufferFull    = "invariant violation: priority buffer rejected an injected request"
	UnexpectedCommand     = "invariant violation: command %v has no scope/prerequisite handler at level %v"
	InvalidAddressIndex   = "invariant violation: address vector index %v out of range at level %v"
	ActiveBufferCollision = "invariant violation: active buffer already holds an in-flight activation for %v"
	PluginInjectFailed    = "invariant violation: plugin %v failed to inject a priority request"
	UnknownNodeState      = "invariant violation: node at level %v entered unknown state %v"
	BankStateRowMismatch  = "invariant violation: bank state/row_state disagree for %v"
	UnknownTranslation    = "invariant violation: no command translation registered for request type %v"
)
