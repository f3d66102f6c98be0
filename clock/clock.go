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

// Package clock defines the two-clock-domain relationship between the
// frontend clock (request generation) and the memory clock (DRAM ticks),
// and the integer ratio by which they are lock-stepped. This mirrors the
// fixed ratio between the VCS's CPU clock and its TIA colour clock in the
// teacher's hardware/clocks package, generalised to a configurable ratio
// instead of a small set of TV-standard constants.
package clock

// Ratio describes how many memory-clock ticks occur per frontend-clock
// tick. It must be a positive integer: the frontend clock is always the
// slower (or equal) of the two domains.
type Ratio struct {
	FrontendPerMemory int
}

// DefaultRatio matches a typical core:DRAM clock relationship where the
// memory controller is ticked once per memory cycle and the frontend is
// ticked once every few memory cycles.
var DefaultRatio = Ratio{FrontendPerMemory: 4}

// Domain drives the deterministic interleave of frontend and memory ticks.
// Its Step method returns true on cycles where the frontend clock should
// also advance, alongside the memory clock which advances every Step.
type Domain struct {
	ratio Ratio
	clk   uint64
}

// NewDomain creates a Domain for the given ratio. A zero-value Ratio
// defaults to DefaultRatio.
func NewDomain(r Ratio) *Domain {
	if r.FrontendPerMemory <= 0 {
		r = DefaultRatio
	}
	return &Domain{ratio: r}
}

// Step advances the memory clock by one and reports whether this memory
// cycle also carries a frontend tick.
func (d *Domain) Step() (memoryClk uint64, frontendTick bool) {
	d.clk++
	frontendTick = d.clk%uint64(d.ratio.FrontendPerMemory) == 0
	return d.clk, frontendTick
}

// Clk returns the current memory-clock cycle without advancing it.
func (d *Domain) Clk() uint64 {
	return d.clk
}
