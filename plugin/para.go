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

package plugin

import (
	"math/rand"

	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/request"
)

// PARA samples a uniform draw on every activate and, with probability
// Threshold, injects a victim-row-refresh for the same bank (spec §4.7.2).
// Seeded for reproducibility.
type PARA struct {
	Threshold float64
	rng       *rand.Rand
}

// NewPARA builds a PARA plugin with the given injection probability and
// RNG seed.
func NewPARA(threshold float64, seed int64) *PARA {
	return &PARA{Threshold: threshold, rng: rand.New(rand.NewSource(seed))}
}

func (p *PARA) Update(found bool, req *request.Request, ctx Context) {
	if !found || !IsActivate(ctx.Cmd) {
		return
	}
	if p.rng.Float64() < p.Threshold {
		victim := NewVictimRefresh(ctx.BankKey, ctx.Row)
		if !ctx.Sender.PrioritySend(victim) {
			panic(errors.Errorf(errors.PluginInjectFailed, "PARA"))
		}
	}
}
