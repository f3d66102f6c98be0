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

package sim_test

import (
	"strings"
	"testing"

	"github.com/memsim/memsim/addrmap"
	"github.com/memsim/memsim/clock"
	"github.com/memsim/memsim/controller"
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/frontend"
	"github.com/memsim/memsim/internal/test"
	"github.com/memsim/memsim/sim"
)

func newSingleChannelEngine(t *testing.T, traceText string) (*sim.Engine, *sim.Channel) {
	t.Helper()

	spec := dram.NewDDR4_8Gb_x8(1600)
	device := dram.NewDevice(spec)
	mapper := addrmap.NewLinearMapper(spec.Org)
	c := controller.NewController(device, 8, 8, 8, 8, 2, 6,
		controller.NewDefaultScheduler(), nil, controller.NewOpenRowPolicy(), nil)

	ch := &sim.Channel{Device: device, Controller: c}
	tr := frontend.NewTrace(strings.NewReader(traceText), mapper)
	engine := sim.NewEngine(tr, []*sim.Channel{ch}, clock.Ratio{FrontendPerMemory: 2}, spec.Org)
	return engine, ch
}

func TestEngineDeliversTraceAndDrains(t *testing.T) {
	engine, ch := newSingleChannelEngine(t, "LD 0x100\nST 0x200\n")

	engine.Run(10000)

	test.Equate(t, engine.Delivered(), 2)
	test.Equate(t, ch.Controller.Stats().ReadsCompleted, uint64(1))
	test.Equate(t, ch.Controller.Stats().WritesCompleted, uint64(1))
	test.ExpectedSuccess(t, !ch.Controller.Pending())
}

func TestEngineRespectsCycleBound(t *testing.T) {
	engine, _ := newSingleChannelEngine(t, "LD 0x100\n")

	reached := engine.Run(5)
	test.Equate(t, reached, uint64(5))
}
