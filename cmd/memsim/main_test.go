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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/memsim/memsim/config"
	"github.com/memsim/memsim/internal/test"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// TestBuildAndRunEndToEnd exercises the full wiring path -- config document
// through build() to a running sim.Engine -- the way gopher2600_test.go's
// BenchmarkCPU builds a whole VCS from a ROM and steps it, rather than
// testing any one layer in isolation.
func TestBuildAndRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	tracePath := writeFile(t, dir, "trace.txt", "LD 0x100\nST 0x200\nLD 0x300\n")
	configPath := writeFile(t, dir, "config.yaml", `
DRAM:
  impl: DDR4_8Gb_x8
  MTps: 1600
AddrMapper:
  impl: Linear
DRAMController:
  impl: Generic
  ReadCap: 32
  WriteCap: 32
  PriorityCap: 16
  ActiveCap: 16
  WriteLow: 8
  WriteHigh: 24
  Scheduler: Default
Frontend:
  Trace: `+tracePath+`
`)

	doc, err := config.Load(configPath)
	test.ExpectedSuccess(t, err == nil)

	engine, infos := build(doc)
	test.Equate(t, len(infos), 1)

	reached := run(engine, nil, 100000)
	test.ExpectedSuccess(t, reached > 0)
	test.Equate(t, engine.Delivered(), 3)

	ch := engine.Channels()[0]
	test.Equate(t, ch.Controller.Stats().ReadsCompleted, uint64(2))
	test.Equate(t, ch.Controller.Stats().WritesCompleted, uint64(1))
}

func TestBuildAppliesControllerPlugins(t *testing.T) {
	dir := t.TempDir()
	tracePath := writeFile(t, dir, "trace.txt", "LD 0x10\n")
	configPath := writeFile(t, dir, "config.yaml", `
DRAM:
  impl: DDR4_8Gb_x8
  MTps: 1600
AddrMapper:
  impl: Linear
DRAMController:
  impl: Generic
ControllerPlugins:
  counter:
    impl: CommandCounter
Frontend:
  Trace: `+tracePath+`
`)

	doc, err := config.Load(configPath)
	test.ExpectedSuccess(t, err == nil)

	engine, _ := build(doc)
	run(engine, nil, 10000)

	test.Equate(t, engine.Delivered(), 1)
}
