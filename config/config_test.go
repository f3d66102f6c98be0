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

package config_test

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

func TestLoadSimpleDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "base.yaml", "DRAM:\n  impl: DDR4_8Gb_x8\n  MTps: 2133\n")

	doc, err := config.Load(path)
	test.ExpectedSuccess(t, err == nil)
	if err != nil {
		t.Fatal(err)
	}

	v, ok := doc.Get("DRAM.impl")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, v, "DDR4_8Gb_x8")
}

func TestIncludeComposesAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "DRAMController:\n  impl: Generic\n  WriteHigh: 48\n  ReadCap: 64\n")
	childPath := writeFile(t, dir, "child.yaml",
		"!include: base.yaml\nDRAMController:\n  WriteHigh: 32\n")

	doc, err := config.Load(childPath)
	if err != nil {
		t.Fatal(err)
	}

	// the included file's ReadCap survives...
	v, ok := doc.Get("DRAMController.ReadCap")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, v, 64)

	// ...but the including file's WriteHigh wins.
	v, ok = doc.Get("DRAMController.WriteHigh")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, v, 32)
}

func TestApplyOverrides(t *testing.T) {
	doc := &config.Document{Root: map[string]interface{}{}}
	err := config.ApplyOverrides(doc, []string{
		"DRAMController.WriteHigh=64",
		"DRAMController.Scheduler=BLISS",
		"ControllerPlugin.Enabled=true",
	})
	test.ExpectedSuccess(t, err == nil)

	v, _ := doc.Get("DRAMController.WriteHigh")
	test.Equate(t, v, 64)

	v, _ = doc.Get("DRAMController.Scheduler")
	test.Equate(t, v, "BLISS")

	v, _ = doc.Get("ControllerPlugin.Enabled")
	test.Equate(t, v, true)
}

func TestApplyOverridesRejectsMalformed(t *testing.T) {
	doc := &config.Document{Root: map[string]interface{}{}}
	err := config.ApplyOverrides(doc, []string{"no-equals-sign-here"})
	test.ExpectedFailure(t, err == nil)
}

func TestSchedulerRegistryBuildsEachVariant(t *testing.T) {
	for _, name := range []string{"Default", "BH", "BLISS", "Blocking", "PRAC"} {
		if _, err := config.Schedulers.Build(name, config.Params{}); err != nil {
			t.Errorf("building scheduler %q: %v", name, err)
		}
	}
}

func TestSchedulerRegistryUnknownName(t *testing.T) {
	_, err := config.Schedulers.Build("NotARealScheduler", config.Params{})
	test.ExpectedFailure(t, err == nil)
}

func TestBuildStandardUnknownPreset(t *testing.T) {
	_, err := config.BuildStandard("NotAPreset", 2133)
	test.ExpectedFailure(t, err == nil)
}

func TestRefreshManagerMissingParameter(t *testing.T) {
	_, err := config.RefreshManagers.Build("AllBank", config.Params{})
	test.ExpectedFailure(t, err == nil)
}

func TestRowPolicyRegistryBuildsClosed(t *testing.T) {
	rp, err := config.RowPolicies.Build("Closed", config.Params{"Cap": 8})
	test.ExpectedSuccess(t, err == nil)
	if rp == nil {
		t.Fatal("expected a non-nil row policy")
	}
}
