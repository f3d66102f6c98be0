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

package stats_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/memsim/memsim/internal/test"
	"github.com/memsim/memsim/stats"
)

func TestEmitWritesParentBeforeChildren(t *testing.T) {
	root := stats.New("DRAMController", "Generic", "0").Set("reads_completed", uint64(3))
	child := stats.New("Scheduler", "BLISS", "0").Set("selections", 7)
	root.Add(child)

	var buf bytes.Buffer
	stats.Emit(&buf, root)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	test.Equate(t, len(lines), 2)

	test.ExpectedSuccess(t, strings.Contains(lines[0], "ifce: DRAMController"))
	test.ExpectedSuccess(t, strings.Contains(lines[0], "reads_completed: 3"))
	test.ExpectedSuccess(t, strings.Contains(lines[1], "ifce: Scheduler"))
	test.ExpectedSuccess(t, strings.HasPrefix(lines[1], "  "))
}

func TestEmitSortsValueKeys(t *testing.T) {
	root := stats.New("X", "Y", "0")
	root.Set("zeta", 1)
	root.Set("alpha", 2)

	var buf bytes.Buffer
	stats.Emit(&buf, root)

	out := buf.String()
	test.ExpectedSuccess(t, strings.Index(out, "alpha") < strings.Index(out, "zeta"))
}
