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

package dram_test

import (
	"bytes"
	"testing"

	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/internal/test"
)

func TestDumpTreeWritesNonEmptyGraph(t *testing.T) {
	device := dram.NewDevice(dram.NewDDR4_8Gb_x8(2133))

	var buf bytes.Buffer
	device.DumpTree(&buf)

	test.ExpectedSuccess(t, buf.Len() > 0)
}
