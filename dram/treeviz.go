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

package dram

import (
	"io"

	"github.com/memsim/memsim/internal/treeviz"
)

// DumpTree writes the device's node arena as a graphviz .dot graph to w,
// for visualizing the channel/rank/[bankgroup/][pseudochannel/]bank
// hierarchy while debugging an address-mapper or prerequisite-chain
// issue.
func (d *Device) DumpTree(w io.Writer) {
	treeviz.Dump(w, d.Nodes)
}
