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

// Package treeviz is the project's single chokepoint for ad-hoc
// object-graph visualization during debugging, wrapping
// bradleyjkemp/memviz the same way it's used to dump a parsed command
// tree in the upstream test suite this is grounded on.
package treeviz

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// Dump writes v's object graph as a graphviz .dot document to w.
func Dump(w io.Writer, v interface{}) {
	memviz.Map(w, v)
}
