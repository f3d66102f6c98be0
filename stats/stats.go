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

// Package stats implements the finalize-time stats emission of spec §6:
// every component recursively contributes a nested map of
// {ifce, impl, id, <stat_key>: <value>, ...} followed by its children's
// maps.
package stats

import (
	"fmt"
	"io"
	"sort"
)

// Node is one component's contribution to the stats tree: its interface
// role, implementation name, instance id, a flat set of named values, and
// any children (e.g. a controller's node carries its device's, in turn
// carrying its ranks').
type Node struct {
	Ifce   string
	Impl   string
	ID     string
	Values map[string]interface{}

	Children []*Node
}

// New builds a Node with an empty value set.
func New(ifce, impl, id string) *Node {
	return &Node{Ifce: ifce, Impl: impl, ID: id, Values: map[string]interface{}{}}
}

// Set records key/value under n, returning n for chaining.
func (n *Node) Set(key string, value interface{}) *Node {
	n.Values[key] = value
	return n
}

// Add appends child to n's children, returning n for chaining.
func (n *Node) Add(child *Node) *Node {
	if child != nil {
		n.Children = append(n.Children, child)
	}
	return n
}

// Reporter is implemented by any component that contributes a Node at
// finalize.
type Reporter interface {
	Report() *Node
}

// Emit writes root's nested map to w, depth-first, one map per line (spec
// §6's "recursively prints a nested map ... followed by its children's
// maps").
func Emit(w io.Writer, root *Node) {
	emit(w, root, 0)
}

func emit(w io.Writer, n *Node, depth int) {
	if n == nil {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s{ifce: %s, impl: %s, id: %s", indent, n.Ifce, n.Impl, n.ID)

	keys := make([]string, 0, len(n.Values))
	for k := range n.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, ", %s: %v", k, n.Values[k])
	}
	fmt.Fprint(w, "}\n")

	for _, child := range n.Children {
		emit(w, child, depth+1)
	}
}
