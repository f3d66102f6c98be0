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

// Package logger is a tiny ring-buffer logger for observations that should
// not interrupt the simulation loop: a plugin injecting a maintenance
// command, a refresh firing, a row-policy eviction. Runtime invariant
// violations never go through here; they go through errors and panic.
package logger

import (
	"fmt"
	"io"
	"sync"
)

const capacity = 4096

type entry struct {
	tag     string
	message string
}

var (
	mu      sync.Mutex
	entries []entry
)

// Log appends a formatted line to the ring, evicting the oldest entry once
// capacity is reached.
func Log(tag, message string) {
	mu.Lock()
	defer mu.Unlock()

	entries = append(entries, entry{tag: tag, message: message})
	if len(entries) > capacity {
		entries = entries[len(entries)-capacity:]
	}
}

// Logf is Log with fmt.Sprintf-style formatting of message.
func Logf(tag, format string, args ...interface{}) {
	Log(tag, fmt.Sprintf(format, args...))
}

// Write dumps every entry currently in the ring to w, oldest first.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	for _, e := range entries {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.message)
	}
}

// Tail dumps the last n entries, or fewer if the ring doesn't hold n yet.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()

	if n > len(entries) {
		n = len(entries)
	}
	for _, e := range entries[len(entries)-n:] {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.message)
	}
}

// Clear empties the ring. Intended for tests.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}
