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

// Package console is an optional raw-mode run control for a live
// simulation: pause/step/quit keys read from stdin without blocking the
// run loop. It is a cut-down version of the teacher's easyterm/colorterm
// packages, scoped to the one thing this CLI needs -- cbreak-mode
// single-key input -- rather than their full canonical/raw/cbreak and
// ANSI-cursor machinery.
package console

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
)

// Command is a run-control key the console has recognised.
type Command int

const (
	// Pause is sent for the pause key; the run loop toggles between paused
	// and running on each one.
	Pause Command = iota
	// Resume is never sent by this console: no key maps to it, and a
	// second Pause ends a pause.
	Resume
	// Step ticks the engine exactly one more cycle while paused.
	Step
	// Quit ends the run immediately.
	Quit
)

// key codes this console recognises, following the teacher's easyterm
// convention of naming non-alphanumeric ASCII codes rather than using rune
// literals for control characters.
const (
	keyQuit  = 'q'
	keyPause = 'p'
	keyStep  = 's'
)

// Console reads single keypresses from in without blocking the caller,
// translating the recognised subset into Commands on a channel.
type Console struct {
	in  *os.File
	out *os.File

	canonical syscall.Termios
	cbreak    syscall.Termios

	commands chan Command

	mu       sync.Mutex
	restored bool
}

// Open puts in into cbreak mode (one keypress at a time, no line buffering,
// no echo-on-enter) and starts a background reader that decodes
// recognised keys onto Commands(). Call Close to restore in's original
// mode.
func Open(in, out *os.File) (*Console, error) {
	if in == nil || out == nil {
		return nil, fmt.Errorf("console: input and output files are required")
	}

	c := &Console{in: in, out: out, commands: make(chan Command)}

	if err := termios.Tcgetattr(c.in.Fd(), &c.canonical); err != nil {
		return nil, fmt.Errorf("console: reading terminal attributes: %w", err)
	}
	c.cbreak = c.canonical
	termios.Cfmakecbreak(&c.cbreak)
	if err := termios.Tcsetattr(c.in.Fd(), termios.TCIFLUSH, &c.cbreak); err != nil {
		return nil, fmt.Errorf("console: entering cbreak mode: %w", err)
	}

	go c.readKeys()

	return c, nil
}

// Commands is the stream of recognised run-control keypresses. Unrecognised
// keys are silently dropped.
func (c *Console) Commands() <-chan Command {
	return c.commands
}

func (c *Console) readKeys() {
	r := bufio.NewReader(c.in)
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			close(c.commands)
			return
		}
		switch ch {
		case keyQuit:
			c.commands <- Quit
		case keyPause:
			c.commands <- Pause
		case keyStep:
			c.commands <- Step
		}
	}
}

// Close restores the terminal's original (canonical) mode. Safe to call
// more than once.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restored {
		return
	}
	termios.Tcsetattr(c.in.Fd(), termios.TCIFLUSH, &c.canonical)
	c.restored = true
}
