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
	"fmt"
	"os"

	"github.com/memsim/memsim/internal/console"
	"github.com/memsim/memsim/sim"
)

// run steps engine to completion, honoring maxCycles (0: unbounded) and, if
// con is non-nil, pause/step/quit keys read from the console. Without a
// console this is just engine.Run; with one, stepping happens one cycle at
// a time so a pause can take effect between cycles. Pause toggles: the
// same key resumes a paused run.
func run(engine *sim.Engine, con *console.Console, maxCycles uint64) uint64 {
	if con == nil {
		return engine.Run(maxCycles)
	}

	paused, alive := false, true
	for {
		if alive {
			quit, closed := drainConsole(con, &paused)
			if quit {
				return engine.Clk()
			}
			alive = !closed
		}

		if paused && alive {
			cmd, ok := <-con.Commands()
			if !ok {
				alive, paused = false, false
				continue
			}
			switch cmd {
			case console.Quit:
				return engine.Clk()
			case console.Pause:
				paused = false
				continue
			case console.Step:
				if maxCycles > 0 && engine.Clk() >= maxCycles {
					return engine.Clk()
				}
				if !engine.Step() && drained(engine) {
					return engine.Clk()
				}
			}
			continue
		}

		if maxCycles > 0 && engine.Clk() >= maxCycles {
			return engine.Clk()
		}
		if !engine.Step() && drained(engine) {
			return engine.Clk()
		}
	}
}

// drainConsole processes any console commands waiting without blocking,
// toggling *paused on a Pause keypress. It reports (quit, closed): quit if
// the user pressed the quit key, closed if the console's command stream has
// ended (its reader hit EOF or an error) and should no longer be consulted.
func drainConsole(con *console.Console, paused *bool) (quit, closed bool) {
	for {
		select {
		case cmd, ok := <-con.Commands():
			if !ok {
				return false, true
			}
			switch cmd {
			case console.Quit:
				return true, false
			case console.Pause:
				*paused = !*paused
				if *paused {
					fmt.Fprintln(os.Stderr, "memsim: paused (p to resume, s to step, q to quit)")
				}
			}
		default:
			return false, false
		}
	}
}

func drained(engine *sim.Engine) bool {
	for _, ch := range engine.Channels() {
		if ch.Controller.Pending() {
			return false
		}
	}
	return true
}
