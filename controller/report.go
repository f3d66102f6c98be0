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

package controller

import "github.com/memsim/memsim/stats"

// Report builds this controller's contribution to the finalize-time
// stats tree (spec §6): id identifies this controller instance among its
// siblings (e.g. a channel index), impl names the concrete DRAMController
// role config resolved ("Generic" in this implementation). Unlike
// stats.Reporter, a controller needs its id supplied externally by sim
// wiring rather than knowing it innately.
func (c *Controller) Report(impl, id string) *stats.Node {
	n := stats.New("DRAMController", impl, id)
	n.Set("reads_completed", c.stats.ReadsCompleted)
	n.Set("writes_completed", c.stats.WritesCompleted)
	n.Set("read_queue_len", c.read.Len())
	n.Set("write_queue_len", c.write.Len())
	n.Set("priority_queue_len", c.priority.Len())
	n.Set("active_queue_len", c.active.Len())
	n.Set("write_mode", c.isWriteMode)
	return n
}
