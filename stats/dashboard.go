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

package stats

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Dashboard wraps statsview's live runtime-stats HTTP server, gated behind
// a config flag (spec's finalize-time stats are always emitted; this is
// an additional, optional, always-headless-safe live view for an
// interactive run).
type Dashboard struct {
	v *statsview.Viewer
}

// NewDashboard builds a dashboard listening on addr (e.g. ":18066"), not
// yet started.
func NewDashboard(addr string) *Dashboard {
	return &Dashboard{v: statsview.New(viewer.WithAddr(addr))}
}

// Start runs the dashboard's HTTP server in the background. It returns
// immediately; the server keeps running until the process exits.
func (d *Dashboard) Start() {
	d.v.Start()
}

// Stop shuts the dashboard down.
func (d *Dashboard) Stop() {
	d.v.Stop()
}
