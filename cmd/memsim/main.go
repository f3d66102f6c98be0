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

// Command memsim loads a configuration document, opens a trace, runs the
// simulator to completion or a bound, and prints the finalize-time stats
// tree -- this module's single "run" mode, in place of the teacher's
// modalflag-driven dispatch across many run modes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/memsim/memsim/config"
	"github.com/memsim/memsim/internal/console"
	"github.com/memsim/memsim/logger"
	"github.com/memsim/memsim/stats"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration document (required)")
	tracePath := flag.String("trace", "", "path to the trace file (overrides Frontend.Trace in the document)")
	maxCycles := flag.Uint64("max-cycles", 0, "stop after this many memory cycles (0: run to trace completion)")
	interactive := flag.Bool("console", false, "enable raw-mode pause/step/quit run control on stdin")
	dashboard := flag.Bool("dashboard", false, "serve a live stats dashboard while running")
	dashboardAddr := flag.String("dashboard-addr", ":18066", "address for -dashboard's HTTP server")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "memsim: -config is required")
		os.Exit(2)
	}

	doc, err := config.Load(*configPath)
	config.Must(err)
	config.Must(config.ApplyOverrides(doc, flag.Args()))

	if *tracePath != "" {
		doc.Set("Frontend.Trace", *tracePath)
	}
	if *maxCycles > 0 {
		doc.Set("Run.MaxCycles", int(*maxCycles))
	}

	engine, infos := build(doc)

	var con *console.Console
	if *interactive {
		con, err = console.Open(os.Stdin, os.Stdout)
		config.Must(err)
		defer con.Close()
	}

	var dash *stats.Dashboard
	if *dashboard {
		dash = stats.NewDashboard(*dashboardAddr)
		dash.Start()
		defer dash.Stop()
	}

	bound := cycleBound(doc)
	reached := run(engine, con, bound)

	fmt.Fprintf(os.Stderr, "memsim: ran %d memory cycles, delivered %d trace requests\n", reached, engine.Delivered())

	for i, ch := range engine.Channels() {
		node := ch.Controller.Report(infos[i].impl, infos[i].id)
		stats.Emit(os.Stdout, node)
	}

	logger.Tail(os.Stderr, 20)
}

func cycleBound(doc *config.Document) uint64 {
	v, ok := doc.Get("Run.MaxCycles")
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	}
	return 0
}
