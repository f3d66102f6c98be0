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
	"sort"

	"github.com/memsim/memsim/addrmap"
	"github.com/memsim/memsim/clock"
	"github.com/memsim/memsim/config"
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/frontend"
	"github.com/memsim/memsim/plugin"
	"github.com/memsim/memsim/sim"
)

// build resolves doc into a ready-to-run Engine and the per-channel
// (implementation name, id) pairs needed for stats reporting.
func build(doc *config.Document) (*sim.Engine, []channelInfo) {
	dramParams, err := doc.Section("DRAM")
	config.Must(err)
	dramImpl, err := dramParams.String("impl", "")
	config.Must(err)
	if dramImpl == "" {
		config.Must(errors.Errorf(errors.MissingParameter, "DRAM.impl"))
	}
	mtps, err := dramParams.Int("MTps", 1600)
	config.Must(err)
	ranks, err := dramParams.Int("Ranks", 1)
	config.Must(err)
	spec, err := config.BuildStandard(dramImpl, mtps, ranks)
	config.Must(err)

	addrMapperParams, err := doc.Section("AddrMapper")
	config.Must(err)
	addrMapperImpl, err := addrMapperParams.String("impl", "Linear")
	config.Must(err)

	controllerParams, err := doc.Section("DRAMController")
	config.Must(err)
	controllerImpl, err := controllerParams.String("impl", "Generic")
	config.Must(err)

	numChannels, err := config.Params(doc.Root).Int("Channels", 1)
	config.Must(err)
	if numChannels < 1 {
		numChannels = 1
	}

	channels := make([]*sim.Channel, 0, numChannels)
	infos := make([]channelInfo, 0, numChannels)
	var mapper addrmap.Mapper

	for i := 0; i < numChannels; i++ {
		device := dram.NewDevice(spec)

		m, err := config.BuildAddrMapper(addrMapperImpl, spec.Org, addrMapperParams)
		config.Must(err)
		if i == 0 {
			mapper = m
		}

		plugins := buildPlugins(doc, m)
		ctrl, err := config.BuildDRAMController(controllerImpl, device, plugins, controllerParams)
		config.Must(err)

		channels = append(channels, &sim.Channel{Device: device, Controller: ctrl})
		infos = append(infos, channelInfo{impl: controllerImpl, id: fmt.Sprintf("%d", i)})
	}

	tracePath, ok := doc.Get("Frontend.Trace")
	if !ok {
		config.Must(errors.Errorf(errors.MissingParameter, "Frontend.Trace"))
	}
	tracePathStr, ok := tracePath.(string)
	if !ok {
		config.Must(errors.Errorf(errors.TypeCoerceFailure, "Frontend.Trace", "string"))
	}

	f, err := os.Open(tracePathStr)
	if err != nil {
		config.Must(fmt.Errorf("opening trace %s: %w", tracePathStr, err))
	}

	ratio := frontendRatio(doc)
	trace := frontend.NewTrace(f, mapper)
	engine := sim.NewEngine(trace, channels, ratio, spec.Org)

	return engine, infos
}

type channelInfo struct {
	impl string
	id   string
}

// buildPlugins resolves the ControllerPlugins section into a plugin.Chain,
// in the order named by PluginOrder (or, absent that, sorted by name for a
// deterministic default) -- plugin ordering is significant (spec §4.7), so
// map iteration order alone would not do.
func buildPlugins(doc *config.Document, mapper addrmap.Mapper) *plugin.Chain {
	section, err := doc.Section("ControllerPlugins")
	if err != nil {
		return plugin.NewChain()
	}

	order := pluginOrder(doc, section)

	chain := make([]plugin.Plugin, 0, len(order))
	for _, name := range order {
		raw, ok := section[name]
		if !ok {
			continue
		}
		sub, ok := raw.(map[string]interface{})
		if !ok {
			config.Must(errors.Errorf(errors.TypeCoerceFailure, "ControllerPlugins."+name, "section"))
		}
		p := config.Params(sub)
		impl, err := p.String("impl", "")
		config.Must(err)

		switch impl {
		case "RRS":
			chain = append(chain, buildRRS(mapper, p))
		case "AQUA":
			chain = append(chain, buildAQUA(mapper, p))
		default:
			pl, err := config.ControllerPlugins.Build(impl, p)
			config.Must(err)
			chain = append(chain, pl)
		}
	}
	return plugin.NewChain(chain...)
}

func pluginOrder(doc *config.Document, section config.Params) []string {
	if v, ok := doc.Get("PluginOrder"); ok {
		if list, ok := v.([]interface{}); ok {
			order := make([]string, 0, len(list))
			for _, item := range list {
				if s, ok := item.(string); ok {
					order = append(order, s)
				}
			}
			return order
		}
	}
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildRRS and buildAQUA are deliberately outside config.ControllerPlugins:
// both plugins need a live reference to the address mapper's RIT, which
// isn't reachable from Params alone (see config/roles.go).
func buildRRS(mapper addrmap.Mapper, p config.Params) plugin.Plugin {
	lm, ok := mapper.(*addrmap.LinearMapper)
	if !ok {
		config.Must(fmt.Errorf("RRS requires a *addrmap.LinearMapper, got %T", mapper))
	}
	capacity, threshold, err := requireTrackerParams(p)
	config.Must(err)
	numRowsPerBank, err := p.Int("NumRowsPerBank", 0)
	config.Must(err)
	seed, err := p.Int("Seed", 1)
	config.Must(err)
	return plugin.NewRRS(lm, capacity, threshold, numRowsPerBank, int64(seed))
}

func buildAQUA(mapper addrmap.Mapper, p config.Params) plugin.Plugin {
	lm, ok := mapper.(*addrmap.LinearMapper)
	if !ok {
		config.Must(fmt.Errorf("AQUA requires a *addrmap.LinearMapper, got %T", mapper))
	}
	capacity, threshold, err := requireTrackerParams(p)
	config.Must(err)
	seed, err := p.Int("Seed", 1)
	config.Must(err)
	return plugin.NewAQUA(lm, capacity, threshold, int64(seed))
}

func requireTrackerParams(p config.Params) (capacity, threshold int, err error) {
	if _, err = p.Require("Capacity"); err != nil {
		return 0, 0, err
	}
	if _, err = p.Require("Threshold"); err != nil {
		return 0, 0, err
	}
	if capacity, err = p.Int("Capacity", 0); err != nil {
		return 0, 0, err
	}
	if threshold, err = p.Int("Threshold", 0); err != nil {
		return 0, 0, err
	}
	return capacity, threshold, nil
}

func frontendRatio(doc *config.Document) clock.Ratio {
	n, err := config.Params(doc.Root).Int("FrontendPerMemory", 4)
	config.Must(err)
	return clock.Ratio{FrontendPerMemory: n}
}
