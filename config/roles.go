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

package config

import (
	"github.com/memsim/memsim/addrmap"
	"github.com/memsim/memsim/controller"
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/plugin"
)

// Schedulers, RefreshManagers, RowPolicies and ControllerPlugins are the
// registries for the interface roles whose constructors need nothing but
// their own Params (spec §6).
var (
	Schedulers        = NewRegistry[controller.Scheduler]("Scheduler")
	RefreshManagers   = NewRegistry[controller.RefreshManager]("RefreshManager")
	RowPolicies       = NewRegistry[controller.RowPolicy]("RowPolicy")
	ControllerPlugins = NewRegistry[plugin.Plugin]("ControllerPlugin")
)

// Standards is the DRAM-standard registry. Every preset's free variables
// are its transfer rate and an optional rank count (default 1), so this
// role is a plain name -> constructor map rather than a Registry[*dram.Spec]:
// threading mtps/ranks through Params for two well-known fields would just
// add indirection.
var Standards = map[string]func(mtps int, ranks ...int) *dram.Spec{
	"DDR3_8Gb_x8":     dram.NewDDR3_8Gb_x8,
	"DDR4_8Gb_x8":     dram.NewDDR4_8Gb_x8,
	"DDR5_16Gb_x8":    dram.NewDDR5_16Gb_x8,
	"LPDDR5_12Gb_x16": dram.NewLPDDR5_12Gb_x16,
	"HBM2_8Gb_Stack":  dram.NewHBM2_8Gb_Stack,
	"GDDR6_16Gb_x16":  dram.NewGDDR6_16Gb_x16,
}

// BuildStandard resolves name via Standards and builds its Spec at mtps.
// ranks, if supplied and positive, overrides the preset's default single
// rank -- spec §8 scenario 5's multi-rank PRAC recovery requires more than
// one.
func BuildStandard(name string, mtps int, ranks ...int) (*dram.Spec, error) {
	ctor, ok := Standards[name]
	if !ok {
		return nil, errors.Errorf(errors.UnknownPreset, name)
	}
	return ctor(mtps, ranks...), nil
}

// AddrMapperCtor builds a Mapper for a concrete organization. AddrMapper
// is the one role whose constructor needs more than Params — a mapper has
// to know the device's level/fanout shape, which is derived from the
// chosen DRAM standard, not supplied by the user — so it isn't a
// Registry[addrmap.Mapper] like the other roles.
type AddrMapperCtor func(org dram.Organization, params Params) (addrmap.Mapper, error)

var addrMapperCtors = map[string]AddrMapperCtor{}

// RegisterAddrMapper adds (or replaces) the constructor for name.
func RegisterAddrMapper(name string, ctor AddrMapperCtor) {
	addrMapperCtors[name] = ctor
}

// BuildAddrMapper resolves name and invokes its constructor.
func BuildAddrMapper(name string, org dram.Organization, params Params) (addrmap.Mapper, error) {
	ctor, ok := addrMapperCtors[name]
	if !ok {
		return nil, errors.Errorf(errors.InterfaceNotRegistered, "AddrMapper", name)
	}
	return ctor(org, params)
}

// DRAMControllerCtor builds a *controller.Controller for an already
// constructed device and plugin chain (both are products of earlier
// stages of sim wiring, not of Params).
type DRAMControllerCtor func(device *dram.Device, plugins *plugin.Chain, params Params) (*controller.Controller, error)

var dramControllerCtors = map[string]DRAMControllerCtor{}

// RegisterDRAMController adds (or replaces) the constructor for name.
func RegisterDRAMController(name string, ctor DRAMControllerCtor) {
	dramControllerCtors[name] = ctor
}

// BuildDRAMController resolves name and invokes its constructor.
func BuildDRAMController(name string, device *dram.Device, plugins *plugin.Chain, params Params) (*controller.Controller, error) {
	ctor, ok := dramControllerCtors[name]
	if !ok {
		return nil, errors.Errorf(errors.InterfaceNotRegistered, "DRAMController", name)
	}
	return ctor(device, plugins, params)
}

func init() {
	registerSchedulers()
	registerRefreshManagers()
	registerRowPolicies()
	registerAddrMappers()
	registerDRAMControllers()
	registerControllerPlugins()
}

func registerSchedulers() {
	Schedulers.Register("Default", func(Params) (controller.Scheduler, error) {
		return controller.NewDefaultScheduler(), nil
	})
	// BH names the same FCFS-with-readiness selection spec §4.3 calls the
	// "Default/BH" scheduler; registered under both names so a config file
	// can use either.
	Schedulers.Register("BH", func(Params) (controller.Scheduler, error) {
		return controller.NewDefaultScheduler(), nil
	})
	Schedulers.Register("BLISS", func(Params) (controller.Scheduler, error) {
		return controller.NewBLISSScheduler(), nil
	})
	Schedulers.Register("Blocking", func(Params) (controller.Scheduler, error) {
		return controller.NewBlockingScheduler(), nil
	})
	Schedulers.Register("PRAC", func(Params) (controller.Scheduler, error) {
		return controller.NewPRACScheduler(), nil
	})
}

func registerRefreshManagers() {
	RefreshManagers.Register("AllBank", func(p Params) (controller.RefreshManager, error) {
		if _, err := p.Require("Interval"); err != nil {
			return nil, err
		}
		interval, err := p.Uint64("Interval", 0)
		if err != nil {
			return nil, err
		}
		return controller.NewAllBankRefresh(interval), nil
	})
	RefreshManagers.Register("SameBank", func(p Params) (controller.RefreshManager, error) {
		if _, err := p.Require("Interval"); err != nil {
			return nil, err
		}
		if _, err := p.Require("NumBanks"); err != nil {
			return nil, err
		}
		interval, err := p.Uint64("Interval", 0)
		if err != nil {
			return nil, err
		}
		numBanks, err := p.Int("NumBanks", 0)
		if err != nil {
			return nil, err
		}
		return controller.NewSameBankRefresh(interval, numBanks), nil
	})
}

func registerRowPolicies() {
	RowPolicies.Register("Open", func(Params) (controller.RowPolicy, error) {
		return controller.NewOpenRowPolicy(), nil
	})
	RowPolicies.Register("Closed", func(p Params) (controller.RowPolicy, error) {
		if _, err := p.Require("Cap"); err != nil {
			return nil, err
		}
		cap, err := p.Int("Cap", 0)
		if err != nil {
			return nil, err
		}
		return controller.NewClosedRowPolicy(cap), nil
	})
}

func registerAddrMappers() {
	RegisterAddrMapper("Linear", func(org dram.Organization, params Params) (addrmap.Mapper, error) {
		return addrmap.NewLinearMapper(org), nil
	})
}

func registerDRAMControllers() {
	RegisterDRAMController("Generic", func(device *dram.Device, plugins *plugin.Chain, p Params) (*controller.Controller, error) {
		readCap, err := p.Int("ReadCap", 64)
		if err != nil {
			return nil, err
		}
		writeCap, err := p.Int("WriteCap", 64)
		if err != nil {
			return nil, err
		}
		priorityCap, err := p.Int("PriorityCap", 16)
		if err != nil {
			return nil, err
		}
		activeCap, err := p.Int("ActiveCap", 16)
		if err != nil {
			return nil, err
		}
		writeLow, err := p.Int("WriteLow", 16)
		if err != nil {
			return nil, err
		}
		writeHigh, err := p.Int("WriteHigh", 48)
		if err != nil {
			return nil, err
		}

		schedName, err := p.String("Scheduler", "Default")
		if err != nil {
			return nil, err
		}
		scheduler, err := Schedulers.Build(schedName, p.Section("SchedulerParams"))
		if err != nil {
			return nil, err
		}

		var refresh controller.RefreshManager
		if refreshName, err := p.String("RefreshManager", ""); err != nil {
			return nil, err
		} else if refreshName != "" {
			refresh, err = RefreshManagers.Build(refreshName, p.Section("RefreshManagerParams"))
			if err != nil {
				return nil, err
			}
		}

		rowPolicyName, err := p.String("RowPolicy", "Open")
		if err != nil {
			return nil, err
		}
		rowPolicy, err := RowPolicies.Build(rowPolicyName, p.Section("RowPolicyParams"))
		if err != nil {
			return nil, err
		}

		return controller.NewController(device, readCap, writeCap, priorityCap, activeCap,
			writeLow, writeHigh, scheduler, refresh, rowPolicy, plugins), nil
	})
}

func registerControllerPlugins() {
	ControllerPlugins.Register("PARA", func(p Params) (plugin.Plugin, error) {
		if _, err := p.Require("Threshold"); err != nil {
			return nil, err
		}
		threshold, err := p.Float("Threshold", 0)
		if err != nil {
			return nil, err
		}
		seed, err := p.Int("Seed", 1)
		if err != nil {
			return nil, err
		}
		return plugin.NewPARA(threshold, int64(seed)), nil
	})
	ControllerPlugins.Register("Graphene", func(p Params) (plugin.Plugin, error) {
		capacity, threshold, err := trackerParams(p)
		if err != nil {
			return nil, err
		}
		resetPeriod, err := p.Uint64("ResetPeriod", 0)
		if err != nil {
			return nil, err
		}
		return plugin.NewGraphene(capacity, threshold, resetPeriod), nil
	})
	ControllerPlugins.Register("TWiCe", func(p Params) (plugin.Plugin, error) {
		capacity, threshold, err := trackerParams(p)
		if err != nil {
			return nil, err
		}
		pruningRatio, err := p.Float("PruningRatio", 0.5)
		if err != nil {
			return nil, err
		}
		return plugin.NewTWiCe(capacity, threshold, pruningRatio), nil
	})
	ControllerPlugins.Register("Oracle", func(p Params) (plugin.Plugin, error) {
		capacity, tolerance, err := trackerParams(p)
		if err != nil {
			return nil, err
		}
		return plugin.NewOracle(capacity, tolerance), nil
	})
	ControllerPlugins.Register("RFM", func(p Params) (plugin.Plugin, error) {
		if _, err := p.Require("Threshold"); err != nil {
			return nil, err
		}
		threshold, err := p.Int("Threshold", 0)
		if err != nil {
			return nil, err
		}
		return plugin.NewRFM(threshold), nil
	})
	ControllerPlugins.Register("PRAC", func(p Params) (plugin.Plugin, error) {
		for _, key := range []string{"ABOThreshold", "ABOActCycles", "RFMabCount", "DelayActs"} {
			if _, err := p.Require(key); err != nil {
				return nil, err
			}
		}
		aboThreshold, err := p.Int("ABOThreshold", 0)
		if err != nil {
			return nil, err
		}
		aboActCycles, err := p.Uint64("ABOActCycles", 0)
		if err != nil {
			return nil, err
		}
		rfmabCount, err := p.Int("RFMabCount", 0)
		if err != nil {
			return nil, err
		}
		delayActs, err := p.Int("DelayActs", 0)
		if err != nil {
			return nil, err
		}
		return plugin.NewPRAC(aboThreshold, aboActCycles, rfmabCount, delayActs), nil
	})
	ControllerPlugins.Register("BLISS", func(p Params) (plugin.Plugin, error) {
		if _, err := p.Require("StreakThreshold"); err != nil {
			return nil, err
		}
		streakThreshold, err := p.Int("StreakThreshold", 0)
		if err != nil {
			return nil, err
		}
		blacklistCycles, err := p.Uint64("BlacklistCycles", 0)
		if err != nil {
			return nil, err
		}
		return plugin.NewBLISS(streakThreshold, blacklistCycles), nil
	})
	ControllerPlugins.Register("BlockHammer", func(p Params) (plugin.Plugin, error) {
		for _, key := range []string{"K", "EpochLen", "RowThreshold", "HistoryWindow"} {
			if _, err := p.Require(key); err != nil {
				return nil, err
			}
		}
		k, err := p.Int("K", 0)
		if err != nil {
			return nil, err
		}
		epochLen, err := p.Uint64("EpochLen", 0)
		if err != nil {
			return nil, err
		}
		rowThreshold, err := p.Int("RowThreshold", 0)
		if err != nil {
			return nil, err
		}
		historyWindow, err := p.Uint64("HistoryWindow", 0)
		if err != nil {
			return nil, err
		}
		return plugin.NewBlockHammer(k, epochLen, rowThreshold, historyWindow), nil
	})
	ControllerPlugins.Register("CommandCounter", func(Params) (plugin.Plugin, error) {
		return plugin.NewCommandCounter(), nil
	})
	ControllerPlugins.Register("TraceRecorder", func(Params) (plugin.Plugin, error) {
		return plugin.NewTraceRecorder(), nil
	})
	// RRS and AQUA are deliberately absent from this registry: both need a
	// live reference to the addrmap.Mapper's RIT, which isn't reachable
	// from Params. sim wiring builds them directly once the mapper exists.
}

func trackerParams(p Params) (capacity, threshold int, err error) {
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
