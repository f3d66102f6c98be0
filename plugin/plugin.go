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

// Package plugin defines the controller's observer/injector bus (spec
// §4.7) and the representative RowHammer mitigation plugins built on it.
// A plugin never imports the controller package; the controller implements
// PrioritySender and hands each plugin a Context, which is how plugins stay
// dependency-free of the thing that drives them.
package plugin

import (
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/request"
)

// PrioritySender is the controller's single entry point for plugin-injected
// maintenance requests (spec §4.7's priority_send). Implemented by
// *controller.Controller.
type PrioritySender interface {
	PrioritySend(req *request.Request) bool
}

// Context is handed to every plugin's Update call: the current clock, the
// command about to be (or that was just) issued, a controller-assigned key
// identifying the physical bank (stable across calls, opaque otherwise),
// the targeted row, the requesting source, the rank that bank belongs to
// (-1 when found is false), the total rank count of the device (always
// populated, so a plugin can act rank-wide even on a cycle with no
// scheduled request), and the sender plugins use to inject priority
// requests.
type Context struct {
	Clk      uint64
	Cmd      dram.CmdID
	BankKey  int
	Row      int
	Source   int
	Rank     int
	NumRanks int
	Sender   PrioritySender
}

// IsActivate reports whether cmd is the activation edge row-hammer trackers
// count against (the single-phase ACT, or LPDDR5's ACT1 that captures the
// target row; ACT2 only finalizes a phase already counted at ACT1).
func IsActivate(cmd dram.CmdID) bool {
	return cmd == dram.ACT || cmd == dram.ACT1
}

// Plugin is the sole method every mitigation scheme implements (spec §4.7).
// Update is called once per cycle, after scheduling and before issue, in
// registration order. found reports whether the scheduler selected a
// request this cycle; req is that request (nil if found is false). A
// plugin may mutate req.Scratchpad but never its addressing or commands.
type Plugin interface {
	Update(found bool, req *request.Request, ctx Context)
}

// ActSafetyChecker is BlockHammer's scheduler side-channel: the scheduler
// calls IsActSafe before considering a candidate activation, passing the
// request's source and the controller-assigned bank key from Context.
type ActSafetyChecker interface {
	IsActSafe(source, bankKey int) bool
}

// RecoveryAware is PRAC's scheduler side-channel.
type RecoveryAware interface {
	NextRecoveryCycle() uint64
}

// Blacklister is BLISS's scheduler side-channel.
type Blacklister interface {
	IsBlacklisted(source int) bool
}

// NewVictimRefresh builds a priority-bound victim-row-refresh request
// targeting bankKey/row. AddrVec is left nil; the controller's PrioritySend
// resolves BankKey/Row (stashed in Scratchpad) into a concrete address
// vector using its own organization, so plugins never need to know the
// device's level layout.
func NewVictimRefresh(bankKey, row int) *request.Request {
	req := request.New(0, request.VictimRowRefresh, request.ControllerSource, nil)
	req.Scratchpad[0] = bankKey
	req.Scratchpad[1] = row
	return req
}

// Chain runs a fixed, registration-ordered list of plugins.
type Chain struct {
	plugins []Plugin
}

// NewChain builds a Chain over plugins, in the order they must be invoked.
func NewChain(plugins ...Plugin) *Chain {
	return &Chain{plugins: plugins}
}

// Update invokes every plugin's Update in registration order.
func (c *Chain) Update(found bool, req *request.Request, ctx Context) {
	for _, p := range c.plugins {
		p.Update(found, req, ctx)
	}
}

// Each exposes the underlying plugins for side-channel lookups (the
// scheduler type-asserts each one against ActSafetyChecker/RecoveryAware/
// Blacklister).
func (c *Chain) Each(fn func(Plugin)) {
	for _, p := range c.plugins {
		fn(p)
	}
}
