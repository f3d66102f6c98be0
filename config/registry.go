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

import "github.com/memsim/memsim/errors"

// Registry is a string-keyed constructor table for one interface role
// (Scheduler, RefreshManager, RowPolicy, ControllerPlugin, ...). Each role
// gets its own Registry instance rather than a single reflection-driven
// factory, in keeping with the project's preference for explicit
// constructors over runtime type discovery.
type Registry[T any] struct {
	role  string
	ctors map[string]func(Params) (T, error)
}

// NewRegistry builds an empty registry for role, used only in
// InterfaceNotRegistered error messages.
func NewRegistry[T any](role string) *Registry[T] {
	return &Registry[T]{role: role, ctors: map[string]func(Params) (T, error){}}
}

// Register adds (or replaces) the constructor for name.
func (r *Registry[T]) Register(name string, ctor func(Params) (T, error)) {
	r.ctors[name] = ctor
}

// Build resolves name and invokes its constructor with params.
func (r *Registry[T]) Build(name string, params Params) (T, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		var zero T
		return zero, errors.Errorf(errors.InterfaceNotRegistered, r.role, name)
	}
	return ctor(params)
}
