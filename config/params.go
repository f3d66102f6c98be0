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

// Params is the name -> value map a registry constructor receives, sourced
// from one node of a Document (spec §6: each `impl:` sibling key is a
// recognized option for that implementation).
type Params map[string]interface{}

func (p Params) value(key string) (interface{}, bool) {
	v, ok := p[key]
	return v, ok
}

// Require returns key's raw value, or a MissingParameter error.
func (p Params) Require(key string) (interface{}, error) {
	v, ok := p.value(key)
	if !ok {
		return nil, errors.Errorf(errors.MissingParameter, key)
	}
	return v, nil
}

// Section returns key's value as a nested Params map, or an empty Params if
// key is absent. Used for a sub-component's own parameter block (e.g. a
// DRAMController's "SchedulerParams").
func (p Params) Section(key string) Params {
	if v, ok := p.value(key); ok {
		if m, ok := v.(map[string]interface{}); ok {
			return Params(m)
		}
	}
	return Params{}
}

// Int coerces key to int, returning dflt if key is absent.
func (p Params) Int(key string, dflt int) (int, error) {
	v, ok := p.value(key)
	if !ok {
		return dflt, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, errors.Errorf(errors.TypeCoerceFailure, key, "int")
}

// Uint64 coerces key to uint64, returning dflt if key is absent.
func (p Params) Uint64(key string, dflt uint64) (uint64, error) {
	v, ok := p.value(key)
	if !ok {
		return dflt, nil
	}
	switch n := v.(type) {
	case int:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	case uint64:
		return n, nil
	case float64:
		return uint64(n), nil
	}
	return 0, errors.Errorf(errors.TypeCoerceFailure, key, "uint64")
}

// Float coerces key to float64, returning dflt if key is absent.
func (p Params) Float(key string, dflt float64) (float64, error) {
	v, ok := p.value(key)
	if !ok {
		return dflt, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, errors.Errorf(errors.TypeCoerceFailure, key, "float")
}

// Bool coerces key to bool, returning dflt if key is absent.
func (p Params) Bool(key string, dflt bool) (bool, error) {
	v, ok := p.value(key)
	if !ok {
		return dflt, nil
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, errors.Errorf(errors.TypeCoerceFailure, key, "bool")
}

// String coerces key to string, returning dflt if key is absent.
func (p Params) String(key, dflt string) (string, error) {
	v, ok := p.value(key)
	if !ok {
		return dflt, nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.Errorf(errors.TypeCoerceFailure, key, "string")
}
