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
	"strconv"
	"strings"

	"github.com/memsim/memsim/errors"
)

// ApplyOverrides mutates doc in place with dotted-path "key=value"
// strings (spec §6), applied after Load and before any component is
// instantiated. Each value is parsed as bool, then int, then float,
// falling back to a plain string.
func ApplyOverrides(doc *Document, overrides []string) error {
	for _, o := range overrides {
		path, value, ok := strings.Cut(o, "=")
		if !ok {
			return errors.Errorf(errors.CommandLineOverrideBad, o)
		}
		path = strings.TrimSpace(path)
		value = strings.TrimSpace(value)
		if path == "" {
			return errors.Errorf(errors.CommandLineOverrideBad, o)
		}
		doc.Set(path, coerceScalar(value))
	}
	return nil
}

func coerceScalar(s string) interface{} {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
