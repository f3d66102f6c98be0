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

// Package errors is a helper package for the plain Go language error type.
// Curated errors are composed of a message format string plus a set of
// values, normalised so that wrapping the same error twice doesn't repeat
// its leading part. Every error raised by this module is one of two kinds
// (configuration errors or runtime invariant violations); both are fatal
// and neither is ever recovered from. Conditions that are a normal part of
// the simulated world (a full buffer, a command not yet ready) are never
// represented as errors.
package errors

import (
	"fmt"
	"strings"
)

// Values is the type used to specify arguments for a curated error.
type Values []interface{}

// curated errors allow code to specify a predefined error and not worry
// about the message behind that error and how it will be formatted on
// output.
type curated struct {
	message string
	values  Values
}

// Errorf creates a new curated error.
func Errorf(message string, values ...interface{}) error {
	return curated{
		message: message,
		values:  values,
	}
}

// Error returns the normalised error message, with duplicate adjacent
// message parts removed.
//
// Implements the go language error interface.
func (er curated) Error() string {
	s := fmt.Errorf(er.message, er.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}

	return strings.Join(p, ": ")
}

// Head returns the leading part of the message.
//
// Similar to Is() but returns the string rather than a boolean.
func Head(err error) string {
	if er, ok := err.(curated); ok {
		return er.message
	}
	return err.Error()
}

// IsAny checks whether err is curated by this package.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is checks if err has a specific head.
func Is(err error, head string) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(curated); ok {
		return er.message == head
	}
	return false
}

// Has checks if the message string appears anywhere in the error, including
// nested curated errors passed as values.
func Has(err error, msg string) bool {
	if err == nil {
		return false
	}
	if !IsAny(err) {
		return false
	}
	if Is(err, msg) {
		return true
	}
	for _, v := range err.(curated).values {
		if e, ok := v.(curated); ok {
			if Has(e, msg) {
				return true
			}
		}
	}
	return false
}
