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

// Package frontend stands in for the spec's external frontend collaborator
// (trace replay, O3-core simulator, last-level cache, external-host
// bridge): a minimal trace-replay source sufficient to drive the engine end
// to end in tests and the CLI. It is built the way the teacher builds an
// opaque file-loading collaborator (cartridgeloader.Loader) that hands a
// byte stream to the rest of the system one unit at a time, restructured
// here into a stream of *request.Request values instead of a stream of
// bytes.
package frontend

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/memsim/memsim/addrmap"
	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/logger"
	"github.com/memsim/memsim/request"
)

// Sink is the frontend -> memory boundary's admission call (spec §3, §6):
// send(req) is non-blocking and returns false if the callee's buffer is
// full, in which case the caller is expected to retry the same request.
type Sink interface {
	Send(req *request.Request) bool
}

// Trace replays a read-write or load-store trace (spec §6) one line at a
// time. A line rejected by a Sink is retried on the next Pump rather than
// dropped, mirroring the synchronous, retry-on-false contract spec §6
// describes for receive_external_requests.
type Trace struct {
	scanner *bufio.Scanner
	mapper  addrmap.Mapper

	nextSource int
	pending    *request.Request
	delivered  int
	lineNo     int
}

// NewTrace builds a Trace reader over r. mapper resolves the linear address
// of load-store lines into a per-level address vector; it may be nil if the
// trace holds only read-write lines, which already carry a fully-resolved
// address vector and never touch the mapper.
func NewTrace(r io.Reader, mapper addrmap.Mapper) *Trace {
	return &Trace{scanner: bufio.NewScanner(r), mapper: mapper}
}

// Pump attempts to deliver the next trace line to sink, retrying a
// previously rejected line first. It returns false once the trace is
// exhausted and every line has been delivered; err is non-nil only for a
// malformed line or an underlying read failure, both fatal per spec §7.
func (t *Trace) Pump(sink Sink) (bool, error) {
	if t.pending == nil {
		req, err := t.next()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		t.pending = req
	}
	if !sink.Send(t.pending) {
		return true, nil
	}
	logger.Logf("frontend", "delivered %v request for source %v", t.pending.Type, t.pending.SourceID)
	t.pending = nil
	t.delivered++
	return true, nil
}

// Delivered is the number of trace lines successfully admitted so far.
func (t *Trace) Delivered() int { return t.delivered }

func (t *Trace) next() (*request.Request, error) {
	for t.scanner.Scan() {
		t.lineNo++
		line := strings.TrimSpace(t.scanner.Text())
		if line == "" {
			continue
		}
		return t.parse(line)
	}
	if err := t.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (t *Trace) parse(line string) (*request.Request, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, errors.Errorf(errors.MalformedTraceLine, line)
	}

	switch fields[0] {
	case "R", "W":
		return t.parseReadWrite(fields[0], fields[1], line)
	case "LD", "ST":
		return t.parseLoadStore(fields[0], fields[1], line)
	default:
		return nil, errors.Errorf(errors.MalformedTraceLine, line)
	}
}

// parseReadWrite handles "{R|W} <addr-level0>,<addr-level1>,…" (spec §6):
// the address vector is already fully resolved, so these requests bypass
// the address mapper entirely.
func (t *Trace) parseReadWrite(tag, addrField, line string) (*request.Request, error) {
	parts := strings.Split(addrField, ",")
	vec := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Errorf(errors.MalformedTraceLine, line)
		}
		vec[i] = n
	}

	typ := request.Read
	if tag == "W" {
		typ = request.Write
	}
	req := request.New(0, typ, t.source(), nil)
	req.AddrVec = vec
	return req, nil
}

// parseLoadStore handles "{LD|ST} <addr>" (spec §6), optionally followed by
// a payload size and byte list that this simulator drops: the spec's
// non-goals exclude the data payload beyond an opaque byte buffer, and
// nothing downstream of the frontend reads one.
func (t *Trace) parseLoadStore(tag, addrField, line string) (*request.Request, error) {
	addr, err := strconv.ParseUint(addrField, 0, 64)
	if err != nil {
		return nil, errors.Errorf(errors.MalformedTraceLine, line)
	}

	typ := request.Read
	if tag == "ST" {
		typ = request.Write
	}
	req := request.New(addr, typ, t.source(), nil)
	if t.mapper != nil {
		t.mapper.Apply(req)
	}
	return req, nil
}

func (t *Trace) source() int {
	id := t.nextSource
	t.nextSource++
	return id
}
