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

package frontend_test

import (
	"strings"
	"testing"

	"github.com/memsim/memsim/addrmap"
	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/frontend"
	"github.com/memsim/memsim/internal/test"
	"github.com/memsim/memsim/request"
)

// recorder is a Sink that admits everything and records what it saw.
type recorder struct {
	got []*request.Request
}

func (r *recorder) Send(req *request.Request) bool {
	r.got = append(r.got, req)
	return true
}

// stingy rejects the first rejectsLeft sends, then admits everything.
type stingy struct {
	rejectsLeft int
	got         []*request.Request
}

func (s *stingy) Send(req *request.Request) bool {
	if s.rejectsLeft > 0 {
		s.rejectsLeft--
		return false
	}
	s.got = append(s.got, req)
	return true
}

func TestReadWriteLinesBypassMapper(t *testing.T) {
	tr := frontend.NewTrace(strings.NewReader("R 0,1,2,5,3\nW 0,1,2,5,4\n"), nil)
	rec := &recorder{}

	for {
		more, err := tr.Pump(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !more {
			break
		}
	}

	test.Equate(t, len(rec.got), 2)
	test.Equate(t, rec.got[0].Type, request.Read)
	test.Equate(t, rec.got[1].Type, request.Write)
	test.Equate(t, len(rec.got[0].AddrVec), 5)
	test.Equate(t, rec.got[0].AddrVec[3], 5)
}

func TestLoadStoreLinesRouteThroughMapper(t *testing.T) {
	spec := dram.NewDDR4_8Gb_x8(1600)
	mapper := addrmap.NewLinearMapper(spec.Org)

	tr := frontend.NewTrace(strings.NewReader("LD 1024\nST 2048\n"), mapper)
	rec := &recorder{}

	for {
		more, err := tr.Pump(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !more {
			break
		}
	}

	test.Equate(t, len(rec.got), 2)
	test.Equate(t, rec.got[0].Type, request.Read)
	test.Equate(t, rec.got[1].Type, request.Write)
	test.ExpectedSuccess(t, rec.got[0].AddrVec != nil)
}

func TestRejectedLineIsRetriedNotDropped(t *testing.T) {
	tr := frontend.NewTrace(strings.NewReader("R 0,0,0,0,0\n"), nil)
	sink := &stingy{rejectsLeft: 2}

	for i := 0; i < 2; i++ {
		more, err := tr.Pump(sink)
		test.ExpectedSuccess(t, err == nil)
		test.ExpectedSuccess(t, more)
		test.Equate(t, len(sink.got), 0)
		test.Equate(t, tr.Delivered(), 0)
	}

	more, err := tr.Pump(sink)
	test.ExpectedSuccess(t, err == nil)
	test.ExpectedSuccess(t, more)
	test.Equate(t, len(sink.got), 1)
	test.Equate(t, tr.Delivered(), 1)

	more, _ = tr.Pump(sink)
	test.ExpectedSuccess(t, !more)
}

func TestMalformedLineIsAnError(t *testing.T) {
	tr := frontend.NewTrace(strings.NewReader("BOGUS\n"), nil)
	_, err := tr.Pump(&recorder{})
	test.ExpectedSuccess(t, err != nil)
}

func TestBlankLinesAreSkipped(t *testing.T) {
	tr := frontend.NewTrace(strings.NewReader("\n\nLD 0x10\n\n"), nil)
	rec := &recorder{}

	for {
		more, err := tr.Pump(rec)
		test.ExpectedSuccess(t, err == nil)
		if !more {
			break
		}
	}
	test.Equate(t, len(rec.got), 1)
	test.Equate(t, rec.got[0].Addr, uint64(16))
}
