package plugin

import (
	"testing"

	"github.com/memsim/memsim/dram"
	"github.com/memsim/memsim/request"
)

type recordingSender struct {
	sent []*request.Request
	fail bool
}

func (s *recordingSender) PrioritySend(req *request.Request) bool {
	if s.fail {
		return false
	}
	s.sent = append(s.sent, req)
	return true
}

func TestGrapheneTriggersAtThreshold(t *testing.T) {
	g := NewGraphene(8, 4, 0)
	sender := &recordingSender{}

	req := request.New(0, request.Read, 0, nil)
	for i := 0; i < 3; i++ {
		g.Update(true, req, Context{Cmd: dram.ACT, BankKey: 1, Row: 7, Sender: sender})
	}
	if len(sender.sent) != 0 {
		t.Fatalf("Graphene fired before crossing its threshold")
	}
	g.Update(true, req, Context{Cmd: dram.ACT, BankKey: 1, Row: 7, Sender: sender})
	if len(sender.sent) != 1 {
		t.Fatalf("Graphene did not fire a victim-row-refresh at the threshold")
	}
	if sender.sent[0].Type != request.VictimRowRefresh {
		t.Fatalf("Graphene injected type %v, want VictimRowRefresh", sender.sent[0].Type)
	}
}

func TestGrapheneIgnoresNonActivateCommands(t *testing.T) {
	g := NewGraphene(8, 2, 0)
	sender := &recordingSender{}
	req := request.New(0, request.Read, 0, nil)

	for i := 0; i < 5; i++ {
		g.Update(true, req, Context{Cmd: dram.RD, BankKey: 1, Row: 7, Sender: sender})
	}
	if len(sender.sent) != 0 {
		t.Fatalf("Graphene should only count ACT/ACT1, not RD")
	}
}

func TestPARAIsDeterministicBySeed(t *testing.T) {
	p1 := NewPARA(0.5, 42)
	p2 := NewPARA(0.5, 42)
	sender1 := &recordingSender{}
	sender2 := &recordingSender{}
	req := request.New(0, request.Read, 0, nil)

	for i := 0; i < 20; i++ {
		p1.Update(true, req, Context{Cmd: dram.ACT, BankKey: 0, Row: i, Sender: sender1})
		p2.Update(true, req, Context{Cmd: dram.ACT, BankKey: 0, Row: i, Sender: sender2})
	}
	if len(sender1.sent) != len(sender2.sent) {
		t.Fatalf("same-seed PARA instances diverged: %d vs %d injections", len(sender1.sent), len(sender2.sent))
	}
}

func TestPRACWalksStateMachine(t *testing.T) {
	p := NewPRAC(3, 2, 2, 2)
	sender := &recordingSender{}
	req := request.New(0, request.Read, 0, nil)

	clk := uint64(0)
	for i := 0; i < 3; i++ {
		p.Update(true, req, Context{Clk: clk, Cmd: dram.ACT, BankKey: 0, Row: 5, Sender: sender})
		clk++
	}
	if p.phase != pracPreRecovery {
		t.Fatalf("PRAC phase after crossing ABOThreshold = %v, want pracPreRecovery", p.phase)
	}

	clk += 2
	p.Update(false, nil, Context{Clk: clk, Sender: sender})
	if p.phase != pracRecovery {
		t.Fatalf("PRAC phase after ABOActCycles elapsed = %v, want pracRecovery", p.phase)
	}
	if len(sender.sent) != 1 || sender.sent[0].Type != request.CloseAllBanks {
		t.Fatalf("PRAC should have issued exactly one PREA entering recovery")
	}

	p.Update(false, nil, Context{Clk: clk + 1, Sender: sender})
	p.Update(false, nil, Context{Clk: clk + 2, Sender: sender})
	p.Update(false, nil, Context{Clk: clk + 3, Sender: sender})
	if p.phase != pracDelay {
		t.Fatalf("PRAC phase after RFMabCount RFMab issues = %v, want pracDelay", p.phase)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("expected 1 PREA + 2 RFMab injected, got %d", len(sender.sent))
	}
}

func TestBLISSBlacklistsOnLongStreak(t *testing.T) {
	b := NewBLISS(3, 100)
	req := request.New(0, request.Read, 7, nil)

	for clk := uint64(0); clk < 5; clk++ {
		b.Update(true, req, Context{Clk: clk})
	}
	if !b.IsBlacklisted(7) {
		t.Fatalf("source 7 should be blacklisted after a 5-long streak past threshold 3")
	}
	if b.IsBlacklisted(8) {
		t.Fatalf("an unrelated source should not be blacklisted")
	}
}

func TestCommandCounterHistogram(t *testing.T) {
	c := NewCommandCounter()
	req := request.New(0, request.Read, 0, nil)
	c.Update(true, req, Context{Cmd: dram.ACT})
	c.Update(true, req, Context{Cmd: dram.ACT})
	c.Update(true, req, Context{Cmd: dram.RD})
	c.Update(false, nil, Context{Cmd: dram.WR})

	hist := c.Histogram()
	if hist["ACT"] != 2 || hist["RD"] != 1 {
		t.Fatalf("unexpected histogram: %v", hist)
	}
	if _, ok := hist["WR"]; ok {
		t.Fatalf("a cycle where nothing was found should not be counted")
	}
}
