package clock_test

import (
	"testing"

	"github.com/memsim/memsim/clock"
	"github.com/memsim/memsim/internal/test"
)

func TestDomainRatio(t *testing.T) {
	d := clock.NewDomain(clock.Ratio{FrontendPerMemory: 3})

	ticks := 0
	for i := 0; i < 9; i++ {
		_, front := d.Step()
		if front {
			ticks++
		}
	}
	test.Equate(t, ticks, 3)
	test.Equate(t, d.Clk(), uint64(9))
}

func TestDomainDefaultsOnZero(t *testing.T) {
	d := clock.NewDomain(clock.Ratio{})
	_, _ = d.Step()
	test.Equate(t, d.Clk(), uint64(1))
}
