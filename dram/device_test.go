package dram

import "testing"

func ddr4AddrVec(rank, bg, bank, row, col int) []int {
	return []int{0, rank, bg, bank, row, col}
}

func TestDDR4DensityMatchesName(t *testing.T) {
	spec := NewDDR4_8Gb_x8(2133)
	if spec.Org.DensityMb != 8192 {
		t.Fatalf("DDR4_8Gb_x8: got %dMb density, want 8192Mb", spec.Org.DensityMb)
	}
	if err := spec.Org.CheckDensity(); err != nil {
		t.Fatalf("CheckDensity: %v", err)
	}
}

func TestDeviceActivateThenRead(t *testing.T) {
	spec := NewDDR4_8Gb_x8(2133)
	d := NewDevice(spec)

	addr := ddr4AddrVec(0, 0, 0, 5, 0)

	if got := d.GetPreqCommand(RD, addr); got != spec.OpenCmd {
		t.Fatalf("prereq for RD on a closed bank = %s, want %s", got, spec.OpenCmd)
	}

	d.IssueCommand(spec.OpenCmd, addr, 0)

	if got := d.GetPreqCommand(RD, addr); got != RD {
		t.Fatalf("prereq for RD on the just-opened row = %s, want RD", got)
	}

	nRCD := spec.Timings.NRCD
	if d.CheckReady(RD, addr, nRCD-1) {
		t.Fatalf("RD ready one cycle before nRCD has elapsed")
	}
	if !d.CheckReady(RD, addr, nRCD) {
		t.Fatalf("RD not ready exactly nRCD cycles after ACT")
	}
}

func TestDeviceRowBufferMiss(t *testing.T) {
	spec := NewDDR4_8Gb_x8(2133)
	d := NewDevice(spec)

	addr := ddr4AddrVec(0, 0, 0, 5, 0)
	d.IssueCommand(spec.OpenCmd, addr, 0)

	other := ddr4AddrVec(0, 0, 0, 5, 9)
	if d.CheckRowBufferHit(other) == false {
		t.Fatalf("expected a row-buffer hit on the open row regardless of column")
	}

	miss := ddr4AddrVec(0, 0, 0, 6, 0)
	if d.CheckRowBufferHit(miss) {
		t.Fatalf("expected a row-buffer miss against a different row")
	}
	if got := d.GetPreqCommand(RD, miss); got != PRE {
		t.Fatalf("prereq for RD against a different open row = %s, want PRE", got)
	}
}

func TestDeviceFourActivateWindow(t *testing.T) {
	spec := NewDDR4_8Gb_x8(2133)
	d := NewDevice(spec)

	for bg := 0; bg < 4; bg++ {
		d.IssueCommand(spec.OpenCmd, ddr4AddrVec(0, bg, 0, 0, 0), uint64(bg))
	}

	fifth := ddr4AddrVec(0, 0, 1, 0, 0)
	nFAW := spec.Timings.NFAW
	if d.CheckReady(spec.OpenCmd, fifth, nFAW-1) {
		t.Fatalf("5th activate ready before nFAW window has closed")
	}
	if !d.CheckReady(spec.OpenCmd, fifth, nFAW) {
		t.Fatalf("5th activate still blocked once nFAW cycles have elapsed")
	}
}

func TestDeviceAllBankRefreshBlockedByOpenBank(t *testing.T) {
	spec := NewDDR4_8Gb_x8(2133)
	d := NewDevice(spec)

	addr := ddr4AddrVec(0, 0, 0, 3, 0)
	d.IssueCommand(spec.OpenCmd, addr, 0)

	rankAddr := ddr4AddrVec(0, -1, -1, -1, -1)
	if got := d.GetPreqCommand(REFab, rankAddr); got != PREA {
		t.Fatalf("prereq for REFab with an open bank = %s, want PREA", got)
	}

	d.IssueCommand(PREA, rankAddr, 100)
	if got := d.GetPreqCommand(REFab, rankAddr); got != REFab {
		t.Fatalf("prereq for REFab once every bank is closed = %s, want REFab", got)
	}
}

func TestDeviceDeferredRefreshEnd(t *testing.T) {
	spec := NewDDR4_8Gb_x8(2133)
	d := NewDevice(spec)

	rankAddr := ddr4AddrVec(0, -1, -1, -1, -1)
	d.IssueCommand(REFab, rankAddr, 0)

	bankAddr := ddr4AddrVec(0, 0, 0, 0, 0)
	path := d.walkPath(bankAddr, LevelBank)
	bank := &d.Nodes[path[len(path)-1]]
	if bank.State != Refreshing {
		t.Fatalf("bank state after REFab = %s, want Refreshing", bank.State)
	}

	d.Tick(spec.Timings.NRFC - 2)
	if bank.State != Refreshing {
		t.Fatalf("REFab ended before its deferred latency elapsed")
	}

	d.Tick(spec.Timings.NRFC - 1)
	if bank.State != Closed {
		t.Fatalf("bank state after REFab's deferred end = %s, want Closed", bank.State)
	}
}

func TestDDR5SameBankRefreshAcrossGroups(t *testing.T) {
	spec := NewDDR5_16Gb_x8(4800)
	d := NewDevice(spec)

	open := ddr4AddrVec(0, 2, 0, 0, 0)
	d.IssueCommand(spec.OpenCmd, open, 0)

	sameBank := ddr4AddrVec(0, -1, 0, -1, -1)
	if got := d.GetPreqCommand(REFsb, sameBank); got != PREsb {
		t.Fatalf("prereq for REFsb with bank 0 open in another group = %s, want PREsb", got)
	}

	d.IssueCommand(PREsb, sameBank, 10)
	if got := d.GetPreqCommand(REFsb, sameBank); got != REFsb {
		t.Fatalf("prereq for REFsb once bank 0 is closed everywhere = %s, want REFsb", got)
	}
}

func TestLPDDR5TwoPhaseActivate(t *testing.T) {
	spec := NewLPDDR5_12Gb_x16(6400)
	d := NewDevice(spec)

	addr := ddr4AddrVec(0, 0, 0, 1, 0)
	d.IssueCommand(ACT1, addr, 0)

	path := d.walkPath(addr, LevelBank)
	bank := &d.Nodes[path[len(path)-1]]
	if bank.State != PreOpened {
		t.Fatalf("bank state after ACT1 = %s, want PreOpened", bank.State)
	}
	if got := d.GetPreqCommand(RD, addr); got != ACT2 {
		t.Fatalf("prereq for RD while PreOpened = %s, want ACT2", got)
	}

	d.IssueCommand(ACT2, addr, 1)
	if bank.State != Opened {
		t.Fatalf("bank state after ACT2 = %s, want Opened", bank.State)
	}
}
