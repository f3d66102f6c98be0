// Package test provides tiny assertion helpers shared by this module's
// package-local tests, mirroring the teacher's own home-grown test package
// rather than pulling in a third-party assertion library.
package test

import "testing"

// Equate fails the test if got != want.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, wanted %v", got, want)
	}
}

// ExpectedSuccess fails the test if ok is false.
func ExpectedSuccess(t *testing.T, ok bool) {
	t.Helper()
	if !ok {
		t.Errorf("expected success, got failure")
	}
}

// ExpectedFailure fails the test if ok is true.
func ExpectedFailure(t *testing.T, ok bool) {
	t.Helper()
	if ok {
		t.Errorf("expected failure, got success")
	}
}
