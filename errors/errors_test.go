package errors_test

import (
	"fmt"
	"testing"

	"github.com/memsim/memsim/errors"
	"github.com/memsim/memsim/internal/test"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	test.Equate(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes one of
	// them to be dropped
	f := errors.Errorf(testError, e)
	test.Equate(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	test.ExpectedSuccess(t, errors.Is(e, testError))
	test.ExpectedFailure(t, errors.Has(e, testErrorB))

	f := errors.Errorf(testErrorB, e)
	test.ExpectedFailure(t, errors.Is(f, testError))
	test.ExpectedSuccess(t, errors.Is(f, testErrorB))
	test.ExpectedSuccess(t, errors.Has(f, testError))
	test.ExpectedSuccess(t, errors.Has(f, testErrorB))

	test.ExpectedSuccess(t, errors.IsAny(e))
	test.ExpectedSuccess(t, errors.IsAny(f))
}

func TestPlainErrors(t *testing.T) {
	e := fmt.Errorf("plain test error")
	test.ExpectedFailure(t, errors.IsAny(e))
	test.ExpectedFailure(t, errors.Has(e, testError))
}

func TestRealMessages(t *testing.T) {
	e := errors.Errorf(errors.UnknownPreset, "DDR7_9000")
	test.Equate(t, e.Error(), "config error: unknown preset (DDR7_9000)")
	test.ExpectedSuccess(t, errors.Is(e, errors.UnknownPreset))
}
