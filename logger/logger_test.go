package logger_test

import (
	"strings"
	"testing"

	"github.com/memsim/memsim/internal/test"
	"github.com/memsim/memsim/logger"
)

func TestLogger(t *testing.T) {
	logger.Clear()

	var b strings.Builder
	logger.Write(&b)
	test.Equate(t, b.String(), "")

	logger.Log("test", "this is a test")
	b.Reset()
	logger.Write(&b)
	test.Equate(t, b.String(), "test: this is a test\n")

	logger.Log("test2", "this is another test")
	b.Reset()
	logger.Write(&b)
	test.Equate(t, b.String(), "test: this is a test\ntest2: this is another test\n")

	b.Reset()
	logger.Tail(&b, 100)
	test.Equate(t, b.String(), "test: this is a test\ntest2: this is another test\n")

	b.Reset()
	logger.Tail(&b, 1)
	test.Equate(t, b.String(), "test2: this is another test\n")

	b.Reset()
	logger.Tail(&b, 0)
	test.Equate(t, b.String(), "")
}
