package experiment

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain checks for goroutine leaks after every test in this package
// completes, since Run fans out one goroutine per Configuration via
// errgroup.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
