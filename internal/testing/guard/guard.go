// Package guard is blank-imported by tests that touch runtime wiring. It
// flips the process into test mode and provides the env vars config loading
// requires, before any package-level state reads them.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("TASKHIVE_TEST_MODE") == "" {
			_ = os.Setenv("TASKHIVE_TEST_MODE", "1")
		}
		if os.Getenv("JWT_SECRET") == "" {
			_ = os.Setenv("JWT_SECRET", "test-secret")
		}
	})
}
