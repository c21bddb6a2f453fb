// Package iotesting provides shared helpers for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"

	"github.com/albummap/amdb/internal/ioconfig"
	"github.com/albummap/amdb/pkg/config"
)

// TestDatabaseName is the database used by all integration tests, so a
// test run can never touch a production store.
const TestDatabaseName = "amdb_test"

// GetTestConfig loads the standard configuration (file, env overrides,
// defaults) and forces the database name to TestDatabaseName.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test in short mode")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for store operations
//	}
func GetTestConfig() *config.Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}

	cfg := config.New()
	if result, err := ioconfig.Load("", homeDir); err == nil {
		cfg = result.Config
	}
	cfg.Database.Database = TestDatabaseName
	return cfg
}
