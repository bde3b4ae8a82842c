// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"fmt"

	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/internal/storage/boltdb"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Drivers lists the accepted driver names.
var Drivers = []string{DriverSQLite, DriverBolt}

// Open returns a store for driver at path.
func Open(driver, path string) (storage.Store, error) {
	switch driver {
	case DriverSQLite, "":
		return sqlite.New(path)
	case DriverBolt:
		return boltdb.New(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want one of %v)", driver, Drivers)
	}
}
