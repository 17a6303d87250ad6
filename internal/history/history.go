// Package history persists the set of postings already seen, keyed by URL.
//
// At most one run may use a given history at a time; stores do no locking.
package history

import (
	"fmt"

	"github.com/amishk599/boardwatch/internal/config"
	"github.com/amishk599/boardwatch/internal/model"
)

// Store is a HistoryStore with a location for log messages and a Close for
// backends that hold a connection.
type Store interface {
	model.HistoryStore
	Location() string
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverCSV, "":
		return NewCSVStore(cfg.Path), nil
	case config.DriverSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}
