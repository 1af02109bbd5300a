package portal

import (
	"context"
	"fmt"

	"github.com/pevans/newsportal/config"
)

// Store loads and saves the whole portal mapping. Implementations re-read
// their backing storage on every Load and replace it entirely on Save.
type Store interface {
	Load(ctx context.Context) (Portals, error)
	Save(ctx context.Context, portals Portals) error
}

// Open returns the store selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	if cfg.DSN == "" {
		cfg.DSN = config.DefaultDSN(cfg.Type)
	}

	switch cfg.Type {
	case "", "file":
		return NewFileStore(cfg.DSN), nil
	case "sqlite":
		return NewSQLiteStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
