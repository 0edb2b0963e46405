package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/orbit-mail/internal/adapters/store"
	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates schedule stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateScheduleStore creates a schedule store based on the configuration
func (f *StoreFactory) CreateScheduleStore() (core.ScheduleStore, error) {
	schedulerCfg := f.cfg.GetScheduler()

	switch schedulerCfg.StoreType {
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(schedulerCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(schedulerCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(schedulerCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", schedulerCfg.StoreType)
	}
}
