package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func run(db *gorm.DB, log *zap.Logger) error {
	if err := Run(db); err != nil {
		return err
	}
	log.Info("database schema up to date")
	return nil
}

// Module applies migrations during application startup.
var Module = fx.Module("migration",
	fx.Invoke(run),
)
