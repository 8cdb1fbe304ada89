package seed

import (
	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(run),
)

func run(cfg config.Config, db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	if !cfg.SeedDemoData {
		return nil
	}
	if err := EnsureDemoProperty(db, node); err != nil {
		return err
	}
	log.Info("demo property seeded")
	return nil
}
