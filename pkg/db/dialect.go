package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/innkeep/innkeep/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dialect selects the gorm driver from configuration. Postgres is the
// production target; sqlite keeps local and self-hosted setups zero-config.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)), nil
	case "sqlite":
		// DATABASE_NAME may be a plain name or a full sqlite URI
		// (file:...?mode=memory), which tests use for shared in-memory
		// databases.
		dsn := cfg.DBName
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			dsn = fmt.Sprintf("%s.db", dsn)
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.DBType)
	}
}
