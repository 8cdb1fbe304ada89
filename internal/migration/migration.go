// Package migration creates the schema on startup so local and self-hosted
// installs work out of the box.
package migration

import (
	"fmt"

	foliodomain "github.com/innkeep/innkeep/internal/folio/domain"
	guestdomain "github.com/innkeep/innkeep/internal/guest/domain"
	nightauditdomain "github.com/innkeep/innkeep/internal/nightaudit/domain"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
	"gorm.io/gorm"
)

// Models lists every persisted entity, shared with tests that migrate an
// in-memory database.
func Models() []any {
	return []any{
		&guestdomain.Guest{},
		&roomdomain.Room{},
		&reservationdomain.Reservation{},
		&staydomain.Stay{},
		&foliodomain.Posting{},
		&foliodomain.Payment{},
		&nightauditdomain.Issue{},
		&nightauditdomain.RunLog{},
		&nightauditdomain.Snapshot{},
	}
}

// Run applies the schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migration database handle is required")
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
