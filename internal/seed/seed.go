// Package seed bootstraps a small demo property for local development.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	guestdomain "github.com/innkeep/innkeep/internal/guest/domain"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	"gorm.io/gorm"
)

type demoRoom struct {
	Number   string
	RoomType string
	Floor    string
}

var demoRooms = []demoRoom{
	{"101", "standard", "1"},
	{"102", "standard", "1"},
	{"103", "standard", "1"},
	{"201", "deluxe", "2"},
	{"202", "deluxe", "2"},
	{"301", "suite", "3"},
}

// EnsureDemoProperty creates demo rooms and a demo guest when the rooms
// table is empty. Idempotent: a property with any room at all is left
// untouched.
func EnsureDemoProperty(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&roomdomain.Room{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, r := range demoRooms {
			room := roomdomain.Room{
				ID:         node.Generate(),
				RoomNumber: r.Number,
				RoomType:   r.RoomType,
				Status:     roomdomain.RoomStatusAvailable,
				Floor:      r.Floor,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Create(&room).Error; err != nil {
				return err
			}
		}

		guest := guestdomain.Guest{
			ID:        node.Generate(),
			FirstName: "Demo",
			LastName:  "Guest",
			Email:     "demo@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&guest).Error
	})
}
