// Package domain contains persistence models for rooms and housekeeping.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RoomStatus is the front-desk/housekeeping state of a physical room.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusVacantDirty RoomStatus = "Vacant Dirty"
	RoomStatusVacantClean RoomStatus = "Vacant Clean"
	RoomStatusOutOfOrder  RoomStatus = "OOO"
)

// KnownStatuses lists every accepted room status.
var KnownStatuses = []RoomStatus{
	RoomStatusAvailable,
	RoomStatusOccupied,
	RoomStatusVacantDirty,
	RoomStatusVacantClean,
	RoomStatusOutOfOrder,
}

func ValidStatus(s RoomStatus) bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Room represents one physical room of the property.
type Room struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	RoomNumber string       `gorm:"not null;uniqueIndex" json:"room_number"`
	RoomType   string       `gorm:"not null;index" json:"room_type"`
	Status     RoomStatus   `gorm:"type:text;not null;default:'Available'" json:"status"`
	Floor      string       `json:"floor,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Room) TableName() string { return "rooms" }
