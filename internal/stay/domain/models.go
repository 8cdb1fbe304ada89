// Package domain contains persistence models for stays. A stay records a
// guest physically occupying one room, open while the guest is in-house.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type StayStatus string

const (
	StayStatusOpen   StayStatus = "open"
	StayStatusClosed StayStatus = "closed"
)

// Stay links one room occupation to a reservation. ReservationID is
// nullable: imports from the legacy system and manual walk-in fixes can
// leave a stay unlinked, which the night audit flags.
type Stay struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	Status        StayStatus    `gorm:"type:text;not null;default:'open';index" json:"status"`
	RoomNumber    string        `gorm:"not null;index" json:"room_number"`
	ReservationID *snowflake.ID `gorm:"index" json:"reservation_id,omitempty"`
	OpenedAt      time.Time     `gorm:"not null" json:"opened_at"`
	ClosedAt      *time.Time    `json:"closed_at,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Stay) TableName() string { return "stays" }
