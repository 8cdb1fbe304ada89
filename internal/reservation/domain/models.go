// Package domain contains persistence models for reservations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ReservationStatus is the booking lifecycle state.
type ReservationStatus string

const (
	StatusBooked     ReservationStatus = "booked"
	StatusCheckedIn  ReservationStatus = "checked-in"
	StatusCheckedOut ReservationStatus = "checked-out"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusDeleted    ReservationStatus = "deleted"
)

// AuditedStatuses are the states the night audit loads; deleted
// reservations are invisible to every flow but hard cleanup.
var AuditedStatuses = []ReservationStatus{
	StatusBooked,
	StatusCheckedIn,
	StatusCheckedOut,
	StatusCancelled,
}

// Reservation is one booking, possibly spanning several rooms.
// RoomNumbers keeps assignment order; the first room decides the
// reservation's primary room type in audit aggregates.
type Reservation struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	GuestID      *snowflake.ID     `gorm:"index" json:"guest_id,omitempty"`
	Status       ReservationStatus `gorm:"type:text;not null;default:'booked';index" json:"status"`
	CheckInDate  *time.Time        `json:"check_in_date,omitempty"`
	CheckOutDate *time.Time        `json:"check_out_date,omitempty"`
	RoomNumbers  []string          `gorm:"serializer:json" json:"room_numbers"`
	Channel      string            `gorm:"index" json:"channel,omitempty"`
	Adults       int               `json:"adults,omitempty"`
	Children     int               `json:"children,omitempty"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Reservation) TableName() string { return "reservations" }
