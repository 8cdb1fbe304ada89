// Package domain contains persistence models for guest profiles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Guest represents a guest profile kept across reservations.
type Guest struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	FirstName string       `gorm:"not null" json:"first_name"`
	LastName  string       `gorm:"not null;index" json:"last_name"`
	Email     string       `gorm:"index" json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Notes     string       `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Guest) TableName() string { return "guests" }
