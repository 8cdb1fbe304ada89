// Package domain contains the night-audit types: issues, the run summary,
// and the documents a finalized run persists.
package domain

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// IssueType classifies one integrity finding.
type IssueType string

const (
	IssueStayWithoutReservation IssueType = "stay_without_reservation"
	IssueStayReservationMissing IssueType = "stay_reservation_missing"
	IssueStayPastCheckout       IssueType = "stay_past_checkout"
	IssueStayMissingCheckout    IssueType = "stay_missing_checkout"
	IssueCheckedInPastCheckin   IssueType = "checked_in_with_past_checkin"
	IssuePaymentsMismatch       IssueType = "payments_mismatch"
	IssuePossibleNoShow         IssueType = "possible_noshow"
	IssueRoomOccupiedNoStay     IssueType = "room_occupied_without_stay"
)

// Issue is one audit finding. IssueKey is deterministic per logical
// problem, which is what makes de-duplication across runs correct: an
// operator acknowledging a key suppresses that finding until the flag is
// reset or the underlying data changes enough to produce a new key.
type Issue struct {
	IssueKey      string            `gorm:"primaryKey" json:"issue_key"`
	Type          IssueType         `gorm:"type:text;not null;index" json:"type"`
	Message       string            `gorm:"not null" json:"message"`
	ReservationID string            `json:"reservation_id,omitempty"`
	StayID        string            `json:"stay_id,omitempty"`
	RoomNumber    string            `json:"room_number,omitempty"`
	Noticed       bool              `gorm:"not null;default:false;index" json:"noticed"`
	BusinessDay   string            `gorm:"index" json:"business_day"`
	Context       datatypes.JSONMap `gorm:"type:jsonb" json:"context,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Issue) TableName() string { return "audit_issues" }

// Key derives the stable issue key from the most specific reference the
// finding carries.
func Key(issueType IssueType, reservationID, stayID, roomNumber string) string {
	ref := "?"
	switch {
	case reservationID != "":
		ref = reservationID
	case stayID != "":
		ref = stayID
	case roomNumber != "":
		ref = roomNumber
	}
	return fmt.Sprintf("%s:%s", issueType, ref)
}

// Summary is the numeric digest of one run.
type Summary struct {
	RunAt            string         `json:"run_at"`
	BusinessDay      string         `json:"business_day"`
	RoomsTotal       int            `json:"rooms_total"`
	RoomsOccupied    int            `json:"rooms_occupied"`
	OccupancyPct     float64        `json:"occupancy_pct"`
	ADR              float64        `json:"adr"`
	RevPAR           float64        `json:"revpar"`
	TotalRoomRevenue float64        `json:"total_room_revenue"`
	ChannelCounts    map[string]int `json:"channel_counts"`
	RoomTypeCounts   map[string]int `json:"room_type_counts"`
	IssuesCount      int            `json:"issues_count"`
}

// RunLog is the persisted record of a finalized run, one per business day,
// overwritten when the day is finalized again.
type RunLog struct {
	BusinessDay string         `gorm:"primaryKey" json:"business_day"`
	RunAt       time.Time      `gorm:"not null" json:"run_at"`
	RunBy       string         `gorm:"not null" json:"run_by"`
	RunID       string         `gorm:"not null" json:"run_id"`
	Summary     datatypes.JSON `gorm:"type:jsonb" json:"summary"`
	Issues      datatypes.JSON `gorm:"type:jsonb" json:"issues"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (RunLog) TableName() string { return "audit_run_logs" }

// Snapshot is the denormalized entity count document written next to the
// run log.
type Snapshot struct {
	BusinessDay       string    `gorm:"primaryKey" json:"business_day"`
	RoomsTotal        int       `gorm:"not null" json:"rooms_total"`
	RoomsOccupied     int       `gorm:"not null" json:"rooms_occupied"`
	ReservationsTotal int       `gorm:"not null" json:"reservations_total"`
	StaysTotal        int       `gorm:"not null" json:"stays_total"`
	StaysOpen         int       `gorm:"not null" json:"stays_open"`
	PostingsTotal     int       `gorm:"not null" json:"postings_total"`
	PaymentsTotal     int       `gorm:"not null" json:"payments_total"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Snapshot) TableName() string { return "audit_snapshots" }
