// Package domain contains persistence models for the folio: postings
// (charges) and payments attributed to a reservation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type PostingStatus string

const (
	PostingStatusPosted   PostingStatus = "posted"
	PostingStatusForecast PostingStatus = "forecast"
	PostingStatusVoid     PostingStatus = "void"
)

type PaymentStatus string

const (
	PaymentStatusSettled PaymentStatus = "settled"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusVoid    PaymentStatus = "void"
)

// Posting is one charge line. Amounts are floats end to end: the audit
// mismatch tolerance is defined over float sums.
type Posting struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ReservationID snowflake.ID  `gorm:"not null;index" json:"reservation_id"`
	Description   string        `gorm:"not null" json:"description"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Tax           float64       `gorm:"not null;default:0" json:"tax"`
	Service       float64       `gorm:"not null;default:0" json:"service"`
	Status        PostingStatus `gorm:"type:text;not null;default:'posted';index" json:"status"`
	PostedAt      time.Time     `gorm:"not null" json:"posted_at"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Posting) TableName() string { return "postings" }

// Total is the charge value of the posting including tax and service.
func (p Posting) Total() float64 {
	return p.Amount + p.Tax + p.Service
}

// Payment is one settlement line.
type Payment struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ReservationID snowflake.ID  `gorm:"not null;index" json:"reservation_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Method        string        `json:"method,omitempty"`
	Status        PaymentStatus `gorm:"type:text;not null;default:'settled'" json:"status"`
	ReceivedAt    time.Time     `gorm:"not null" json:"received_at"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// FolioTotals is the running ledger summary for one reservation.
type FolioTotals struct {
	ReservationID string  `json:"reservation_id"`
	ChargeTotal   float64 `json:"charge_total"`
	PaymentTotal  float64 `json:"payment_total"`
	Balance       float64 `json:"balance"`
}

// ComputeTotals sums non-void, non-forecast postings against all payments.
// Pure arithmetic, shared by the folio endpoints and the audit engine's
// mismatch check.
func ComputeTotals(reservationID string, postings []Posting, payments []Payment) FolioTotals {
	totals := FolioTotals{ReservationID: reservationID}
	for _, p := range postings {
		if p.Status == PostingStatusVoid || p.Status == PostingStatusForecast {
			continue
		}
		totals.ChargeTotal += p.Total()
	}
	for _, p := range payments {
		totals.PaymentTotal += p.Amount
	}
	totals.Balance = totals.ChargeTotal - totals.PaymentTotal
	return totals
}
