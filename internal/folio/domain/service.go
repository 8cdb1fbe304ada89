package domain

import (
	"context"
	"errors"
)

var (
	ErrPostingNotFound  = errors.New("posting_not_found")
	ErrPostingVoid      = errors.New("posting_already_void")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidStatus    = errors.New("invalid_folio_status")
	ErrUnknownFolio     = errors.New("unknown_reservation_folio")
	ErrMissingReference = errors.New("missing_reservation_reference")
)

type AddPostingRequest struct {
	ReservationID string  `json:"reservation_id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Tax           float64 `json:"tax"`
	Service       float64 `json:"service"`
	Status        string  `json:"status"`
}

type AddPaymentRequest struct {
	ReservationID string  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
}

type Service interface {
	AddPosting(ctx context.Context, req AddPostingRequest) (Posting, error)
	VoidPosting(ctx context.Context, postingID string) (Posting, error)
	AddPayment(ctx context.Context, req AddPaymentRequest) (Payment, error)
	ListPostings(ctx context.Context, reservationID string) ([]Posting, error)
	ListPayments(ctx context.Context, reservationID string) ([]Payment, error)
	Totals(ctx context.Context, reservationID string) (FolioTotals, error)
}
