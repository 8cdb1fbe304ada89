package domain

import (
	"context"
	"errors"

	"github.com/innkeep/innkeep/pkg/db/pagination"
	"github.com/innkeep/innkeep/pkg/flextime"
)

var (
	ErrReservationNotFound = errors.New("reservation_not_found")
	ErrInvalidStatus       = errors.New("invalid_reservation_status")
	ErrInvalidDates        = errors.New("invalid_reservation_dates")
	ErrNoRoomsAssigned     = errors.New("no_rooms_assigned")
	ErrUnknownRoom         = errors.New("unknown_room")
	ErrRoomUnavailable     = errors.New("room_unavailable")
	ErrInvalidGuest        = errors.New("invalid_guest_id")
	ErrNotCheckedIn        = errors.New("reservation_not_checked_in")
	ErrNotBooked           = errors.New("reservation_not_booked")
)

// Date fields bind through flextime: channel managers send ISO strings,
// the legacy client sends {"seconds": N} objects.
type CreateReservationRequest struct {
	GuestID      string        `json:"guest_id"`
	CheckInDate  flextime.Time `json:"check_in_date"`
	CheckOutDate flextime.Time `json:"check_out_date"`
	RoomNumbers  []string      `json:"room_numbers"`
	Channel      string        `json:"channel"`
	Adults       int           `json:"adults"`
	Children     int           `json:"children"`
	Notes        string        `json:"notes"`
}

type UpdateReservationRequest struct {
	ID           string
	CheckInDate  *flextime.Time `json:"check_in_date"`
	CheckOutDate *flextime.Time `json:"check_out_date"`
	RoomNumbers  *[]string      `json:"room_numbers"`
	Channel      *string        `json:"channel"`
	Adults       *int           `json:"adults"`
	Children     *int           `json:"children"`
	Notes        *string        `json:"notes"`
}

type ListReservationRequest struct {
	pagination.Pagination
	Status  string `form:"status"`
	Channel string `form:"channel"`
	GuestID string `form:"guest_id"`
}

type ListReservationResponse struct {
	pagination.PageInfo
	Reservations []Reservation `json:"reservations"`
}

type Service interface {
	Create(ctx context.Context, req CreateReservationRequest) (Reservation, error)
	Update(ctx context.Context, req UpdateReservationRequest) (Reservation, error)
	GetByID(ctx context.Context, id string) (Reservation, error)
	List(ctx context.Context, req ListReservationRequest) (ListReservationResponse, error)
	Cancel(ctx context.Context, id string) (Reservation, error)
	// CheckIn opens one stay per assigned room and marks the rooms
	// occupied, atomically with the status flip.
	CheckIn(ctx context.Context, id string) (Reservation, error)
	// CheckOut closes the reservation's open stays and dirties the rooms.
	CheckOut(ctx context.Context, id string) (Reservation, error)
}
