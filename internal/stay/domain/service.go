package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type OpenStayRequest struct {
	RoomNumber    string
	ReservationID *snowflake.ID
}

type ListStayRequest struct {
	Status        string `form:"status"`
	RoomNumber    string `form:"room_number"`
	ReservationID string `form:"reservation_id"`
}

// Service owns stay lifecycle. Open and Close accept an optional
// transaction handle so check-in/check-out can move rooms and stays
// atomically.
type Service interface {
	Open(ctx context.Context, tx *gorm.DB, req OpenStayRequest) (Stay, error)
	Close(ctx context.Context, tx *gorm.DB, stayID snowflake.ID) (Stay, error)
	CloseByReservation(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) ([]Stay, error)
	List(ctx context.Context, req ListStayRequest) ([]Stay, error)
}
