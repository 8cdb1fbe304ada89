package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrStayNotFound  = errors.New("stay_not_found")
	ErrRoomHasStay   = errors.New("room_has_open_stay")
	ErrStayNotOpen   = errors.New("stay_not_open")
	ErrInvalidStatus = errors.New("invalid_stay_status")
)

type ListStayFilter struct {
	Status        StayStatus
	RoomNumber    string
	ReservationID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, stay *Stay) error
	Update(ctx context.Context, db *gorm.DB, stay *Stay) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Stay, error)
	FindOpenByRoom(ctx context.Context, db *gorm.DB, roomNumber string) (*Stay, error)
	List(ctx context.Context, db *gorm.DB, filter ListStayFilter) ([]*Stay, error)
}
