package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListReservationFilter struct {
	Statuses []ReservationStatus
	Channel  string
	GuestID  *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reservation *Reservation) error
	Update(ctx context.Context, db *gorm.DB, reservation *Reservation) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Reservation, error)
	List(ctx context.Context, db *gorm.DB, filter ListReservationFilter, page pagination.Pagination) ([]*Reservation, error)
}
