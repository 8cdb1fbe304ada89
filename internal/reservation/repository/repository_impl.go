package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/reservation/domain"
	"github.com/innkeep/innkeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reservation *domain.Reservation) error {
	return db.WithContext(ctx).Create(reservation).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, reservation *domain.Reservation) error {
	return db.WithContext(ctx).Save(reservation).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := db.WithContext(ctx).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListReservationFilter, page pagination.Pagination) ([]*domain.Reservation, error) {
	stmt := db.WithContext(ctx).Model(&domain.Reservation{})

	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", filter.Statuses)
	}
	if channel := strings.TrimSpace(filter.Channel); channel != "" {
		stmt = stmt.Where("channel = ?", channel)
	}
	if filter.GuestID != nil {
		stmt = stmt.Where("guest_id = ?", *filter.GuestID)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		// Snowflake IDs are time-ordered, so the ID alone is a stable
		// keyset cursor.
		lastID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("id < ?", lastID)
	}

	stmt = stmt.Order("id desc")
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}

	var reservations []*domain.Reservation
	if err := stmt.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}
