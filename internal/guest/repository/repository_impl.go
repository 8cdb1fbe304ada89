package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/guest/domain"
	"github.com/innkeep/innkeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, guest *domain.Guest) error {
	return db.WithContext(ctx).Create(guest).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, guest *domain.Guest) error {
	return db.WithContext(ctx).Save(guest).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Guest, error) {
	var guest domain.Guest
	err := db.WithContext(ctx).First(&guest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guest, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListGuestFilter, page pagination.Pagination) ([]*domain.Guest, error) {
	stmt := db.WithContext(ctx).Model(&domain.Guest{})

	if name := strings.TrimSpace(filter.Name); name != "" {
		pattern := "%" + strings.ToLower(name) + "%"
		stmt = stmt.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		stmt = stmt.Where("email = ?", email)
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

	var guests []*domain.Guest
	if err := stmt.Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}
