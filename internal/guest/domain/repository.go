package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListGuestFilter struct {
	Name  string
	Email string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, guest *Guest) error
	Update(ctx context.Context, db *gorm.DB, guest *Guest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Guest, error)
	List(ctx context.Context, db *gorm.DB, filter ListGuestFilter, page pagination.Pagination) ([]*Guest, error)
}
