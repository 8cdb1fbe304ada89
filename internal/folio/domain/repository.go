package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertPosting(ctx context.Context, db *gorm.DB, posting *Posting) error
	UpdatePosting(ctx context.Context, db *gorm.DB, posting *Posting) error
	FindPostingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Posting, error)
	ListPostings(ctx context.Context, db *gorm.DB, reservationID snowflake.ID) ([]Posting, error)

	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	ListPayments(ctx context.Context, db *gorm.DB, reservationID snowflake.ID) ([]Payment, error)
}
