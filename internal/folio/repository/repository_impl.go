package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/folio/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertPosting(ctx context.Context, db *gorm.DB, posting *domain.Posting) error {
	return db.WithContext(ctx).Create(posting).Error
}

func (r *repo) UpdatePosting(ctx context.Context, db *gorm.DB, posting *domain.Posting) error {
	return db.WithContext(ctx).Save(posting).Error
}

func (r *repo) FindPostingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Posting, error) {
	var posting domain.Posting
	err := db.WithContext(ctx).First(&posting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &posting, nil
}

func (r *repo) ListPostings(ctx context.Context, db *gorm.DB, reservationID snowflake.ID) ([]domain.Posting, error) {
	var postings []domain.Posting
	err := db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("posted_at asc, id asc").
		Find(&postings).Error
	if err != nil {
		return nil, err
	}
	return postings, nil
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, reservationID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("received_at asc, id asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
