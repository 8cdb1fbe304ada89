package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/stay/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, stay *domain.Stay) error {
	return db.WithContext(ctx).Create(stay).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, stay *domain.Stay) error {
	return db.WithContext(ctx).Save(stay).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Stay, error) {
	var stay domain.Stay
	err := db.WithContext(ctx).First(&stay, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stay, nil
}

func (r *repo) FindOpenByRoom(ctx context.Context, db *gorm.DB, roomNumber string) (*domain.Stay, error) {
	var stay domain.Stay
	err := db.WithContext(ctx).
		First(&stay, "room_number = ? AND status = ?", strings.TrimSpace(roomNumber), domain.StayStatusOpen).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stay, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListStayFilter) ([]*domain.Stay, error) {
	stmt := db.WithContext(ctx).Model(&domain.Stay{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if roomNumber := strings.TrimSpace(filter.RoomNumber); roomNumber != "" {
		stmt = stmt.Where("room_number = ?", roomNumber)
	}
	if filter.ReservationID != nil {
		stmt = stmt.Where("reservation_id = ?", *filter.ReservationID)
	}

	var stays []*domain.Stay
	if err := stmt.Order("opened_at desc, id desc").Find(&stays).Error; err != nil {
		return nil, err
	}
	return stays, nil
}
