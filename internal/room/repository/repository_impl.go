package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/innkeep/innkeep/internal/room/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, room *domain.Room) error {
	return db.WithContext(ctx).Create(room).Error
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, roomNumber string) (*domain.Room, error) {
	var room domain.Room
	err := db.WithContext(ctx).First(&room, "room_number = ?", strings.TrimSpace(roomNumber)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRoomFilter) ([]*domain.Room, error) {
	stmt := db.WithContext(ctx).Model(&domain.Room{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if roomType := strings.TrimSpace(filter.RoomType); roomType != "" {
		stmt = stmt.Where("room_type = ?", roomType)
	}

	var rooms []*domain.Room
	if err := stmt.Order("room_number asc").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, roomNumber string, status domain.RoomStatus) error {
	result := db.WithContext(ctx).Model(&domain.Room{}).
		Where("room_number = ?", roomNumber).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
