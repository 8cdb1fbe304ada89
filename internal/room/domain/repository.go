package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListRoomFilter struct {
	Status   RoomStatus
	RoomType string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, room *Room) error
	FindByNumber(ctx context.Context, db *gorm.DB, roomNumber string) (*Room, error)
	List(ctx context.Context, db *gorm.DB, filter ListRoomFilter) ([]*Room, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, roomNumber string, status RoomStatus) error
}
