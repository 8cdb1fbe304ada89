package domain

import (
	"context"
	"errors"
)

var (
	ErrRoomNotFound      = errors.New("room_not_found")
	ErrRoomNumberTaken   = errors.New("room_number_taken")
	ErrInvalidRoomNumber = errors.New("invalid_room_number")
	ErrInvalidRoomType   = errors.New("invalid_room_type")
	ErrInvalidStatus     = errors.New("invalid_room_status")
)

type CreateRoomRequest struct {
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	Floor      string `json:"floor"`
}

type ListRoomRequest struct {
	Status   string `form:"status"`
	RoomType string `form:"room_type"`
}

type SetStatusRequest struct {
	RoomNumber string
	Status     string `json:"status"`
}

type Service interface {
	Create(ctx context.Context, req CreateRoomRequest) (Room, error)
	GetByNumber(ctx context.Context, roomNumber string) (Room, error)
	List(ctx context.Context, req ListRoomRequest) ([]Room, error)
	// SetStatus is the housekeeping flow: Vacant Dirty -> Vacant Clean ->
	// Available, or any room to/from OOO. Occupied transitions belong to
	// check-in/check-out and are rejected here.
	SetStatus(ctx context.Context, req SetStatusRequest) (Room, error)
}
