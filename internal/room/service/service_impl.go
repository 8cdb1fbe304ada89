package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/room/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("room.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRoomRequest) (domain.Room, error) {
	roomNumber := strings.TrimSpace(req.RoomNumber)
	if roomNumber == "" {
		return domain.Room{}, domain.ErrInvalidRoomNumber
	}
	roomType := strings.TrimSpace(req.RoomType)
	if roomType == "" {
		return domain.Room{}, domain.ErrInvalidRoomType
	}

	existing, err := s.repo.FindByNumber(ctx, s.db, roomNumber)
	if err != nil {
		return domain.Room{}, err
	}
	if existing != nil {
		return domain.Room{}, domain.ErrRoomNumberTaken
	}

	now := time.Now().UTC()
	room := domain.Room{
		ID:         s.genID.Generate(),
		RoomNumber: roomNumber,
		RoomType:   roomType,
		Status:     domain.RoomStatusAvailable,
		Floor:      strings.TrimSpace(req.Floor),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, &room); err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (s *Service) GetByNumber(ctx context.Context, roomNumber string) (domain.Room, error) {
	room, err := s.repo.FindByNumber(ctx, s.db, roomNumber)
	if err != nil {
		return domain.Room{}, err
	}
	if room == nil {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return *room, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRoomRequest) ([]domain.Room, error) {
	filter := domain.ListRoomFilter{RoomType: req.RoomType}
	if status := strings.TrimSpace(req.Status); status != "" {
		if !domain.ValidStatus(domain.RoomStatus(status)) {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = domain.RoomStatus(status)
	}

	rows, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	rooms := make([]domain.Room, 0, len(rows))
	for _, r := range rows {
		rooms = append(rooms, *r)
	}
	return rooms, nil
}

func (s *Service) SetStatus(ctx context.Context, req domain.SetStatusRequest) (domain.Room, error) {
	status := domain.RoomStatus(strings.TrimSpace(req.Status))
	if !domain.ValidStatus(status) {
		return domain.Room{}, domain.ErrInvalidStatus
	}
	// Occupancy is owned by check-in/check-out, not housekeeping.
	if status == domain.RoomStatusOccupied {
		return domain.Room{}, domain.ErrInvalidStatus
	}

	room, err := s.repo.FindByNumber(ctx, s.db, req.RoomNumber)
	if err != nil {
		return domain.Room{}, err
	}
	if room == nil {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if room.Status == domain.RoomStatusOccupied {
		return domain.Room{}, domain.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, s.db, room.RoomNumber, status); err != nil {
		return domain.Room{}, err
	}

	s.log.Info("room status changed",
		zap.String("room_number", room.RoomNumber),
		zap.String("from", string(room.Status)),
		zap.String("to", string(status)),
	)
	room.Status = status
	return *room, nil
}
