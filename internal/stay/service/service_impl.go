package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/stay/domain"
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
		log:   p.Log.Named("stay.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *Service) Open(ctx context.Context, tx *gorm.DB, req domain.OpenStayRequest) (domain.Stay, error) {
	db := s.handle(tx)

	roomNumber := strings.TrimSpace(req.RoomNumber)
	if roomNumber == "" {
		return domain.Stay{}, domain.ErrStayNotFound
	}

	// One open stay per room. Best-effort guard; the night audit
	// cross-checks the invariant against rooms afterwards.
	open, err := s.repo.FindOpenByRoom(ctx, db, roomNumber)
	if err != nil {
		return domain.Stay{}, err
	}
	if open != nil {
		return domain.Stay{}, domain.ErrRoomHasStay
	}

	now := time.Now().UTC()
	stay := domain.Stay{
		ID:            s.genID.Generate(),
		Status:        domain.StayStatusOpen,
		RoomNumber:    roomNumber,
		ReservationID: req.ReservationID,
		OpenedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, db, &stay); err != nil {
		return domain.Stay{}, err
	}
	return stay, nil
}

func (s *Service) Close(ctx context.Context, tx *gorm.DB, stayID snowflake.ID) (domain.Stay, error) {
	db := s.handle(tx)

	stay, err := s.repo.FindByID(ctx, db, stayID)
	if err != nil {
		return domain.Stay{}, err
	}
	if stay == nil {
		return domain.Stay{}, domain.ErrStayNotFound
	}
	if stay.Status != domain.StayStatusOpen {
		return domain.Stay{}, domain.ErrStayNotOpen
	}

	now := time.Now().UTC()
	stay.Status = domain.StayStatusClosed
	stay.ClosedAt = &now
	stay.UpdatedAt = now
	if err := s.repo.Update(ctx, db, stay); err != nil {
		return domain.Stay{}, err
	}
	return *stay, nil
}

func (s *Service) CloseByReservation(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) ([]domain.Stay, error) {
	db := s.handle(tx)

	rows, err := s.repo.List(ctx, db, domain.ListStayFilter{
		Status:        domain.StayStatusOpen,
		ReservationID: &reservationID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	closed := make([]domain.Stay, 0, len(rows))
	for _, stay := range rows {
		stay.Status = domain.StayStatusClosed
		stay.ClosedAt = &now
		stay.UpdatedAt = now
		if err := s.repo.Update(ctx, db, stay); err != nil {
			return nil, err
		}
		closed = append(closed, *stay)
	}
	return closed, nil
}

func (s *Service) List(ctx context.Context, req domain.ListStayRequest) ([]domain.Stay, error) {
	filter := domain.ListStayFilter{RoomNumber: req.RoomNumber}

	if status := strings.TrimSpace(req.Status); status != "" {
		switch domain.StayStatus(status) {
		case domain.StayStatusOpen, domain.StayStatusClosed:
			filter.Status = domain.StayStatus(status)
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	if raw := strings.TrimSpace(req.ReservationID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrStayNotFound
		}
		filter.ReservationID = &id
	}

	rows, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	stays := make([]domain.Stay, 0, len(rows))
	for _, st := range rows {
		stays = append(stays, *st)
	}
	return stays, nil
}
