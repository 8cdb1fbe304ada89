package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/reservation/domain"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
	"github.com/innkeep/innkeep/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	RoomRepo roomdomain.Repository
	StaySvc  staydomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	roomRepo roomdomain.Repository
	staySvc  staydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reservation.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		roomRepo: p.RoomRepo,
		staySvc:  p.StaySvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateReservationRequest) (domain.Reservation, error) {
	checkIn := req.CheckInDate.Ptr()
	checkOut := req.CheckOutDate.Ptr()
	if checkIn != nil && checkOut != nil && !checkOut.After(*checkIn) {
		return domain.Reservation{}, domain.ErrInvalidDates
	}

	roomNumbers, err := s.normalizeRooms(ctx, req.RoomNumbers)
	if err != nil {
		return domain.Reservation{}, err
	}

	var guestID *snowflake.ID
	if raw := strings.TrimSpace(req.GuestID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Reservation{}, domain.ErrInvalidGuest
		}
		guestID = &id
	}

	now := time.Now().UTC()
	reservation := domain.Reservation{
		ID:           s.genID.Generate(),
		GuestID:      guestID,
		Status:       domain.StatusBooked,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		RoomNumbers:  roomNumbers,
		Channel:      strings.TrimSpace(req.Channel),
		Adults:       req.Adults,
		Children:     req.Children,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &reservation); err != nil {
		return domain.Reservation{}, err
	}
	return reservation, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateReservationRequest) (domain.Reservation, error) {
	reservation, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if reservation.Status == domain.StatusCancelled || reservation.Status == domain.StatusDeleted {
		return domain.Reservation{}, domain.ErrInvalidStatus
	}

	if req.CheckInDate != nil {
		reservation.CheckInDate = req.CheckInDate.Ptr()
	}
	if req.CheckOutDate != nil {
		reservation.CheckOutDate = req.CheckOutDate.Ptr()
	}
	if reservation.CheckInDate != nil && reservation.CheckOutDate != nil &&
		!reservation.CheckOutDate.After(*reservation.CheckInDate) {
		return domain.Reservation{}, domain.ErrInvalidDates
	}
	if req.RoomNumbers != nil {
		roomNumbers, err := s.normalizeRooms(ctx, *req.RoomNumbers)
		if err != nil {
			return domain.Reservation{}, err
		}
		reservation.RoomNumbers = roomNumbers
	}
	if req.Channel != nil {
		reservation.Channel = strings.TrimSpace(*req.Channel)
	}
	if req.Adults != nil {
		reservation.Adults = *req.Adults
	}
	if req.Children != nil {
		reservation.Children = *req.Children
	}
	if req.Notes != nil {
		reservation.Notes = strings.TrimSpace(*req.Notes)
	}
	reservation.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, reservation); err != nil {
		return domain.Reservation{}, err
	}
	return *reservation, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Reservation, error) {
	reservation, err := s.find(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	return *reservation, nil
}

func (s *Service) List(ctx context.Context, req domain.ListReservationRequest) (domain.ListReservationResponse, error) {
	page := req.Pagination
	if page.PageSize <= 0 {
		page.PageSize = 25
	}

	filter := domain.ListReservationFilter{Channel: req.Channel}
	if status := strings.TrimSpace(req.Status); status != "" {
		if !validStatus(domain.ReservationStatus(status)) {
			return domain.ListReservationResponse{}, domain.ErrInvalidStatus
		}
		filter.Statuses = []domain.ReservationStatus{domain.ReservationStatus(status)}
	}
	if raw := strings.TrimSpace(req.GuestID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListReservationResponse{}, domain.ErrInvalidGuest
		}
		filter.GuestID = &id
	}

	rows, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListReservationResponse{}, err
	}

	rows, pageInfo, err := pagination.Trim(rows, page.PageSize, func(r *domain.Reservation) pagination.Cursor {
		return pagination.Cursor{
			ID:        r.ID.String(),
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})
	if err != nil {
		return domain.ListReservationResponse{}, err
	}

	resp := domain.ListReservationResponse{PageInfo: pageInfo}
	resp.Reservations = make([]domain.Reservation, 0, len(rows))
	for _, r := range rows {
		resp.Reservations = append(resp.Reservations, *r)
	}
	return resp, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Reservation, error) {
	reservation, err := s.find(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if reservation.Status != domain.StatusBooked {
		return domain.Reservation{}, domain.ErrInvalidStatus
	}

	reservation.Status = domain.StatusCancelled
	reservation.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, reservation); err != nil {
		return domain.Reservation{}, err
	}
	return *reservation, nil
}

func (s *Service) CheckIn(ctx context.Context, id string) (domain.Reservation, error) {
	reservation, err := s.find(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if reservation.Status != domain.StatusBooked {
		return domain.Reservation{}, domain.ErrNotBooked
	}
	if len(reservation.RoomNumbers) == 0 {
		return domain.Reservation{}, domain.ErrNoRoomsAssigned
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, roomNumber := range reservation.RoomNumbers {
			room, err := s.roomRepo.FindByNumber(ctx, tx, roomNumber)
			if err != nil {
				return err
			}
			if room == nil {
				return domain.ErrUnknownRoom
			}
			if room.Status == roomdomain.RoomStatusOccupied || room.Status == roomdomain.RoomStatusOutOfOrder {
				return domain.ErrRoomUnavailable
			}

			resID := reservation.ID
			if _, err := s.staySvc.Open(ctx, tx, staydomain.OpenStayRequest{
				RoomNumber:    roomNumber,
				ReservationID: &resID,
			}); err != nil {
				return err
			}
			if err := s.roomRepo.UpdateStatus(ctx, tx, roomNumber, roomdomain.RoomStatusOccupied); err != nil {
				return err
			}
		}

		reservation.Status = domain.StatusCheckedIn
		if reservation.CheckInDate == nil {
			now := time.Now().UTC()
			reservation.CheckInDate = &now
		}
		reservation.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, reservation)
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	s.log.Info("reservation checked in",
		zap.String("reservation_id", reservation.ID.String()),
		zap.Strings("rooms", reservation.RoomNumbers),
	)
	return *reservation, nil
}

func (s *Service) CheckOut(ctx context.Context, id string) (domain.Reservation, error) {
	reservation, err := s.find(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if reservation.Status != domain.StatusCheckedIn {
		return domain.Reservation{}, domain.ErrNotCheckedIn
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closed, err := s.staySvc.CloseByReservation(ctx, tx, reservation.ID)
		if err != nil {
			return err
		}
		for _, stay := range closed {
			if err := s.roomRepo.UpdateStatus(ctx, tx, stay.RoomNumber, roomdomain.RoomStatusVacantDirty); err != nil {
				return err
			}
		}

		reservation.Status = domain.StatusCheckedOut
		reservation.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, reservation)
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	s.log.Info("reservation checked out",
		zap.String("reservation_id", reservation.ID.String()),
	)
	return *reservation, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Reservation, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return nil, domain.ErrReservationNotFound
	}
	reservation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil || reservation.Status == domain.StatusDeleted {
		return nil, domain.ErrReservationNotFound
	}
	return reservation, nil
}

func (s *Service) normalizeRooms(ctx context.Context, raw []string) ([]string, error) {
	roomNumbers := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, rn := range raw {
		rn = strings.TrimSpace(rn)
		if rn == "" || seen[rn] {
			continue
		}
		room, err := s.roomRepo.FindByNumber(ctx, s.db, rn)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, domain.ErrUnknownRoom
		}
		seen[rn] = true
		roomNumbers = append(roomNumbers, rn)
	}
	return roomNumbers, nil
}

func validStatus(status domain.ReservationStatus) bool {
	switch status {
	case domain.StatusBooked, domain.StatusCheckedIn, domain.StatusCheckedOut,
		domain.StatusCancelled, domain.StatusDeleted:
		return true
	default:
		return false
	}
}
