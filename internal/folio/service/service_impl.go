package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/folio/domain"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Repo            domain.Repository
	ReservationRepo reservationdomain.Repository
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	repo            domain.Repository
	reservationRepo reservationdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("folio.service"),
		genID:           p.GenID,
		repo:            p.Repo,
		reservationRepo: p.ReservationRepo,
	}
}

func (s *Service) AddPosting(ctx context.Context, req domain.AddPostingRequest) (domain.Posting, error) {
	reservationID, err := s.resolveReservation(ctx, req.ReservationID)
	if err != nil {
		return domain.Posting{}, err
	}
	if !validAmount(req.Amount) || !validAmount(req.Tax) || !validAmount(req.Service) {
		return domain.Posting{}, domain.ErrInvalidAmount
	}

	status := domain.PostingStatusPosted
	if raw := strings.TrimSpace(req.Status); raw != "" {
		switch domain.PostingStatus(raw) {
		case domain.PostingStatusPosted, domain.PostingStatusForecast:
			status = domain.PostingStatus(raw)
		default:
			return domain.Posting{}, domain.ErrInvalidStatus
		}
	}

	now := time.Now().UTC()
	posting := domain.Posting{
		ID:            s.genID.Generate(),
		ReservationID: reservationID,
		Description:   strings.TrimSpace(req.Description),
		Amount:        req.Amount,
		Tax:           req.Tax,
		Service:       req.Service,
		Status:        status,
		PostedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertPosting(ctx, s.db, &posting); err != nil {
		return domain.Posting{}, err
	}
	return posting, nil
}

func (s *Service) VoidPosting(ctx context.Context, rawID string) (domain.Posting, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return domain.Posting{}, domain.ErrPostingNotFound
	}

	posting, err := s.repo.FindPostingByID(ctx, s.db, id)
	if err != nil {
		return domain.Posting{}, err
	}
	if posting == nil {
		return domain.Posting{}, domain.ErrPostingNotFound
	}
	if posting.Status == domain.PostingStatusVoid {
		return domain.Posting{}, domain.ErrPostingVoid
	}

	posting.Status = domain.PostingStatusVoid
	posting.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdatePosting(ctx, s.db, posting); err != nil {
		return domain.Posting{}, err
	}

	s.log.Info("posting voided",
		zap.String("posting_id", posting.ID.String()),
		zap.String("reservation_id", posting.ReservationID.String()),
	)
	return *posting, nil
}

func (s *Service) AddPayment(ctx context.Context, req domain.AddPaymentRequest) (domain.Payment, error) {
	reservationID, err := s.resolveReservation(ctx, req.ReservationID)
	if err != nil {
		return domain.Payment{}, err
	}
	if !validAmount(req.Amount) || req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		ID:            s.genID.Generate(),
		ReservationID: reservationID,
		Amount:        req.Amount,
		Method:        strings.TrimSpace(req.Method),
		Status:        domain.PaymentStatusSettled,
		ReceivedAt:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertPayment(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

func (s *Service) ListPostings(ctx context.Context, rawID string) ([]domain.Posting, error) {
	reservationID, err := s.resolveReservation(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPostings(ctx, s.db, reservationID)
}

func (s *Service) ListPayments(ctx context.Context, rawID string) ([]domain.Payment, error) {
	reservationID, err := s.resolveReservation(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, s.db, reservationID)
}

func (s *Service) Totals(ctx context.Context, rawID string) (domain.FolioTotals, error) {
	reservationID, err := s.resolveReservation(ctx, rawID)
	if err != nil {
		return domain.FolioTotals{}, err
	}

	postings, err := s.repo.ListPostings(ctx, s.db, reservationID)
	if err != nil {
		return domain.FolioTotals{}, err
	}
	payments, err := s.repo.ListPayments(ctx, s.db, reservationID)
	if err != nil {
		return domain.FolioTotals{}, err
	}
	return domain.ComputeTotals(reservationID.String(), postings, payments), nil
}

func (s *Service) resolveReservation(ctx context.Context, rawID string) (snowflake.ID, error) {
	raw := strings.TrimSpace(rawID)
	if raw == "" {
		return 0, domain.ErrMissingReference
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrUnknownFolio
	}

	reservation, err := s.reservationRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return 0, err
	}
	if reservation == nil {
		return 0, domain.ErrUnknownFolio
	}
	return id, nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
