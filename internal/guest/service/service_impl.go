package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/guest/domain"
	"github.com/innkeep/innkeep/pkg/db/pagination"
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
		log:   p.Log.Named("guest.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGuestRequest) (domain.Guest, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Guest{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Guest{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	guest := domain.Guest{
		ID:        s.genID.Generate(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &guest); err != nil {
		return domain.Guest{}, err
	}
	return guest, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateGuestRequest) (domain.Guest, error) {
	id, err := snowflake.ParseString(req.ID)
	if err != nil {
		return domain.Guest{}, domain.ErrGuestNotFound
	}

	guest, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Guest{}, err
	}
	if guest == nil {
		return domain.Guest{}, domain.ErrGuestNotFound
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return domain.Guest{}, domain.ErrInvalidName
		}
		guest.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return domain.Guest{}, domain.ErrInvalidName
		}
		guest.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return domain.Guest{}, domain.ErrInvalidEmail
		}
		guest.Email = email
	}
	if req.Phone != nil {
		guest.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Notes != nil {
		guest.Notes = strings.TrimSpace(*req.Notes)
	}
	guest.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, guest); err != nil {
		return domain.Guest{}, err
	}
	return *guest, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Guest, error) {
	id, err := snowflake.ParseString(rawID)
	if err != nil {
		return domain.Guest{}, domain.ErrGuestNotFound
	}

	guest, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Guest{}, err
	}
	if guest == nil {
		return domain.Guest{}, domain.ErrGuestNotFound
	}
	return *guest, nil
}

func (s *Service) List(ctx context.Context, req domain.ListGuestRequest) (domain.ListGuestResponse, error) {
	page := req.Pagination
	if page.PageSize <= 0 {
		page.PageSize = 25
	}

	rows, err := s.repo.List(ctx, s.db, domain.ListGuestFilter{
		Name:  req.Name,
		Email: req.Email,
	}, page)
	if err != nil {
		return domain.ListGuestResponse{}, err
	}

	rows, pageInfo, err := pagination.Trim(rows, page.PageSize, func(g *domain.Guest) pagination.Cursor {
		return pagination.Cursor{
			ID:        g.ID.String(),
			CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})
	if err != nil {
		return domain.ListGuestResponse{}, err
	}

	resp := domain.ListGuestResponse{PageInfo: pageInfo}
	resp.Guests = make([]domain.Guest, 0, len(rows))
	for _, g := range rows {
		resp.Guests = append(resp.Guests, *g)
	}
	return resp, nil
}
