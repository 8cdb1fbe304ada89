package domain

import (
	"context"
	"errors"

	"github.com/innkeep/innkeep/pkg/db/pagination"
)

var (
	ErrGuestNotFound = errors.New("guest_not_found")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
)

type CreateGuestRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

type UpdateGuestRequest struct {
	ID        string
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Notes     *string `json:"notes"`
}

type ListGuestRequest struct {
	pagination.Pagination
	Name  string `form:"name"`
	Email string `form:"email"`
}

type ListGuestResponse struct {
	pagination.PageInfo
	Guests []Guest `json:"guests"`
}

type Service interface {
	Create(ctx context.Context, req CreateGuestRequest) (Guest, error)
	Update(ctx context.Context, req UpdateGuestRequest) (Guest, error)
	GetByID(ctx context.Context, id string) (Guest, error)
	List(ctx context.Context, req ListGuestRequest) (ListGuestResponse, error)
}
