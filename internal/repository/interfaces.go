package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kodewithdky/chai-backend/internal/domain"
)

// AccountFields are the profile columns the generic update path may
// touch. Password hash and refresh token are writable only through
// their dedicated methods.
type AccountFields struct {
	Name     string
	Username string
	Email    string
	Phone    string
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByIdentity matches on any of the non-empty arguments (OR).
	GetByIdentity(ctx context.Context, email, phone, username string) (*domain.User, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, fields AccountFields) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, asset domain.ImageAsset) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, asset domain.ImageAsset) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	// UpdateRefreshToken stores the current refresh token; an empty
	// string clears it.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error
}

type Repositories struct {
	User UserRepository
}
