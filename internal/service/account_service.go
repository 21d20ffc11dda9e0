package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/media"
	"github.com/kodewithdky/chai-backend/internal/repository"
)

// AccountService covers the profile operations of an authenticated
// user: reading the account, updating the text fields and replacing the
// avatar or cover image.
type AccountService struct {
	userRepo repository.UserRepository
	uploader media.Uploader
}

func NewAccountService(userRepo repository.UserRepository, uploader media.Uploader) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

type UpdateAccountInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
}

func (s *AccountService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateAccount replaces the profile text fields. All four are required
// non-blank; the password hash and refresh token are not reachable
// through this path.
func (s *AccountService) UpdateAccount(ctx context.Context, userID uuid.UUID, input UpdateAccountInput) (*domain.User, error) {
	fields := repository.AccountFields{
		Name:     strings.TrimSpace(input.Name),
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
	}
	if fields.Name == "" || fields.Username == "" || fields.Email == "" || fields.Phone == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}

	user, err := s.userRepo.UpdateAccount(ctx, userID, fields)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, fmt.Errorf("%w: identity already in use", domain.ErrConflict)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateAvatar uploads a replacement avatar and persists its location.
// The previous asset stays on the media host; its key remains stored
// should cleanup be added later.
func (s *AccountService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	asset, err := s.uploadAsset(ctx, localPath, "avatar")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateAvatar(ctx, userID, *asset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	asset, err := s.uploadAsset(ctx, localPath, "cover image")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateCoverImage(ctx, userID, *asset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) uploadAsset(ctx context.Context, localPath, kind string) (*domain.ImageAsset, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: %s file is missing", domain.ErrValidation, kind)
	}

	uploaded, err := s.uploader.Upload(ctx, localPath)
	if err != nil || uploaded == nil || uploaded.URL == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUploadFailed, kind)
	}
	return &domain.ImageAsset{URL: uploaded.URL, Key: uploaded.Key}, nil
}
