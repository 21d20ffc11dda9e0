package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/media"
	"github.com/kodewithdky/chai-backend/internal/password"
	"github.com/kodewithdky/chai-backend/internal/repository"
	"github.com/kodewithdky/chai-backend/internal/token"
)

// AuthService drives the session lifecycle: register, login, logout,
// refresh-token rotation and password change. A user holds at most one
// live refresh token; login and refresh overwrite it, which revokes
// whatever token was stored before.
type AuthService struct {
	userRepo repository.UserRepository
	uploader media.Uploader
	hasher   *password.Hasher
	issuer   *token.Issuer
}

func NewAuthService(userRepo repository.UserRepository, uploader media.Uploader, hasher *password.Hasher, issuer *token.Issuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		uploader: uploader,
		hasher:   hasher,
		issuer:   issuer,
	}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Password string
	// Local paths of the spooled upload files. CoverImagePath may be
	// empty; AvatarPath may not.
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Email    string
	Phone    string
	Username string
	Password string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthResult struct {
	User *domain.User
	TokenPair
}

// Register validates the profile fields, checks for an existing identity
// before any upload happens, pushes the avatar (and cover image, if
// given) to the media host and creates the user with a hashed password.
// The unique indexes on email/phone/username close the window between
// the pre-check and the insert.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)

	for _, field := range []string{input.Name, input.Username, input.Email, input.Phone, strings.TrimSpace(input.Password)} {
		if field == "" {
			return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
		}
	}
	if input.AvatarPath == "" {
		return nil, fmt.Errorf("%w: avatar file is required", domain.ErrValidation)
	}

	existing, err := s.userRepo.GetByIdentity(ctx, input.Email, input.Phone, input.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
	}

	avatar, err := s.uploader.Upload(ctx, input.AvatarPath)
	if err != nil || avatar == nil || avatar.URL == "" {
		return nil, fmt.Errorf("%w: avatar", domain.ErrUploadFailed)
	}

	var coverImage domain.ImageAsset
	if input.CoverImagePath != "" {
		// A failed cover upload leaves the field empty rather than
		// failing registration.
		if cover, err := s.uploader.Upload(ctx, input.CoverImagePath); err == nil && cover != nil {
			coverImage = domain.ImageAsset{URL: cover.URL, Key: cover.Key}
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
	}
	user.Avatar = datatypes.NewJSONType(domain.ImageAsset{URL: avatar.URL, Key: avatar.Key})
	user.CoverImage = datatypes.NewJSONType(coverImage)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
		}
		return nil, err
	}

	return user, nil
}

// Login matches the user on any of the provided identity fields and
// verifies the password. On success it issues a fresh token pair and
// persists the refresh token, revoking any earlier session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Email == "" && input.Phone == "" && input.Username == "" {
		return nil, fmt.Errorf("%w: email, phone or username is required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByIdentity(ctx, input.Email, input.Phone, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid user credentials", domain.ErrUnauthorized)
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = pair.RefreshToken

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Logout clears the stored refresh token. Calling it again is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	err := s.userRepo.UpdateRefreshToken(ctx, userID, "")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
	}
	return err
}

// Refresh validates an incoming refresh token and rotates it. The token
// must verify against the refresh secret AND byte-equal the stored
// value; a rotated-out token fails here even while cryptographically
// valid, which is what makes logout and rotation revoke it.
func (s *AuthService) Refresh(ctx context.Context, incoming string) (*AuthResult, error) {
	if incoming == "" {
		return nil, fmt.Errorf("%w: refresh token is required", domain.ErrUnauthorized)
	}

	claims, err := s.issuer.VerifyRefresh(incoming)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if incoming != user.RefreshToken {
		return nil, fmt.Errorf("%w: refresh token expired or reused", domain.ErrUnauthorized)
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = pair.RefreshToken

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// ChangePassword verifies the old password and persists a hash of the
// new one. The stored refresh token is left in place, so an existing
// session survives a password change.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return err
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordHash(ctx, userID, hash)
}

// VerifyAccess checks an access token and returns its claims. Used by
// the auth middleware.
func (s *AuthService) VerifyAccess(tokenString string) (*token.Claims, error) {
	return s.issuer.VerifyAccess(tokenString)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", domain.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueAndStore(ctx context.Context, user *domain.User) (TokenPair, error) {
	accessToken, err := s.issuer.IssueAccess(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generating access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefresh(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generating refresh token: %w", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("storing refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
