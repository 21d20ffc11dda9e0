package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/repository"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIdentity(ctx context.Context, email, phone, username string) (*domain.User, error) {
	var clauses []string
	var args []interface{}
	if email != "" {
		clauses = append(clauses, "email = ?")
		args = append(args, email)
	}
	if phone != "" {
		clauses = append(clauses, "phone = ?")
		args = append(args, phone)
	}
	if username != "" {
		clauses = append(clauses, "username = ?")
		args = append(args, username)
	}
	if len(clauses) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where(strings.Join(clauses, " OR "), args...).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, id uuid.UUID, fields repository.AccountFields) (*domain.User, error) {
	updates := map[string]interface{}{
		"name":     fields.Name,
		"username": fields.Username,
		"email":    fields.Email,
		"phone":    fields.Phone,
	}
	if err := r.updateColumns(ctx, id, updates); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, asset domain.ImageAsset) (*domain.User, error) {
	updates := map[string]interface{}{"avatar": datatypes.NewJSONType(asset)}
	if err := r.updateColumns(ctx, id, updates); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, asset domain.ImageAsset) (*domain.User, error) {
	updates := map[string]interface{}{"cover_image": datatypes.NewJSONType(asset)}
	if err := r.updateColumns(ctx, id, updates); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password_hash": hash})
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"refresh_token": token})
}

func (r *userRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
