package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/repository"
	"github.com/kodewithdky/chai-backend/internal/repository/postgres"
	"github.com/kodewithdky/chai-backend/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	seed, _ := testutil.NewUserBuilder().
		WithUsername("taken").
		WithEmail("taken@example.com").
		WithPhone("12345").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Other",
				Username:     "other",
				Email:        seed.Email,
				Phone:        "99999",
				PasswordHash: "hashedpassword",
			},
			wantErr: gorm.ErrDuplicatedKey,
		},
		{
			name: "duplicate phone",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Other",
				Username:     "other",
				Email:        "other@example.com",
				Phone:        seed.Phone,
				PasswordHash: "hashedpassword",
			},
			wantErr: gorm.ErrDuplicatedKey,
		},
		{
			name: "duplicate username",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Other",
				Username:     seed.Username,
				Email:        "other@example.com",
				Phone:        "99999",
				PasswordHash: "hashedpassword",
			},
			wantErr: gorm.ErrDuplicatedKey,
		},
		{
			name: "successful creation",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Other",
				Username:     "other",
				Email:        "other@example.com",
				Phone:        "99999",
				PasswordHash: "hashedpassword",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserRepository_GetByIdentity(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithUsername("ident_user").
		WithEmail("ident@example.com").
		WithPhone("42424242").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		email    string
		phone    string
		username string
		found    bool
	}{
		{name: "by email", email: "ident@example.com", found: true},
		{name: "by phone", phone: "42424242", found: true},
		{name: "by username", username: "ident_user", found: true},
		{name: "one of several matches", email: "nope@example.com", phone: "42424242", found: true},
		{name: "no match", email: "nope@example.com", phone: "0", username: "nope"},
		{name: "no fields provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByIdentity(ctx, tt.email, tt.phone, tt.username)
			if !tt.found {
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
		})
	}
}

func TestUserRepository_UpdateAccount(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	updated, err := repo.UpdateAccount(ctx, user.ID, repository.AccountFields{
		Name:     "New Name",
		Username: "newusername",
		Email:    "new@example.com",
		Phone:    "777",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "newusername", updated.Username)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "777", updated.Phone)

	// The generic update path cannot touch credentials.
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
	assert.Equal(t, user.RefreshToken, updated.RefreshToken)
	assert.Equal(t, user.AvatarURL(), updated.AvatarURL())

	_, err = repo.UpdateAccount(ctx, uuid.New(), repository.AccountFields{
		Name: "X", Username: "x", Email: "x@example.com", Phone: "1",
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateAccountConflict(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	existing, _ := testutil.NewUserBuilder().WithEmail("claimed@example.com").Build(t, testDB.DB)
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, err := repo.UpdateAccount(ctx, user.ID, repository.AccountFields{
		Name:     user.Name,
		Username: user.Username,
		Email:    existing.Email,
		Phone:    user.Phone,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_RefreshTokenLifecycle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, repo.UpdateRefreshToken(ctx, user.ID, "some-refresh-token"))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "some-refresh-token", got.RefreshToken)

	// Clearing is the logout path.
	require.NoError(t, repo.UpdateRefreshToken(ctx, user.ID, ""))

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.RefreshToken)
}

func TestUserRepository_UpdateAvatar(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	updated, err := repo.UpdateAvatar(ctx, user.ID, domain.ImageAsset{
		URL: "https://media.test/new-avatar",
		Key: "new-avatar",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/new-avatar", updated.AvatarURL())
	assert.Equal(t, user.CoverImageURL(), updated.CoverImageURL())
}
