package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/media"
)

// FakeUploader is an in-memory media.Uploader. Set Fail to make the
// next uploads report failure.
type FakeUploader struct {
	mu      sync.Mutex
	Fail    bool
	Uploads []string
	Deletes []string
}

func (f *FakeUploader) Upload(ctx context.Context, localPath string) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Fail {
		return nil, errors.New("upload rejected")
	}
	f.Uploads = append(f.Uploads, localPath)
	key := fmt.Sprintf("test/%s", uuid.New())
	return &media.Asset{URL: "https://media.test/" + key, Key: key}, nil
}

func (f *FakeUploader) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deletes = append(f.Deletes, key)
	return nil
}

// SetFail toggles upload failure.
func (f *FakeUploader) SetFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fail = fail
}

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	username string
	email    string
	phone    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "Test User",
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("test_%s@example.com", suffix),
		phone:    fmt.Sprintf("555%s", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPhone(phone string) *UserBuilder {
	b.phone = phone
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Username:     b.username,
		Email:        b.email,
		Phone:        b.phone,
		PasswordHash: string(hashedPassword),
	}
	user.Avatar = datatypes.NewJSONType(domain.ImageAsset{
		URL: "https://media.test/seed/" + user.ID.String(),
		Key: "seed/" + user.ID.String(),
	})

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// WriteTempImage writes a small throwaway file and returns its path,
// standing in for a spooled image upload.
func WriteTempImage(t *testing.T) string {
	t.Helper()

	f, err := os.CreateTemp("", "testimage-*.png")
	if err != nil {
		t.Fatalf("failed to create temp image: %v", err)
	}
	defer f.Close()

	if _, err := f.WriteString("not really a png"); err != nil {
		t.Fatalf("failed to write temp image: %v", err)
	}

	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

// MultipartForm builds a multipart body with the given text fields and
// file fields (field name -> file name). Returns the body and content type.
func MultipartForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", key, err)
		}
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("failed to create form file %s: %v", field, err)
		}
		if _, err := io.WriteString(part, "fake image bytes"); err != nil {
			t.Fatalf("failed to write form file %s: %v", field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

// AuthResponse matches the API auth response envelope data for login.
type AuthResponse struct {
	User struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		AvatarURL string `json:"avatarUrl"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// CookieValue returns the named cookie from a response, or "".
func CookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
