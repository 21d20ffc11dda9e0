package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImageAsset is a file hosted on the media store. Key is the object key,
// kept so a stale asset can be removed later.
type ImageAsset struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type User struct {
	ID           uuid.UUID                      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string                         `json:"name" gorm:"not null"`
	Username     string                         `json:"username" gorm:"uniqueIndex;not null"`
	Email        string                         `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string                         `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash string                         `json:"-" gorm:"not null"`
	Avatar       datatypes.JSONType[ImageAsset] `json:"avatar" gorm:"not null"`
	CoverImage   datatypes.JSONType[ImageAsset] `json:"coverImage"`
	RefreshToken string                         `json:"-"`
	CreatedAt    time.Time                      `json:"createdAt"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

func (u *User) AvatarURL() string {
	return u.Avatar.Data().URL
}

func (u *User) CoverImageURL() string {
	return u.CoverImage.Data().URL
}
