package service

import (
	"github.com/kodewithdky/chai-backend/internal/config"
	"github.com/kodewithdky/chai-backend/internal/media"
	"github.com/kodewithdky/chai-backend/internal/password"
	"github.com/kodewithdky/chai-backend/internal/repository"
	"github.com/kodewithdky/chai-backend/internal/token"
)

type Services struct {
	Auth    *AuthService
	Account *AccountService
}

func NewServices(repos *repository.Repositories, uploader media.Uploader, cfg *config.Config) *Services {
	hasher := password.New(cfg.BcryptCost)
	issuer := token.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	return &Services{
		Auth:    NewAuthService(repos.User, uploader, hasher, issuer),
		Account: NewAccountService(repos.User, uploader),
	}
}
