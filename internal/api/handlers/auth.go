package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kodewithdky/chai-backend/internal/api/middleware"
	"github.com/kodewithdky/chai-backend/internal/config"
	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/service"
)

const maxUploadBytes = 16 << 20

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type LoginData struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type RefreshData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register accepts a multipart form with the profile fields, a required
// avatar file and an optional coverImage file.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, fmt.Errorf("%w: expected multipart form data", domain.ErrValidation))
		return
	}

	avatarPath, err := spoolFormFile(r, "avatar", h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, err)
		return
	}
	coverImagePath, err := spoolFormFile(r, "coverImage", h.cfg.UploadTempDir)
	if err != nil {
		removeSpooled(avatarPath)
		respondError(w, err)
		return
	}
	defer removeSpooled(avatarPath, coverImagePath)

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:           r.FormValue("name"),
		Username:       r.FormValue("username"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		Password:       r.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverImagePath,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, newUserResponse(user), "User registered successfully!")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.setAuthCookies(w, result.TokenPair)
	respond(w, http.StatusOK, LoginData{
		User:         newUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully!")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, fmt.Errorf("%w: missing authenticated user", domain.ErrUnauthorized))
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}

	h.clearAuthCookies(w)
	respond(w, http.StatusOK, struct{}{}, "User logged out!")
}

// Refresh rotates the token pair. The incoming refresh token comes from
// the refreshToken cookie or the request body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	incoming := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	result, err := h.authService.Refresh(r.Context(), incoming)
	if err != nil {
		respondError(w, err)
		return
	}

	h.setAuthCookies(w, result.TokenPair)
	respond(w, http.StatusOK, RefreshData{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "Access token refreshed!")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, fmt.Errorf("%w: missing authenticated user", domain.ErrUnauthorized))
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, struct{}{}, "Password changed successfully!")
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, pair service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.CookieSecure,
		})
	}
}
