package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/kodewithdky/chai-backend/internal/api/middleware"
	"github.com/kodewithdky/chai-backend/internal/config"
	"github.com/kodewithdky/chai-backend/internal/domain"
	"github.com/kodewithdky/chai-backend/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	cfg            *config.Config
}

func NewAccountHandler(accountService *service.AccountService, cfg *config.Config) *AccountHandler {
	return &AccountHandler{accountService: accountService, cfg: cfg}
}

type UpdateAccountRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (h *AccountHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, fmt.Errorf("%w: missing authenticated user", domain.ErrUnauthorized))
		return
	}

	user, err := h.accountService.CurrentUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, newUserResponse(user), "User fetched successfully!")
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, fmt.Errorf("%w: missing authenticated user", domain.ErrUnauthorized))
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	user, err := h.accountService.UpdateAccount(r.Context(), userID, service.UpdateAccountInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, newUserResponse(user), "Account details updated successfully!")
}

func (h *AccountHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "Avatar updated successfully!", h.accountService.UpdateAvatar)
}

func (h *AccountHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "Cover image updated successfully!", h.accountService.UpdateCoverImage)
}

func (h *AccountHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field, message string,
	update func(context.Context, uuid.UUID, string) (*domain.User, error),
) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, fmt.Errorf("%w: missing authenticated user", domain.ErrUnauthorized))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, fmt.Errorf("%w: expected multipart form data", domain.ErrValidation))
		return
	}

	path, err := spoolFormFile(r, field, h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, err)
		return
	}
	defer removeSpooled(path)

	user, err := update(r.Context(), userID, path)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, newUserResponse(user), message)
}
