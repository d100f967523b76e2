package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fjod/go_food/internal/domain"
	"github.com/go-chi/chi/v5"
)

type FavoriteService interface {
	Add(ctx context.Context, userID, foodID string) error
	Remove(ctx context.Context, userID, foodID string) error
	List(ctx context.Context, userID string) ([]*domain.Favorite, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, p domain.UserProfile) (*domain.UserProfile, error)
	GetShippingAddress(ctx context.Context, userID string) (*domain.ShippingAddress, error)
	SaveShippingAddress(ctx context.Context, userID string, addr domain.ShippingAddress) (*domain.ShippingAddress, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

// AccountHandler serves the per-user screens: favorites, profile, shipping address and notifications.
type AccountHandler struct {
	favorites     FavoriteService
	profiles      ProfileService
	notifications NotificationService
	log           *slog.Logger
}

func NewAccountHandler(favorites FavoriteService, profiles ProfileService, notifications NotificationService, log *slog.Logger) *AccountHandler {
	return &AccountHandler{
		favorites:     favorites,
		profiles:      profiles,
		notifications: notifications,
		log:           log,
	}
}

type ProfileRequestDTO struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// GET /api/v1/favorites
func (h *AccountHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	favs, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(favs))
}

// PUT /api/v1/favorites/{food_id}
func (h *AccountHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.favorites.Add(r.Context(), userID, chi.URLParam(r, "food_id")); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/favorites/{food_id}
func (h *AccountHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, chi.URLParam(r, "food_id")); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// PUT /api/v1/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ProfileRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), userID, domain.UserProfile{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GET /api/v1/profile/shipping-address
func (h *AccountHandler) GetShippingAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	addr, err := h.profiles.GetShippingAddress(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, addr)
}

// PUT /api/v1/profile/shipping-address
func (h *AccountHandler) SaveShippingAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req domain.ShippingAddress
	if !decodeJSON(w, r, &req) {
		return
	}

	addr, err := h.profiles.SaveShippingAddress(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, addr)
}

// GET /api/v1/notifications
func (h *AccountHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(list))
}

// POST /api/v1/notifications/{id}/read
func (h *AccountHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
