package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/zcorpion/zcorpion-be/internal/budget"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/models/dto"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// ProfileHandler owns the budgeting-profile endpoints.
type ProfileHandler struct {
	profiles storage.ProfileStore
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(profiles storage.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Register attaches profile routes to the mux.
func (h *ProfileHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /profile", h.handleGet)
	mux.HandleFunc("POST /profile", h.handleOnboard)
	mux.HandleFunc("PUT /profile", h.handleUpdate)
}

// handleGet returns the profile after the load-time streak decay check.
// A decayed streak is persisted so every client sees the same value.
func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		storeError(w, err, "fetch profile")
		return
	}

	loaded := budget.LoadProfile(profile, time.Now())
	if loaded.Streak != profile.Streak {
		if loaded, err = h.profiles.UpdateProfile(r.Context(), loaded); err != nil {
			storeError(w, err, "update profile")
			return
		}
	}
	respond.JSON(w, http.StatusOK, "ok", loaded)
}

// handleOnboard completes onboarding: sets income, frequency, and currency,
// and starts the first budget cycle now.
func (h *ProfileHandler) handleOnboard(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.OnboardingRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if !req.Income.IsPositive() {
		respond.Error(w, http.StatusBadRequest, "income must be a positive number")
		return
	}
	frequency, err := models.ParseFrequency(req.Frequency)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	username := strings.TrimSpace(req.Username)
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if username == "" || currency == "" {
		respond.Error(w, http.StatusBadRequest, "username and currency are required")
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		storeError(w, err, "fetch profile")
		return
	}
	profile.Username = username
	profile.Income = req.Income
	profile.Frequency = frequency
	profile.Currency = currency
	profile.Streak = 0
	profile.LastStreakDate = nil
	profile.CycleStart = time.Now()

	updated, err := h.profiles.UpdateProfile(r.Context(), profile)
	if err != nil {
		storeError(w, err, "update profile")
		return
	}
	respond.JSON(w, http.StatusOK, "onboarding complete", updated)
}

// handleUpdate applies a partial settings edit.
func (h *ProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		storeError(w, err, "fetch profile")
		return
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			respond.Error(w, http.StatusBadRequest, "username cannot be empty")
			return
		}
		profile.Username = username
	}
	if req.Income != nil {
		if !req.Income.IsPositive() {
			respond.Error(w, http.StatusBadRequest, "income must be a positive number")
			return
		}
		profile.Income = *req.Income
	}
	if req.Frequency != nil {
		frequency, err := models.ParseFrequency(*req.Frequency)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		profile.Frequency = frequency
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			respond.Error(w, http.StatusBadRequest, "currency cannot be empty")
			return
		}
		profile.Currency = currency
	}
	if req.Reminders != nil {
		profile.Reminders = *req.Reminders
	}

	updated, err := h.profiles.UpdateProfile(r.Context(), profile)
	if err != nil {
		storeError(w, err, "update profile")
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated", updated)
}
