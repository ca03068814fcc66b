package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zcorpion/zcorpion-be/internal/budget"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/models/dto"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// MovementHandler owns the expense endpoints and the lesson-completed
// streak trigger.
type MovementHandler struct {
	movements storage.MovementStore
	profiles  storage.ProfileStore
}

// NewMovementHandler constructs the handler.
func NewMovementHandler(movements storage.MovementStore, profiles storage.ProfileStore) *MovementHandler {
	return &MovementHandler{movements: movements, profiles: profiles}
}

// Register attaches movement routes to the mux.
func (h *MovementHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /movements", h.handleList)
	mux.HandleFunc("POST /movements", h.handleCreate)
	mux.HandleFunc("DELETE /movements/{id}", h.handleDelete)
	mux.HandleFunc("POST /lessons/complete", h.handleLessonComplete)
}

func (h *MovementHandler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	movements, err := h.movements.ListMovements(r.Context(), id)
	if err != nil {
		storeError(w, err, "list movements")
		return
	}
	if movements == nil {
		movements = []models.Movement{}
	}
	respond.JSON(w, http.StatusOK, "ok", movements)
}

// handleCreate records an expense and applies its profile side effects:
// the streak transition and, when the cycle window has elapsed, the
// rollover of the cycle anchor.
func (h *MovementHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.CreateMovementRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if !req.Amount.IsPositive() {
		respond.Error(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		respond.Error(w, http.StatusBadRequest, "description is required")
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		storeError(w, err, "fetch profile")
		return
	}

	now := time.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	movement := models.Movement{
		ID:          uuid.New(),
		UserID:      id,
		Amount:      req.Amount,
		Category:    category,
		Description: description,
		Date:        date,
		Fixed:       req.IsFixed,
	}
	if req.IsFixed {
		recurrence := profile.Frequency
		if req.Frequency != "" {
			if recurrence, err = models.ParseFrequency(req.Frequency); err != nil {
				respond.Error(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		movement.Recurrence = &recurrence
	}

	updated, err := budget.RecordExpense(profile, movement, now)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, updated, err := h.movements.RecordMovement(r.Context(), movement, updated)
	if err != nil {
		storeError(w, err, "record movement")
		return
	}

	respond.JSON(w, http.StatusCreated, "movement recorded", map[string]any{
		"movement": created,
		"profile":  updated,
	})
}

func (h *MovementHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	movementID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid movement id")
		return
	}
	if err := h.movements.DeleteMovement(r.Context(), id, movementID); err != nil {
		storeError(w, err, "delete movement")
		return
	}
	respond.JSON(w, http.StatusOK, "movement deleted", nil)
}

// handleLessonComplete routes the education feature's trigger through the
// same streak transition as an expense entry.
func (h *MovementHandler) handleLessonComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		storeError(w, err, "fetch profile")
		return
	}

	updated, err := h.profiles.UpdateProfile(r.Context(), budget.CompleteLesson(profile, time.Now()))
	if err != nil {
		storeError(w, err, "update profile")
		return
	}
	respond.JSON(w, http.StatusOK, "lesson recorded", updated)
}
