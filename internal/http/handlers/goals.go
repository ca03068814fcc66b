package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/models/dto"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// GoalHandler owns the savings-goal endpoints.
type GoalHandler struct {
	goals storage.GoalStore
}

// NewGoalHandler constructs the handler.
func NewGoalHandler(goals storage.GoalStore) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// Register attaches goal routes to the mux.
func (h *GoalHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /goals", h.handleList)
	mux.HandleFunc("POST /goals", h.handleCreate)
	mux.HandleFunc("DELETE /goals/{id}", h.handleDelete)
}

func (h *GoalHandler) handleList(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	goals, err := h.goals.ListGoals(r.Context(), id)
	if err != nil {
		storeError(w, err, "list goals")
		return
	}

	out := make([]dto.GoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, dto.GoalResponse{SavingsGoal: g, Progress: g.Progress()})
	}
	respond.JSON(w, http.StatusOK, "ok", out)
}

func (h *GoalHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req dto.CreateGoalRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if !req.Target.IsPositive() {
		respond.Error(w, http.StatusBadRequest, "targetAmount must be a positive number")
		return
	}
	if req.Current.IsNegative() {
		respond.Error(w, http.StatusBadRequest, "currentAmount must be a non-negative number")
		return
	}

	created, err := h.goals.CreateGoal(r.Context(), models.SavingsGoal{
		ID:      uuid.New(),
		UserID:  id,
		Name:    name,
		Target:  req.Target,
		Current: req.Current,
	})
	if err != nil {
		storeError(w, err, "create goal")
		return
	}
	respond.JSON(w, http.StatusCreated, "goal created", dto.GoalResponse{SavingsGoal: created, Progress: created.Progress()})
}

func (h *GoalHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	if err := h.goals.DeleteGoal(r.Context(), id, goalID); err != nil {
		storeError(w, err, "delete goal")
		return
	}
	respond.JSON(w, http.StatusOK, "goal deleted", nil)
}
