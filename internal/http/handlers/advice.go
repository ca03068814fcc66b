package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/zcorpion/zcorpion-be/internal/advisor"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/models/dto"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// AdviceHandler proxies tip generation and chat to the advisor. A nil
// client means the API key is not configured and both endpoints answer 503.
type AdviceHandler struct {
	client    *advisor.Client
	profiles  storage.ProfileStore
	movements storage.MovementStore
	goals     storage.GoalStore
}

// NewAdviceHandler constructs the handler.
func NewAdviceHandler(client *advisor.Client, profiles storage.ProfileStore, movements storage.MovementStore, goals storage.GoalStore) *AdviceHandler {
	return &AdviceHandler{client: client, profiles: profiles, movements: movements, goals: goals}
}

// Register attaches advice routes to the mux.
func (h *AdviceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /advice", h.handleAdvice)
	mux.HandleFunc("POST /chat", h.handleChat)
}

func (h *AdviceHandler) handleAdvice(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if h.client == nil {
		respond.Error(w, http.StatusServiceUnavailable, "advice is not configured")
		return
	}

	profile, movements, goals, ok := h.loadContext(w, r.Context(), id)
	if !ok {
		return
	}

	tips, err := h.client.Tips(r.Context(), profile, movements, goals)
	if err != nil {
		h.adviceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.AdviceResponse{Tips: tips})
}

func (h *AdviceHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if h.client == nil {
		respond.Error(w, http.StatusServiceUnavailable, "advice is not configured")
		return
	}

	var req dto.ChatRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		respond.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	profile, movements, goals, ok := h.loadContext(w, r.Context(), id)
	if !ok {
		return
	}

	text, err := h.client.Chat(r.Context(), message, profile, movements, goals)
	if err != nil {
		h.adviceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.ChatResponse{Text: text})
}

func (h *AdviceHandler) loadContext(w http.ResponseWriter, ctx context.Context, id int64) (models.Profile, []models.Movement, []models.SavingsGoal, bool) {
	profile, err := h.profiles.GetProfile(ctx, id)
	if err != nil {
		storeError(w, err, "fetch profile")
		return models.Profile{}, nil, nil, false
	}
	movements, err := h.movements.ListMovements(ctx, id)
	if err != nil {
		storeError(w, err, "list movements")
		return models.Profile{}, nil, nil, false
	}
	goals, err := h.goals.ListGoals(ctx, id)
	if err != nil {
		storeError(w, err, "list goals")
		return models.Profile{}, nil, nil, false
	}
	return profile, movements, goals, true
}

func (h *AdviceHandler) adviceError(w http.ResponseWriter, err error) {
	log.Printf("advisor: %v", err)
	if errors.Is(err, advisor.ErrRateLimited) {
		respond.Error(w, http.StatusTooManyRequests, "the advisor is rate limited, try again later")
		return
	}
	respond.Error(w, http.StatusBadGateway, "the advisor is unavailable")
}
