package handlers

import (
	"net/http"
	"time"

	"github.com/zcorpion/zcorpion-be/internal/budget"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/models/dto"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// DashboardHandler serves the cycle projection the app home screen shows.
type DashboardHandler struct {
	profiles  storage.ProfileStore
	movements storage.MovementStore
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(profiles storage.ProfileStore, movements storage.MovementStore) *DashboardHandler {
	return &DashboardHandler{profiles: profiles, movements: movements}
}

// Register attaches the dashboard route to the mux.
func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /dashboard", h.handle)
}

func (h *DashboardHandler) handle(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		storeError(w, err, "fetch profile")
		return
	}
	movements, err := h.movements.ListMovements(r.Context(), id)
	if err != nil {
		storeError(w, err, "list movements")
		return
	}

	now := time.Now()
	cycle := budget.CurrentCycle(movements, profile.CycleStart, profile.Frequency)
	balance := budget.CycleBalance(profile.Income, cycle)
	countdown := budget.RemainingTime(profile.CycleStart, profile.Frequency, now)
	totals := budget.CategoryTotals(cycle)
	monthly := budget.MonthlyIncome(profile.Income, profile.Frequency)
	splits := budget.Split(monthly)

	spent := profile.Income.Sub(balance)

	// chart projection drops zero-total categories
	var chart []dto.CategoryAmount
	for _, cat := range models.Categories {
		if totals[cat].IsZero() {
			continue
		}
		chart = append(chart, dto.CategoryAmount{Category: cat, Amount: totals[cat].String()})
	}

	split := make(map[string]string, len(splits))
	for cat, amount := range splits {
		split[string(cat)] = amount.String()
	}

	if cycle == nil {
		cycle = []models.Movement{}
	}

	respond.JSON(w, http.StatusOK, "ok", dto.DashboardResponse{
		Balance:          balance.String(),
		TotalSpent:       spent.String(),
		CycleStart:       profile.CycleStart,
		RemainingSeconds: int64(countdown.Remaining / time.Second),
		RemainingPercent: countdown.Percent,
		CycleCompleted:   countdown.Completed,
		Streak:           profile.Streak,
		MonthlyIncome:    monthly.String(),
		Split:            split,
		CategoryTotals:   chart,
		CycleExpenses:    cycle,
	})
}
