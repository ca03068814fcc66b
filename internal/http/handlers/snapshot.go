package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/snapshot"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// SnapshotHandler exports and imports the client-local storage format so
// the local-only variant of the app can exchange data with the backend.
type SnapshotHandler struct {
	profiles  storage.ProfileStore
	movements storage.MovementStore
	goals     storage.GoalStore
}

// NewSnapshotHandler constructs the handler.
func NewSnapshotHandler(profiles storage.ProfileStore, movements storage.MovementStore, goals storage.GoalStore) *SnapshotHandler {
	return &SnapshotHandler{profiles: profiles, movements: movements, goals: goals}
}

// Register attaches snapshot routes to the mux.
func (h *SnapshotHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /snapshot", h.handleExport)
	mux.HandleFunc("PUT /snapshot", h.handleImport)
}

func (h *SnapshotHandler) handleExport(w http.ResponseWriter, r *http.Request) {
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
	goals, err := h.goals.ListGoals(r.Context(), id)
	if err != nil {
		storeError(w, err, "list goals")
		return
	}

	doc := snapshot.Document{
		Profile:  &profile,
		Expenses: movements,
		Goals:    goals,
		// dark mode lives on the client; exports carry the flag it sends
		DarkMode: r.URL.Query().Get("dark_mode") == "true",
	}
	blobs, err := doc.MarshalBlobs()
	if err != nil {
		storeError(w, err, "encode snapshot")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", blobs)
}

// handleImport replaces the user's movements and goals with the snapshot
// contents and applies the snapshot profile fields. The authenticated user
// always owns the imported records regardless of ids inside the blobs.
func (h *SnapshotHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var blobs map[string]json.RawMessage
	if !respond.Decode(w, r, &blobs) {
		return
	}
	doc, err := snapshot.UnmarshalBlobs(blobs)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid snapshot: "+err.Error())
		return
	}
	if err := doc.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid snapshot: "+err.Error())
		return
	}

	if doc.Profile != nil {
		current, err := h.profiles.GetProfile(r.Context(), id)
		if err != nil {
			storeError(w, err, "fetch profile")
			return
		}
		incoming := *doc.Profile
		incoming.UserID = id
		incoming.CreatedAt = current.CreatedAt
		if incoming.CycleStart.IsZero() {
			incoming.CycleStart = time.Now()
		}
		if _, err := h.profiles.UpdateProfile(r.Context(), incoming); err != nil {
			storeError(w, err, "update profile")
			return
		}
	}

	for i := range doc.Expenses {
		doc.Expenses[i].UserID = id
	}
	if err := h.movements.ReplaceMovements(r.Context(), id, doc.Expenses); err != nil {
		storeError(w, err, "import movements")
		return
	}

	for i := range doc.Goals {
		doc.Goals[i].UserID = id
	}
	if err := h.goals.ReplaceGoals(r.Context(), id, doc.Goals); err != nil {
		storeError(w, err, "import goals")
		return
	}

	respond.JSON(w, http.StatusOK, "snapshot imported", map[string]int{
		"movements": len(doc.Expenses),
		"goals":     len(doc.Goals),
	})
}
