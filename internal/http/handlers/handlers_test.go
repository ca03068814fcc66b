package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcorpion/zcorpion-be/internal/auth"
	"github.com/zcorpion/zcorpion-be/internal/http/handlers"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/middleware"
	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// memStore is an in-memory storage.Store for handler tests.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	failProfile bool
	users       map[int64]models.User
	profiles    map[int64]models.Profile
	movements   map[int64][]models.Movement
	goals       map[int64][]models.SavingsGoal
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[int64]models.User),
		profiles:  make(map[int64]models.Profile),
		movements: make(map[int64][]models.Movement),
		goals:     make(map[int64][]models.SavingsGoal),
	}
}

func (s *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *memStore) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *memStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (s *memStore) CreateProfile(_ context.Context, p models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UserID]; ok {
		return models.Profile{}, storage.ErrAlreadyExists
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.profiles[p.UserID] = p
	return p, nil
}

func (s *memStore) GetProfile(_ context.Context, userID int64) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *memStore) UpdateProfile(_ context.Context, p models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UserID]; !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	s.profiles[p.UserID] = p
	return p, nil
}

func (s *memStore) CreateMovement(_ context.Context, m models.Movement) (models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.CreatedAt = time.Now()
	s.movements[m.UserID] = append(s.movements[m.UserID], m)
	return m, nil
}

func (s *memStore) RecordMovement(_ context.Context, m models.Movement, p models.Profile) (models.Movement, models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failProfile {
		return models.Movement{}, models.Profile{}, errors.New("profile write failed")
	}
	if _, ok := s.profiles[p.UserID]; !ok {
		return models.Movement{}, models.Profile{}, storage.ErrNotFound
	}
	m.CreatedAt = time.Now()
	s.movements[m.UserID] = append(s.movements[m.UserID], m)
	p.UpdatedAt = time.Now()
	s.profiles[p.UserID] = p
	return m, p, nil
}

func (s *memStore) ListMovements(_ context.Context, userID int64) ([]models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Movement(nil), s.movements[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memStore) DeleteMovement(_ context.Context, userID int64, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.movements[userID]
	for i, m := range list {
		if m.ID == id {
			s.movements[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *memStore) ReplaceMovements(_ context.Context, userID int64, movements []models.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements[userID] = append([]models.Movement(nil), movements...)
	return nil
}

func (s *memStore) CreateGoal(_ context.Context, g models.SavingsGoal) (models.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.CreatedAt = time.Now()
	s.goals[g.UserID] = append(s.goals[g.UserID], g)
	return g, nil
}

func (s *memStore) ListGoals(_ context.Context, userID int64) ([]models.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SavingsGoal(nil), s.goals[userID]...), nil
}

func (s *memStore) DeleteGoal(_ context.Context, userID int64, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.goals[userID]
	for i, g := range list {
		if g.ID == id {
			s.goals[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *memStore) ReplaceGoals(_ context.Context, userID int64, goals []models.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[userID] = append([]models.SavingsGoal(nil), goals...)
	return nil
}

var _ storage.Store = (*memStore)(nil)

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	tokens := auth.NewTokenManager("test-secret", "zcorpion-backend", time.Hour, 15*time.Minute)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, store, tokens).Register(mux)
	handlers.NewProfileHandler(store).Register(mux)
	handlers.NewMovementHandler(store, store).Register(mux)
	handlers.NewGoalHandler(store).Register(mux)
	handlers.NewDashboardHandler(store, store).Register(mux)
	handlers.NewSnapshotHandler(store, store, store).Register(mux)

	handler := middleware.Auth(tokens, mux,
		"/health", "/register", "/login", "/password-reset", "/password-reset/confirm")

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, method, url, token string, payload any) (*http.Response, respond.Envelope) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env respond.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerAndLogin(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/register", "", map[string]string{
		"email":       "zoe@example.com",
		"password":    "hunter2hunter2",
		"displayName": "Zoe",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"identifier": "zoe@example.com",
		"password":   "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func onboard(t *testing.T, ts *httptest.Server, token string) {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/profile", token, map[string]string{
		"username":  "zoe",
		"income":    "3000",
		"frequency": "MONTHLY",
		"currency":  "USD",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterCreatesProfileSideEffect(t *testing.T) {
	ts, store := newTestServer(t)
	token := registerAndLogin(t, ts)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, _ := json.Marshal(env.Data)
	var profile models.Profile
	require.NoError(t, json.Unmarshal(data, &profile))
	assert.Equal(t, "Zoe", profile.Username)
	assert.Equal(t, models.FrequencyMonthly, profile.Frequency)

	require.Len(t, store.profiles, 1)
}

func TestDuplicateRegisterConflicts(t *testing.T) {
	ts, _ := newTestServer(t)
	registerAndLogin(t, ts)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/register", "", map[string]string{
		"email":    "zoe@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMovementFlowAndDashboard(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	for _, m := range []map[string]any{
		{"amount": "500", "category": "NEEDS", "description": "Renta"},
		{"amount": "200", "category": "WANTS", "description": "Cine"},
		{"amount": "100", "category": "SAVINGS", "description": "Fondo"},
	} {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/movements", token, m)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, _ := json.Marshal(env.Data)
	var dash struct {
		Balance        string            `json:"balance"`
		TotalSpent     string            `json:"total_spent"`
		CycleCompleted bool              `json:"cycle_completed"`
		Streak         int               `json:"streak"`
		MonthlyIncome  string            `json:"monthly_income"`
		Split          map[string]string `json:"split"`
		CategoryTotals []struct {
			Category string `json:"category"`
			Amount   string `json:"amount"`
		} `json:"category_totals"`
	}
	require.NoError(t, json.Unmarshal(data, &dash))

	assert.Equal(t, "2200", dash.Balance)
	assert.Equal(t, "800", dash.TotalSpent)
	assert.False(t, dash.CycleCompleted)
	// three expenses on the same calendar day count once
	assert.Equal(t, 1, dash.Streak)
	assert.Equal(t, "3000", dash.MonthlyIncome)
	assert.Equal(t, "1500", dash.Split["NEEDS"])
	assert.Equal(t, "900", dash.Split["WANTS"])
	assert.Equal(t, "600", dash.Split["SAVINGS"])
	assert.Len(t, dash.CategoryTotals, 3)
}

func TestMovementValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	tests := []map[string]any{
		{"amount": "abc", "category": "NEEDS", "description": "x"},
		{"amount": "-5", "category": "NEEDS", "description": "x"},
		{"amount": "0", "category": "NEEDS", "description": "x"},
		{"amount": "10", "category": "OTHER", "description": "x"},
		{"amount": "10", "category": "NEEDS", "description": "  "},
	}
	for _, m := range tests {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/movements", token, m)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "payload %v", m)
	}
}

func TestDeleteMovement(t *testing.T) {
	ts, store := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/movements", token, map[string]any{
		"amount": "42", "category": "WANTS", "description": "Libros",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data, _ := json.Marshal(env.Data)
	var created struct {
		Movement models.Movement `json:"movement"`
	}
	require.NoError(t, json.Unmarshal(data, &created))

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/movements/%s", ts.URL, created.Movement.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, store.movements[1])

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/movements/%s", ts.URL, created.Movement.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGoalLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerAndLogin(t, ts)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/goals", token, map[string]string{
		"name": "Viaje", "targetAmount": "1000", "currentAmount": "250",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data, _ := json.Marshal(env.Data)
	var goal struct {
		models.SavingsGoal
		Progress float64 `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(data, &goal))
	assert.InDelta(t, 25, goal.Progress, 0.001)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/goals", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/goals/%s", ts.URL, goal.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordResetFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	registerAndLogin(t, ts)

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/password-reset", "", map[string]string{
		"email": "zoe@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, _ := json.Marshal(env.Data)
	var reset struct {
		ResetToken string `json:"reset_token"`
	}
	require.NoError(t, json.Unmarshal(data, &reset))
	require.NotEmpty(t, reset.ResetToken)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/password-reset/confirm", "", map[string]string{
		"token": reset.ResetToken, "password": "newpassword123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"identifier": "zoe@example.com", "password": "newpassword123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"identifier": "zoe@example.com", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// unknown email never reveals whether the account exists
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/password-reset", "", map[string]string{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSnapshotExportImportRoundTrip(t *testing.T) {
	ts, store := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/movements", token, map[string]any{
		"amount": "75.50", "category": "NEEDS", "description": "Despensa", "isFixed": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/snapshot?dark_mode=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, _ := json.Marshal(env.Data)
	var blobs map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &blobs))
	for _, key := range []string{"finanza_profile", "finanza_expenses", "finanza_goals", "finanza_dark_mode"} {
		assert.Contains(t, blobs, key)
	}
	assert.JSONEq(t, "true", string(blobs["finanza_dark_mode"]))

	// wipe and re-import
	require.NoError(t, store.ReplaceMovements(context.Background(), 1, nil))
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/snapshot", token, blobs)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	movements, err := store.ListMovements(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "Despensa", movements[0].Description)
	assert.True(t, movements[0].Fixed)
}

func TestMovementAcceptsNumericAmount(t *testing.T) {
	ts, store := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	// the web client sends amounts as JSON numbers, not strings
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/movements", token, map[string]any{
		"amount": 50.25, "category": "NEEDS", "description": "Luz",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	movements, err := store.ListMovements(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "50.25", movements[0].Amount.String())
}

func TestNumericIncomeAndGoalAmounts(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerAndLogin(t, ts)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/profile", token, map[string]any{
		"username": "zoe", "income": 3000, "frequency": "MONTHLY", "currency": "USD",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/goals", token, map[string]any{
		"name": "Viaje", "targetAmount": 1000, "currentAmount": 250,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSnapshotImportRejectsInvalidRecords(t *testing.T) {
	ts, store := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	tests := []struct {
		name  string
		blobs map[string]any
	}{
		{"negative amount", map[string]any{
			"finanza_expenses": []map[string]any{{"amount": "-50", "category": "NEEDS", "description": "x", "date": time.Now()}},
		}},
		{"unknown category", map[string]any{
			"finanza_expenses": []map[string]any{{"amount": "50", "category": "GARBAGE", "description": "x", "date": time.Now()}},
		}},
		{"negative income", map[string]any{
			"finanza_profile": map[string]any{"username": "z", "income": "-1", "frequency": "MONTHLY", "currency": "USD"},
		}},
		{"unknown frequency", map[string]any{
			"finanza_profile": map[string]any{"username": "z", "income": "10", "frequency": "HOURLY", "currency": "USD"},
		}},
		{"non-positive goal target", map[string]any{
			"finanza_goals": []map[string]any{{"name": "g", "targetAmount": "0", "currentAmount": "0"}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPut, ts.URL+"/snapshot", token, tc.blobs)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	// nothing was persisted by the rejected imports
	movements, err := store.ListMovements(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, movements)
	profile, err := store.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "3000", profile.Income.String())
}

func TestMovementWriteFailureLeavesNoPartialState(t *testing.T) {
	ts, store := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	store.mu.Lock()
	store.failProfile = true
	store.mu.Unlock()

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/movements", token, map[string]any{
		"amount": "50", "category": "NEEDS", "description": "Luz",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	movements, err := store.ListMovements(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, movements)
	profile, err := store.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, profile.Streak)
}

func TestLessonCompleteAdvancesStreak(t *testing.T) {
	ts, store := newTestServer(t)
	token := registerAndLogin(t, ts)
	onboard(t, ts, token)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/lessons/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	profile, err := store.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Streak)

	// second lesson the same day is a no-op
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/lessons/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile, _ = store.GetProfile(context.Background(), 1)
	assert.Equal(t, 1, profile.Streak)
}
