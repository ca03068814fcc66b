package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/zcorpion/zcorpion-be/internal/auth"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/models/dto"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// AuthHandler owns register/login/password-reset endpoints.
type AuthHandler struct {
	users    storage.UserStore
	profiles storage.ProfileStore
	tokens   *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, profiles storage.ProfileStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, profiles: profiles, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /password-reset", h.handleResetRequest)
	mux.HandleFunc("POST /password-reset/confirm", h.handleResetConfirm)
	mux.HandleFunc("GET /me", h.handleMe)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	if err := validateCredentials(email, req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	created, err := h.users.CreateUser(r.Context(), models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "user already exists")
			return
		}
		storeError(w, err, "create user")
		return
	}

	// Side-effect profile row, completed later by onboarding.
	_, err = h.profiles.CreateProfile(r.Context(), models.Profile{
		UserID:     created.ID,
		Username:   displayName,
		Frequency:  models.FrequencyMonthly,
		Currency:   "USD",
		CycleStart: time.Now(),
		Reminders:  models.DefaultReminders(),
	})
	if err != nil {
		storeError(w, err, "create profile")
		return
	}

	respond.JSON(w, http.StatusCreated, "User created successfully", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || strings.TrimSpace(req.Password) == "" {
		respond.Error(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("login: fetching user %s: %v", identifier, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token, User: user})
}

// handleResetRequest issues a short-lived reset token. There is no mail
// delivery: the token is returned in the response for the frontend (or an
// operator) to relay. Unknown emails still answer 200 so the endpoint
// cannot be used to probe registered addresses.
func (h *AuthHandler) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		respond.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.JSON(w, http.StatusOK, "if the account exists, a reset token was issued", nil)
			return
		}
		storeError(w, err, "fetch user")
		return
	}

	token, err := h.tokens.GenerateReset(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, "if the account exists, a reset token was issued", map[string]string{"reset_token": token})
}

func (h *AuthHandler) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetConfirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if err := validatePassword(req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.tokens.ParseReset(strings.TrimSpace(req.Token))
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), id, passwordHash); err != nil {
		storeError(w, err, "update password")
		return
	}
	respond.JSON(w, http.StatusOK, "password updated", nil)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", user)
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("a valid email is required")
	}
	return validatePassword(password)
}

func validatePassword(password string) error {
	if len(strings.TrimSpace(password)) < 8 || !utf8.ValidString(password) {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
