package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/zcorpion/zcorpion-be/internal/auth"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

// userID pulls the authenticated user from the request context, answering
// 401 when the middleware did not run. Returns false when already answered.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing or invalid token")
		return 0, false
	}
	return id, true
}

// storeError maps storage sentinel errors onto HTTP statuses.
func storeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "record not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "record already exists")
	default:
		log.Printf("%s: %v", action, err)
		respond.Error(w, http.StatusInternalServerError, "failed to "+action)
	}
}
