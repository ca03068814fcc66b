package middleware

import (
	"net/http"
	"strings"

	"github.com/zcorpion/zcorpion-be/internal/auth"
	"github.com/zcorpion/zcorpion-be/internal/http/respond"
)

// Auth verifies the bearer token on every request except the listed public
// paths and stores the user id on the request context.
func Auth(tokens *auth.TokenManager, next http.Handler, publicPaths ...string) http.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := public[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearer(r)
		if token == "" {
			respond.Error(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		userID, err := tokens.Parse(token)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
