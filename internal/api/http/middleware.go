package http

import (
	"context"
	"net/http"
	"strings"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/security"
)

type contextKey string

const partyContextKey contextKey = "party"

// AuthMiddleware validates the bearer token and injects the verified
// party address into the request context. Read-only endpoints accept
// anonymous requests; mutating handlers require a party.
func AuthMiddleware(tm security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeErrorCode(w, http.StatusUnauthorized, "INVALID_TOKEN", "malformed authorization header")
				return
			}

			claims, err := tm.ValidateToken(token)
			if err != nil {
				writeErrorCode(w, http.StatusUnauthorized, "INVALID_TOKEN", err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), partyContextKey, domain.Party(claims.Address))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PartyFromContext returns the authenticated party, or false when the
// request carried no valid token.
func PartyFromContext(ctx context.Context) (domain.Party, bool) {
	party, ok := ctx.Value(partyContextKey).(domain.Party)
	return party, ok && party != ""
}
