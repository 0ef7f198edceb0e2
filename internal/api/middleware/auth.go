package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rrens/promptdesk/internal/api/response"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type contextKey string

const UserIDKey contextKey = "userID"

// MsgUnauthenticated is the single reply for every rejected credential
const MsgUnauthenticated = "Please authenticate"

// TokenVerifier resolves a bearer token to a user id
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate validates the bearer token. Missing, malformed, expired
// and forged tokens all get the same 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			response.Unauthorized(w, MsgUnauthenticated)
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("Token rejected")
			response.Unauthorized(w, MsgUnauthenticated)
			return
		}

		// The request logger is shared by pointer; later lines carry the user.
		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", userID.String())
		})

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetUserID gets the user ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
