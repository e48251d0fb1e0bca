package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive/internal/shared"
)

const bearerPrefix = "Bearer "

// Guard extracts a bearer token from inbound requests, verifies it and
// binds the resolved subject id to the request context. It is the sole
// gate in front of every protected route.
type Guard struct {
	logger     *slog.Logger
	tokens     *TokenManager
	cookieName string
}

// NewGuard constructs a Guard.
func NewGuard(logger *slog.Logger, tokens *TokenManager, cookieName string) *Guard {
	return &Guard{logger: logger, tokens: tokens, cookieName: cookieName}
}

// RequireAuth rejects requests without a valid token. The candidate token
// comes from the Authorization header first, then the token cookie. All
// verification failures collapse into one uniform rejection so callers
// cannot distinguish malformed from expired tokens; the reason is only
// logged server-side.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		candidate := tokenFromRequest(r, g.cookieName)
		if candidate == "" {
			shared.RespondError(w, g.logger, shared.ErrTokenMissing)
			return
		}
		subjectID, err := g.tokens.Verify(candidate)
		if err != nil {
			if g.logger != nil {
				g.logger.Warn("token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			shared.RespondError(w, nil, shared.ErrTokenInvalid)
			return
		}
		ctx := shared.ContextWithUserID(r.Context(), subjectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest locates the candidate token, header channel winning over
// the cookie channel when both are present.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		if token := strings.TrimSpace(header[len(bearerPrefix):]); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
