package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/videotube/internal/api/response"
	"github.com/dom/videotube/internal/domain"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserKey contextKey = "user"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Authenticator resolves an access token to a sanitized user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// Auth rejects requests without a valid access token and stores the
// authenticated user in the request context.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				response.Error(w, r, domain.ErrMissingToken)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logrus.WithError(err).WithField("path", r.URL.Path).Debug("authentication failed")
				response.Error(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken reads the access token from the accessToken cookie or, failing
// that, from an "Authorization: Bearer" header.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok && user != nil
}
