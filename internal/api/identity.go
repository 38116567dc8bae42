package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketledger/pocketledger/internal/api/middleware"
	"github.com/pocketledger/pocketledger/internal/model"
)

// Headers set by the authenticating proxy in front of the server.
const (
	HeaderSubject = "X-Auth-Subject"
	HeaderEmail   = "X-Auth-Email"
	HeaderName    = "X-Auth-Name"
)

// UserResolver maps an identity-provider subject to a user.
type UserResolver interface {
	EnsureUser(ctx context.Context, externalID, email, name string) (model.User, error)
}

type userKey struct{}

// Identity resolves the authenticated subject to a user and stores it in the
// request context. Requests without a subject are rejected.
func Identity(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := strings.TrimSpace(r.Header.Get(HeaderSubject))
			if subject == "" {
				middleware.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			u, err := users.EnsureUser(r.Context(), subject, r.Header.Get(HeaderEmail), r.Header.Get(HeaderName))
			if err != nil {
				writeErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), userKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user set by Identity.
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey{}).(model.User)
	return u, ok
}
