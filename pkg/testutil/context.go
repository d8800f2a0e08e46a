package testutil

import (
	"net/http"
	"time"

	id "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/requestcontext"
)

// WithAccountID adds an account ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the accountID is not a valid UUID, it will not be added to the context.
func WithAccountID(req *http.Request, accountID string) *http.Request {
	parsed, err := id.ParseAccountID(accountID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithAccountID(req.Context(), parsed))
}

// WithRole adds a role claim to the request context.
func WithRole(req *http.Request, role string) *http.Request {
	return req.WithContext(requestcontext.WithRole(req.Context(), role))
}

// WithTime pins the request-scoped clock, so handler tests get
// deterministic timestamps.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
