package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/Stewz00/go-student-portal/internal/apperror"
)

const (
	// DefaultRateLimit applies to every route, per IP per minute.
	DefaultRateLimit = 100
	// StrictRateLimit applies to login and registration, per IP per minute.
	StrictRateLimit = 10
)

// RateLimiter limits each IP address to the given number of requests per minute.
// Each call returns an independent limiter; share the result to share the budget.
func RateLimiter(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(requestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, apperror.NewRateLimitError("Too many requests"))
		}),
	)
}
