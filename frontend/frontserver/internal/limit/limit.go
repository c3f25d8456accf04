package limit

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
)

// RateLimit limits each client to n requests per second. A non-positive n
// disables the limit.
func RateLimit(n float64) func(http.Handler) http.Handler {
	if n <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	l := tollbooth.NewLimiter(n, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Hour,
	})
	// RemoteAddr is already resolved by the RealIP middleware when behind a
	// proxy; the headers are client-controlled otherwise.
	l.SetIPLookups([]string{"RemoteAddr"})
	l.SetMessage("Too many searches, slow down.")
	l.SetMessageContentType("text/plain; charset=utf-8")

	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(l, next)
	}
}
