package lateclient

import "golang.org/x/time/rate"

const (
	defaultRPS   = 2.0
	defaultBurst = 5
)

// newLimiter paces requests; non-positive values use the defaults.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
