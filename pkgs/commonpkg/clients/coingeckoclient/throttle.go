package coingeckoclient

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

////////////////////////////////////////////////////////////////////////////////

// Limiter gates outgoing requests. Wait blocks until a request may start or
// ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Throttle is a token bucket with a single token refilled every minInterval,
// so no two requests start closer than minInterval. Safe for concurrent use.
type Throttle struct {
	limiter *rate.Limiter
}

func NewThrottle(minInterval time.Duration) *Throttle {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Throttle{
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// reserveAt takes a token as if the call happened at now and returns how long
// the caller would have to wait before starting its request.
func (t *Throttle) reserveAt(now time.Time) time.Duration {
	return t.limiter.ReserveN(now, 1).DelayFrom(now)
}
