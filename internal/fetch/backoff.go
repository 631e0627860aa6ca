package fetch

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// rateLimitBackOff builds the schedule used after 429 responses:
// base, 2*base, 4*base, without jitter so retry spacing stays predictable
// against upstream quota windows.
func rateLimitBackOff(base time.Duration) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = base
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 8 * base
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// linearBackOff implements backoff.BackOff with delays of base, 2*base,
// 3*base... It backs the generic-failure retry path.
type linearBackOff struct {
	base    time.Duration
	attempt int
}

func newLinearBackOff(base time.Duration) *linearBackOff {
	return &linearBackOff{base: base}
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.attempt++
	return time.Duration(l.attempt) * l.base
}

func (l *linearBackOff) Reset() {
	l.attempt = 0
}

var _ backoff.BackOff = (*linearBackOff)(nil)
