package completion

import (
	"math/rand/v2"
	"time"
)

// Backoff returns min(base*2^attempt, limit) plus up to 10% jitter.
// attempt counts from zero.
func Backoff(attempt int, base, limit time.Duration) time.Duration {
	return backoff(attempt, base, limit, rand.Float64)
}

func backoff(attempt int, base, limit time.Duration, rnd func() float64) time.Duration {
	d := base
	for i := 0; i < attempt && d < limit; i++ {
		d *= 2
	}
	if d > limit {
		d = limit
	}
	return d + time.Duration(float64(d)*0.1*rnd())
}
