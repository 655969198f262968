package assets

import (
	"context"
	"math"
	"time"
)

// Policy bounds the pass loop. The zero Policy retries forever without pausing.
type Policy struct {
	MaxPasses            int           // maximum number of passes (0 = unlimited)
	MaxIntegrityFailures int           // digest mismatches tolerated per entry (0 = unlimited)
	InitialBackoff       time.Duration // pause before the second pass (0 = no pause)
	MaxBackoff           time.Duration // upper bound for the pause
	Multiplier           float64       // growth factor between pauses
}

// DefaultPolicy returns the policy used by the command line.
func DefaultPolicy() Policy {
	return Policy{
		MaxPasses:            0,
		MaxIntegrityFailures: 0,
		InitialBackoff:       500 * time.Millisecond,
		MaxBackoff:           30 * time.Second,
		Multiplier:           2.0,
	}
}

// Backoff returns the pause after the given pass (1-based).
func (p Policy) Backoff(pass int) time.Duration {
	if p.InitialBackoff <= 0 || pass < 1 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := float64(p.InitialBackoff) * math.Pow(mult, float64(pass-1))
	if p.MaxBackoff > 0 && wait > float64(p.MaxBackoff) {
		wait = float64(p.MaxBackoff)
	}
	if wait >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(wait)
}

// passAllowed reports whether pass (1-based) may run.
func (p Policy) passAllowed(pass int) bool {
	return p.MaxPasses <= 0 || pass <= p.MaxPasses
}

// integrityExhausted reports whether an entry with n mismatches must give up.
func (p Policy) integrityExhausted(n int) bool {
	return p.MaxIntegrityFailures > 0 && n >= p.MaxIntegrityFailures
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
