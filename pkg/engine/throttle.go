package engine

import "github.com/opd-ai/go-floatsim/pkg/entity"

// logThrottle is a token bucket per body, refilled on simulated time, that
// limits how often a repeating per-body condition is logged.
type logThrottle struct {
	maxTokens int
	window    float64 // simulated seconds to refill a full bucket
	buckets   map[entity.ID]*tokenBucket
}

type tokenBucket struct {
	tokens     int
	lastRefill float64
	dropped    int
}

func newLogThrottle(maxTokens int, window float64) *logThrottle {
	return &logThrottle{
		maxTokens: maxTokens,
		window:    window,
		buckets:   make(map[entity.ID]*tokenBucket),
	}
}

// Allow takes a token for id at simulated time now. When it returns true it
// also returns how many calls were refused since the last allowed one.
func (t *logThrottle) Allow(id entity.ID, now float64) (bool, int) {
	b, ok := t.buckets[id]
	if !ok {
		b = &tokenBucket{tokens: t.maxTokens, lastRefill: now}
		t.buckets[id] = b
	}

	if elapsed := now - b.lastRefill; elapsed > 0 && b.tokens < t.maxTokens {
		if add := int(float64(t.maxTokens) * elapsed / t.window); add > 0 {
			b.tokens = min(b.tokens+add, t.maxTokens)
			b.lastRefill = now
		}
	}

	if b.tokens == 0 {
		b.dropped++
		return false, 0
	}
	b.tokens--
	dropped := b.dropped
	b.dropped = 0
	return true, dropped
}

// Forget drops the bucket for a removed body.
func (t *logThrottle) Forget(id entity.ID) {
	delete(t.buckets, id)
}
