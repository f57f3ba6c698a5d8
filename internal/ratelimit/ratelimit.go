package ratelimit

import (
	"sync"
	"time"
)

// Budget caps enrichment API requests per reset window. Exhausting the
// budget is not an error: callers fall back to untranslated text.
type Budget struct {
	mu      sync.Mutex
	used    int
	max     int // 0 = unlimited
	window  time.Duration
	resetAt time.Time
}

func NewBudget(max int) *Budget {
	return &Budget{
		max:     max,
		window:  24 * time.Hour,
		resetAt: time.Now().Add(24 * time.Hour),
	}
}

// Allow consumes one request slot. Returns false when the budget is spent.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max > 0 && b.used >= b.max {
		return false
	}
	b.used++
	return true
}

func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max <= 0 {
		return -1
	}
	return b.max - b.used
}

func (b *Budget) Stats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	return map[string]interface{}{
		"used":       b.used,
		"limit":      b.max,
		"reset_time": b.resetAt,
	}
}

func (b *Budget) checkReset() {
	if time.Now().After(b.resetAt) {
		b.used = 0
		b.resetAt = time.Now().Add(b.window)
	}
}
