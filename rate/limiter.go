// Package rate limits write routes per client with fixed windows. Each Rule
// names a bucket, so one client has an independent budget per action.
package rate

import (
	"sync"
	"time"
)

// Rule is the budget of one bucket: Limit requests per Window per client.
// A non-positive Limit disables the rule.
type Rule struct {
	Bucket string
	Limit  int
	Window time.Duration
}

// PerMinute is a Rule with a one minute window.
func PerMinute(bucket string, limit int) Rule {
	return Rule{Bucket: bucket, Limit: limit, Window: time.Minute}
}

// Enabled reports whether the rule limits anything.
func (r Rule) Enabled() bool { return r.Limit > 0 && r.Window > 0 }

// Decision is the outcome of counting one request against a Rule.
type Decision struct {
	Allowed   bool
	Remaining int
	// ResetIn is the time until the client's window for the bucket restarts.
	ResetIn time.Duration
}

// Limiter counts requests by client within a rule's bucket.
type Limiter interface {
	Allow(rule Rule, client string) Decision
}

type windowKey struct {
	bucket string
	client string
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps windows in process memory. Call Sweep periodically to
// drop windows that have expired.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[windowKey]*window
	now     func() time.Time
}

// NewMemory returns an empty MemoryLimiter.
func NewMemory() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[windowKey]*window), now: time.Now}
}

// Allow counts one request. Denied requests are not counted.
func (m *MemoryLimiter) Allow(rule Rule, client string) Decision {
	if !rule.Enabled() {
		return Decision{Allowed: true, Remaining: -1}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	key := windowKey{bucket: rule.Bucket, client: client}
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rule.Window)}
		m.windows[key] = w
	}

	if w.count >= rule.Limit {
		return Decision{Allowed: false, Remaining: 0, ResetIn: w.resetAt.Sub(now)}
	}
	w.count++
	return Decision{Allowed: true, Remaining: rule.Limit - w.count, ResetIn: w.resetAt.Sub(now)}
}

// Sweep drops expired windows and returns how many it dropped.
func (m *MemoryLimiter) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
			n++
		}
	}
	return n
}
