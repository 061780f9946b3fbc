// Package ratelimit tracks per-provider request budgets. The tracker is the
// one piece of cross-request mutable state in the acquisition engine, so all
// mutation happens under a single mutex.
package ratelimit

import (
	"sync"
	"time"
)

// Budget configures the admission window for one provider.
type Budget struct {
	Limit  int
	Window time.Duration
}

// DefaultBudget is applied to providers without an explicit budget.
var DefaultBudget = Budget{Limit: 30, Window: time.Minute}

type window struct {
	start time.Time
	count int
}

// Tracker admits or rejects provider calls against fixed-window budgets.
type Tracker struct {
	mu      sync.Mutex
	budgets map[string]Budget
	windows map[string]*window
	now     func() time.Time // injectable for testing
}

// NewTracker creates a tracker with per-provider budgets. Providers absent
// from the map use DefaultBudget.
func NewTracker(budgets map[string]Budget) *Tracker {
	b := make(map[string]Budget, len(budgets))
	for id, budget := range budgets {
		b[id] = budget
	}
	return &Tracker{
		budgets: b,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (t *Tracker) WithNow(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Admit atomically checks and consumes one unit of the provider's budget.
// It returns false when the window is exhausted; callers must treat that
// exactly like a provider error and move on; requests are never queued.
func (t *Tracker) Admit(providerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	budget, ok := t.budgets[providerID]
	if !ok {
		budget = DefaultBudget
	}

	now := t.now()
	w := t.windows[providerID]
	if w == nil || now.Sub(w.start) > budget.Window {
		w = &window{start: now}
		t.windows[providerID] = w
	}

	if w.count >= budget.Limit {
		return false
	}
	w.count++
	return true
}

// Remaining reports how much budget is left in the provider's current
// window. Used for logging and the health endpoint only.
func (t *Tracker) Remaining(providerID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	budget, ok := t.budgets[providerID]
	if !ok {
		budget = DefaultBudget
	}
	w := t.windows[providerID]
	if w == nil || t.now().Sub(w.start) > budget.Window {
		return budget.Limit
	}
	if budget.Limit < w.count {
		return 0
	}
	return budget.Limit - w.count
}
