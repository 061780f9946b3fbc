package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdmitExhaustsBudget(t *testing.T) {
	now := time.Now()
	tr := NewTracker(map[string]Budget{
		"unsplash": {Limit: 5, Window: time.Minute},
	}).WithNow(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		assert.True(t, tr.Admit("unsplash"), "call %d should be admitted", i+1)
	}
	assert.False(t, tr.Admit("unsplash"), "sixth call must be rejected")
	assert.Equal(t, 0, tr.Remaining("unsplash"))
}

func TestAdmitWindowReset(t *testing.T) {
	now := time.Now()
	tr := NewTracker(map[string]Budget{
		"flickr": {Limit: 2, Window: time.Minute},
	}).WithNow(func() time.Time { return now })

	assert.True(t, tr.Admit("flickr"))
	assert.True(t, tr.Admit("flickr"))
	assert.False(t, tr.Admit("flickr"))

	now = now.Add(61 * time.Second)
	assert.True(t, tr.Admit("flickr"), "budget must reset after the window elapses")
	assert.Equal(t, 1, tr.Remaining("flickr"))
}

func TestAdmitDefaultBudget(t *testing.T) {
	now := time.Now()
	tr := NewTracker(nil).WithNow(func() time.Time { return now })

	for i := 0; i < DefaultBudget.Limit; i++ {
		assert.True(t, tr.Admit("unconfigured"))
	}
	assert.False(t, tr.Admit("unconfigured"))
}

func TestBudgetsAreIndependent(t *testing.T) {
	now := time.Now()
	tr := NewTracker(map[string]Budget{
		"a": {Limit: 1, Window: time.Minute},
		"b": {Limit: 1, Window: time.Minute},
	}).WithNow(func() time.Time { return now })

	assert.True(t, tr.Admit("a"))
	assert.False(t, tr.Admit("a"))
	assert.True(t, tr.Admit("b"), "exhausting one provider must not affect another")
}

func TestRemainingBeforeFirstCall(t *testing.T) {
	tr := NewTracker(map[string]Budget{"x": {Limit: 7, Window: time.Minute}})
	assert.Equal(t, 7, tr.Remaining("x"))
}
