package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, rps float64, burst int) (*ClientLimiter, *time.Time) {
	t.Helper()
	l := NewClientLimiter(Config{RequestsPerSecond: rps, Burst: burst, EntryTTL: time.Minute})
	require.NotNil(t, l)
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestClientLimiter_BurstThenReject(t *testing.T) {
	l, _ := newTestLimiter(t, 1, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// other clients have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestClientLimiter_Refills(t *testing.T) {
	l, now := newTestLimiter(t, 1, 1)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	*now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))
}

func TestClientLimiter_CleanupEvictsIdleClients(t *testing.T) {
	l, now := newTestLimiter(t, 1, 1)

	l.Allow("old")
	*now = now.Add(45 * time.Second)
	l.Allow("fresh")
	*now = now.Add(30 * time.Second)

	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.Len())
}

func TestClientLimiter_DisabledAllowsEverything(t *testing.T) {
	l := NewClientLimiter(Config{})
	assert.Nil(t, l)
	assert.False(t, l.Enabled())
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("x"))
	}
	assert.Zero(t, l.Burst())
}

func TestClientLimiter_RunStops(t *testing.T) {
	l := NewClientLimiter(Config{RequestsPerSecond: 1, CleanupInterval: time.Millisecond})
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		l.Run(stop)
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after stop")
	}
}
