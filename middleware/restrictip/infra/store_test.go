package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterStore_GetSameAddressReturnsSameLimiter(t *testing.T) {
	s := NewLimiterStore(10, 1)

	l1 := s.Get("5.5.5.5")
	l2 := s.Get("5.5.5.5")
	if l1 != l2 {
		t.Fatalf("expected same limiter pointer for same address")
	}
	assert.Equal(t, 1, s.Len())
}

func TestLimiterStore_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	s := NewLimiterStore(0.02, 1)

	lim := s.Get("5.5.5.5")
	require.True(t, lim.Allow(), "first Allow")
	require.False(t, lim.Allow(), "second immediate Allow (burst=1)")

	// outro endereço tem seu próprio bucket
	assert.True(t, s.Get("6.6.6.6").Allow())
}

func TestLimiterStore_CleanupRemovesIdleEntries(t *testing.T) {
	s := NewLimiterStore(10, 1, WithIdleTTL(2*time.Millisecond), WithCleanupEvery(0))

	before := s.Get("5.5.5.5")
	time.Sleep(4 * time.Millisecond)

	s.Cleanup()
	assert.Equal(t, 0, s.Len())

	after := s.Get("5.5.5.5")
	if before == after {
		t.Fatalf("expected limiter to be recreated after cleanup")
	}
}

func TestLimiterStore_JanitorStopsWithContext(t *testing.T) {
	s := NewLimiterStore(10, 1, WithIdleTTL(time.Millisecond), WithCleanupEvery(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Get("5.5.5.5")
	s.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}
