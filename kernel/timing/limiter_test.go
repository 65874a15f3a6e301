package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		name string
		hz   float64
		want time.Duration
	}{
		{"60hz", 60, time.Second / 60},
		{"120hz", 120, time.Second / 120},
		{"zero falls back to default", 0, time.Second / 60},
		{"negative falls back to default", -30, time.Second / 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, float64(tt.want), float64(FrameDuration(tt.hz)), float64(time.Microsecond))
		})
	}
}

func TestNew(t *testing.T) {
	l, err := New(KindNone, 60)
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = New(KindAdaptive, 60)
	require.NoError(t, err)
	assert.IsType(t, &AdaptiveLimiter{}, l)

	l, err = New("", 60)
	require.NoError(t, err)
	require.IsType(t, &TickerLimiter{}, l)
	l.(*TickerLimiter).Stop()

	_, err = New("bogus", 60)
	assert.Error(t, err)
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.WaitForNextFrame()
	}
	l.Reset()

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestAdaptiveLimiter_Paces(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	l := NewAdaptiveLimiter(200) // 5ms per frame
	start := time.Now()
	for i := 0; i < 10; i++ {
		l.WaitForNextFrame()
	}
	elapsed := time.Since(start)

	// first wait returns immediately, the other nine are paced
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}
