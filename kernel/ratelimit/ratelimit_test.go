package ratelimit_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/clock"
	"github.com/valerio/go-kernel/kernel/ratelimit"
)

var _ ratelimit.Scheduler = (*kernel.Kernel)(nil)

type call struct {
	at  time.Duration
	arg string
}

func newKernel(t *testing.T) (*kernel.Kernel, *clock.Manual) {
	t.Helper()

	cfg := kernel.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c := clock.NewManual(time.Millisecond)
	k, err := kernel.New(c, cfg)
	require.NoError(t, err)
	k.Start()
	return k, c
}

// drive calls wrapped at each timestamp and then runs the clock to end.
func drive(c *clock.Manual, wrapped func(string), calls map[time.Duration]string, end time.Duration) {
	for c.Now() < end {
		if arg, ok := calls[c.Now()]; ok {
			wrapped(arg)
		}
		c.Step()
	}
}

func TestDebounce_TrailingCallAfterQuietPeriod(t *testing.T) {
	k, c := newKernel(t)

	var got []call
	fn := ratelimit.Debounce(k, func(arg string) {
		got = append(got, call{at: k.Now(), arg: arg})
	}, 50*time.Millisecond, false)

	drive(c, fn, map[time.Duration]string{
		0:                     "t0",
		10 * time.Millisecond: "t10",
		20 * time.Millisecond: "t20",
	}, 200*time.Millisecond)

	assert.Equal(t, []call{{at: 70 * time.Millisecond, arg: "t20"}}, got)
}

func TestDebounce_SeparateBurstsFireSeparately(t *testing.T) {
	k, c := newKernel(t)

	var got []call
	fn := ratelimit.Debounce(k, func(arg string) {
		got = append(got, call{at: k.Now(), arg: arg})
	}, 20*time.Millisecond, false)

	drive(c, fn, map[time.Duration]string{
		0:                      "a",
		5 * time.Millisecond:   "b",
		100 * time.Millisecond: "c",
	}, 200*time.Millisecond)

	assert.Equal(t, []call{
		{at: 25 * time.Millisecond, arg: "b"},
		{at: 120 * time.Millisecond, arg: "c"},
	}, got)
}

func TestDebounce_Immediate(t *testing.T) {
	k, c := newKernel(t)

	var got []call
	fn := ratelimit.Debounce(k, func(arg string) {
		got = append(got, call{at: k.Now(), arg: arg})
	}, 50*time.Millisecond, true)

	drive(c, fn, map[time.Duration]string{
		0:                      "t0",
		10 * time.Millisecond:  "t10",
		20 * time.Millisecond:  "t20",
		100 * time.Millisecond: "t100",
	}, 300*time.Millisecond)

	// leading edge of each burst only, no trailing call
	assert.Equal(t, []call{
		{at: 0, arg: "t0"},
		{at: 100 * time.Millisecond, arg: "t100"},
	}, got)
}

func TestDebounce_ImmediateWithinQuietPeriodIsSuppressed(t *testing.T) {
	k, c := newKernel(t)

	count := 0
	fn := ratelimit.DebounceFunc(k, func() { count++ }, 50*time.Millisecond, true)

	fn()
	c.StepTo(60 * time.Millisecond)
	fn() // 60ms after the only call, the burst has ended
	c.StepTo(65 * time.Millisecond)
	fn()

	assert.Equal(t, 2, count)
}

func TestThrottle_LeadingAndTrailing(t *testing.T) {
	k, c := newKernel(t)

	var got []call
	fn := ratelimit.Throttle(k, func(arg string) {
		got = append(got, call{at: k.Now(), arg: arg})
	}, 50*time.Millisecond)

	drive(c, fn, map[time.Duration]string{
		0:                     "t0",
		10 * time.Millisecond: "t10",
		60 * time.Millisecond: "t60",
	}, 200*time.Millisecond)

	assert.Equal(t, []call{
		{at: 0, arg: "t0"},
		{at: 50 * time.Millisecond, arg: "t10"},
		{at: 60 * time.Millisecond, arg: "t60"},
	}, got)
}

func TestThrottle_TrailingUsesLatestArgument(t *testing.T) {
	k, c := newKernel(t)

	var got []call
	fn := ratelimit.Throttle(k, func(arg string) {
		got = append(got, call{at: k.Now(), arg: arg})
	}, 50*time.Millisecond)

	drive(c, fn, map[time.Duration]string{
		0:                     "a",
		10 * time.Millisecond: "b",
		30 * time.Millisecond: "c",
	}, 200*time.Millisecond)

	assert.Equal(t, []call{
		{at: 0, arg: "a"},
		{at: 50 * time.Millisecond, arg: "c"},
	}, got)
}

func TestThrottle_Options(t *testing.T) {
	tests := []struct {
		name  string
		opts  []ratelimit.ThrottleOption
		calls map[time.Duration]string
		want  []call
	}{
		{
			name: "no trailing",
			opts: []ratelimit.ThrottleOption{ratelimit.WithTrailing(false)},
			calls: map[time.Duration]string{
				0:                     "t0",
				10 * time.Millisecond: "t10",
				60 * time.Millisecond: "t60",
			},
			want: []call{
				{at: 0, arg: "t0"},
				{at: 60 * time.Millisecond, arg: "t60"},
			},
		},
		{
			name: "no leading",
			opts: []ratelimit.ThrottleOption{ratelimit.WithLeading(false)},
			calls: map[time.Duration]string{
				0:                     "t0",
				10 * time.Millisecond: "t10",
				60 * time.Millisecond: "t60",
			},
			want: []call{
				{at: 50 * time.Millisecond, arg: "t10"},
				{at: 110 * time.Millisecond, arg: "t60"},
			},
		},
		{
			name: "neither edge",
			opts: []ratelimit.ThrottleOption{ratelimit.WithLeading(false), ratelimit.WithTrailing(false)},
			calls: map[time.Duration]string{
				0:                      "t0",
				10 * time.Millisecond:  "t10",
				120 * time.Millisecond: "t120",
			},
			want: []call{
				{at: 120 * time.Millisecond, arg: "t120"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, c := newKernel(t)

			var got []call
			fn := ratelimit.Throttle(k, func(arg string) {
				got = append(got, call{at: k.Now(), arg: arg})
			}, 50*time.Millisecond, tt.opts...)

			drive(c, fn, tt.calls, 300*time.Millisecond)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThrottle_AtMostOncePerWindow(t *testing.T) {
	k, c := newKernel(t)

	var at []time.Duration
	fn := ratelimit.ThrottleFunc(k, func() { at = append(at, k.Now()) }, 10*time.Millisecond, ratelimit.WithTrailing(false))

	for c.Now() < 100*time.Millisecond {
		fn()
		c.Step()
	}

	require.Len(t, at, 10)
	for i := 1; i < len(at); i++ {
		assert.GreaterOrEqual(t, at[i]-at[i-1], 10*time.Millisecond)
	}
}
