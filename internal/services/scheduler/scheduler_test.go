package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeparr/sweeparr/internal/services/providermap"
	"github.com/sweeparr/sweeparr/pkg/config"
)

type countingRebuilder struct {
	calls atomic.Int64
}

func (c *countingRebuilder) Rebuild(ctx context.Context, clearStatus bool) (*providermap.RebuildReport, error) {
	c.calls.Add(1)
	return &providermap.RebuildReport{}, nil
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    config.ScheduleSpec
		want    string
		wantErr bool
	}{
		{
			name: "weekday entry",
			spec: config.ScheduleSpec{Day: "monday", Hour: 3, Minute: 30},
			want: "30 3 * * MON",
		},
		{
			name: "every day",
			spec: config.ScheduleSpec{Day: "*", Hour: 0, Minute: 0},
			want: "0 0 * * *",
		},
		{
			name: "empty day defaults to every day",
			spec: config.ScheduleSpec{Hour: 12, Minute: 15},
			want: "15 12 * * *",
		},
		{
			name: "case insensitive day",
			spec: config.ScheduleSpec{Day: "Friday", Hour: 23, Minute: 59},
			want: "59 23 * * FRI",
		},
		{
			name:    "unknown day",
			spec:    config.ScheduleSpec{Day: "someday", Hour: 1, Minute: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cronSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithScheduleEntries(t *testing.T) {
	s, err := New(&countingRebuilder{}, config.RefreshConfig{
		Schedule: []config.ScheduleSpec{
			{Day: "monday", Hour: 3, Minute: 0},
			{Day: "thursday", Hour: 3, Minute: 0},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, s.cron)
	assert.Len(t, s.cron.Entries(), 2)
}

func TestNewRejectsBadScheduleDay(t *testing.T) {
	_, err := New(&countingRebuilder{}, config.RefreshConfig{
		Schedule: []config.ScheduleSpec{{Day: "blursday", Hour: 3, Minute: 0}},
	})
	assert.Error(t, err)
}

func TestIntervalLoopTriggersRebuilds(t *testing.T) {
	rebuilder := &countingRebuilder{}
	s, err := New(rebuilder, config.RefreshConfig{IntervalMinutes: 60})
	require.NoError(t, err)

	// Shrink the interval so the loop fires within the test.
	s.interval = 5 * time.Millisecond

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return rebuilder.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	s, err := New(&countingRebuilder{}, config.RefreshConfig{IntervalMinutes: 60})
	require.NoError(t, err)

	s.Start()
	s.Stop()
	s.Stop()

	// Restart after a stop works.
	s.Start()
	s.Stop()
}

func TestDisabledSchedulerIsANoOp(t *testing.T) {
	rebuilder := &countingRebuilder{}
	s, err := New(rebuilder, config.RefreshConfig{})
	require.NoError(t, err)

	s.Start()
	s.Stop()
	assert.Zero(t, rebuilder.calls.Load())
}
