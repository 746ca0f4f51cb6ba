package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextRun(t *testing.T) {
	loc := time.UTC
	hours := []int{16, 17, 18}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "morning rolls to first slot",
			now:  time.Date(2024, 6, 21, 9, 30, 0, 0, loc),
			want: time.Date(2024, 6, 21, 16, 0, 0, 0, loc),
		},
		{
			name: "between slots picks the next one",
			now:  time.Date(2024, 6, 21, 16, 0, 1, 0, loc),
			want: time.Date(2024, 6, 21, 17, 0, 0, 0, loc),
		},
		{
			name: "exactly on a slot is not after it",
			now:  time.Date(2024, 6, 21, 17, 0, 0, 0, loc),
			want: time.Date(2024, 6, 21, 18, 0, 0, 0, loc),
		},
		{
			name: "after the last slot wraps to tomorrow",
			now:  time.Date(2024, 6, 21, 22, 0, 0, 0, loc),
			want: time.Date(2024, 6, 22, 16, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, hours)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextRun_UnsortedHours(t *testing.T) {
	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	got := NextRun(now, []int{18, 16, 17})
	assert.Equal(t, time.Date(2024, 6, 21, 16, 0, 0, 0, time.UTC), got)
}

func TestScheduler_RunReturnsWithoutConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		New(nil, func(context.Context) {}).Run(ctx)
		New([]int{16}, nil).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately with no hours or no tick")
	}
}
