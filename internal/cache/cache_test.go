package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	s := New(time.Hour)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Set("maxdate/eenadu", "21/06/2024")
	v, ok := s.Get("maxdate/eenadu")
	require.True(t, ok)
	assert.Equal(t, "21/06/2024", v)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ExpiryHonorsTTL(t *testing.T) {
	s := New(24 * time.Hour)

	base := time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC)
	now := base
	s.SetNowFunc(func() time.Time { return now })

	s.Set("editions/21/06/2024", []int{1, 2, 3})

	// still fresh just inside the window
	now = base.Add(24*time.Hour - time.Second)
	_, ok := s.Get("editions/21/06/2024")
	assert.True(t, ok)

	// stale once past it; the entry is also evicted
	now = base.Add(24*time.Hour + time.Second)
	_, ok = s.Get("editions/21/06/2024")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Clear(t *testing.T) {
	s := New(time.Hour)
	s.Set("a", 1)
	s.Set("b", 2)
	require.Equal(t, 2, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)

	// clearing an empty store is a no-op
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestNew_ZeroTTLFallsBackToDefault(t *testing.T) {
	s := New(0)

	base := time.Now()
	now := base
	s.SetNowFunc(func() time.Time { return now })

	s.Set("k", "v")
	now = base.Add(23 * time.Hour)
	_, ok := s.Get("k")
	assert.True(t, ok, "entry should survive 23h under the default 24h TTL")
}
