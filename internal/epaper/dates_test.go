package epaper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEenaduMaxDate_StripsQuotes(t *testing.T) {
	f := newFakePublishers(t)
	f.handleRaw("/eenadu/Home/GetMaxdateJson", `"21/06/2024"`)
	svc := f.service()

	date, err := svc.EenaduMaxDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "21/06/2024", date)
}

func TestEenaduMaxDate_Cached(t *testing.T) {
	f := newFakePublishers(t)
	f.handleRaw("/eenadu/Home/GetMaxdateJson", `"21/06/2024"`)
	svc := f.service()

	for i := 0; i < 3; i++ {
		_, err := svc.EenaduMaxDate(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.hitsFor("/eenadu/Home/GetMaxdateJson"))
}

func TestEenaduMaxDate_EmptyBodyIsNotFound(t *testing.T) {
	f := newFakePublishers(t)
	f.handleRaw("/eenadu/Home/GetMaxdateJson", `""`)
	svc := f.service()

	_, err := svc.EenaduMaxDate(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMaxDate(t *testing.T) {
	f := newFakePublishers(t)
	f.handleJSON("/vaartha/Login/GetMaxDate", map[string]string{"maxdate": "21/06/2024"})
	pub := f.publisher("vaartha", []string{"Khammam"}, true)
	svc := f.service(pub)

	date, err := svc.MaxDate(context.Background(), pub)
	require.NoError(t, err)
	assert.Equal(t, "21/06/2024", date)

	_, err = svc.MaxDate(context.Background(), pub)
	require.NoError(t, err)
	assert.Equal(t, 1, f.hitsFor("/vaartha/Login/GetMaxDate"))
}

func TestMaxDate_MissingValueIsNotFound(t *testing.T) {
	f := newFakePublishers(t)
	f.handleJSON("/vaartha/Login/GetMaxDate", map[string]string{"maxdate": "  "})
	pub := f.publisher("vaartha", []string{"Khammam"}, true)
	svc := f.service(pub)

	_, err := svc.MaxDate(context.Background(), pub)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMaxDate_ServerErrorIsNotNotFound(t *testing.T) {
	f := newFakePublishers(t)
	f.handleStatus("/vaartha/Login/GetMaxDate", 500)
	pub := f.publisher("vaartha", []string{"Khammam"}, true)
	svc := f.service(pub)

	_, err := svc.MaxDate(context.Background(), pub)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "transport failures must stay distinguishable from semantic misses")
}
