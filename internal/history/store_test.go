package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/viddst/internal/domain"
	"github.com/MrSnakeDoc/viddst/internal/logger"
)

// memBackend is an in-process Backend with hooks for failure injection.
type memBackend struct {
	data    []byte
	present bool
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func (m *memBackend) Load(ctx context.Context) ([]byte, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.present {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memBackend) Save(ctx context.Context, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data = append([]byte(nil), data...)
	m.present = true
	return nil
}

func (m *memBackend) Delete(ctx context.Context) error {
	m.data = nil
	m.present = false
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestStore(backend Backend) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewStore(backend, logger.NewNop(), WithClock(clock.Now)), clock
}

func movie(url string) domain.MediaReference {
	return domain.MediaReference{SourceURL: url, MediaType: domain.MediaMovie}
}

func TestStoreLoadEmpty(t *testing.T) {
	store, _ := newTestStore(&memBackend{})

	entries := store.Load(context.Background())
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestStoreLoadIsLazyAndCached(t *testing.T) {
	backend := &memBackend{}
	store, _ := newTestStore(backend)
	assert.Equal(t, 0, backend.loads)

	store.Load(context.Background())
	store.Load(context.Background())
	assert.Equal(t, 1, backend.loads)
}

func TestStoreRecordPrependsNewest(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(&memBackend{})

	added, err := store.Record(ctx, movie("https://www.imdb.com/title/tt1/"))
	require.NoError(t, err)
	assert.True(t, added)

	clock.Advance(time.Minute)
	added, err = store.Record(ctx, domain.MediaReference{
		SourceURL: "https://www.themoviedb.org/tv/1399",
		MediaType: domain.MediaSeries,
		Season:    2,
	})
	require.NoError(t, err)
	assert.True(t, added)

	entries := store.Load(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://www.themoviedb.org/tv/1399", entries[0].URL)
	assert.Equal(t, 2, entries[0].Season)
	assert.Equal(t, 1, entries[0].Episode)
	assert.Equal(t, "https://www.imdb.com/title/tt1/", entries[1].URL)
	assert.Zero(t, entries[1].Season)
}

func TestStoreRecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	store, clock := newTestStore(backend)

	url := "https://www.imdb.com/title/tt1132124/"
	_, err := store.Record(ctx, movie(url))
	require.NoError(t, err)
	first := store.Load(ctx)[0].Timestamp

	clock.Advance(time.Hour)
	added, err := store.Record(ctx, domain.MediaReference{SourceURL: url, MediaType: domain.MediaSeries, Season: 3})
	require.NoError(t, err)
	assert.False(t, added)

	entries := store.Load(ctx)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Timestamp.Equal(first), "original timestamp must be kept")
	assert.Equal(t, domain.MediaMovie, entries[0].MediaType, "original metadata must be kept")
	assert.Equal(t, 1, backend.saves)
}

func TestStoreRecordCapsAtMaxEntries(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(&memBackend{})

	for i := 0; i <= MaxEntries; i++ {
		_, err := store.Record(ctx, movie(fmt.Sprintf("https://www.themoviedb.org/movie/%d", i)))
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	entries := store.Load(ctx)
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, fmt.Sprintf("https://www.themoviedb.org/movie/%d", MaxEntries), entries[0].URL)
	assert.Equal(t, "https://www.themoviedb.org/movie/1", entries[MaxEntries-1].URL)
	for _, e := range entries {
		assert.NotEqual(t, "https://www.themoviedb.org/movie/0", e.URL, "oldest entry should be dropped")
	}
}

func TestStoreRecordPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	store, _ := newTestStore(backend)

	_, err := store.Record(ctx, movie("https://www.imdb.com/title/tt2/"))
	require.NoError(t, err)

	reopened, _ := newTestStore(backend)
	entries := reopened.Load(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://www.imdb.com/title/tt2/", entries[0].URL)
	assert.Equal(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), entries[0].Timestamp.UnixMilli())
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	store, _ := newTestStore(backend)

	_, err := store.Record(ctx, movie("https://www.imdb.com/title/tt3/"))
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Load(ctx))
	assert.False(t, backend.present)

	reopened, _ := newTestStore(backend)
	assert.Empty(t, reopened.Load(ctx))
}

func TestStoreCorruptRecordReadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{data: []byte("{not json"), present: true}
	store, _ := newTestStore(backend)

	assert.Empty(t, store.Load(ctx))

	added, err := store.Record(ctx, movie("https://www.imdb.com/title/tt4/"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, store.Load(ctx), 1)
}

func TestStoreBackendFailure(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{loadErr: errors.New("connection refused")}
	store, _ := newTestStore(backend)

	assert.Empty(t, store.Load(ctx))

	_, err := store.Record(ctx, movie("https://www.imdb.com/title/tt5/"))
	require.Error(t, err)
	assert.Equal(t, 0, backend.saves)

	// Recovers once the backend is back.
	backend.loadErr = nil
	added, err := store.Record(ctx, movie("https://www.imdb.com/title/tt5/"))
	require.NoError(t, err)
	assert.True(t, added)
}

func TestStoreSaveFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{saveErr: errors.New("disk full")}
	store, _ := newTestStore(backend)

	_, err := store.Record(ctx, movie("https://www.imdb.com/title/tt6/"))
	require.Error(t, err)
	assert.Empty(t, store.Load(ctx))
}

func TestStoreRecordRequiresURL(t *testing.T) {
	store, _ := newTestStore(&memBackend{})
	_, err := store.Record(context.Background(), domain.MediaReference{MediaType: domain.MediaMovie})
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	entries := []domain.HistoryEntry{
		{URL: "a", MediaType: domain.MediaMovie},
		{URL: "b", MediaType: domain.MediaSeries},
		{URL: "c", MediaType: domain.MediaMovie},
		{URL: "d", MediaType: domain.MediaSeries},
	}

	tests := []struct {
		name     string
		filter   domain.MediaFilter
		expected []string
	}{
		{"all", domain.FilterAll, []string{"a", "b", "c", "d"}},
		{"movie", domain.FilterMovie, []string{"a", "c"}},
		{"series", domain.FilterSeries, []string{"b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(entries, tt.filter)
			urls := make([]string, 0, len(got))
			for _, e := range got {
				urls = append(urls, e.URL)
			}
			assert.Equal(t, tt.expected, urls)
		})
	}

	all := Filter(entries, domain.FilterAll)
	assert.Same(t, &entries[0], &all[0], "all should return the input unchanged")
}

func TestStoreRefreshPicksUpExternalWrites(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	store, _ := newTestStore(backend)
	other, _ := newTestStore(backend)

	assert.Empty(t, store.Load(ctx))

	_, err := other.Record(ctx, movie("https://www.imdb.com/title/tt7/"))
	require.NoError(t, err)
	assert.Empty(t, store.Load(ctx), "cached until refreshed")

	require.NoError(t, store.Refresh(ctx))
	assert.Len(t, store.Load(ctx), 1)
}

func TestStoreRefreshFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	store, _ := newTestStore(backend)

	_, err := store.Record(ctx, movie("https://www.imdb.com/title/tt8/"))
	require.NoError(t, err)

	backend.loadErr = errors.New("timeout")
	require.Error(t, store.Refresh(ctx))
	assert.Len(t, store.Load(ctx), 1)
}

func TestStoreRecordKeepsEntriesWithMistypedFields(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{present: true, data: []byte(`[
		{"url": "https://www.imdb.com/title/tt1/", "mediaType": "movie", "timestamp": 1700000000000},
		{"url": "https://www.themoviedb.org/tv/1399", "mediaType": "series", "season": "2", "episode": 5, "timestamp": 1690000000000}
	]`)}
	store, _ := newTestStore(backend)

	added, err := store.Record(ctx, movie("https://www.imdb.com/title/tt9/"))
	require.NoError(t, err)
	assert.True(t, added)

	reopened, _ := newTestStore(backend)
	entries := reopened.Load(ctx)
	require.Len(t, entries, 3)
	assert.Equal(t, "https://www.imdb.com/title/tt9/", entries[0].URL)
	assert.Equal(t, "https://www.themoviedb.org/tv/1399", entries[2].URL)
	assert.Equal(t, 2, entries[2].Season)
	assert.Equal(t, 5, entries[2].Episode)
}
