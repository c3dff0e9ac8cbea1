package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/viddst/internal/domain"
	"github.com/MrSnakeDoc/viddst/internal/logger"
)

const (
	// MaxEntries is the hard cap on stored entries; the oldest fall off first.
	MaxEntries = 100

	// RecordName is the name of the single persisted record holding the history.
	RecordName = "watchHistory"
)

// ErrNotFound is returned by a Backend when nothing has been persisted yet.
var ErrNotFound = errors.New("history record not found")

// Backend persists the whole history as one opaque blob.
// Implementations only need load-all, save-all and delete-all semantics.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is the deduplicated, size-capped watch history.
//
// The persisted record is read lazily on first use and cached afterwards.
// Writes go through to the backend before the cache is updated.
type Store struct {
	backend Backend
	logger  logger.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries []domain.HistoryEntry
	loaded  bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a history store on top of backend.
func NewStore(backend Backend, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns a copy of the history, newest first.
// A missing or corrupt record reads as an empty history.
func (s *Store) Load(ctx context.Context) []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		s.logger.Warn("history backend unavailable, serving empty history",
			logger.Error(err))
		return []domain.HistoryEntry{}
	}
	return cloneEntries(s.entries)
}

// Record prepends ref unless its URL is already present.
// It reports whether a new entry was written.
func (s *Store) Record(ctx context.Context, ref domain.MediaReference) (bool, error) {
	if ref.SourceURL == "" {
		return false, fmt.Errorf("cannot record history entry without url")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		// Writing now would overwrite whatever the backend holds.
		return false, fmt.Errorf("failed to load history before recording: %w", err)
	}

	for _, e := range s.entries {
		if e.URL == ref.SourceURL {
			s.logger.Debug("history entry already present",
				logger.String("url", ref.SourceURL))
			return false, nil
		}
	}

	updated := make([]domain.HistoryEntry, 0, min(len(s.entries)+1, MaxEntries))
	updated = append(updated, domain.NewHistoryEntry(ref, s.now()))
	updated = append(updated, s.entries...)
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	data, err := Encode(updated)
	if err != nil {
		return false, err
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return false, fmt.Errorf("failed to save history: %w", err)
	}

	s.entries = updated
	s.logger.Info("history entry recorded",
		logger.String("url", ref.SourceURL),
		logger.String("media_type", string(ref.MediaType)),
		logger.Int("entries", len(updated)))
	return true, nil
}

// Clear erases the persisted history.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	s.entries = nil
	s.loaded = true
	s.logger.Info("history cleared")
	return nil
}

// Refresh re-reads the backend, picking up writes made by other processes
// sharing it. On failure the cached history is kept.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasLoaded, previous := s.loaded, s.entries
	s.loaded = false
	if err := s.ensureLoaded(ctx); err != nil {
		s.loaded, s.entries = wasLoaded, previous
		return fmt.Errorf("failed to refresh history: %w", err)
	}
	return nil
}

// Ping checks the backend when it supports health checks.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// ensureLoaded reads the backend once. Absent or unparseable data counts as
// loaded-and-empty; I/O errors are returned so the next call retries.
// Callers must hold s.mu.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	data, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		s.entries = nil
	case err != nil:
		return err
	default:
		entries, decodeErr := Decode(data, s.now())
		if decodeErr != nil {
			s.logger.Warn("discarding unreadable history record",
				logger.Error(decodeErr))
		}
		s.entries = entries
	}

	s.loaded = true
	s.logger.Debug("history loaded", logger.Int("entries", len(s.entries)))
	return nil
}

// Filter keeps entries matching f, preserving order. FilterAll returns entries as-is.
func Filter(entries []domain.HistoryEntry, f domain.MediaFilter) []domain.HistoryEntry {
	if f == domain.FilterAll || f == "" {
		return entries
	}

	want := domain.MediaMovie
	if f == domain.FilterSeries {
		want = domain.MediaSeries
	}

	out := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.MediaType == want {
			out = append(out, e)
		}
	}
	return out
}

func cloneEntries(entries []domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(entries))
	copy(out, entries)
	return out
}
