package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/viddst/internal/history"
)

// fakeCmdable answers the handful of commands the store issues from a map.
type fakeCmdable struct {
	redis.Cmdable
	values map[string][]byte
	err    error
}

func newFake() *fakeCmdable {
	return &fakeCmdable{values: make(map[string][]byte)}
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch {
	case f.err != nil:
		cmd.SetErr(f.err)
	case f.values[key] == nil:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(string(f.values[key]))
	}
	return cmd
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.values[key] = append([]byte(nil), value.([]byte)...)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestRecordKey(t *testing.T) {
	assert.Equal(t, "viddst:record:watchHistory", RecordKey(history.RecordName))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := NewStore(fake)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, history.ErrNotFound)

	require.NoError(t, s.Save(ctx, []byte(`[{"url":"a"}]`)))
	assert.Contains(t, fake.values, "viddst:record:watchHistory")

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"url":"a"}]`, string(data))

	require.NoError(t, s.Delete(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestStoreWrapsErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	fake.err = errors.New("connection reset")
	s := NewStore(fake)

	_, err := s.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, history.ErrNotFound)

	assert.Error(t, s.Save(ctx, []byte(`[]`)))
}
