package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; !ok {
		return false, nil
	}
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
		delete(f.ttls, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) SessionKey(id string) string { return "ti:session:" + id }

func newTestManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}
}

func TestManagerStartAndLookup(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	id, err := m.Start(context.Background(), KindCart)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	kind, err := m.Lookup(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, KindCart, kind)
}

func TestManagerLookupUnknown(t *testing.T) {
	m := newTestManager(newFakeStore())

	_, err := m.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = m.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestManagerRevoke(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)

	id, err := m.Start(context.Background(), KindAdmin)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), id))

	_, err = m.Lookup(context.Background(), id)
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestManagerRejectsInvalidKind(t *testing.T) {
	m := newTestManager(newFakeStore())
	_, err := m.Start(context.Background(), Kind("other"))
	assert.Error(t, err)
}
