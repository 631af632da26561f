package results

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Migrations(t *testing.T) {
	s := openTestStore(t)
	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestStore_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	s, err := OpenStore(path)
	require.NoError(t, err)
	r := sampleRecord("serial", 64, time.Second)
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	require.NoError(t, s.Insert(r))
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.List()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
}

func TestStore_InsertList(t *testing.T) {
	s := openTestStore(t)
	c := NewCollector(s)

	base := time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)
	first := sampleRecord("serial", 64, 1500*time.Millisecond)
	first.CreatedAt = base
	first.Path = "data/go/x.npy"
	second := sampleRecord("goroutine", 32, 250*time.Millisecond)
	second.CreatedAt = base.Add(time.Second)
	second.Workers = 8

	require.NoError(t, c.Record(first))
	require.NoError(t, c.Record(second))

	got, err := s.List()
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := c.Records()
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Key(), got[i].Key())
		assert.Equal(t, want[i].Elapsed, got[i].Elapsed)
		assert.Equal(t, want[i].Mass, got[i].Mass)
		assert.Equal(t, want[i].Path, got[i].Path)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestStore_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	r := sampleRecord("serial", 64, time.Second)
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	require.NoError(t, s.Insert(r))
	assert.Error(t, s.Insert(r))
}
