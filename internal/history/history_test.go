package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.json"))
}

func TestAppendThenListOrdered(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"gen_1", "gen_2", "gen_3"} {
		require.NoError(t, s.Append(Entry{ID: id, VideoUsed: "clip.mp4", Duration: 8}))
	}

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "gen_1", entries[0].ID)
	assert.Equal(t, "gen_2", entries[1].ID)
	assert.Equal(t, "gen_3", entries[2].ID)
}

func TestListEmptyStore(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(Entry{ID: "gen_1"}))
	require.NoError(t, s.Clear())

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendDefaults(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(Entry{ID: "gen_1", VideoUsed: "v.mp4"}))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "None", entries[0].MusicUsed)
	assert.NotEmpty(t, entries[0].DateTime)
}

func TestDocumentShape(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(Entry{ID: "gen_1"}))

	// The persistence format is a single JSON document with a "history" array.
	data, err := os.ReadFile(s.path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	_, ok := doc["history"]
	assert.True(t, ok, "expected top-level history key")
}

func TestAppendSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	s1 := NewStore(path)
	require.NoError(t, s1.Append(Entry{ID: "gen_1"}))

	s2 := NewStore(path)
	require.NoError(t, s2.Append(Entry{ID: "gen_2"}))

	entries, err := s2.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "gen_1", entries[0].ID)
}
