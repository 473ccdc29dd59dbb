package save

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type progress struct {
	Level int      `json:"level"`
	Items []string `json:"items"`
}

func newManager(t *testing.T, store Store) *Manager {
	t.Helper()
	m := NewManager(store, zaptest.NewLogger(t))
	m.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return m
}

func TestManagerRoundTrip(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(t.TempDir(), "game_save_"),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			m := newManager(t, store)

			require.True(t, m.Save("progress", progress{Level: 2, Items: []string{"dash"}}))
			require.True(t, m.Save("highScore", 1200))

			got := Load(m, "progress", progress{})
			assert.Equal(t, progress{Level: 2, Items: []string{"dash"}}, got)
			assert.Equal(t, 1200, Load(m, "highScore", 0))

			ts, ok := m.Timestamp("highScore")
			require.True(t, ok)
			assert.Equal(t, int64(1_700_000_000_000), ts.UnixMilli())

			assert.True(t, m.Exists("progress"))
			assert.Equal(t, []string{"highScore", "progress"}, m.Keys())

			assert.True(t, m.Delete("progress"))
			assert.False(t, m.Exists("progress"))
			assert.Equal(t, 7, Load(m, "progress", progress{Level: 7}).Level)

			assert.True(t, m.ClearAll())
			assert.Empty(t, m.Keys())
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"corrupt json", `{"data": 12`},
		{"checksum mismatch", `{"data": 99, "timestamp": 1, "version": "1.0.0", "checksum": "deadbeef"}`},
		{"wrong type", `{"data": "nope", "timestamp": 1, "version": "1.0.0"}`},
		{"no data", `{"timestamp": 1, "version": "1.0.0"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Put("highScore", []byte(tc.raw)))
			m := newManager(t, store)

			assert.Equal(t, 42, Load(m, "highScore", 42))
		})
	}

	m := newManager(t, NewMemoryStore())
	assert.Equal(t, 42, Load(m, "missing", 42))
}

func TestEnvelopeShape(t *testing.T) {
	store := NewMemoryStore()
	m := newManager(t, store)
	require.True(t, m.Save("lastLevel", 3))

	raw, err := store.Get("lastLevel")
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, 3.0, env["data"])
	assert.Equal(t, Version, env["version"])
	assert.Equal(t, 1_700_000_000_000.0, env["timestamp"])
	assert.Equal(t, checksum([]byte("3")), env["checksum"])
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game_save_notes.txt"), []byte("x"), 0o644))

	store := NewFileStore(dir, "game_save_")
	m := newManager(t, store)
	require.True(t, m.Save("lastLevel", 1))

	assert.Equal(t, []string{"lastLevel"}, m.Keys())
	assert.True(t, m.ClearAll())
	_, err := os.Stat(filepath.Join(dir, "other.json"))
	assert.NoError(t, err)
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	m := newManager(t, NewFileStore(t.TempDir(), ""))
	assert.False(t, m.Save("../escape", 1))
	assert.False(t, m.Save("", 1))

	_, err := NewFileStore(t.TempDir(), "").Get("a/b")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
