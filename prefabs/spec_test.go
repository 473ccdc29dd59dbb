package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedPlayerMatchesDefaults(t *testing.T) {
	DiskDir = ""
	t.Cleanup(func() { DiskDir = "prefabs" })

	spec, err := LoadPlayerSpec()
	require.NoError(t, err)
	assert.Equal(t, DefaultPlayerSpec().CoyoteTime, spec.CoyoteTime)
	assert.Equal(t, 200*time.Millisecond, spec.DashDuration)
	assert.Equal(t, -550.0, spec.JumpPower)
	assert.Equal(t, Color(0x4CAF50), spec.Body.Color)
}

func TestDecodeSpecKeepsDefaults(t *testing.T) {
	spec, err := DecodeSpec("inline.yaml", []byte("speed: 420\njump_buffer: 150ms\n"), DefaultPlayerSpec())
	require.NoError(t, err)
	assert.Equal(t, 420.0, spec.Speed)
	assert.Equal(t, 150*time.Millisecond, spec.JumpBuffer)
	assert.Equal(t, 100*time.Millisecond, spec.CoyoteTime)
}

func TestDecodeSpecError(t *testing.T) {
	base := DefaultGameSpec()
	got, err := DecodeSpec("broken.yaml", []byte("gravity: [1, 2"), base)
	require.Error(t, err)
	assert.Equal(t, base, got)
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.yaml"), []byte("gravity: 1200\n"), 0o644))
	DiskDir = dir
	t.Cleanup(func() { DiskDir = "prefabs" })

	spec, err := LoadGameSpec()
	require.NoError(t, err)
	assert.Equal(t, 1200.0, spec.Gravity)
	assert.Equal(t, 100, spec.CoinScore)
}

func TestEnemiesSpec(t *testing.T) {
	DiskDir = ""
	t.Cleanup(func() { DiskDir = "prefabs" })

	spec, err := LoadEnemiesSpec()
	require.NoError(t, err)

	for _, typ := range []string{"patroller", "jumper", "flyer", "tank", "shooter"} {
		t.Run(typ, func(t *testing.T) {
			e, ok := spec.Find(typ)
			require.True(t, ok)
			assert.Positive(t, e.Health)
			_, err := LoadScript(e.Script)
			assert.NoError(t, err)
		})
	}
	_, ok := spec.Find("dragon")
	assert.False(t, ok)
}

func TestEmbeddedBossMatchesDefaults(t *testing.T) {
	DiskDir = ""
	t.Cleanup(func() { DiskDir = "prefabs" })

	spec, err := LoadBossSpec()
	require.NoError(t, err)
	assert.Equal(t, DefaultBossSpec(), spec)

	last := 2.0
	for _, phase := range spec.Phases {
		assert.Less(t, phase.HPTrigger, last, "phases ordered by falling health")
		assert.Len(t, phase.Attacks, 3)
		last = phase.HPTrigger
	}
}

func TestBossPhasesReplaceDefaults(t *testing.T) {
	spec, err := DecodeSpec("boss.yaml", []byte("phases:\n  - name: only\n    hp_trigger: 1\n    attacks: [shoot]\n"), DefaultBossSpec())
	require.NoError(t, err)
	require.Len(t, spec.Phases, 1)
	assert.Equal(t, []string{"shoot"}, spec.Phases[0].Attacks)
	assert.Equal(t, 30.0, spec.Health)
}

func TestColorUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{`"#FFD700"`, 0xFFD700, false},
		{`0x2196F3`, 0x2196F3, false},
		{`255`, 255, false},
		{`"#FFF"`, 0, true},
		{`[1]`, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var out struct {
				C Color `yaml:"c"`
			}
			got, err := DecodeSpec("color.yaml", []byte("c: "+tc.in), out)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.C)
		})
	}
}

func TestCleanScriptPath(t *testing.T) {
	for in, want := range map[string]string{
		"jumper":                       "scripts/jumper.tengo",
		"scripts/jumper.tengo":         "scripts/jumper.tengo",
		"prefabs/scripts/jumper.tengo": "scripts/jumper.tengo",
	} {
		assert.Equal(t, want, cleanScriptPath(in), in)
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "scripts"), 0o755))
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	assert.Empty(t, w.Drain())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "player.yaml"), []byte("speed: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "tank.tengo"), []byte("update := func(e, s) {}\n"), 0o644))

	seen := map[string]bool{}
	require.Eventually(t, func() bool {
		for _, name := range w.Drain() {
			seen[name] = true
		}
		return seen["player.yaml"] && seen["scripts/tank.tengo"]
	}, 5*time.Second, 20*time.Millisecond)
	assert.False(t, seen["notes.txt"])
	assert.NoError(t, w.Err())
}

func TestNilWatcherDrains(t *testing.T) {
	var w *Watcher
	assert.Nil(t, w.Drain())
	assert.NoError(t, w.Err())
}
