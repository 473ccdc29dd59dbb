package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllLevels(t *testing.T) {
	all, err := All()
	require.NoError(t, err)
	require.Len(t, all, 3)

	names := []string{"Tutorial Valley", "Danger Canyon", "Sky Fortress"}
	for i, lvl := range all {
		assert.Equal(t, i+1, lvl.ID)
		assert.Equal(t, names[i], lvl.Name)
		assert.NotEmpty(t, lvl.Coins)

		inside := func(x, y float64) bool {
			return x >= 0 && x <= lvl.Width && y >= 0 && y <= lvl.Height
		}
		assert.True(t, inside(lvl.PlayerStart.X, lvl.PlayerStart.Y), "player start")
		assert.True(t, inside(lvl.Exit.X, lvl.Exit.Y), "exit")
		for _, e := range lvl.Enemies {
			assert.Contains(t, []string{"patroller", "jumper", "flyer", "shooter", "tank"}, e.Type)
		}
	}
}

func TestLoadLevelByName(t *testing.T) {
	lvl, err := LoadLevelFromFS("level2")
	require.NoError(t, err)
	assert.Equal(t, 4000.0, lvl.Width)
	assert.Len(t, lvl.Enemies, 6)
	assert.Equal(t, Spawn{Type: "speedBoost", X: 700, Y: 550}, lvl.PowerUps[0])

	_, err = LoadLevelFromFS("level9.json")
	assert.Error(t, err)
}

func TestByID(t *testing.T) {
	all, err := All()
	require.NoError(t, err)

	lvl, err := ByID(all, 3)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 4800, Y: 200}, lvl.Exit)
	assert.True(t, lvl.HasBoss)
	require.NotNil(t, lvl.BossPosition)
	assert.Equal(t, Point{X: 4400, Y: 200}, *lvl.BossPosition)

	first, err := ByID(all, 1)
	require.NoError(t, err)
	assert.False(t, first.HasBoss)

	_, err = ByID(all, 4)
	assert.ErrorIs(t, err, ErrNoLevel)
}

func TestBossNeedsPosition(t *testing.T) {
	lvl := Level{ID: 7, Width: 100, Height: 100, Platforms: []Platform{{Width: 10, Height: 10}}, HasBoss: true}
	assert.Error(t, lvl.validate())

	lvl.BossPosition = &Point{X: 50, Y: 50}
	assert.NoError(t, lvl.validate())
}
