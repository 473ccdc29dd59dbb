package assets

import (
	"encoding/binary"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeLength(t *testing.T) {
	pcm, ok := Synthesize("jump")
	require.True(t, ok)
	assert.Len(t, pcm, SampleRate/10*4)

	// last note starts at 450ms and rings for 500ms
	pcm, ok = Synthesize("victory")
	require.True(t, ok)
	assert.Len(t, pcm, int(0.95*SampleRate)*4)

	_, ok = Synthesize("kazoo")
	assert.False(t, ok)
}

func TestSynthesizeIsStereoAndAudible(t *testing.T) {
	for _, name := range Names() {
		pcm, ok := Synthesize(name)
		require.True(t, ok, name)
		require.NotEmpty(t, pcm, name)

		var peak int16
		for i := 0; i+4 <= len(pcm); i += 4 {
			l := int16(binary.LittleEndian.Uint16(pcm[i:]))
			r := int16(binary.LittleEndian.Uint16(pcm[i+2:]))
			require.Equal(t, l, r, name)
			peak = max(peak, l, -l)
		}
		assert.Greater(t, peak, int16(100), name)
	}
}

func TestRenderDecays(t *testing.T) {
	pcm := Render([]Tone{{Wave: Square, From: 100, To: 100, Gain: 1, Length: time.Second}}, rand.New(rand.NewPCG(1, 1)))
	first := int16(binary.LittleEndian.Uint16(pcm[0:]))
	last := int16(binary.LittleEndian.Uint16(pcm[len(pcm)-4:]))
	assert.InDelta(t, 0.3*32767, float64(first), 1)
	assert.Less(t, max(last, -last), int16(200))
}

func TestRenderSkipsInvalidTones(t *testing.T) {
	pcm := Render([]Tone{{Wave: Sine, From: 0, To: 440, Gain: 1, Length: 10 * time.Millisecond}}, nil)
	for _, b := range pcm {
		require.Zero(t, b)
	}
}

func TestSoundBankWithoutContext(t *testing.T) {
	bank := NewSoundBank(nil)
	assert.True(t, bank.Play("hit"))
	assert.False(t, bank.Play("kazoo"))
	assert.Len(t, bank.cache, 1)

	bank.Enabled = false
	assert.False(t, bank.Play("hit"))
}
