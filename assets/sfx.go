// Package assets synthesizes the game's sound effects. Every sound is built
// from a few oscillator tones at startup, so nothing is loaded from disk.
package assets

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	SampleRate = 44100
	masterGain = 0.3
	floorGain  = 0.01
)

type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
	Sawtooth
	Noise
)

// Tone is one oscillator voice. Frequency sweeps exponentially from From to
// To while the gain decays from Gain to near silence over Length. For Noise,
// From and To sweep a low-pass cutoff instead.
type Tone struct {
	Wave     Wave
	From, To float64
	Gain     float64
	Start    time.Duration
	Length   time.Duration
}

func (t Tone) end() time.Duration { return t.Start + t.Length }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func notes(wave Wave, gain float64, length, step time.Duration, freqs ...float64) []Tone {
	tones := make([]Tone, len(freqs))
	for i, f := range freqs {
		tones[i] = Tone{Wave: wave, From: f, To: f, Gain: gain, Start: time.Duration(i) * step, Length: length}
	}
	return tones
}

var sounds = map[string][]Tone{
	"jump":       {{Wave: Sine, From: 200, To: 400, Gain: 0.3, Length: ms(100)}},
	"doubleJump": {{Wave: Sine, From: 400, To: 800, Gain: 0.3, Length: ms(150)}},
	"wallJump":   {{Wave: Square, From: 250, To: 150, Gain: 0.25, Length: ms(80)}},
	"dash":       {{Wave: Noise, From: 2000, To: 100, Gain: 0.2, Length: ms(200)}},
	"collect":    notes(Sine, 0.2, ms(300), ms(50), 523.25, 659.25, 783.99),
	"powerup":    notes(Triangle, 0.25, ms(400), ms(80), 261.63, 329.63, 392.00, 523.25),
	"hit":        {{Wave: Sawtooth, From: 100, To: 50, Gain: 0.3, Length: ms(100)}},
	"explosion":  {{Wave: Noise, From: 800, To: 50, Gain: 0.4, Length: ms(300)}},
	"enemyDeath": {{Wave: Square, From: 400, To: 100, Gain: 0.2, Length: ms(200)}},
	"victory":    notes(Triangle, 0.3, ms(500), ms(150), 523.25, 659.25, 783.99, 1046.50),
	"defeat":     notes(Sine, 0.25, ms(600), ms(200), 392.00, 349.23, 293.66, 261.63),

	"stomp":       {{Wave: Square, From: 300, To: 120, Gain: 0.25, Length: ms(90)}},
	"shieldBreak": {{Wave: Triangle, From: 900, To: 300, Gain: 0.25, Length: ms(250)}},
	"enemyShoot":  {{Wave: Square, From: 700, To: 350, Gain: 0.15, Length: ms(80)}},
	"charge":      {{Wave: Sawtooth, From: 80, To: 160, Gain: 0.25, Length: ms(300)}},
}

// Names lists the known sounds, sorted.
func Names() []string {
	names := make([]string, 0, len(sounds))
	for name := range sounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Synthesize renders a named sound as 16-bit little-endian stereo PCM at
// SampleRate.
func Synthesize(name string) ([]byte, bool) {
	tones, ok := sounds[name]
	if !ok {
		return nil, false
	}
	return Render(tones, rand.New(rand.NewPCG(uint64(len(name)), 0x5eed))), true
}

// Render mixes tones into 16-bit little-endian stereo PCM at SampleRate.
func Render(tones []Tone, rng *rand.Rand) []byte {
	var length time.Duration
	for _, t := range tones {
		length = max(length, t.end())
	}
	n := int(math.Round(length.Seconds() * SampleRate))
	mix := make([]float64, n)

	for _, t := range tones {
		renderTone(mix, t, rng)
	}

	out := make([]byte, n*4)
	for i, v := range mix {
		s := int16(math.Round(clamp(v*masterGain, -1, 1) * math.MaxInt16))
		binary.LittleEndian.PutUint16(out[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(s))
	}
	return out
}

func renderTone(mix []float64, t Tone, rng *rand.Rand) {
	if t.Length <= 0 || t.Gain <= 0 || t.From <= 0 || t.To <= 0 {
		return
	}
	start := int(math.Round(t.Start.Seconds() * SampleRate))
	count := int(math.Round(t.Length.Seconds() * SampleRate))
	decay := floorGain / t.Gain

	var phase, lowpass float64
	for i := 0; i < count && start+i < len(mix); i++ {
		p := float64(i) / float64(count)
		freq := t.From * math.Pow(t.To/t.From, p)
		gain := t.Gain * math.Pow(decay, p)

		var v float64
		if t.Wave == Noise {
			alpha := 1 - math.Exp(-2*math.Pi*freq/SampleRate)
			lowpass += alpha * (rng.Float64()*2 - 1 - lowpass)
			v = lowpass
		} else {
			v = oscillate(t.Wave, phase)
			phase = math.Mod(phase+freq/SampleRate, 1)
		}
		mix[start+i] += v * gain
	}
}

// oscillate samples one period of wave at phase in [0, 1).
func oscillate(wave Wave, phase float64) float64 {
	switch wave {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case Sawtooth:
		return 2*phase - 1
	}
	return math.Sin(2 * math.Pi * phase)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

// Context returns the shared audio context, creating it on first use.
func Context() *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// SoundBank plays synthesized sounds, rendering each one once.
type SoundBank struct {
	mu      sync.Mutex
	ctx     *audio.Context
	cache   map[string][]byte
	Volume  float64
	Enabled bool
}

func NewSoundBank(ctx *audio.Context) *SoundBank {
	return &SoundBank{ctx: ctx, cache: make(map[string][]byte), Volume: 1, Enabled: true}
}

// Play starts name on a fresh player. Unknown names report false.
func (b *SoundBank) Play(name string) bool {
	if b == nil || !b.Enabled {
		return false
	}
	pcm, ok := b.pcm(name)
	if !ok {
		return false
	}
	if b.ctx == nil {
		return true
	}
	p := b.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(b.Volume)
	p.Play()
	return true
}

func (b *SoundBank) pcm(name string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pcm, ok := b.cache[name]; ok {
		return pcm, true
	}
	pcm, ok := Synthesize(name)
	if !ok {
		return nil, false
	}
	b.cache[name] = pcm
	return pcm, true
}
