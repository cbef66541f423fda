// Package audio plays the table's sound effects and background music.
// Playback is best effort: without a working audio device every call is a
// silent no-op.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player mixes effects over a looping music track.
type Player struct {
	mu  sync.Mutex
	log *log.Logger

	mixer *beep.Mixer
	music *beep.Ctrl

	soundOn     bool
	musicOn     bool
	playing     bool // Music wanted by the session, regardless of musicOn
	initialized bool
}

// New creates a silent player with sound and music enabled.
func New(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		log:     logger,
		mixer:   &beep.Mixer{},
		music:   &beep.Ctrl{Streamer: beep.Iterate(melody), Paused: true},
		soundOn: true,
		musicOn: true,
	}
}

// Init opens the audio device. On failure the player stays silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.log.Warn("audio disabled", "error", err)
		return err
	}
	p.mixer.Add(p.music)
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences everything and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// PlayStart plays the start jingle and resumes the music.
func (p *Player) PlayStart() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playing = true
	p.syncMusic()
	if p.soundOn {
		p.add(beep.Seq(
			tone(523.25, 80*time.Millisecond, -2),
			tone(659.25, 80*time.Millisecond, -2),
			tone(783.99, 160*time.Millisecond, -2),
		))
	}
}

// PauseMusic pauses the music until the next PlayStart.
func (p *Player) PauseMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.syncMusic()
}

// PlayBumper plays a short click. Safe to call from the tick goroutine.
func (p *Player) PlayBumper() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.soundOn {
		p.add(tone(1318.5, 30*time.Millisecond, -3))
	}
}

// SetSoundEnabled toggles effects.
func (p *Player) SetSoundEnabled(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.soundOn = on
}

// SetMusicEnabled toggles the music track.
func (p *Player) SetMusicEnabled(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.musicOn = on
	p.syncMusic()
}

// MusicPlaying reports whether the music track is audible (or would be,
// given a device).
func (p *Player) MusicPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.music.Paused
}

// syncMusic applies playing and musicOn to the music control. Caller holds mu.
func (p *Player) syncMusic() {
	paused := !(p.playing && p.musicOn)
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.music.Paused = paused
}

// add queues a one-shot streamer. Caller holds mu.
func (p *Player) add(s beep.Streamer) {
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// tone returns a sine note of duration d at volume (log2 scale, 0 = full).
func tone(freq float64, d time.Duration, volume float64) beep.Streamer {
	n := sampleRate.N(d)
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(n)
	}
	return &effects.Volume{Streamer: beep.Take(n, sine), Base: 2, Volume: volume}
}

// melody returns one pass of the background loop.
func melody() beep.Streamer {
	notes := []float64{261.63, 329.63, 392.00, 329.63, 293.66, 349.23, 440.00, 349.23}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		parts = append(parts, tone(f, 220*time.Millisecond, -5))
	}
	return beep.Seq(parts...)
}
