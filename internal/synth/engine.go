// ABOUTME: Synthesis engine owning the audio output device
// ABOUTME: Start/stop lifecycle, stream supervision, and fault surfacing
package synth

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/palmsynth/palmsynth-go/internal/params"
)

// Format defaults. Mono, 32-bit float samples.
const (
	DefaultSampleRate = 16000
	DefaultBlockSize  = 1024
)

// Config holds engine configuration.
type Config struct {
	SampleRate  int
	BlockSize   int
	DecayFactor float64
	NumEchoes   int
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.BlockSize <= 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.DecayFactor == 0 {
		c.DecayFactor = 0.6
	}
	if c.NumEchoes == 0 {
		c.NumEchoes = 5
	}
	return c
}

// Engine owns the output stream and synthesizes blocks on the device's
// schedule. The device is a single owned resource: acquired on Start,
// released when the stream winds down. State machine is Stopped -> Running
// -> Stopped; Start while running and Stop while stopped are no-ops.
type Engine struct {
	cfg   Config
	store *params.Store

	// openDevice acquires the process-global oto context. Swapped in tests
	// to exercise the device-open failure path without real hardware.
	openDevice func(op *oto.NewContextOptions) (*oto.Context, chan struct{}, error)

	mu      sync.Mutex
	running bool
	fault   error
	otoCtx  *oto.Context
	player  *oto.Player
	source  *streamSource
	done    chan struct{}
}

// NewEngine creates an engine reading parameters from store.
func NewEngine(store *params.Store, cfg Config) *Engine {
	return &Engine{
		cfg:        cfg.withDefaults(),
		store:      store,
		openDevice: oto.NewContext,
	}
}

// Start opens the output stream and begins block delivery on the audio
// goroutine. No-op when already running. A pending fault from the previous
// stream instance is returned (and cleared) instead of starting; device-open
// failure returns ErrDeviceUnavailable and leaves the engine stopped.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}
	if e.fault != nil {
		err := e.fault
		e.fault = nil
		return err
	}

	if e.otoCtx == nil {
		// The oto context is process-global; acquire it once and reuse it
		// across start/stop cycles. Each cycle gets a fresh player.
		op := &oto.NewContextOptions{
			SampleRate:   e.cfg.SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			BufferSize:   e.blockPeriod(),
		}
		ctx, ready, err := e.openDevice(op)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		<-ready
		e.otoCtx = ctx
		log.Printf("Audio device opened: %dHz mono float32, block size %d",
			e.cfg.SampleRate, e.cfg.BlockSize)
	}

	e.store.Start()
	e.source = newStreamSource(e.store, e.cfg)
	e.player = e.otoCtx.NewPlayer(e.source)
	e.player.Play()

	e.done = make(chan struct{})
	e.running = true
	go e.supervise(e.player, e.source, e.done)

	return nil
}

// Stop requests stream termination and waits for the in-flight block, if
// any, to complete before the player is closed. Returns any fault the
// stream recorded. No-op (beyond fault surfacing) when already stopped.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		err := e.fault
		e.fault = nil
		e.mu.Unlock()
		return err
	}
	done := e.done
	e.mu.Unlock()

	e.store.Stop()
	<-done

	e.mu.Lock()
	err := e.fault
	e.fault = nil
	e.mu.Unlock()
	return err
}

// supervise waits for the store to go inactive or the stream to fault, then
// releases the player and transitions the engine to stopped. A crashed
// stream must not leave the engine reporting running.
func (e *Engine) supervise(player *oto.Player, source *streamSource, done chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if !e.store.Active() || source.Fault() != nil {
			break
		}
	}

	if err := player.Close(); err != nil {
		log.Printf("Error closing audio player: %v", err)
	}

	e.mu.Lock()
	e.running = false
	if ferr := source.Fault(); ferr != nil {
		e.fault = ferr
		e.store.Stop()
		log.Printf("Stream fault, engine stopped: %v", ferr)
	}
	e.mu.Unlock()

	close(done)
}

// UpdateTargets feeds smoothed controller targets into the parameter store.
func (e *Engine) UpdateTargets(freq, amp, room float64) {
	e.store.SetSmoothed(freq, amp, room)
}

// Snapshot returns the current smoothed parameter values.
func (e *Engine) Snapshot() (freq, amp, room float64) {
	return e.store.Snapshot()
}

// Running reports whether a stream is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) blockPeriod() time.Duration {
	return time.Duration(e.cfg.BlockSize) * time.Second / time.Duration(e.cfg.SampleRate)
}
