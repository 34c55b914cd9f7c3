// ABOUTME: Tests for engine configuration and device-free lifecycle paths
// ABOUTME: Device-dependent start paths are exercised manually, not in CI
package synth

import (
	"errors"
	"testing"

	"github.com/ebitengine/oto/v3"
	"github.com/palmsynth/palmsynth-go/internal/params"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("expected sample rate %d, got %d", DefaultSampleRate, cfg.SampleRate)
	}
	if cfg.BlockSize != DefaultBlockSize {
		t.Errorf("expected block size %d, got %d", DefaultBlockSize, cfg.BlockSize)
	}
	if cfg.DecayFactor != 0.6 {
		t.Errorf("expected decay factor 0.6, got %v", cfg.DecayFactor)
	}
	if cfg.NumEchoes != 5 {
		t.Errorf("expected 5 echoes, got %d", cfg.NumEchoes)
	}
}

func TestConfigOverrides(t *testing.T) {
	cfg := Config{SampleRate: 48000, BlockSize: 512, DecayFactor: 0.4, NumEchoes: 3}.withDefaults()

	if cfg.SampleRate != 48000 || cfg.BlockSize != 512 {
		t.Errorf("overrides lost: %+v", cfg)
	}
	if cfg.DecayFactor != 0.4 || cfg.NumEchoes != 3 {
		t.Errorf("reverb overrides lost: %+v", cfg)
	}
}

func TestNewEngineStopped(t *testing.T) {
	e := NewEngine(params.NewStore(), Config{})

	if e.Running() {
		t.Error("expected new engine to be stopped")
	}
}

func TestStopWhileStoppedIsNoop(t *testing.T) {
	e := NewEngine(params.NewStore(), Config{})

	if err := e.Stop(); err != nil {
		t.Errorf("expected nil from Stop while stopped, got %v", err)
	}
	if e.Running() {
		t.Error("expected engine to remain stopped")
	}
}

func TestUpdateTargetsSmoothsStore(t *testing.T) {
	store := params.NewStore()
	store.SetFrequency(400)
	e := NewEngine(store, Config{})

	e.UpdateTargets(500, params.DefaultAmplitude, params.DefaultRoomSize)

	freq, _, _ := e.Snapshot()
	if freq <= 400 || freq >= 500 {
		t.Errorf("expected smoothed frequency between 400 and 500, got %v", freq)
	}
}

// An unavailable output device fails Start without disturbing the rest of
// the engine: it stays stopped, parameters keep their last values, and no
// fault lingers for later interactions.
func TestStartDeviceUnavailable(t *testing.T) {
	store := params.NewStore()
	store.SetFrequency(523.25)
	store.SetAmplitude(0.4)
	store.SetRoomSize(0.8)

	e := NewEngine(store, Config{})
	e.openDevice = func(op *oto.NewContextOptions) (*oto.Context, chan struct{}, error) {
		return nil, nil, errors.New("no output device")
	}

	err := e.Start()
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable from Start, got %v", err)
	}
	if e.Running() {
		t.Error("expected engine to remain stopped after device failure")
	}
	if store.Active() {
		t.Error("expected store to remain inactive after device failure")
	}

	freq, amp, room := e.Snapshot()
	if freq != 523.25 || amp != 0.4 || room != 0.8 {
		t.Errorf("expected parameters to survive device failure, got %v/%v/%v", freq, amp, room)
	}

	// The failure is reported, not recorded as a stream fault.
	if err := e.Stop(); err != nil {
		t.Errorf("expected no pending fault after failed Start, got %v", err)
	}

	// Each attempt fails the same way while the device stays unavailable.
	if err := e.Start(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("expected ErrDeviceUnavailable from retry, got %v", err)
	}
}

// A recorded fault surfaces from the next interaction and is then cleared.
func TestFaultSurfacesOnce(t *testing.T) {
	e := NewEngine(params.NewStore(), Config{})
	e.fault = ErrStreamFault

	if err := e.Stop(); err != ErrStreamFault {
		t.Fatalf("expected stream fault from Stop, got %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("expected fault to be cleared, got %v", err)
	}
}

func TestBlockPeriod(t *testing.T) {
	e := NewEngine(params.NewStore(), Config{SampleRate: 16000, BlockSize: 1024})

	// 1024/16000 = 64ms
	if ms := e.blockPeriod().Milliseconds(); ms != 64 {
		t.Errorf("expected 64ms block period, got %dms", ms)
	}
}
