// ABOUTME: Entry point for the palmsynth keyboard-controlled synth
// ABOUTME: Parses CLI flags and wires the engine, TUI, and control bridge
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/palmsynth/palmsynth-go/internal/control"
	"github.com/palmsynth/palmsynth-go/internal/params"
	"github.com/palmsynth/palmsynth-go/internal/synth"
	"github.com/palmsynth/palmsynth-go/internal/ui"
	"github.com/palmsynth/palmsynth-go/internal/version"
)

var (
	sampleRate  = flag.Int("sample-rate", synth.DefaultSampleRate, "Output sample rate in Hz")
	blockSize   = flag.Int("block-size", synth.DefaultBlockSize, "Samples per synthesis block")
	logFile     = flag.String("log-file", "palmsynth.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, start the tone immediately")
	controlPort = flag.Int("control-port", 0, "Control bridge port for remote trackers (0 = disabled)")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement of the control bridge")
	name        = flag.String("name", "", "Bridge friendly name (default: hostname-palmsynth)")
)

func main() {
	flag.Parse()

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if *noTUI {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		// TUI mode: log only to file so the screen stays clean
		log.SetOutput(f)
	}

	bridgeName := *name
	if bridgeName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		bridgeName = fmt.Sprintf("%s-palmsynth", hostname)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	store := params.NewStore()
	engine := synth.NewEngine(store, synth.Config{
		SampleRate: *sampleRate,
		BlockSize:  *blockSize,
	})

	// Optional control bridge for remote hand trackers
	var bridge *control.Server
	if *controlPort > 0 {
		bridge = control.New(control.Config{
			Port:       *controlPort,
			Name:       bridgeName,
			EnableMDNS: !*noMDNS,
		}, engine)

		go func() {
			if err := bridge.Start(); err != nil {
				log.Printf("Control bridge error: %v", err)
			}
		}()
	}

	// TUI setup
	var ctrl *ui.Control
	var tuiProg *tea.Program
	if !*noTUI {
		ctrl = ui.NewControl()
		tuiProg, err = ui.Run(ctrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
		go controlLoop(engine, ctrl, tuiProg)
	} else {
		if err := engine.Start(); err != nil {
			log.Fatalf("Failed to start engine: %v", err)
		}
		log.Printf("Engine started, press Ctrl-C to stop")
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if ctrl != nil {
		select {
		case <-ctrl.Quit:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	if bridge != nil {
		bridge.Stop()
	}
	if err := engine.Stop(); err != nil {
		log.Printf("Engine stop error: %v", err)
	}
	if tuiProg != nil {
		tuiProg.Quit()
	}

	log.Printf("Stopped")
}

// controlLoop feeds TUI input into the engine and mirrors engine state back.
func controlLoop(engine *synth.Engine, ctrl *ui.Control, tuiProg *tea.Program) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	cfg := engine.Config()

	for {
		select {
		case msg := <-ctrl.Targets:
			engine.UpdateTargets(msg.Frequency, msg.Amplitude, msg.RoomSize)

		case <-ctrl.Toggle:
			if engine.Running() {
				if err := engine.Stop(); err != nil {
					log.Printf("Engine stop error: %v", err)
				}
			} else {
				if err := engine.Start(); err != nil {
					log.Printf("Engine start error: %v", err)
				}
			}

		case <-ticker.C:
			running := engine.Running()
			freq, amp, room := engine.Snapshot()
			tuiProg.Send(ui.StatusMsg{
				Running:    &running,
				Frequency:  freq,
				Amplitude:  amp,
				RoomSize:   room,
				SampleRate: cfg.SampleRate,
				BlockSize:  cfg.BlockSize,
			})
		}
	}
}
