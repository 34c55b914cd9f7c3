// ABOUTME: Entry point for the headless control bridge
// ABOUTME: Runs the engine driven entirely by remote hand trackers
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/palmsynth/palmsynth-go/internal/control"
	"github.com/palmsynth/palmsynth-go/internal/params"
	"github.com/palmsynth/palmsynth-go/internal/synth"
)

var (
	port       = flag.Int("port", 8937, "Control bridge port")
	name       = flag.String("name", "", "Bridge friendly name (default: hostname-palmsynth-bridge)")
	logFile    = flag.String("log-file", "palmsynth-bridge.log", "Log file path")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	sampleRate = flag.Int("sample-rate", synth.DefaultSampleRate, "Output sample rate in Hz")
	blockSize  = flag.Int("block-size", synth.DefaultBlockSize, "Samples per synthesis block")
)

func main() {
	flag.Parse()

	// Log to both file and stdout
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, f))

	bridgeName := *name
	if bridgeName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		bridgeName = fmt.Sprintf("%s-palmsynth-bridge", hostname)
	}

	log.Printf("Starting bridge: %s on port %d", bridgeName, *port)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Press Ctrl-C to stop")

	store := params.NewStore()
	engine := synth.NewEngine(store, synth.Config{
		SampleRate: *sampleRate,
		BlockSize:  *blockSize,
	})

	srv := control.New(control.Config{
		Port:       *port,
		Name:       bridgeName,
		EnableMDNS: !*noMDNS,
		Debug:      *debug,
	}, engine)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("\nReceived %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Bridge error: %v", err)
	}

	log.Printf("Bridge stopped")
}
