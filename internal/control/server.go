// ABOUTME: WebSocket control bridge for remote hand trackers
// ABOUTME: Translates control messages into engine start/stop and target updates
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/palmsynth/palmsynth-go/internal/discovery"
	"github.com/palmsynth/palmsynth-go/internal/gesture"
	"github.com/palmsynth/palmsynth-go/internal/protocol"
)

// Config holds bridge configuration.
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
	Debug      bool
}

// Synth is the engine surface the bridge drives.
type Synth interface {
	Start() error
	Stop() error
	UpdateTargets(freq, amp, room float64)
	Snapshot() (freq, amp, room float64)
	Running() bool
}

// Server accepts WebSocket connections from hand trackers and forwards
// derived control scalars to the synthesis engine. Raw landmark frames are
// mapped and smoothed per connection; hand absence stops the engine the same
// way a hand leaving the camera frame does.
type Server struct {
	config   Config
	serverID string
	synth    Synth

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	clients   map[string]*client
	clientsMu sync.RWMutex

	drivenMu      sync.Mutex
	trackerDriven bool

	mdnsManager *discovery.Manager

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// client is one connected tracker.
type client struct {
	id      string
	name    string
	conn    *websocket.Conn
	tracker *gesture.Tracker
}

// New creates a bridge driving the given synth.
func New(config Config, synth Synth) *Server {
	return &Server{
		config:   config,
		serverID: uuid.New().String(),
		synth:    synth,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Trackers run on the local network; browser-based ones
				// connect from file:// or localhost origins.
				return true
			},
		},
		clients:  make(map[string]*client),
		stopChan: make(chan struct{}),
	}
}

// Start runs the bridge until Stop is called or the listener fails.
func (s *Server) Start() error {
	log.Printf("Control bridge starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	s.mux.HandleFunc("/palmsynth", s.handleWebSocket)

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Control bridge listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Control bridge shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	s.shutdown()
	log.Printf("Control bridge stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// shutdown tears the bridge down: new messages are rejected, every tracker
// connection is closed, and the connection handlers are waited out before
// the engine and listener are released. WebSocket connections are hijacked,
// so http.Server.Shutdown alone would leave them open.
func (s *Server) shutdown() {
	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	s.closeClients()

	if err := s.synth.Stop(); err != nil {
		log.Printf("Engine stop error: %v", err)
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}

	s.wg.Wait()
}

// closeClients closes every registered tracker connection, unblocking the
// read loops in their handlers.
func (s *Server) closeClients() {
	s.clientsMu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for _, c := range s.clients {
		conns = append(conns, c.conn)
	}
	s.clientsMu.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// Stop stops the bridge.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// handleWebSocket upgrades and hands off a connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New tracker connection from %s", r.RemoteAddr)
	s.wg.Add(1)
	defer s.wg.Done()
	s.handleConnection(conn)
}

// handleConnection runs the handshake and message loop for one tracker.
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	// Wait for client/hello
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("Error reading hello: %v", err)
		return
	}

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}
	if msg.Type != "client/hello" {
		log.Printf("Expected client/hello, got %s", msg.Type)
		return
	}

	var hello protocol.ClientHello
	if err := decodePayload(msg.Payload, &hello); err != nil {
		log.Printf("Error decoding client hello: %v", err)
		return
	}
	if hello.ClientID == "" || hello.Name == "" {
		log.Printf("Client hello missing ClientID or Name")
		return
	}

	c := &client{
		id:      hello.ClientID,
		name:    hello.Name,
		conn:    conn,
		tracker: gesture.NewTracker(),
	}

	s.clientsMu.Lock()
	if existing, exists := s.clients[c.id]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected (name: %s), rejecting duplicate", c.id, existing.name)
		s.sendMessage(conn, "server/error", protocol.ServerError{
			Error:   "duplicate_client_id",
			Message: "Client ID already connected",
		})
		return
	}
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	defer s.unregister(c)

	// Shutdown may have swept the registry between the check above and our
	// registration; bail out rather than holding the read loop open.
	s.shutdownMu.RLock()
	closing := s.isShutdown
	s.shutdownMu.RUnlock()
	if closing {
		return
	}

	if err := s.sendMessage(conn, "server/hello", protocol.ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  protocol.ProtocolVersion,
	}); err != nil {
		log.Printf("Error sending server hello: %v", err)
		return
	}

	log.Printf("Tracker registered: %s (ID: %s)", c.name, c.id)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Error unmarshaling message from %s: %v", c.name, err)
			continue
		}

		if err := s.handleMessage(c, msg); err != nil {
			log.Printf("Error handling %s from %s: %v", msg.Type, c.name, err)
		}
	}
}

// unregister drops a tracker from the registry. When the last tracker goes
// away the engine is stopped, but only if a tracker started it: in the
// combined binary a keyboard-started session outlives its trackers.
func (s *Server) unregister(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c.id)
	noTrackers := len(s.clients) == 0
	s.clientsMu.Unlock()
	log.Printf("Tracker disconnected: %s", c.name)

	if !noTrackers {
		return
	}

	s.drivenMu.Lock()
	driven := s.trackerDriven
	s.trackerDriven = false
	s.drivenMu.Unlock()

	if driven {
		if err := s.synth.Stop(); err != nil {
			log.Printf("Engine stop error: %v", err)
		}
	}
}

// startSynth starts the engine on behalf of a tracker and records that
// ownership for unregister.
func (s *Server) startSynth() error {
	if err := s.synth.Start(); err != nil {
		return err
	}
	s.drivenMu.Lock()
	s.trackerDriven = true
	s.drivenMu.Unlock()
	return nil
}

// handleMessage dispatches one control message.
func (s *Server) handleMessage(c *client, msg protocol.Message) error {
	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		return fmt.Errorf("bridge is shutting down")
	}
	s.shutdownMu.RUnlock()

	switch msg.Type {
	case "control/start":
		return s.startSynth()

	case "control/stop":
		return s.synth.Stop()

	case "control/targets":
		var targets protocol.ControlTargets
		if err := decodePayload(msg.Payload, &targets); err != nil {
			return err
		}
		if err := s.startSynth(); err != nil {
			return err
		}
		s.synth.UpdateTargets(targets.Frequency, targets.Amplitude, targets.RoomSize)
		if s.config.Debug {
			log.Printf("[DEBUG] Targets from %s: %.1fHz %.2f %.2fs",
				c.name, targets.Frequency, targets.Amplitude, targets.RoomSize)
		}
		return nil

	case "control/gesture":
		var g protocol.ControlGesture
		if err := decodePayload(msg.Payload, &g); err != nil {
			return err
		}
		return s.handleGesture(c, g)

	case "state/get":
		freq, amp, room := s.synth.Snapshot()
		return s.sendMessage(c.conn, "engine/state", protocol.EngineState{
			Running:   s.synth.Running(),
			Frequency: freq,
			Amplitude: amp,
			RoomSize:  room,
		})

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// handleGesture maps one landmark frame onto the engine.
func (s *Server) handleGesture(c *client, g protocol.ControlGesture) error {
	frame := gesture.Frame{
		LeftPalm:   toPoint(g.LeftPalm),
		RightThumb: toPoint(g.RightThumb),
		RightIndex: toPoint(g.RightIndex),
	}

	if !frame.Present() {
		return s.synth.Stop()
	}
	if err := s.startSynth(); err != nil {
		return err
	}

	targets, ok := c.tracker.Observe(frame)
	if !ok {
		return nil
	}

	// Controls with no observations yet keep their current values.
	freq, amp, room := s.synth.Snapshot()
	if targets.HasPitch {
		freq, amp = targets.Frequency, targets.Amplitude
	}
	if targets.HasRoom {
		room = targets.RoomSize
	}
	s.synth.UpdateTargets(freq, amp, room)
	return nil
}

// sendMessage writes one JSON message to a connection.
func (s *Server) sendMessage(conn *websocket.Conn, msgType string, payload interface{}) error {
	data, err := json.Marshal(protocol.Message{Type: msgType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// decodePayload re-marshals an envelope payload into a typed struct.
func decodePayload(payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func toPoint(l *protocol.Landmark) *gesture.Point {
	if l == nil {
		return nil
	}
	return &gesture.Point{X: l.X, Y: l.Y}
}
