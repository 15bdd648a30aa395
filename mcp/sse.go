package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/foomo/docs-versionpanel/panel"
	"github.com/foomo/docs-versionpanel/service"
	"github.com/foomo/docs-versionpanel/service/vo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func newEvent(name string, data interface{}) SSEEvent {
	return SSEEvent{
		ID:        uuid.NewString(),
		Event:     name,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	Writer   http.ResponseWriter
	Flusher  http.Flusher
	Done     chan struct{}
	LastSeen time.Time
	mu       sync.Mutex
}

// MCPSSEServer streams site updates to subscribed clients
type MCPSSEServer struct {
	logger       *zap.Logger
	service      service.Service
	renderer     *panel.Renderer
	config       *SSEServerConfig
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	updateMutex  sync.Mutex
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// NewMCPSSEServer creates a new MCP SSE server. Unset config fields take their defaults.
func NewMCPSSEServer(logger *zap.Logger, serviceInstance service.Service, config *SSEServerConfig) *MCPSSEServer {
	defaults := DefaultSSEServerConfig()
	cfg := *defaults
	if config != nil {
		cfg = *config
	}
	if cfg.KeepaliveInterval <= 0 {
		cfg.KeepaliveInterval = defaults.KeepaliveInterval
	}
	if cfg.ClientTimeout <= 0 {
		cfg.ClientTimeout = defaults.ClientTimeout
	}
	if cfg.BufferSize < 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sseServer := &MCPSSEServer{
		logger:    logger,
		service:   serviceInstance,
		renderer:  panel.NewRenderer(logger),
		config:    &cfg,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, cfg.BufferSize),
	}

	// Start the broadcast loop
	go sseServer.broadcastLoop()

	return sseServer
}

// broadcastLoop handles broadcasting events to all connected clients
func (s *MCPSSEServer) broadcastLoop() {
	for event := range s.broadcast {
		var failed []string
		s.clientsMutex.RLock()
		for clientID, client := range s.clients {
			select {
			case <-client.Done:
				failed = append(failed, clientID)
			default:
				if err := s.sendEventToClient(client, event); err != nil {
					s.logger.Error("failed to send event to client", zap.String("clientID", clientID), zap.Error(err))
					failed = append(failed, clientID)
				}
			}
		}
		s.clientsMutex.RUnlock()
		for _, clientID := range failed {
			s.removeClient(clientID)
		}
	}
}

// writeEvent formats event as SSE
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, string(eventJSON)); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// sendEventToClient sends an SSE event to a specific client
func (s *MCPSSEServer) sendEventToClient(client *SSEClient, event SSEEvent) error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if err := writeEvent(client.Writer, client.Flusher, event); err != nil {
		return err
	}
	client.LastSeen = time.Now()
	return nil
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// addClient adds a new SSE client
func (s *MCPSSEServer) addClient(w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	client := &SSEClient{
		ID:       uuid.NewString(),
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}

	// Send connection confirmation
	connectEvent := newEvent("connected", map[string]string{"clientID": client.ID, "message": "Connected to version panel SSE server"})
	if err := s.sendEventToClient(client, connectEvent); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", client.ID), zap.Error(err))
		return nil
	}

	s.clientsMutex.Lock()
	s.clients[client.ID] = client
	s.clientsMutex.Unlock()

	s.logger.Info("SSE client connected", zap.String("clientID", client.ID))
	return client
}

// removeClient removes a client from the server
func (s *MCPSSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	if client, exists := s.clients[clientID]; exists {
		close(client.Done)
		delete(s.clients, clientID)
		s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

// broadcastEvent sends an event to all connected clients
func (s *MCPSSEServer) broadcastEvent(event SSEEvent) {
	select {
	case s.broadcast <- event:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", event.ID))
	}
}

// HandleSSE subscribes a client to site update events
func (s *MCPSSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	client := s.addClient(w)
	if client == nil {
		return
	}

	ticker := time.NewTicker(s.config.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.removeClient(client.ID)
			return
		case <-client.Done:
			return
		case <-ticker.C:
			keepaliveEvent := newEvent("keepalive", map[string]interface{}{"timestamp": time.Now()})
			if err := s.sendEventToClient(client, keepaliveEvent); err != nil {
				s.removeClient(client.ID)
				return
			}
		}
	}
}

// HandleRenderSSE renders a version list and streams the result
func (s *MCPSSEServer) HandleRenderSSE(w http.ResponseWriter, r *http.Request) {
	var request RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	list, err := versionsFor(request.Versions, s.service)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)

	events := []SSEEvent{
		newEvent("render_start", map[string]interface{}{"currentVersion": request.CurrentVersion, "versions": len(list)}),
	}
	fragment := s.renderer.Render(list, request.CurrentVersion)
	if markdown, err := panel.Preview(fragment); err != nil {
		events = append(events, newEvent("render_error", map[string]string{"error": err.Error()}))
	} else {
		events = append(events,
			newEvent("render_result", RenderResponse{Fragment: fragment, Markdown: markdown}),
			newEvent("render_complete", map[string]string{"status": "completed"}),
		)
	}
	for _, event := range events {
		if err := writeEvent(w, flusher, event); err != nil {
			s.logger.Warn("failed to write render event", zap.Error(err))
			return
		}
	}
}

// sseReporter streams site update progress to the requesting client and all subscribers
type sseReporter struct {
	server  *MCPSSEServer
	w       http.ResponseWriter
	flusher http.Flusher
	total   int
}

func (r *sseReporter) send(event SSEEvent) {
	if err := writeEvent(r.w, r.flusher, event); err != nil {
		r.server.logger.Debug("failed to write update event", zap.Error(err))
	}
	r.server.broadcastEvent(event)
}

func (r *sseReporter) Start(total int) {
	r.total = total
	r.send(newEvent("update_start", map[string]int{"total": total}))
}

func (r *sseReporter) Update(current int, message string) {
	r.send(newEvent("page_updated", map[string]interface{}{"current": current, "total": r.total, "path": message}))
}

func (r *sseReporter) Finish() {}

// HandleUpdateSSE updates the whole site and streams per page progress
func (s *MCPSSEServer) HandleUpdateSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Site service not available", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)

	// Site updates rewrite files: one at a time.
	s.updateMutex.Lock()
	defer s.updateMutex.Unlock()

	reporter := &sseReporter{server: s, w: w, flusher: flusher}
	report, err := s.service.UpdateSite(r.Context(), reporter)
	if err != nil {
		reporter.send(newEvent("update_error", map[string]string{"error": err.Error()}))
		return
	}
	reporter.send(newEvent("update_complete", summary(report)))
}

func summary(report *vo.SiteReport) map[string]interface{} {
	return map[string]interface{}{
		"pages":     report.Pages,
		"updated":   report.Updated,
		"unchanged": report.Unchanged,
		"failed":    report.Failed,
		"skipped":   report.Skipped,
	}
}

// GetConnectedClients returns information about connected clients
func (s *MCPSSEServer) GetConnectedClients() []map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	clients := make([]map[string]interface{}, 0, len(s.clients))
	for _, client := range s.clients {
		client.mu.Lock()
		lastSeen := client.LastSeen
		client.mu.Unlock()
		clients = append(clients, map[string]interface{}{
			"id":        client.ID,
			"lastSeen":  lastSeen,
			"connected": time.Since(lastSeen) < s.config.ClientTimeout,
		})
	}
	return clients
}

// GetStats returns server statistics
func (s *MCPSSEServer) GetStats() map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	return map[string]interface{}{
		"connectedClients": len(s.clients),
		"bufferSize":       len(s.broadcast),
		"serverVersion":    Version,
	}
}
