package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/foomo/docs-versionpanel/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// httpRequestKey is a custom context key for storing the original HTTP request
type httpRequestKey struct{}

// withHTTPRequest adds the original HTTP request to the context
func withHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

// httpRequestFromContext extracts the original HTTP request from the context
func httpRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

// httpContextFunc extracts the original HTTP request and adds it to the context
func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return withHTTPRequest(ctx, r)
}

// NewMcpHTTPServer creates a new MCP HTTP server with traditional MCP endpoints
func NewMcpHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(httpContextFunc),
	)
}

// NewMcpHTTPSSEServer creates a new MCP server with both HTTP and SSE capabilities
func NewMcpHTTPSSEServer(logger *zap.Logger, s *server.MCPServer, serviceInstance service.Service, endpoint string, config *SSEServerConfig) *McpHTTPSSEServer {
	// Create the SSE server
	sseServer := NewMCPSSEServer(logger, serviceInstance, config)

	// Create HTTP mux for both MCP and SSE endpoints
	mux := http.NewServeMux()

	// Add MCP server endpoint
	mux.Handle(endpoint, NewMcpHTTPServer(s, endpoint))

	// Add SSE endpoints
	mux.HandleFunc(endpoint+"/sse", sseServer.HandleSSE)
	mux.HandleFunc(endpoint+"/sse/render", sseServer.HandleRenderSSE)
	mux.HandleFunc(endpoint+"/sse/update", sseServer.HandleUpdateSSE)
	mux.HandleFunc(endpoint+"/sse/clients", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		clients := sseServer.GetConnectedClients()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"connectedClients": len(clients),
			"clients":          clients,
		})
	})
	mux.HandleFunc(endpoint+"/sse/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sseServer.GetStats())
	})

	return &McpHTTPSSEServer{
		mux: mux,
	}
}

// McpHTTPSSEServer combines MCP HTTP server with SSE capabilities
type McpHTTPSSEServer struct {
	mux *http.ServeMux
}

// ServeHTTP implements http.Handler
func (s *McpHTTPSSEServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
