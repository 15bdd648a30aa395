package mcp

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/foomo/docs-versionpanel/service"
	"github.com/foomo/docs-versionpanel/versions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventNames(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			names = append(names, name)
		}
	}
	return names
}

func TestHandleRenderSSE(t *testing.T) {
	sseServer := NewMCPSSEServer(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp/sse/render", strings.NewReader(`{
		"currentVersion": "v2",
		"versions": [{"version": "v1", "folder": "v1"}, {"version": "v2", "folder": "v2"}]
	}`))
	rec := httptest.NewRecorder()
	sseServer.HandleRenderSSE(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"render_start", "render_result", "render_complete"}, eventNames(rec.Body.String()))
	assert.Contains(t, rec.Body.String(), "../v2/index.html")
}

func TestHandleRenderSSEValidation(t *testing.T) {
	sseServer := NewMCPSSEServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	sseServer.HandleRenderSSE(rec, httptest.NewRequest(http.MethodPost, "/mcp/sse/render", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	sseServer.HandleRenderSSE(rec, httptest.NewRequest(http.MethodPost, "/mcp/sse/render", strings.NewReader(`{"currentVersion":"v1"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateSSE(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "v1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "v1", "index.html"),
		[]byte(`<html><body><div class="rst-other-versions"></div></body></html>`), 0o644))

	store := versions.NewMemoryStore(testVersions)
	serviceInstance := service.NewService(nil, service.SiteSettings{Root: root}, store)
	handler := NewMcpHTTPSSEServer(nil, NewServer(nil, serviceInstance), serviceInstance, "/mcp", nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp/sse/update", nil))

	assert.Equal(t, []string{"update_start", "page_updated", "update_complete"}, eventNames(rec.Body.String()))
	assert.Contains(t, rec.Body.String(), `"updated":1`)

	data, err := os.ReadFile(filepath.Join(root, "v1", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<strong><dd><a href="../v1/index.html">v1</a></dd></strong>`)
}

func TestHandleUpdateSSEWithoutService(t *testing.T) {
	sseServer := NewMCPSSEServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	sseServer.HandleUpdateSSE(rec, httptest.NewRequest(http.MethodPost, "/mcp/sse/update", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStats(t *testing.T) {
	handler := NewMcpHTTPSSEServer(nil, NewServer(nil, nil), nil, "/mcp", nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp/sse/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connectedClients":0`)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp/sse/clients", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connectedClients":0`)
}

func TestNewMCPSSEServerKeepsCallerConfig(t *testing.T) {
	config := &SSEServerConfig{BufferSize: 10}

	sseServer := NewMCPSSEServer(nil, nil, config)

	assert.Equal(t, SSEServerConfig{BufferSize: 10}, *config)
	assert.Equal(t, 30*time.Second, sseServer.config.KeepaliveInterval)
	assert.Equal(t, 60*time.Second, sseServer.config.ClientTimeout)
	assert.Equal(t, 10, cap(sseServer.broadcast))
}
