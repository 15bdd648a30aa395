package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/foomo/docs-versionpanel/panel"
	"github.com/foomo/docs-versionpanel/service"
	"github.com/foomo/docs-versionpanel/service/vo"
	"github.com/foomo/docs-versionpanel/versions"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

var testVersions = []vo.VersionDescriptor{
	{Version: "v1", Folder: "v1"},
	{Version: "v2", Folder: "v2", HasPDF: true, PDFName: "doc.pdf"},
}

func toolRequest(name string, args interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("handler returned nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("handler returned no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func newTestService(t *testing.T) service.Service {
	t.Helper()
	return service.NewService(nil, service.SiteSettings{Root: t.TempDir()}, versions.NewMemoryStore(testVersions))
}

func TestNewServer(t *testing.T) {
	if NewServer(nil, nil) == nil {
		t.Fatal("NewServer() returned nil")
	}
	if NewServer(zap.NewNop(), newTestService(t)) == nil {
		t.Fatal("NewServer() returned nil")
	}
}

func TestRenderHandler(t *testing.T) {
	args := RenderRequest{
		Versions:       testVersions,
		CurrentVersion: "v2",
	}

	handler := getRenderHandler(panel.NewRenderer(nil), nil)
	result, err := handler(context.Background(), toolRequest("renderVersionList", args), args)
	if err != nil {
		t.Fatalf("renderHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var response RenderResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
		t.Fatalf("Failed to unmarshal RenderResponse: %v", err)
	}
	if response.Fragment != panel.RenderVersionList(testVersions, "v2") {
		t.Fatalf("unexpected fragment %q", response.Fragment)
	}
	if !strings.Contains(response.Markdown, "../v2/doc.pdf") {
		t.Fatalf("markdown misses the download link: %q", response.Markdown)
	}
}

func TestRenderHandlerUsesServiceVersions(t *testing.T) {
	args := RenderRequest{CurrentVersion: "v1"}

	handler := getRenderHandler(panel.NewRenderer(nil), newTestService(t))
	result, err := handler(context.Background(), toolRequest("renderVersionList", args), args)
	if err != nil {
		t.Fatalf("renderHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "../v2/index.html") {
		t.Fatal("expected versions of the service")
	}
}

func TestRenderHandlerValidation(t *testing.T) {
	args := RenderRequest{CurrentVersion: "v1"}

	handler := getRenderHandler(panel.NewRenderer(nil), nil)
	result, err := handler(context.Background(), toolRequest("renderVersionList", args), args)
	if err != nil {
		t.Fatalf("renderHandler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result for missing versions")
	}
}

func TestUpdateHandler(t *testing.T) {
	args := UpdateRequest{
		HTML:           `<html><body><div class="rst-other-versions">old</div><div class="rst-other-versions-extra">keep</div></body></html>`,
		CurrentVersion: "v1",
		Versions:       testVersions,
	}

	handler := getUpdateHandler(zap.NewNop(), panel.NewRenderer(nil), nil)
	result, err := handler(context.Background(), toolRequest("updateVersionList", args), args)
	if err != nil {
		t.Fatalf("updateHandler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var response UpdateResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
		t.Fatalf("Failed to unmarshal UpdateResponse: %v", err)
	}
	if response.Containers != 1 {
		t.Fatalf("expected 1 container, got %d", response.Containers)
	}
	if !strings.Contains(response.HTML, `<strong><dd><a href="../v1/index.html">v1</a></dd></strong>`) {
		t.Fatalf("current version not emphasized: %s", response.HTML)
	}
	if !strings.Contains(response.HTML, ">keep<") || strings.Contains(response.HTML, ">old<") {
		t.Fatalf("unexpected html: %s", response.HTML)
	}
}

func TestUpdateHandlerValidation(t *testing.T) {
	args := UpdateRequest{
		HTML:     " ",
		Versions: testVersions,
	}

	handler := getUpdateHandler(zap.NewNop(), panel.NewRenderer(nil), nil)
	result, err := handler(context.Background(), toolRequest("updateVersionList", args), args)
	if err != nil {
		t.Fatalf("updateHandler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result for missing html")
	}
}

func TestListHandler(t *testing.T) {
	handler := getListHandler(newTestService(t))
	result, err := handler(context.Background(), toolRequest("listVersions", nil))
	if err != nil {
		t.Fatalf("listHandler returned error: %v", err)
	}

	var response ListResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &response); err != nil {
		t.Fatalf("Failed to unmarshal ListResponse: %v", err)
	}
	if len(response.Versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(response.Versions))
	}
}
