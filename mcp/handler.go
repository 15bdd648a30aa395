package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foomo/docs-versionpanel/panel"
	"github.com/foomo/docs-versionpanel/service"
	"github.com/foomo/docs-versionpanel/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const Version = "0.1.0"

type RenderRequest struct {
	Versions       []vo.VersionDescriptor `json:"versions"`       // Builds to list, defaults to the known builds
	CurrentVersion string                 `json:"currentVersion"` // Build to emphasize
}

type RenderResponse struct {
	Fragment vo.Fragment `json:"fragment"` // The rendered HTML fragment
	Markdown string      `json:"markdown"` // The fragment as markdown
}

type UpdateRequest struct {
	HTML           string                 `json:"html"`           // The page to update
	CurrentVersion string                 `json:"currentVersion"` // Build the page belongs to
	Versions       []vo.VersionDescriptor `json:"versions"`       // Builds to list, defaults to the known builds
	ContainerClass string                 `json:"containerClass"` // Class of the containers, defaults to rst-other-versions
}

type UpdateResponse struct {
	HTML       string `json:"html"`       // The updated page
	Containers int    `json:"containers"` // Number of replaced containers
}

type ListResponse struct {
	Versions []vo.VersionDescriptor `json:"versions"`
}

var descriptorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version":  map[string]any{"type": "string"},
		"folder":   map[string]any{"type": "string"},
		"has_pdf":  map[string]any{"type": "boolean"},
		"pdf_name": map[string]any{"type": "string"},
	},
	"required": []string{"version", "folder"},
}

// NewServer creates a new MCP server with the renderVersionList and updateVersionList tools.
// listVersions and version defaults are only available with a service.
func NewServer(logger *zap.Logger, serviceInstance service.Service) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"Documentation Version Panel MCP",
		Version,
		server.WithToolCapabilities(false),
	)
	renderer := panel.NewRenderer(logger)

	renderTool := mcp.NewTool("renderVersionList",
		mcp.WithDescription("Render the HTML fragment listing all documentation versions and their downloads"),
		mcp.WithString("currentVersion",
			mcp.Required(),
			mcp.Description("The version to emphasize, e.g. 'master' or '2.1.0'"),
		),
		mcp.WithArray("versions",
			mcp.Description("Versions to list in display order. Defaults to the versions of the served site"),
			mcp.Items(descriptorSchema),
		),
	)
	s.AddTool(renderTool, mcp.NewTypedToolHandler(getRenderHandler(renderer, serviceInstance)))

	updateTool := mcp.NewTool("updateVersionList",
		mcp.WithDescription("Replace the content of all version panel containers of an HTML page"),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("The HTML page"),
		),
		mcp.WithString("currentVersion",
			mcp.Required(),
			mcp.Description("The version the page belongs to"),
		),
		mcp.WithArray("versions",
			mcp.Description("Versions to list in display order. Defaults to the versions of the served site"),
			mcp.Items(descriptorSchema),
		),
		mcp.WithString("containerClass",
			mcp.Description("Class token of the containers (default 'rst-other-versions')"),
		),
	)
	s.AddTool(updateTool, mcp.NewTypedToolHandler(getUpdateHandler(logger, renderer, serviceInstance)))

	if serviceInstance != nil {
		listTool := mcp.NewTool("listVersions",
			mcp.WithDescription("List the documentation versions of the served site"),
		)
		s.AddTool(listTool, getListHandler(serviceInstance))
	}

	return s
}

// versionsFor falls back to the service when the request carries no versions.
func versionsFor(requested []vo.VersionDescriptor, serviceInstance service.Service) ([]vo.VersionDescriptor, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	if serviceInstance == nil {
		return nil, fmt.Errorf("versions are required")
	}
	return serviceInstance.Versions(), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func getRenderHandler(renderer *panel.Renderer, serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args RenderRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RenderRequest) (*mcp.CallToolResult, error) {
		versions, err := versionsFor(args.Versions, serviceInstance)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		fragment := renderer.Render(versions, args.CurrentVersion)
		markdown, err := panel.Preview(fragment)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render preview: %v", err)), nil
		}

		return jsonResult(RenderResponse{
			Fragment: fragment,
			Markdown: markdown,
		})
	}
}

func getUpdateHandler(logger *zap.Logger, renderer *panel.Renderer, serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args UpdateRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args UpdateRequest) (*mcp.CallToolResult, error) {
		if req, ok := httpRequestFromContext(ctx); ok {
			logger.Debug("updateVersionList called", zap.String("remoteAddr", req.RemoteAddr))
		}
		// Validate inputs
		if strings.TrimSpace(args.HTML) == "" {
			return mcp.NewToolResultError("html is required"), nil
		}
		versions, err := versionsFor(args.Versions, serviceInstance)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		containerClass := args.ContainerClass
		if containerClass == "" {
			containerClass = panel.ContainerClass
		}

		var out strings.Builder
		result, err := renderer.UpdateDocument(strings.NewReader(args.HTML), &out, containerClass, versions, args.CurrentVersion)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update page: %v", err)), nil
		}

		return jsonResult(UpdateResponse{
			HTML:       out.String(),
			Containers: result.Containers,
		})
	}
}

func getListHandler(serviceInstance service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(ListResponse{Versions: serviceInstance.Versions()})
	}
}
