package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Limber", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Limber stretch routine server. Generate personalized stretch routines from free text or explicit filters, browse the stretch catalog, and review routine history, stats, and streaks. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateRoutine, Handler: h.generateRoutine},
		server.ServerTool{Tool: toolPreviewIntent, Handler: h.previewIntent},
		server.ServerTool{Tool: toolListStretches, Handler: h.listStretches},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolSetTransition, Handler: h.setTransition},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalogResource},
		server.ServerResource{Resource: resSummary, Handler: h.summaryResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"limber://catalog",
	"Stretch Catalog",
	mcp.WithResourceDescription("Every stretch in the catalog with areas, position, duration, and premium status"),
	mcp.WithMIMEType("application/json"),
)

var resSummary = mcp.NewResource(
	"limber://summary",
	"Stretch Summary",
	mcp.WithResourceDescription("Routine stats, current streak, recent routines, and the stored transition setting"),
	mcp.WithMIMEType("application/json"),
)
