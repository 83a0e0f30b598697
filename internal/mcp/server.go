// Package mcp exposes monarch's arrangement operations over the Model
// Context Protocol so agents can inspect and reconfigure displays. The
// server speaks stdio; commits are immediate (no interactive confirm
// step exists on this transport), so every apply also becomes the new
// most-recent-apply baseline.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/monarch/internal/backend"
	"github.com/1broseidon/monarch/internal/preset"
)

const (
	ServerName    = "monarch"
	ServerVersion = "0.1.0"
)

// Server is the MCP server over one backend connection.
type Server struct {
	mcpServer *mcpsdk.Server
	conn      backend.Conn
	store     *preset.Store
	logger    *log.Logger
}

// NewServer wires the tool set over the given connection and preset
// store. The caller owns both and closes them after Run returns.
func NewServer(conn backend.Conn, store *preset.Store, logger *log.Logger) *Server {
	s := &Server{
		conn:   conn,
		store:  store,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_outputs",
		Description: "List every display output the server knows: connected and addressable (disconnected or headless) ports, with position, mode, scale, enabled state, and workspace assignments.",
	}, s.handleListOutputs)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_presets",
		Description: "List saved arrangement presets by name with output counts and save times.",
	}, s.handleListPresets)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_preset",
		Description: "Apply a saved preset: reconcile its recorded positions, scales, and workspaces against the live output set and commit the result to the display server immediately.",
	}, s.handleApplyPreset)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_preset",
		Description: "Save the current live arrangement as a named preset. Fails when the name exists unless overwrite is set.",
	}, s.handleSavePreset)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_output",
		Description: "Change one output: position, resolution, scale, enabled state, or workspace assignments. The arrangement is re-settled so no outputs overlap, then committed to the display server.",
	}, s.handleSetOutput)
}
