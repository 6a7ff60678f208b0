// Package mcp exposes operator tools over the Model Context Protocol, so
// agent runtimes can inspect and drive a running warden over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pivanov/relaywarden/internal/daemon"
)

// Server wraps the MCP SDK server around a running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    *daemon.Daemon
}

// New creates an MCP server exposing the daemon's operator tools.
func New(d *daemon.Daemon) *Server {
	s := &Server{daemon: d}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "relaywarden",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all warden tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_status",
		Description: "Report the authority's ownership and recovery state.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_deliver",
		Description: "Deliver a relayed instruction to the authority as if it arrived from the trusted forwarder. Rejected instructions return the gate failure.",
	}, s.handleDeliver)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_recovery",
		Description: "Drive the break-glass recovery path: initiate, renounce, or execute once the claim has matured.",
	}, s.handleRecovery)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_events",
		Description: "Query the append-only event ledger, optionally filtered by authority id or event type.",
	}, s.handleEvents)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "warden_verify",
		Description: "Verify the event ledger's hash chain and report the first broken link, if any.",
	}, s.handleVerify)
}
