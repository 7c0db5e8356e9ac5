// Package mcp exposes browser automation over the Model Context Protocol:
// a fixed catalog of schema-described commands dispatched against a single
// lazily-created browser session, plus pull-readable resources (console
// logs and screenshot artifacts) with change notifications.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neboloop/webmcp/internal/browser"
	"github.com/neboloop/webmcp/internal/config"
	"github.com/neboloop/webmcp/internal/logging"
	"github.com/neboloop/webmcp/internal/resources"
	"github.com/neboloop/webmcp/internal/session"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Option configures the server.
type Option func(*Server)

// WithDriverFactory overrides how the session manager builds its browser
// driver. Used by tests to inject fakes.
func WithDriverFactory(factory session.DriverFactory) Option {
	return func(s *Server) {
		s.driverFactory = factory
	}
}

// Server wires the command catalog, session manager, and resource
// registries into an MCP server.
type Server struct {
	server   *mcp.Server
	sessions *session.Manager
	logs     *resources.LogBuffer
	store    *resources.ArtifactStore
	adapter  *resourceAdapter

	driverFactory session.DriverFactory
}

// NewServer creates the MCP server with all commands and resources
// registered.
func NewServer(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		logs:  resources.NewLogBuffer(),
		store: resources.NewArtifactStore(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, &mcp.ServerOptions{
		// Subscriptions are accepted but not tracked per subscriber;
		// update delivery is fire-and-forget.
		SubscribeHandler: func(ctx context.Context, req *mcp.SubscribeRequest) error {
			return nil
		},
		UnsubscribeHandler: func(ctx context.Context, req *mcp.UnsubscribeRequest) error {
			return nil
		},
	})

	s.server.AddReceivingMiddleware(logsFirst)

	s.adapter = newResourceAdapter(s.server, s.logs, s.store)
	s.adapter.registerLogs()

	if s.driverFactory == nil {
		browserCfg := cfg.Browser
		s.driverFactory = func() (browser.Driver, error) {
			return browser.New(browserCfg)
		}
	}
	s.sessions = session.NewManagerWithFactory(s.driverFactory, s.logs, s.adapter)

	s.registerCommands()
	return s
}

// commandFunc is one command's handler body, invoked with the live page.
type commandFunc func(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error)

// registerCommands registers the full catalog with the MCP server.
func (s *Server) registerCommands() {
	handlers := map[string]commandFunc{
		"navigate":   s.cmdNavigate,
		"screenshot": s.cmdScreenshot,
		"click":      s.cmdClick,
		"fill":       s.cmdFill,
		"select":     s.cmdSelect,
		"hover":      s.cmdHover,
		"evaluate":   s.cmdEvaluate,
	}

	for _, def := range catalog() {
		fn, ok := handlers[def.Name]
		if !ok {
			panic(fmt.Sprintf("catalog command %q has no handler", def.Name))
		}
		s.server.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, s.dispatch(def.Name, fn))
	}
}

// dispatch is the single error-normalization boundary around every command:
// panic recovery, session acquisition, handler invocation, and conversion of
// any failure into an IsError envelope. Handler errors never propagate to
// the transport.
func (s *Server) dispatch(name string, fn commandFunc) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (retResult *mcp.CallToolResult, retErr error) {
		defer func() {
			if r := recover(); r != nil {
				logging.Errorf("[MCP] PANIC in command %s: %v", name, r)
				retResult = errorResult(fmt.Sprintf("command panicked: %v", r))
				retErr = nil
			}
		}()

		sess, err := s.sessions.Ensure(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to start browser session: %v", err)), nil
		}

		content, err := fn(ctx, sess.Page(), json.RawMessage(req.Params.Arguments))
		if err != nil {
			logging.Warnf("[MCP] Command %s failed: %v", name, err)
			return errorResult(err.Error()), nil
		}

		return &mcp.CallToolResult{Content: content}, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// Run serves MCP on stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Sessions returns the session manager (owned here, torn down by the CLI).
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}
