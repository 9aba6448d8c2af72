package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kutbudev/aha-mcp/internal/engine"
	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients during initialization.
var Version = "0.4.0"

const instructions = `Aha! product management tools.

References identify records:
- Feature: DEVELOP-123
- Requirement: ADT-123-1
- Page (note): ABC-N-213
- Idea: ABC-I-213

## Quick Reference
- READ: get_record(reference), get_page(reference, includeParent), get_idea(reference)
- FIND: search_documents(query, searchableType)
- PLAN: get_releases(productId?), get_workflow_statuses(projectId)
- WRITE: create_feature, update_feature, add_feature_comment
- WHO: get_user_by_email(email), get_configured_user()

update_feature accepts a workflow status name ("In development") or id, and an
assignee id or email. Only the fields you pass are changed.`

// Server exposes an Engine as MCP tools, resources and prompts.
type Server struct {
	engine *engine.Engine
	log    *slog.Logger
	server *mcp.Server
	tools  []tool
	byName map[string]tool
}

// New builds a server for eng. logger may be nil.
func New(eng *engine.Engine, logger *slog.Logger) (*Server, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{engine: eng, log: logger}
	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "aha-mcp",
			Version: Version,
		},
		&mcp.ServerOptions{
			CompletionHandler: s.completionHandler,
			Instructions:      instructions,
		},
	)

	s.tools = s.toolTable()
	s.byName = make(map[string]tool, len(s.tools))
	for _, t := range s.tools {
		t.register(s.server)
		s.byName[t.def.Name] = t
	}
	s.registerResources()
	s.registerPrompts()
	return s, nil
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// ServeStdio serves MCP over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.log.Info("serving MCP over stdio", "tools", len(s.tools))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Tools lists the registered tool definitions in registration order.
func (s *Server) Tools() []*mcp.Tool {
	out := make([]*mcp.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		out = append(out, t.def)
	}
	return out
}

// Dispatch runs the named tool with JSON arguments outside of an MCP
// session. Unknown names fail with MethodNotFound.
func (s *Server) Dispatch(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	t, ok := s.byName[name]
	if !ok {
		return nil, apierrors.MethodNotFound(name)
	}
	return t.call(ctx, args)
}

// textResult converts any data to a CallToolResult with JSON TextContent.
// This ensures data goes into Content (not StructuredContent), which is
// compatible with both Claude Code and Claude Desktop.
func textResult(data interface{}) (*mcp.CallToolResult, error) {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "{}"},
			},
		}, nil
	}
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, nil
}

// plainResult is a success carrying a human sentence rather than JSON.
func plainResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorEnvelope is the body of every failed tool call.
type errorEnvelope struct {
	Code    apierrors.Code `json:"code"`
	Kind    apierrors.Kind `json:"kind,omitempty"`
	Message string         `json:"message"`
}

// errorResult renders err as an IsError tool result. Unclassified errors
// are reported as InternalError.
func errorResult(err error) *mcp.CallToolResult {
	b, _ := json.MarshalIndent(errorEnvelopeOf(err), "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
		IsError: true,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
