package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kutbudev/aha-mcp/internal/reference"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const featureURIPrefix = "aha://features/"

// registerResources adds MCP resources and resource templates to the server
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         "aha://config",
		Name:        "config",
		Description: "Aha! account this server talks to (no secrets)",
		MIMEType:    "application/json",
	}, s.handleConfigResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: featureURIPrefix + "{reference}",
		Name:        "feature",
		Description: "An Aha! feature by reference number, e.g. aha://features/DEVELOP-123",
		MIMEType:    "application/json",
	}, s.handleFeatureResource)
}

func (s *Server) handleConfigResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cfg := s.engine.Config()
	return jsonResource(req.Params.URI, cfg.Public())
}

func (s *Server) handleFeatureResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ref := strings.TrimPrefix(req.Params.URI, featureURIPrefix)
	if !reference.IsFeature(ref) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.engine.GetRecord(ctx, ref)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, rec)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
