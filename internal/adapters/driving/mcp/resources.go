package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for libdoc resources.
	uriScheme = "libdoc://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "particles",
		Name:        "particles",
		Description: "All documentation particles of the open library",
		MIMEType:    mimeJSON,
	}, s.handleParticlesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "particles/{key}",
		Name:        "particle",
		Description: "Documentation of a single particle",
		MIMEType:    mimeJSON,
	}, s.handleParticleResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "mapping",
		Name:        "mapping",
		Description: "Identifier to path mapping of condensed output",
		MIMEType:    mimeJSON,
	}, s.handleMappingResource)
}

func (s *Server) handleParticlesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	particles, err := s.ports.Library.Particles()
	if err != nil {
		return nil, fmt.Errorf("listing particles: %w", err)
	}

	summaries := make([]ParticleSummary, len(particles))
	for i := range particles {
		summaries[i] = summarize(&particles[i])
	}
	return jsonResult(req.Params.URI, summaries)
}

func (s *Server) handleParticleResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractParticleKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	info, err := s.ports.Library.Particle(key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting particle: %w", err)
	}
	return jsonResult(req.Params.URI, info)
}

func (s *Server) handleMappingResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	mapping, err := s.ports.Library.Mapping()
	if err != nil {
		return nil, fmt.Errorf("getting mapping: %w", err)
	}
	if mapping == nil {
		mapping = []domain.MappingEntry{}
	}
	return jsonResult(req.Params.URI, mapping)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractParticleKey extracts the key from a URI like libdoc://particles/{key}.
func extractParticleKey(uri string) string {
	const prefix = uriScheme + "particles/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
