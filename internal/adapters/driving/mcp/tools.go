package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// defaultListLimit bounds list_particles when no limit is given.
const defaultListLimit = 100

// LookupSymbolInput is the input schema for the lookup_symbol tool.
type LookupSymbolInput struct {
	Name string `json:"name" jsonschema:"the symbol to resolve, case-insensitive, e.g. FB_Motor.Start"`
}

// LookupSymbolOutput is the output schema for the lookup_symbol tool.
type LookupSymbolOutput struct {
	Found  bool   `json:"found"`
	Key    string `json:"key,omitempty"`
	Target string `json:"target,omitempty"`
}

// GetParticleInput is the input schema for the get_particle tool.
type GetParticleInput struct {
	Key string `json:"key" jsonschema:"the particle key, e.g. .fld-Drives.FB_Motor"`
}

// ListParticlesInput is the input schema for the list_particles tool.
type ListParticlesInput struct {
	Type   string `json:"type,omitempty" jsonschema:"only particles of this object type, e.g. FunctionBlock or Folder"`
	Prefix string `json:"prefix,omitempty" jsonschema:"only particles whose key starts with this prefix"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of particles to return (default 100)"`
}

// ListParticlesOutput is the output schema for the list_particles tool.
type ListParticlesOutput struct {
	Particles []ParticleSummary `json:"particles"`
	Count     int               `json:"count"`
	Total     int               `json:"total"`
}

// ParticleSummary is the short form of a particle.
type ParticleSummary struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_symbol",
		Description: "Resolve a type, member or folder name to its canonical name",
	}, s.handleLookupSymbol)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_particle",
		Description: "Get the documentation view of one particle by key, including its parameter table",
	}, s.handleGetParticle)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_particles",
		Description: "List documentation particles in document order",
	}, s.handleListParticles)
}

func (s *Server) handleLookupSymbol(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input LookupSymbolInput,
) (*mcp.CallToolResult, LookupSymbolOutput, error) {
	sym, err := s.ports.Library.LookupSymbol(input.Name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, LookupSymbolOutput{}, nil
	}
	if err != nil {
		return nil, LookupSymbolOutput{}, err
	}
	return nil, LookupSymbolOutput{Found: true, Key: sym.Key, Target: sym.Target}, nil
}

func (s *Server) handleGetParticle(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetParticleInput,
) (*mcp.CallToolResult, domain.ParticleInfo, error) {
	info, err := s.ports.Library.Particle(input.Key)
	if err != nil {
		return nil, domain.ParticleInfo{}, err
	}
	return nil, info, nil
}

func (s *Server) handleListParticles(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListParticlesInput,
) (*mcp.CallToolResult, ListParticlesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	particles, err := s.ports.Library.Particles()
	if err != nil {
		return nil, ListParticlesOutput{}, err
	}

	output := ListParticlesOutput{Particles: []ParticleSummary{}}
	for i := range particles {
		p := &particles[i]
		if input.Type != "" && !strings.EqualFold(p.Type, input.Type) {
			continue
		}
		if !strings.HasPrefix(p.Key, input.Prefix) {
			continue
		}
		output.Total++
		if len(output.Particles) < limit {
			output.Particles = append(output.Particles, summarize(p))
		}
	}
	output.Count = len(output.Particles)

	return nil, output, nil
}

func summarize(p *domain.ParticleInfo) ParticleSummary {
	return ParticleSummary{Key: p.Key, Name: p.Name, Type: p.Type, Filename: p.Filename}
}
