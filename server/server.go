// Package server implements the MCP server exposing the credo rule registry,
// bundler, and assessment pipeline to agent clients.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/credo-hq/credo/core"
	"github.com/credo-hq/credo/core/bundle"
	"github.com/credo-hq/credo/core/report"
	"github.com/credo-hq/credo/core/rulecard"
	"github.com/credo-hq/credo/core/score"
)

const (
	// maxOutputBytes is the maximum response size before truncation (1 MB).
	maxOutputBytes = 1 << 20
)

// Server is the credo MCP server.
type Server struct {
	version      string
	rulesPath    string
	allowedPaths []string

	mu      sync.RWMutex
	rules   *rulecard.Set
	bundles *bundle.Cache
	last    *core.AssessmentResult
}

// New creates a new MCP server serving rule cards from rulesPath. If
// allowedPaths is empty, any assessment target path is allowed.
func New(version, rulesPath string, allowedPaths []string) *Server {
	// Resolve allowed paths to absolute for consistent comparison.
	resolved := make([]string, 0, len(allowedPaths))
	for _, p := range allowedPaths {
		abs, err := filepath.Abs(p)
		if err == nil {
			resolved = append(resolved, abs)
		}
	}
	return &Server{
		version:      version,
		rulesPath:    rulesPath,
		allowedPaths: resolved,
		bundles:      bundle.NewCache(),
	}
}

// Serve starts the MCP server on stdio and blocks until the client
// disconnects.
func (s *Server) Serve() error {
	srv := mcpserver.NewMCPServer(
		"credo",
		s.version,
		mcpserver.WithRecovery(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
	)

	s.registerTools(srv)
	s.registerResources(srv)

	return mcpserver.ServeStdio(srv)
}

func (s *Server) registerTools(srv *mcpserver.MCPServer) {
	// lookup_rule tool — returns one rule card by ID.
	srv.AddTool(
		mcp.NewTool("lookup_rule",
			mcp.WithDescription("Look up a security rule card by its ID, e.g. SECRETS-API-001"),
			mcp.WithString("id",
				mcp.Description("Rule card ID in DOMAIN-TOPIC-NNN format"),
				mcp.Required(),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleLookupRule,
	)

	// compile_bundle tool — compiles the rule bundle for a topic/language pair.
	srv.AddTool(
		mcp.NewTool("compile_bundle",
			mcp.WithDescription("Compile the rule bundle for a topic and language, e.g. API/python"),
			mcp.WithString("topic",
				mcp.Description("Bundle topic, matching the TOPIC segment of rule card IDs"),
				mcp.Required(),
			),
			mcp.WithString("language",
				mcp.Description("Target language the bundle applies to"),
				mcp.Required(),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleCompileBundle,
	)

	// assess tool — runs the full assessment pipeline.
	srv.AddTool(
		mcp.NewTool("assess",
			mcp.WithDescription("Assess a codebase against NIST SSDF practices and score compliance"),
			mcp.WithString("path",
				mcp.Description("Absolute path to the directory to assess"),
				mcp.Required(),
			),
			mcp.WithString("language",
				mcp.Description("Language of the target codebase"),
				mcp.DefaultString("python"),
			),
			mcp.WithString("practices",
				mcp.Description("Comma-separated SSDF practice IDs (default: all)"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleAssess,
	)

	// get_report tool — returns the report from the last assessment.
	srv.AddTool(
		mcp.NewTool("get_report",
			mcp.WithDescription("Get the compliance report from the last assessment"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleGetReport,
	)
}

func (s *Server) registerResources(srv *mcpserver.MCPServer) {
	srv.AddResource(
		mcp.NewResource("credo://rules", "Rule Cards",
			mcp.WithResourceDescription("All registered security rule cards"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleResourceRules,
	)

	srv.AddResource(
		mcp.NewResource("credo://report", "Compliance Report",
			mcp.WithResourceDescription("Compliance report from the last assessment"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleResourceReport,
	)

	srv.AddResourceTemplate(
		mcp.NewResourceTemplate("credo://bundle/{topic}/{language}", "Rule Bundle",
			mcp.WithTemplateDescription("Compiled rule bundle for a topic and language"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleResourceBundle,
	)
}

// loadRules loads the rule set on first use and returns the cached set
// afterwards. Per-card validation failures are non-fatal.
func (s *Server) loadRules() (*rulecard.Set, error) {
	s.mu.RLock()
	set := s.rules
	s.mu.RUnlock()
	if set != nil {
		return set, nil
	}

	loaded, _, err := rulecard.Load(s.rulesPath)
	if err != nil {
		return nil, fmt.Errorf("loading rule cards: %w", err)
	}

	s.mu.Lock()
	s.rules = loaded
	s.mu.Unlock()
	return loaded, nil
}

// isPathAllowed checks if the given path is under one of the allowed
// workspace roots.
func (s *Server) isPathAllowed(path string) error {
	if len(s.allowedPaths) == 0 {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve path: %w", err)
	}

	for _, allowed := range s.allowedPaths {
		rel, err := filepath.Rel(allowed, abs)
		if err != nil {
			continue
		}
		// If the relative path doesn't start with "..", it's under the allowed root.
		if !strings.HasPrefix(rel, "..") {
			return nil
		}
	}

	return fmt.Errorf("path %q is outside allowed workspaces", path)
}

func (s *Server) handleLookupRule(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: id"), nil
	}

	set, err := s.loadRules()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	card, err := set.Lookup(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("serializing card: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleCompileBundle(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: topic"), nil
	}
	language, err := request.RequireString("language")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: language"), nil
	}

	set, err := s.loadRules()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b, err := s.bundles.Compile(topic, language, set)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compiling bundle: %v", err)), nil
	}

	data, err := b.Marshal()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("serializing bundle: %v", err)), nil
	}
	return mcp.NewToolResultText(truncate(string(data))), nil
}

func (s *Server) handleAssess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: path"), nil
	}

	if err := s.isPathAllowed(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	language := request.GetString("language", "python")

	var practiceIDs []string
	for _, p := range strings.Split(request.GetString("practices", ""), ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			practiceIDs = append(practiceIDs, p)
		}
	}

	result, err := core.RunAssessment(ctx, core.AssessmentRequest{
		PracticeIDs: practiceIDs,
		Language:    language,
		CodePaths:   []string{path},
	}, core.AssessOptions{
		RulesPath:      s.rulesPath,
		DefaultSignals: score.Signals{TestsRun: true},
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("assessment failed: %v", err)), nil
	}

	// Cache the result for subsequent tool/resource calls.
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	gaps := 0
	for _, ps := range result.Scores {
		switch ps.Status {
		case score.StatusNonCompliant, score.StatusPartial:
			gaps++
		}
	}

	summary := fmt.Sprintf("Assessment complete: overall %s, %d practices, %d findings, %d gaps",
		formatScore(result.Summary.Overall), len(result.Scores), result.Findings.Len(), gaps)

	return mcp.NewToolResultText(summary), nil
}

func (s *Server) handleGetReport(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return mcp.NewToolResultError("no assessment results available — run the assess tool first"), nil
	}

	r := report.NewJSONReporter(s.version)
	data, err := r.Generate(last.Scores)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report generation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(truncate(string(data))), nil
}

// Resource handlers.

func (s *Server) handleResourceRules(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	set, err := s.loadRules()
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(set.Cards(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing rule cards: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     truncate(string(data)),
		},
	}, nil
}

func (s *Server) handleResourceReport(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return nil, fmt.Errorf("no assessment results available")
	}

	r := report.NewJSONReporter(s.version)
	data, err := r.Generate(last.Scores)
	if err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     truncate(string(data)),
		},
	}, nil
}

func (s *Server) handleResourceBundle(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rest := strings.TrimPrefix(request.Params.URI, "credo://bundle/")
	topic, language, ok := strings.Cut(rest, "/")
	if !ok || topic == "" || language == "" {
		return nil, fmt.Errorf("invalid bundle URI %q, want credo://bundle/{topic}/{language}", request.Params.URI)
	}

	set, err := s.loadRules()
	if err != nil {
		return nil, err
	}

	b, err := s.bundles.Compile(topic, language, set)
	if err != nil {
		return nil, fmt.Errorf("compiling bundle: %w", err)
	}

	data, err := b.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serializing bundle: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     truncate(string(data)),
		},
	}, nil
}

// formatScore renders a nullable score for summary text.
func formatScore(s *int) string {
	if s == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *s)
}

// truncate limits output to maxOutputBytes, appending a truncation notice if needed.
func truncate(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return s[:maxOutputBytes] + "\n... [truncated: output exceeded 1MB limit]"
}
