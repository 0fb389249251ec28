package mcpserver

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/styleaudit/internal/output"
	"github.com/panbanda/styleaudit/internal/report"
	"github.com/panbanda/styleaudit/internal/service/audit"
	"github.com/panbanda/styleaudit/pkg/models"
)

// AuditInput is the base input for all tools.
type AuditInput struct {
	Root   string `json:"root,omitempty" jsonschema:"Project root that contains the assets directory. Defaults to the current directory."`
	Assets string `json:"assets,omitempty" jsonschema:"Assets directory to scan, relative to root. Default Assets."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// AnalyzeStylesInput adds issue filtering.
type AnalyzeStylesInput struct {
	AuditInput
	File  string   `json:"file,omitempty" jsonschema:"Only report issues for this file. Accepts a path or a glob such as Assets/UI/**/*.uss."`
	Types []string `json:"types,omitempty" jsonschema:"Only report these issue types: UXML_MISSING_CLASS, USS_UNUSED_CLASS, UXML_BROKEN_STYLE."`
}

// StyleUsageInput names the stylesheet to inspect.
type StyleUsageInput struct {
	AuditInput
	Stylesheet string `json:"stylesheet" jsonschema:"Path of the stylesheet to inspect."`
}

// StyleUsage is the result of the style_usage tool.
type StyleUsage struct {
	Stylesheet string   `json:"stylesheet" toon:"stylesheet"`
	Classes    []string `json:"classes" toon:"classes"`
	Imports    []string `json:"imports" toon:"imports"`
	UsedBy     []string `json:"used_by" toon:"used_by"`
	Unused     []string `json:"unused" toon:"unused"`
}

type issuesResult struct {
	Issues  []models.Issue      `json:"issues" toon:"issues"`
	Summary models.IssueSummary `json:"summary" toon:"summary"`
}

func getFormat(input AuditInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := output.Marshal(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// run audits the project named by input, starting from the server config.
func (s *Server) run(ctx context.Context, input AuditInput) (*audit.Result, error) {
	cfg := *s.config
	if input.Root != "" {
		cfg.Project.Root = input.Root
	}
	if input.Assets != "" {
		cfg.Project.Assets = input.Assets
	}
	return audit.New(audit.WithConfig(&cfg)).Run(ctx)
}

// Tool handlers

func (s *Server) handleAnalyzeStyles(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeStylesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.run(ctx, input.AuditInput)
	if err != nil {
		return toolError(err.Error())
	}

	if input.File != "" {
		file := input.File
		if !filepath.IsAbs(file) && !audit.IsGlob(file) {
			file = filepath.Join(result.ProjectRoot, file)
		}
		if result, err = result.Filter(file); err != nil {
			return toolError(err.Error())
		}
	}

	issues := result.Analysis.Issues
	if len(input.Types) > 0 {
		want := make(map[models.IssueKind]bool, len(input.Types))
		for _, t := range input.Types {
			want[models.IssueKind(t)] = true
		}
		var kept []models.Issue
		for _, issue := range issues {
			if want[issue.Kind] {
				kept = append(kept, issue)
			}
		}
		issues = kept
	}
	if issues == nil {
		issues = []models.Issue{}
	}

	summary := models.SummarizeIssues(issues)
	summary.MarkupFiles = result.Analysis.Summary.MarkupFiles
	summary.StyleFiles = result.Analysis.Summary.StyleFiles
	summary.ExtractionErrors = result.Analysis.Summary.ExtractionErrors

	return toolResult(issuesResult{Issues: issues, Summary: summary}, getFormat(input.AuditInput))
}

func (s *Server) handleStyleGraph(ctx context.Context, req *mcp.CallToolRequest, input AuditInput) (*mcp.CallToolResult, any, error) {
	result, err := s.run(ctx, input)
	if err != nil {
		return toolError(err.Error())
	}
	graph := report.NewGraphReport(result.ProjectRoot, result.Analysis)
	return toolResult(graph.RenderData(), getFormat(input))
}

func (s *Server) handleStyleUsage(ctx context.Context, req *mcp.CallToolRequest, input StyleUsageInput) (*mcp.CallToolResult, any, error) {
	if input.Stylesheet == "" {
		return toolError("stylesheet is required")
	}
	result, err := s.run(ctx, input.AuditInput)
	if err != nil {
		return toolError(err.Error())
	}

	path := input.Stylesheet
	if !filepath.IsAbs(path) {
		path = filepath.Join(result.ProjectRoot, path)
	}
	path = filepath.Clean(path)

	a := result.Analysis
	facts, ok := a.Graph.StyleFacts[path]
	if !ok {
		return toolError("stylesheet not found in scanned assets: " + input.Stylesheet)
	}

	usage := StyleUsage{
		Stylesheet: path,
		Classes:    facts.Classes,
		Imports:    facts.Imports,
		UsedBy:     a.UsedBy(path),
		Unused:     []string{},
	}
	if usage.UsedBy == nil {
		usage.UsedBy = []string{}
	}
	for _, issue := range a.Issues {
		if issue.Kind == models.IssueUnusedClass && issue.File == path {
			usage.Unused = issue.Classes
		}
	}
	return toolResult(usage, getFormat(input.AuditInput))
}
