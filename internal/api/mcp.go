package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/resumatch/resumatch/internal/analyzer"
	"github.com/resumatch/resumatch/internal/bias"
	"github.com/resumatch/resumatch/internal/explain"
	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/storage"
	"github.com/resumatch/resumatch/internal/vocab"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Analyzer  ResumeAnalyzer
	Extractor *extract.Extractor
	Vocab     *vocab.Vocabulary
	Store     *storage.Store // optional; if nil, analyses are not persisted
}

// NewMCPServer creates an MCP server with the analysis tools and
// resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"resumatch",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("resumatch is a local resume screening service: score resumes against job postings, extract skills, and audit for bias."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("analyze_resume",
			mcp.WithDescription("Score a resume against a job posting and explain the result."),
			mcp.WithString("resume_text", mcp.Description("Plain text of the resume"), mcp.Required()),
			mcp.WithString("job_text", mcp.Description("Plain text of the job posting"), mcp.Required()),
			mcp.WithBoolean("enhanced", mcp.Description("Include skill gap analysis, learning roadmap, and benchmark")),
		),
		mcpAnalyzeResume(deps),
	)

	s.AddTool(
		mcp.NewTool("extract_skills",
			mcp.WithDescription("Extract recognized skills from free text, grouped by category."),
			mcp.WithString("text", mcp.Description("Resume or job posting text"), mcp.Required()),
		),
		mcpExtractSkills(deps),
	)

	s.AddTool(
		mcp.NewTool("check_ats",
			mcp.WithDescription("Check a resume for applicant tracking system compatibility issues."),
			mcp.WithString("resume_text", mcp.Description("Plain text of the resume"), mcp.Required()),
			mcp.WithString("job_text", mcp.Description("Optional job posting for keyword optimization scoring")),
		),
		mcpCheckATS(deps),
	)

	s.AddTool(
		mcp.NewTool("detect_bias",
			mcp.WithDescription("Scan resume and job text for wording that could introduce screening bias."),
			mcp.WithString("resume_text", mcp.Description("Plain text of the resume"), mcp.Required()),
			mcp.WithString("job_text", mcp.Description("Optional job posting text")),
		),
		mcpDetectBias(deps),
	)

	s.AddTool(
		mcp.NewTool("anonymize_resume",
			mcp.WithDescription("Redact names, contact details, dates, and gendered pronouns from a resume."),
			mcp.WithString("resume_text", mcp.Description("Plain text of the resume"), mcp.Required()),
		),
		mcpAnonymize(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"resumatch://skills",
			"Skill Vocabulary",
			mcp.WithResourceDescription("All recognized skills grouped by category"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceSkills(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"resumatch://recent",
			"Recent Analyses",
			mcp.WithResourceDescription("Last 10 stored analyses (summaries only)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpAnalyzeResume(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resumeText, err := req.RequireString("resume_text")
		if err != nil {
			return mcpError("resume_text is required"), nil
		}
		jobText, err := req.RequireString("job_text")
		if err != nil {
			return mcpError("job_text is required"), nil
		}

		analysis, err := deps.Analyzer.Analyze(ctx, analyzer.Request{
			ResumeText: resumeText,
			JobText:    jobText,
			Enhanced:   req.GetBool("enhanced", false),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("analysis failed: %v", err)), nil
		}

		if deps.Store != nil {
			saveAnalysis(deps.Store, analysis, len(resumeText), len(jobText))
		}

		b, err := json.Marshal(analysis)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpExtractSkills(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}

		skills := deps.Extractor.ExtractSkills(text)
		b, err := json.Marshal(map[string]any{
			"skills":     skills,
			"categories": deps.Vocab.Categorize(skills),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCheckATS(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resumeText, err := req.RequireString("resume_text")
		if err != nil {
			return mcpError("resume_text is required"), nil
		}

		var jobSkills []string
		if jobText := req.GetString("job_text", ""); jobText != "" {
			jobSkills = deps.Extractor.ExtractSkills(jobText)
		}

		b, err := json.Marshal(explain.CheckATS(resumeText, jobSkills))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpDetectBias(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resumeText, err := req.RequireString("resume_text")
		if err != nil {
			return mcpError("resume_text is required"), nil
		}

		report := bias.Detect(resumeText, req.GetString("job_text", ""))
		b, err := json.Marshal(report)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAnonymize(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resumeText, err := req.RequireString("resume_text")
		if err != nil {
			return mcpError("resume_text is required"), nil
		}
		return mcpText(bias.Anonymize(resumeText)), nil
	}
}

func mcpResourceSkills(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names := skillNames(deps.Vocab)
		b, err := json.Marshal(map[string]any{
			"count":      len(names),
			"categories": deps.Vocab.Categorize(names),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal skills: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if deps.Store == nil {
			return nil, fmt.Errorf("no store configured")
		}
		records, err := deps.Store.ListAnalyses(10)
		if err != nil {
			return nil, fmt.Errorf("failed to list analyses: %w", err)
		}

		summaries := make([]analysisSummary, len(records))
		for i, rec := range records {
			summaries[i] = analysisSummary{
				ID:         rec.ID,
				CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
				Overall:    rec.Overall,
				Label:      rec.Label,
				Confidence: rec.Confidence,
				MatchRate:  rec.MatchRate,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal analyses: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
