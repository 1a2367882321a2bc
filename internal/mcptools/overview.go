// Package mcptools exposes read-only views of one owner's study data as MCP tools.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/localnerve/studyhub/internal/services"
	"github.com/mark3labs/mcp-go/mcp"
)

// OverviewTool handles the study_overview MCP tool.
type OverviewTool struct {
	svc     *services.StudyService
	ownerID string
}

// NewOverviewTool creates an OverviewTool reading ownerID's data.
func NewOverviewTool(svc *services.StudyService, ownerID string) *OverviewTool {
	return &OverviewTool{svc: svc, ownerID: ownerID}
}

// Definition returns the MCP tool definition for study_overview.
func (t *OverviewTool) Definition() mcp.Tool {
	return mcp.NewTool("study_overview",
		mcp.WithDescription(
			"Summarize study progress: every subject with its chapters, the completion "+
				"percentage of each, and overall part counts.",
		),
		mcp.WithString("subject",
			mcp.Description("Only show subjects whose name contains this text"),
		),
	)
}

// Handle processes the study_overview tool call.
func (t *OverviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := strings.ToLower(strings.TrimSpace(req.GetString("subject", "")))

	ov, err := t.svc.Overview(ctx, t.ownerID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("overview failed: %v", err)), nil
	}
	if len(ov.Subjects) == 0 {
		return mcp.NewToolResultText("No subjects yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Overall: %d%% (%d of %d parts completed, %d in progress)\n",
		ov.Stats.OverallProgress, ov.Stats.CompletedParts, ov.Stats.TotalParts, ov.Stats.InProgressParts)

	shown := 0
	for _, subject := range ov.Subjects {
		if filter != "" && !strings.Contains(strings.ToLower(subject.Name), filter) {
			continue
		}
		shown++
		fmt.Fprintf(&b, "\n%s: %d%%\n", subject.Name, ov.Hierarchy.SubjectProgress[subject.ID])
		for _, chapter := range ov.Hierarchy.Chapters(subject.ID) {
			fmt.Fprintf(&b, "  - %s: %d%% (%d parts) [%s]\n",
				chapter.Name, ov.Hierarchy.ChapterProgress[chapter.ID], len(ov.Hierarchy.Parts(chapter.ID)), chapter.ID)
		}
	}
	if shown == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No subject matches %q.", filter)), nil
	}

	return mcp.NewToolResultText(b.String()), nil
}
