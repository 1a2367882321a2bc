package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/studyhub/internal/models"
	"github.com/localnerve/studyhub/internal/services"
	"github.com/localnerve/studyhub/internal/study"
	"github.com/mark3labs/mcp-go/mcp"
)

// ChapterTreeTool handles the chapter_tree MCP tool.
type ChapterTreeTool struct {
	svc     *services.StudyService
	ownerID string
}

// NewChapterTreeTool creates a ChapterTreeTool.
func NewChapterTreeTool(svc *services.StudyService, ownerID string) *ChapterTreeTool {
	return &ChapterTreeTool{svc: svc, ownerID: ownerID}
}

// Definition returns the MCP tool definition for chapter_tree.
func (t *ChapterTreeTool) Definition() mcp.Tool {
	return mcp.NewTool("chapter_tree",
		mcp.WithDescription("Show the parts of one chapter as an indented tree with status and estimates."),
		mcp.WithString("chapter_id",
			mcp.Required(),
			mcp.Description("Chapter id, as listed by study_overview"),
		),
	)
}

// Handle processes the chapter_tree tool call.
func (t *ChapterTreeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chapterID := req.GetString("chapter_id", "")
	if chapterID == "" {
		return mcp.NewToolResultError("'chapter_id' is required"), nil
	}

	chapter, tree, err := t.svc.ChapterTree(ctx, t.ownerID, chapterID)
	if errors.Is(err, services.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("chapter %s not found", chapterID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chapter tree failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", chapter.Name)
	if len(tree) == 0 {
		b.WriteString("  (no parts)\n")
	}
	writeNodes(&b, tree, 1)
	return mcp.NewToolResultText(b.String()), nil
}

func writeNodes(b *strings.Builder, nodes []*study.PartNode, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(b, "%s%s %s (%d min)\n", strings.Repeat("  ", depth), marker(n.Status), n.Name, n.EstimatedMinutes)
		writeNodes(b, n.Children, depth+1)
	}
}

func marker(s models.PartStatus) string {
	switch s {
	case models.StatusCompleted:
		return "[x]"
	case models.StatusInProgress:
		return "[~]"
	}
	return "[ ]"
}
