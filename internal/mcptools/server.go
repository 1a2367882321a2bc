package mcptools

import (
	"github.com/localnerve/studyhub/internal/services"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients
const Version = "1.0.0"

const instructions = "Read-only access to a study planner. Call study_overview first to list " +
	"subjects and chapter ids, then chapter_tree to inspect one chapter."

// New creates the MCP server with every study tool registered for ownerID
func New(svc *services.StudyService, ownerID string) *server.MCPServer {
	s := server.NewMCPServer(
		"studyhub",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	overview := NewOverviewTool(svc, ownerID)
	s.AddTool(overview.Definition(), overview.Handle)

	tree := NewChapterTreeTool(svc, ownerID)
	s.AddTool(tree.Definition(), tree.Handle)

	return s
}
