// Command studymcp serves one owner's study data to MCP clients over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/localnerve/studyhub/internal/config"
	"github.com/localnerve/studyhub/internal/database"
	"github.com/localnerve/studyhub/internal/logger"
	"github.com/localnerve/studyhub/internal/mcptools"
	"github.com/localnerve/studyhub/internal/services"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "studymcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.StudyOwnerID == "" {
		return fmt.Errorf("STUDY_OWNER_ID is required")
	}

	// stdout carries the protocol, so logs go to stderr
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zl, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	lg := &logger.Logger{SugaredLogger: zl.Sugar()}
	defer lg.Sync()

	db, err := database.Connect(cfg, lg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	svc := services.NewStudyService(db, lg, nil, nil)
	lg.Info("serving study tools over stdio", "owner", cfg.StudyOwnerID, "version", mcptools.Version)
	return server.ServeStdio(mcptools.New(svc, cfg.StudyOwnerID))
}
