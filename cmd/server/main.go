// main.go
//
// A study planner data service: subjects, chapters, parts and preset templates
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of studyhub.
// studyhub is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// studyhub is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with studyhub.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/studyhub/internal/assistant"
	"github.com/localnerve/studyhub/internal/cache"
	"github.com/localnerve/studyhub/internal/config"
	"github.com/localnerve/studyhub/internal/database"
	"github.com/localnerve/studyhub/internal/handlers"
	"github.com/localnerve/studyhub/internal/logger"
	"github.com/localnerve/studyhub/internal/middleware"
	"github.com/localnerve/studyhub/internal/observability"
	"github.com/localnerve/studyhub/internal/services"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/localnerve/studyhub/docs/api" // Swagger docs
)

// @title StudyHub API
// @version 1.0.0
// @description Study planner service: subjects, chapters, parts and preset templates
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/studyhub
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid server configuration: %v", err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	shutdownTracing := observability.InitOTel(lg, observability.OtelConfig{
		ServiceName: "studyhub",
		Environment: cfg.Env,
		Exporter:    cfg.TracesExporter,
	})

	// Connect to database
	db, err := database.Connect(cfg, lg)
	if err != nil {
		lg.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		lg.Fatal("failed to run migrations", "error", err)
	}

	// Overview snapshot cache: shared when redis is configured, per-process otherwise
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	var snapshots cache.Cache = cache.NewMemory(ttl)
	var cachePing services.Pinger
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(cfg.RedisURL, ttl)
		if err != nil {
			lg.Fatal("failed to configure redis", "error", err)
		}
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			lg.Warn("redis unreachable at startup", "error", err)
		}
		cancel()
		snapshots, cachePing = rc, rc
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	studyService := services.NewStudyService(db, lg, snapshots, metrics)
	dispatcher := assistant.NewDispatcher(studyService)

	// Owner resolution
	authConfig := middleware.AuthConfig{JWTSecret: cfg.JWTSecret}
	if cfg.AuthorizerEnabled() {
		sessions, err := middleware.NewAuthorizerSessions(cfg)
		switch {
		case err == nil:
			authConfig.Sessions = sessions
		case cfg.JWTSecret == "":
			lg.Fatal("failed to initialize authorizer", "error", err)
		default:
			lg.Warn("authorizer unavailable, accepting bearer tokens only", "error", err)
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: middleware.RequestIDGenerator}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Api-Version",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	// Prometheus metrics
	prom := fiberprometheus.New("studyhub")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db, Cache: cachePing, Log: lg}
	app.Get("/health", healthHandler.Health)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitPerMin,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Rate limit exceeded")
		},
	}))

	handlers.Register(api, middleware.RequireOwner(authConfig),
		&handlers.StudyHandler{Study: studyService},
		&handlers.AssistantHandler{Dispatcher: dispatcher},
	)

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		lg.Info("gracefully shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	lg.Info("starting server", "port", cfg.Port, "env", cfg.Env, "db", cfg.DBType)
	if err := app.Listen(":" + cfg.Port); err != nil {
		lg.Error("server stopped with error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		lg.Warn("tracing shutdown failed", "error", err)
	}
	lg.Info("server stopped")
}
