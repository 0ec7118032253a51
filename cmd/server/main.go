// Copyright 2025 Bazaar-It
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main is the entry point for the brand-to-video generation server.
//
// The server exposes a REST API over Gin: a streaming generation endpoint
// that turns a website URL into a persisted scene set while pushing
// newline-delimited JSON progress events, plus read endpoints for the
// template catalog, a project's scenes, and signed screenshot URLs. The
// same pipeline also runs off a Pub/Sub subscription for queued requests.
//
// Observability follows the house pattern: slog JSON logs with trace
// correlation, OpenTelemetry traces and metrics per request and per
// pipeline command.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/bazaar-it/brandreel/internal/core/model"
	"github.com/bazaar-it/brandreel/internal/core/orchestrator"
	"github.com/bazaar-it/brandreel/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	_, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware("brandreel-server"))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		ProjectRouter(apiV1)
		TemplateRouter(apiV1)
		ScreenshotRouter(apiV1)
	}

	srv := &http.Server{
		Addr:        ":8080",
		Handler:     r,
		ReadTimeout: 20 * time.Second,
		// Generation streams can outlive any sane write timeout, so the
		// server leaves it unset and relies on request-context cancellation.
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	state.cloud.Close()

	log.Println("Server exiting")
}

// generateRequestBody is the JSON body of the generate endpoint. The
// project ID comes from the path.
type generateRequestBody struct {
	URL             string          `json:"url" binding:"required"`
	Style           model.StyleTier `json:"style"`
	SceneCount      int             `json:"scene_count"`
	DurationSeconds int             `json:"duration_seconds"`
}

// ProjectRouter sets up the generation and scene read endpoints.
//
// Endpoints:
//   - POST /projects/:id/generate: runs the pipeline, streaming one JSON
//     event per line (progress, scene_added, then complete or failed).
//   - GET /projects/:id/scenes: returns the project's persisted scenes in
//     playback order.
func ProjectRouter(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("/:id/generate", func(c *gin.Context) {
			var body generateRequestBody
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
				return
			}

			req := orchestrator.Request{
				ProjectID:       c.Param("id"),
				URL:             body.URL,
				Style:           body.Style,
				SceneCount:      body.SceneCount,
				DurationSeconds: body.DurationSeconds,
			}

			c.Header("Content-Type", "application/x-ndjson")
			c.Header("Cache-Control", "no-cache")
			c.Status(http.StatusOK)

			encoder := json.NewEncoder(c.Writer)
			// Client disconnect cancels the request context, which the
			// orchestrator honors between scenes.
			for event := range state.orchestrator.Run(c.Request.Context(), req) {
				if err := encoder.Encode(event); err != nil {
					slog.Warn("client stopped consuming generation stream", "project", req.ProjectID, "error", err)
					return
				}
				c.Writer.Flush()
			}
		})

		projects.GET("/:id/scenes", func(c *gin.Context) {
			scenes, err := state.sceneService.ListByProject(c, c.Param("id"))
			if err != nil {
				slog.Error("failed to list scenes", "project", c.Param("id"), "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, scenes)
		})
	}
}

// TemplateRouter exposes the loaded catalog, code excluded.
func TemplateRouter(r *gin.RouterGroup) {
	r.GET("/templates", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.catalog.Summaries())
	})
}

// ScreenshotRouter signs short-lived URLs for archived screenshots.
//
// GET /screenshots/url?object=<name> returns a URL valid for 15 minutes.
func ScreenshotRouter(r *gin.RouterGroup) {
	r.GET("/screenshots/url", func(c *gin.Context) {
		object := c.Query("object")
		if object == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "object is required"})
			return
		}
		signedURL, err := state.sceneService.GenerateScreenshotURL(
			c, state.config.Storage.ScreenshotBucket, object, 15*time.Minute)
		if err != nil {
			slog.Error("failed to sign screenshot url", "object", object, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate screenshot URL"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": signedURL})
	})
}
