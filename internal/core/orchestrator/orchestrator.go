// Copyright 2025 Bazaar-It
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package orchestrator runs the full brand-to-video pipeline for one
// request: extract the brand, write the narrative, then route, customize,
// and persist each scene in order, streaming an event after every durable
// step.
//
// Failure policy is asymmetric. Extraction and narrative failures are
// terminal: without a profile there is nothing on-brand to generate, so the
// run emits a failed event and stops. Per-scene failures are not: the
// customizer degrades to deterministic slot substitution, so a scene is
// only lost if persistence itself fails. Cancellation is honored between
// scenes, never mid-scene, so every announced scene is whole.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/bazaar-it/brandreel/internal/core/commands"
	"github.com/bazaar-it/brandreel/internal/core/model"
	"github.com/bazaar-it/brandreel/internal/core/router"
	"github.com/bazaar-it/brandreel/internal/core/services"
)

// BrandExtractor turns a URL into a brand profile.
type BrandExtractor interface {
	Extract(ctx context.Context, url string, runID string) (*model.BrandProfile, error)
}

// NarrativeGenerator turns a profile into an ordered scene sequence.
type NarrativeGenerator interface {
	Generate(ctx context.Context, profile *model.BrandProfile, sceneCount int, durationSeconds int) ([]*model.NarrativeScene, error)
}

// SceneCustomizer produces final scene code for one routed template.
type SceneCustomizer interface {
	Customize(ctx context.Context, tmpl *model.Template, scene *model.NarrativeScene, profile *model.BrandProfile) (*model.CustomizedScene, error)
}

// Request describes one generation run.
type Request struct {
	ProjectID       string          `json:"project_id"`
	URL             string          `json:"url"`
	Style           model.StyleTier `json:"style,omitempty"`
	SceneCount      int             `json:"scene_count,omitempty"`
	DurationSeconds int             `json:"duration_seconds,omitempty"`
}

// Defaults are the run shape used when the request leaves them zero.
type Defaults struct {
	SceneCount      int
	DurationSeconds int
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	extractor  BrandExtractor
	narrative  NarrativeGenerator
	router     *router.Router
	catalog    *router.Catalog
	customizer SceneCustomizer
	store      services.SceneStore
	defaults   Defaults
}

func NewOrchestrator(
	extractor BrandExtractor,
	narrative NarrativeGenerator,
	templateRouter *router.Router,
	catalog *router.Catalog,
	customizer SceneCustomizer,
	store services.SceneStore,
	defaults Defaults) *Orchestrator {

	if defaults.SceneCount == 0 {
		defaults.SceneCount = 5
	}
	if defaults.DurationSeconds == 0 {
		defaults.DurationSeconds = 20
	}
	return &Orchestrator{
		extractor:  extractor,
		narrative:  narrative,
		router:     templateRouter,
		catalog:    catalog,
		customizer: customizer,
		store:      store,
		defaults:   defaults,
	}
}

// Run executes the pipeline and returns the event stream. The channel is
// buffered for the whole run and closed after the terminal event, so the
// pipeline never blocks on a slow consumer and a terminal event is always
// the last element.
func (o *Orchestrator) Run(ctx context.Context, req Request) <-chan model.StreamEvent {
	if req.SceneCount == 0 {
		req.SceneCount = o.defaults.SceneCount
	}
	if req.DurationSeconds == 0 {
		req.DurationSeconds = o.defaults.DurationSeconds
	}

	events := make(chan model.StreamEvent, req.SceneCount*2+8)
	go func() {
		defer close(events)
		o.run(ctx, req, events)
	}()
	return events
}

func (o *Orchestrator) run(ctx context.Context, req Request, events chan<- model.StreamEvent) {
	tracer := otel.Tracer("generation-orchestrator")
	ctx, span := tracer.Start(ctx, "generation-run")
	defer span.End()

	start := time.Now()
	runID := fmt.Sprintf("%s-%d", req.ProjectID, start.Unix())

	events <- model.ProgressEvent(fmt.Sprintf("Analyzing %s", req.URL))
	profile, err := o.extractor.Extract(ctx, req.URL, runID)
	if err != nil {
		events <- model.FailedEvent(extractionReason(req.URL, err))
		return
	}

	events <- model.ProgressEvent(fmt.Sprintf("Writing the story for %s", displayName(profile)))
	scenes, err := o.narrative.Generate(ctx, profile, req.SceneCount, req.DurationSeconds)
	if err != nil {
		events <- model.FailedEvent(fmt.Sprintf("could not build a narrative: %v", err))
		return
	}

	// Clear any previous scene set so the deterministic scene IDs land in
	// an empty project.
	if err := o.store.DeleteByProject(ctx, req.ProjectID); err != nil {
		events <- model.FailedEvent(fmt.Sprintf("could not reset project scenes: %v", err))
		return
	}

	state := router.NewRunState()
	total := len(scenes)
	for _, scene := range scenes {
		if err := ctx.Err(); err != nil {
			events <- model.FailedEvent("generation cancelled")
			return
		}

		events <- model.ProgressEvent(fmt.Sprintf("Designing scene %d of %d: %s", scene.Index+1, total, scene.Title))

		decision, err := o.router.Route(scene, profile, req.Style, state)
		if err != nil {
			events <- model.FailedEvent(fmt.Sprintf("template routing failed: %v", err))
			return
		}
		tmpl, ok := o.catalog.Get(decision.TemplateID)
		if !ok {
			events <- model.FailedEvent(fmt.Sprintf("routed to unknown template %q", decision.TemplateID))
			return
		}
		slog.Info("routed scene", "project", req.ProjectID, "scene", scene.Index, "reasoning", decision.Reasoning)

		customized, err := o.customizer.Customize(ctx, tmpl, scene, profile)
		if err != nil {
			// Only cancellation escapes the customizer's fallback.
			events <- model.FailedEvent("generation cancelled")
			return
		}

		record := model.NewScene(req.ProjectID, customized)
		if err := o.store.Save(ctx, record); err != nil {
			events <- model.FailedEvent(fmt.Sprintf("could not persist scene %d: %v", scene.Index+1, err))
			return
		}

		// Persist first, announce second: a client that sees this event can
		// always fetch the scene.
		events <- model.SceneAddedEvent(scene.Index, customized.Name, total, record.ID)
	}

	summary := fmt.Sprintf("Generated %d scenes for %s in %s", total, displayName(profile), time.Since(start).Round(time.Second))
	events <- model.CompleteEvent(total, summary)
}

// extractionReason turns an extraction failure into a reason a person can
// act on.
func extractionReason(url string, err error) string {
	var extractionErr *commands.ExtractionError
	if errors.As(err, &extractionErr) {
		switch extractionErr.Reason {
		case commands.ReasonTimeout:
			return fmt.Sprintf("%s took too long to load", url)
		case commands.ReasonBlocked:
			return fmt.Sprintf("%s is blocking automated access", url)
		case commands.ReasonUnreachable:
			return fmt.Sprintf("%s could not be reached", url)
		}
	}
	return fmt.Sprintf("could not analyze %s: %v", url, err)
}

func displayName(profile *model.BrandProfile) string {
	if profile.Identity.Name != "" {
		return profile.Identity.Name
	}
	return profile.URL
}
