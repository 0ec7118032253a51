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

// Package workflow assembles the pipeline's command chains. This file holds
// the brand extraction workflow: URL in, normalized BrandProfile out.
package workflow

import (
	"context"
	"fmt"
	"text/template"
	"time"

	"cloud.google.com/go/storage"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/commands"
	"github.com/bazaar-it/brandreel/internal/core/cor"
	"github.com/bazaar-it/brandreel/internal/core/model"
)

// BrandExtractWorkflow is the chain that turns a public URL into a
// BrandProfile: capture the rendered page, distill its content, archive the
// screenshots, prompt the analysis model, and parse the result.
type BrandExtractWorkflow struct {
	cor.BaseCommand
	config           *cloud.Config
	storageClient    *storage.Client
	browserPool      *cloud.BrowserPool
	genaiModel       cloud.ContentGenerator
	analysisTemplate *template.Template
	chain            cor.Chain
}

func (w *BrandExtractWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *BrandExtractWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: navigate and capture the rendered page. Failures here carry an
	// ExtractionError reason and abort the chain.
	out.AddCommand(commands.NewPageCaptureCommand(
		"capture-page",
		w.browserPool,
		time.Duration(w.config.Browser.NavTimeoutSeconds)*time.Second,
		w.config.Browser.CaptureRetries,
		w.config.Browser.MaxImageWidth))

	// Step 2: distill the DOM into structured page content.
	out.AddCommand(commands.NewContentExtractCommand("extract-content"))

	// Step 3: prompt the model with the structured content plus the raw
	// screenshots still sitting on the context.
	out.AddCommand(commands.NewBrandAnalysisCreator("analyze-brand", w.genaiModel, w.analysisTemplate))

	// Step 4: parse the model's JSON into a BrandProfile and attach the
	// source URL and screenshot references.
	out.AddCommand(commands.NewBrandJsonToStruct("convert-brand-profile"))

	w.chain = out
}

// Extract runs the workflow for one URL. runID namespaces the archived
// screenshots. On failure the first recorded chain error is returned, which
// preserves any ExtractionError classification for the caller.
func (w *BrandExtractWorkflow) Extract(ctx context.Context, url string, runID string) (*model.BrandProfile, error) {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	defer chainCtx.Close()

	chainCtx.Add(cor.CtxIn, url)
	chainCtx.Add(commands.RunIDParamName, runID)

	w.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for name, err := range chainCtx.GetErrors() {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	profile, ok := chainCtx.Get(cor.CtxOut).(*model.BrandProfile)
	if !ok {
		return nil, fmt.Errorf("brand extraction produced no profile for %s", url)
	}

	// Archive screenshots after the profile exists so an upload hiccup can
	// never cost us the analysis. References are stitched in directly.
	w.archiveScreenshots(chainCtx, profile)

	return profile, nil
}

// archiveScreenshots uploads captured screenshots and records their object
// names on the profile. Runs best effort.
func (w *BrandExtractWorkflow) archiveScreenshots(chainCtx cor.Context, profile *model.BrandProfile) {
	upload := commands.NewScreenshotUploadCommand("upload-screenshots", w.storageClient, w.config.Storage.ScreenshotBucket)
	uploadCtx := cor.NewBaseContext()
	uploadCtx.SetContext(chainCtx.GetContext())
	defer uploadCtx.Close()

	uploadCtx.Add(cor.CtxIn, chainCtx.Get(commands.CaptureParamName))
	uploadCtx.Add(commands.RunIDParamName, chainCtx.Get(commands.RunIDParamName))
	if !upload.IsExecutable(uploadCtx) {
		return
	}
	upload.Execute(uploadCtx)

	if refs, ok := uploadCtx.Get(commands.ScreenshotRefsParamName).(map[string]*cloud.ScreenshotObject); ok {
		for viewport, ref := range refs {
			profile.Media.Screenshots[viewport] = ref.Name
		}
	}
}

// NewBrandExtractPipeline builds the extraction workflow from configuration
// and shared service clients. agentModelName selects the Vertex AI model
// used for the analysis step.
func NewBrandExtractPipeline(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	agentModelName string) *BrandExtractWorkflow {

	analysisTemplate, err := template.New("brand-analysis-template").Parse(config.PromptTemplates.BrandAnalysis)
	if err != nil {
		panic(err)
	}

	pipeline := &BrandExtractWorkflow{
		BaseCommand:      *cor.NewBaseCommand("brand-extract-pipeline"),
		config:           config,
		storageClient:    serviceClients.StorageClient,
		browserPool:      serviceClients.BrowserPool,
		genaiModel:       serviceClients.AgentModels[agentModelName],
		analysisTemplate: analysisTemplate,
	}
	pipeline.initializeChain()
	return pipeline
}
