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

// Package main contains the setup and initialization logic for the server's
// shared state: configuration, cloud service clients, the template catalog,
// and the fully wired generation pipeline.
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"time"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"github.com/joho/godotenv"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/customizer"
	"github.com/bazaar-it/brandreel/internal/core/narrative"
	"github.com/bazaar-it/brandreel/internal/core/orchestrator"
	"github.com/bazaar-it/brandreel/internal/core/router"
	"github.com/bazaar-it/brandreel/internal/core/services"
	"github.com/bazaar-it/brandreel/internal/core/workflow"
)

// Agent model keys in the configuration's agent_models table.
const (
	agentBrandAnalyst    = "brand-analyst"
	agentNarrativeWriter = "narrative-writer"
	agentSceneCustomizer = "scene-customizer"
)

// StateManager holds the shared dependencies for the server, avoiding
// globals scattered across handlers.
type StateManager struct {
	config       *cloud.Config
	cloud        *cloud.ServiceClients
	catalog      *router.Catalog
	sceneService *services.SceneService
	orchestrator *orchestrator.Orchestrator
}

var state = &StateManager{}

// SetupOS points the configuration loader at the config directory and sets
// the runtime. A local .env file can override either before this runs.
func SetupOS() (err error) {
	_ = godotenv.Load()

	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState builds every shared dependency: cloud clients, the template
// catalog, the scene store, and the orchestrator, then starts the Pub/Sub
// listeners.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}

	iamClient, err := credentials.NewIamCredentialsClient(ctx)
	if err != nil {
		panic(err)
	}
	cloudClients.IAMClient = iamClient
	state.cloud = cloudClients

	catalog, err := router.LoadCatalog(config.Catalog.Dir)
	if err != nil {
		log.Fatalf("failed to load template catalog: %v\n", err)
	}
	state.catalog = catalog

	state.sceneService = &services.SceneService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		IAMClient:      cloudClients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		SceneTable:     config.BigQueryDataSource.SceneTable,
	}

	extractor := workflow.NewBrandExtractPipeline(config, cloudClients, agentBrandAnalyst)

	narrativeGenerator, err := narrative.NewGenerator(config, cloudClients.AgentModels[agentNarrativeWriter])
	if err != nil {
		log.Fatalf("failed to build narrative generator: %v\n", err)
	}

	sceneCustomizer, err := customizer.NewCustomizer(config, cloudClients.AgentModels[agentSceneCustomizer])
	if err != nil {
		log.Fatalf("failed to build customizer: %v\n", err)
	}

	templateRouter := router.NewRouter(catalog, rand.New(rand.NewSource(time.Now().UnixNano())))

	state.orchestrator = orchestrator.NewOrchestrator(
		extractor,
		narrativeGenerator,
		templateRouter,
		catalog,
		sceneCustomizer,
		state.sceneService,
		orchestrator.Defaults{
			SceneCount:      config.Pipeline.DefaultSceneCount,
			DurationSeconds: config.Pipeline.DefaultDurationSeconds,
		})

	SetupListeners(cloudClients, state.orchestrator, ctx)
}
