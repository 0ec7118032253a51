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

// Package main contains the Pub/Sub listener wiring. Queued generation
// requests arrive on the generation-requests subscription and run through
// the same orchestrator the HTTP endpoint uses.
package main

import (
	"context"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/orchestrator"
	"github.com/bazaar-it/brandreel/internal/core/workflow"
)

// GenerationRequestsListener is the listener key in the configuration's
// topic_subscriptions table.
const GenerationRequestsListener = "GenerationRequests"

// SetupListeners attaches the generation workflow to its subscription and
// starts receiving.
func SetupListeners(cloudClients *cloud.ServiceClients, o *orchestrator.Orchestrator, ctx context.Context) {
	generationWorkflow := workflow.NewGenerationRequestWorkflow("queued-generation", o)
	listener, ok := cloudClients.PubSubListeners[GenerationRequestsListener]
	if !ok {
		return
	}
	listener.SetCommand(generationWorkflow)
	listener.Listen(ctx)
}
