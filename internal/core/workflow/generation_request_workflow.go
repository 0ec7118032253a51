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

package workflow

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bazaar-it/brandreel/internal/core/cor"
	"github.com/bazaar-it/brandreel/internal/core/model"
	"github.com/bazaar-it/brandreel/internal/core/orchestrator"
)

// GenerationRequestWorkflow adapts the orchestrator to the Pub/Sub
// listener: the inbound message payload is a JSON generation request, and
// the event stream that an HTTP caller would consume line by line is
// drained into the log instead. A failed run records a chain error so the
// message is nacked and redelivered.
type GenerationRequestWorkflow struct {
	cor.BaseCommand
	orchestrator *orchestrator.Orchestrator
}

func NewGenerationRequestWorkflow(name string, o *orchestrator.Orchestrator) *GenerationRequestWorkflow {
	return &GenerationRequestWorkflow{
		BaseCommand:  *cor.NewBaseCommand(name),
		orchestrator: o,
	}
}

func (w *GenerationRequestWorkflow) Execute(context cor.Context) {
	payload := context.Get(w.GetInputParam()).(string)

	var req orchestrator.Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		context.AddError(w.GetName(), fmt.Errorf("failed to parse generation request: %w", err))
		return
	}
	if req.ProjectID == "" || req.URL == "" {
		context.AddError(w.GetName(), fmt.Errorf("generation request missing project_id or url"))
		return
	}

	for event := range w.orchestrator.Run(context.GetContext(), req) {
		switch event.Type {
		case model.EventFailed:
			context.AddError(w.GetName(), fmt.Errorf("generation failed for project %s: %s", req.ProjectID, event.Reason))
		case model.EventComplete:
			slog.Info("generation complete", "project", req.ProjectID, "scenes", event.TotalScenes)
		case model.EventSceneAdded:
			slog.Info("scene persisted", "project", req.ProjectID, "scene", event.SceneIndex, "id", event.SceneID)
		default:
			slog.Debug("generation progress", "project", req.ProjectID, "message", event.Message)
		}
	}

	if !context.HasErrors() {
		w.GetSuccessCounter().Add(context.GetContext(), 1)
	} else {
		w.GetErrorCounter().Add(context.GetContext(), 1)
	}
}
