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

// Package model defines the core data structures of the brand-to-video
// pipeline. This file holds the customizer's output and the durable scene
// record the orchestrator persists.
package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CustomizedScene is the final unit of pipeline output before persistence:
// renderable scene code produced by customizing one template for one
// narrative scene. The code must be self-contained (no imports beyond the
// fixed runtime API) and declare exactly one entry component.
type CustomizedScene struct {
	Name           string `json:"name"`
	Code           string `json:"code"`
	DurationFrames int    `json:"duration_frames"`
	TemplateID     string `json:"template_id"`
	SceneIndex     int    `json:"scene_index"`
	// Fallback marks scenes that were produced by the deterministic
	// placeholder substitution path after generation failed.
	Fallback bool `json:"fallback,omitempty"`
}

// Scene is the durable artifact written to the scene store. It outlives the
// pipeline run that created it.
type Scene struct {
	ID         string    `json:"id" bigquery:"id"`
	ProjectID  string    `json:"project_id" bigquery:"project_id"`
	Name       string    `json:"name" bigquery:"name"`
	Code       string    `json:"code" bigquery:"code"`
	Duration   int       `json:"duration" bigquery:"duration"` // frames at FrameRate
	Order      int       `json:"order" bigquery:"scene_order"`
	TemplateID string    `json:"template_id" bigquery:"template_id"`
	CreateDate time.Time `json:"create_date" bigquery:"create_date"`
}

// NewScene builds a durable Scene from a customized scene. The ID is a
// UUIDv5 hash of project and order, so re-running a project overwrites its
// scene set deterministically instead of accumulating duplicates.
func NewScene(projectID string, cs *CustomizedScene) *Scene {
	seed := projectID + "/" + strconv.Itoa(cs.SceneIndex)
	return &Scene{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String(),
		ProjectID:  projectID,
		Name:       cs.Name,
		Code:       cs.Code,
		Duration:   cs.DurationFrames,
		Order:      cs.SceneIndex,
		TemplateID: cs.TemplateID,
		CreateDate: time.Now(),
	}
}
