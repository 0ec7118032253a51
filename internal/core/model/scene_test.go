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

package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/bazaar-it/brandreel/internal/core/model"
)

// TestNewScene verifies the deterministic scene ID: a UUIDv5 hash of the
// project and scene order, so the same project and slot always map to the
// same row.
func TestNewScene(t *testing.T) {
	cs := &model.CustomizedScene{
		Name:           "The Problem",
		Code:           "export default function S() { return null; }",
		DurationFrames: 90,
		TemplateID:     "problem-spotlight",
		SceneIndex:     2,
	}
	scene := model.NewScene("proj-1", cs)

	expectedID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("proj-1/2"))
	assert.Equal(t, expectedID.String(), scene.ID)
	assert.Equal(t, "proj-1", scene.ProjectID)
	assert.Equal(t, 90, scene.Duration)
	assert.Equal(t, 2, scene.Order)
	assert.WithinDuration(t, time.Now(), scene.CreateDate, time.Second)

	// The same inputs always produce the same ID; a re-run replaces rather
	// than duplicates.
	again := model.NewScene("proj-1", cs)
	assert.Equal(t, scene.ID, again.ID)

	other := model.NewScene("proj-2", cs)
	assert.NotEqual(t, scene.ID, other.ID)
}

// TestNewBrandProfile verifies that every collection starts empty, never
// nil.
func TestNewBrandProfile(t *testing.T) {
	p := model.NewBrandProfile("https://example.dev")

	assert.Equal(t, "https://example.dev", p.URL)
	assert.NotNil(t, p.Visual.Fonts)
	assert.NotNil(t, p.Voice.Adjectives)
	assert.NotNil(t, p.Product.Features)
	assert.NotNil(t, p.Product.TargetAudiences)
	assert.NotNil(t, p.Product.CallsToAction)
	assert.NotNil(t, p.SocialProof.Testimonials)
	assert.NotNil(t, p.SocialProof.Logos)
	assert.NotNil(t, p.SocialProof.TrustBadges)
	assert.NotNil(t, p.SocialProof.Stats)
	assert.NotNil(t, p.Media.Screenshots)
	assert.Len(t, p.Product.Features, 0)
}

// TestNormalizeRepairsNilCollections verifies that a profile unmarshaled
// from sparse model output regains the empty-collection invariant.
func TestNormalizeRepairsNilCollections(t *testing.T) {
	raw := `{"identity": {"name": "Acme", "archetype": "innovator", "industry": "fintech"}}`

	p := &model.BrandProfile{}
	assert.NoError(t, json.Unmarshal([]byte(raw), p))
	assert.Nil(t, p.Product.Features)

	p.Normalize()

	assert.NotNil(t, p.Product.Features)
	assert.NotNil(t, p.SocialProof.Stats)
	assert.NotNil(t, p.Media.Screenshots)
	// Populated fields are untouched.
	assert.Equal(t, "Acme", p.Identity.Name)
	assert.Equal(t, model.ArchetypeInnovator, p.Identity.Archetype)
}

func TestSceneAddedEventProgress(t *testing.T) {
	e := model.SceneAddedEvent(0, "Hook", 5, "id-0")
	assert.Equal(t, model.EventSceneAdded, e.Type)
	assert.Equal(t, 20, e.ProgressPercent)

	last := model.SceneAddedEvent(4, "Close", 5, "id-4")
	assert.Equal(t, 100, last.ProgressPercent)
}

// TestSceneAddedEventWireShape pins the JSON each scene_added line must
// carry. The first scene of a run has index 0, so sceneIndex must be
// present even at its zero value.
func TestSceneAddedEventWireShape(t *testing.T) {
	first := model.SceneAddedEvent(0, "Opening", 5, "id-0")
	data, err := json.Marshal(first)
	assert.NoError(t, err)

	line := string(data)
	assert.Contains(t, line, `"sceneIndex":0`)
	assert.Contains(t, line, `"sceneName":"Opening"`)
	assert.Contains(t, line, `"totalScenes":5`)
	assert.Contains(t, line, `"sceneId":"id-0"`)
	assert.Contains(t, line, `"progressPercent":20`)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &decoded))
	_, present := decoded["sceneIndex"]
	assert.True(t, present, "sceneIndex key missing from first scene_added event")
}
