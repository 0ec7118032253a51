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

package narrative_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/model"
	"github.com/bazaar-it/brandreel/internal/core/narrative"
)

func newTestGenerator(t *testing.T) *narrative.Generator {
	t.Helper()
	config := &cloud.Config{}
	config.PromptTemplates.Narrative = "Arc: {{.ARC_NAME}}\nProfile: {{.BRAND_PROFILE}}\nPlan: {{.BEAT_PLAN}}\nExample: {{.EXAMPLE_JSON}}"
	g, err := narrative.NewGenerator(config, nil)
	assert.NoError(t, err)
	return g
}

// TestDistributeFramesConservation verifies that the per-scene frame counts
// always sum exactly to the requested total, for every supported scene
// count and a spread of durations.
func TestDistributeFramesConservation(t *testing.T) {
	for count := narrative.MinScenes; count <= narrative.MaxScenes; count++ {
		for _, seconds := range []int{10, 20, 21, 33, 60} {
			beats := narrative.HeroJourney.Acts[count]
			assert.Equal(t, count, len(beats))

			total := seconds * model.FrameRate
			frames := narrative.DistributeFrames(beats, total)

			sum := 0
			for _, f := range frames {
				assert.True(t, f > 0, "scene got zero frames (count=%d seconds=%d)", count, seconds)
				sum += f
			}
			assert.Equal(t, total, sum, "count=%d seconds=%d", count, seconds)
		}
	}
}

// TestDistributeFramesWeighting verifies the transformation beat gets the
// longest slot and the bookend beats the shortest.
func TestDistributeFramesWeighting(t *testing.T) {
	beats := []model.EmotionalBeat{
		model.BeatProblem, model.BeatDiscovery, model.BeatTransformation,
		model.BeatTriumph, model.BeatInvitation,
	}
	frames := narrative.DistributeFrames(beats, 600)

	transformation := frames[2]
	for i, f := range frames {
		if i == 2 {
			continue
		}
		assert.True(t, transformation > f, "transformation (%d) should outlast beat %d (%d)", transformation, i, f)
	}
	assert.True(t, frames[0] < frames[1], "problem should be shorter than discovery")
	assert.True(t, frames[4] < frames[1], "invitation should be shorter than discovery")
}

func TestDistributeFramesDeterministic(t *testing.T) {
	beats := narrative.ProblemAgitateSolve.Acts[7]
	first := narrative.DistributeFrames(beats, 610)
	second := narrative.DistributeFrames(beats, 610)
	assert.Equal(t, first, second)
}

func TestSelectArc(t *testing.T) {
	plain := model.NewBrandProfile("https://example.dev")
	assert.Equal(t, narrative.HeroJourney.Name, narrative.SelectArc(plain).Name)

	problem := model.NewBrandProfile("https://example.dev")
	problem.Product.ProblemStatement = "Deploys take all day."
	assert.Equal(t, narrative.ProblemAgitateSolve.Name, narrative.SelectArc(problem).Name)

	proven := model.NewBrandProfile("https://example.dev")
	proven.Product.ProblemStatement = "Deploys take all day."
	proven.SocialProof.Testimonials = []model.Testimonial{
		{Quote: "Changed everything.", Author: "A. Founder"},
		{Quote: "Ten out of ten.", Author: "B. Buyer"},
	}
	proven.SocialProof.Stats = []model.Stat{
		{Value: "10k+", Label: "teams"},
		{Value: "99.99%", Label: "uptime"},
	}
	// Heavy proof outranks the problem statement.
	assert.Equal(t, narrative.CustomerSuccess.Name, narrative.SelectArc(proven).Name)
}

// TestGenerateFallbackWording exercises the path where no model is
// configured: structure is still produced and the copy is lifted straight
// from the profile.
func TestGenerateFallbackWording(t *testing.T) {
	g := newTestGenerator(t)

	profile := model.NewBrandProfile("https://acme.dev")
	profile.Identity.Name = "Acme"
	profile.Identity.Tagline = "Ship faster."
	profile.Product.Features = []model.Feature{
		{Title: "Instant Deploys"},
		{Title: "Zero Config"},
	}
	profile.SocialProof.Stats = []model.Stat{{Value: "10k+", Label: "teams"}}

	scenes, err := g.Generate(context.Background(), profile, 5, 20)
	assert.NoError(t, err)
	assert.Len(t, scenes, 5)

	total := 0
	for i, scene := range scenes {
		assert.Equal(t, i, scene.Index)
		assert.NotEmpty(t, scene.Title, "scene %d has no title", i)
		assert.NotEmpty(t, scene.Description, "scene %d has no description", i)
		assert.True(t, scene.DurationFrames > 0)
		total += scene.DurationFrames
	}
	assert.Equal(t, 20*model.FrameRate, total)

	// Discovery scene pulls its visual elements from the feature list.
	var discovery *model.NarrativeScene
	for _, scene := range scenes {
		if scene.Beat == model.BeatDiscovery {
			discovery = scene
			break
		}
	}
	assert.NotNil(t, discovery)
	assert.Contains(t, discovery.VisualElements, "Instant Deploys")
}

func TestGenerateRejectsBadInputs(t *testing.T) {
	g := newTestGenerator(t)
	profile := model.NewBrandProfile("https://example.dev")

	for _, count := range []int{0, 1, narrative.MaxScenes + 1} {
		_, err := g.Generate(context.Background(), profile, count, 20)
		assert.Error(t, err, fmt.Sprintf("count %d should be rejected", count))
	}

	_, err := g.Generate(context.Background(), profile, 5, 0)
	assert.Error(t, err)
	_, err = g.Generate(context.Background(), profile, 5, -10)
	assert.Error(t, err)
}
