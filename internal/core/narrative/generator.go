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

package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/model"
)

// Generator produces the scene sequence for one run. Scene structure (arc,
// beats, durations) is computed deterministically; only the wording is
// generative, and a wording failure falls back to copy lifted straight from
// the profile, so generation as a whole never fails.
type Generator struct {
	genaiModel         cloud.ContentGenerator
	template           *template.Template
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
}

// NewGenerator builds a Generator from the narrative prompt template in the
// configuration.
func NewGenerator(config *cloud.Config, genaiModel cloud.ContentGenerator) (*Generator, error) {
	tmpl, err := template.New("narrative-template").Parse(config.PromptTemplates.Narrative)
	if err != nil {
		return nil, fmt.Errorf("failed to parse narrative prompt template: %w", err)
	}

	meter := otel.Meter("narrative-generator")
	in, _ := meter.Int64Counter("narrative.gemini.token.input")
	out, _ := meter.Int64Counter("narrative.gemini.token.output")

	return &Generator{
		genaiModel:         genaiModel,
		template:           tmpl,
		inputTokenCounter:  in,
		outputTokenCounter: out,
	}, nil
}

// sceneWording is the shape the model returns, one element per scene.
type sceneWording struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	VisualElements []string `json:"visual_elements"`
}

// Generate builds sceneCount scenes totaling exactly
// durationSeconds*FrameRate frames. sceneCount must be within
// [MinScenes, MaxScenes] and durationSeconds positive.
func (g *Generator) Generate(ctx context.Context, profile *model.BrandProfile, sceneCount int, durationSeconds int) ([]*model.NarrativeScene, error) {
	if sceneCount < MinScenes || sceneCount > MaxScenes {
		return nil, fmt.Errorf("scene count %d outside supported range [%d, %d]", sceneCount, MinScenes, MaxScenes)
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d seconds", durationSeconds)
	}

	arc := SelectArc(profile)
	beats := arc.Acts[sceneCount]
	frames := DistributeFrames(beats, durationSeconds*model.FrameRate)

	scenes := make([]*model.NarrativeScene, 0, sceneCount)
	for i, beat := range beats {
		scene := model.NewNarrativeScene(i, beat)
		scene.DurationFrames = frames[i]
		scenes = append(scenes, scene)
	}

	wordings, err := g.generateWording(ctx, profile, arc, scenes)
	if err != nil || len(wordings) != len(scenes) {
		slog.Warn("narrative wording generation failed, using deterministic copy",
			"arc", arc.Name, "scenes", sceneCount, "error", err)
		wordings = fallbackWording(profile, scenes)
	}

	for i, w := range wordings {
		scenes[i].Title = w.Title
		scenes[i].Description = w.Description
		if w.VisualElements != nil {
			scenes[i].VisualElements = w.VisualElements
		}
	}
	return scenes, nil
}

// generateWording asks the model for titles, descriptions, and visual
// element lists matching the precomputed beat sequence.
func (g *Generator) generateWording(ctx context.Context, profile *model.BrandProfile, arc Arc, scenes []*model.NarrativeScene) ([]sceneWording, error) {
	if g.genaiModel == nil {
		return nil, fmt.Errorf("no generative model configured")
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}
	beatPlan := make([]map[string]interface{}, 0, len(scenes))
	for _, s := range scenes {
		beatPlan = append(beatPlan, map[string]interface{}{
			"index":           s.Index,
			"beat":            s.Beat,
			"duration_frames": s.DurationFrames,
		})
	}
	planJSON, _ := json.Marshal(beatPlan)
	exampleJSON, _ := json.Marshal(model.GetExampleNarrativeScenes())

	params := map[string]interface{}{
		"ARC_NAME":      arc.Name,
		"BRAND_PROFILE": string(profileJSON),
		"BEAT_PLAN":     string(planJSON),
		"EXAMPLE_JSON":  string(exampleJSON),
	}

	var buffer bytes.Buffer
	if err := g.template.Execute(&buffer, params); err != nil {
		return nil, fmt.Errorf("failed to execute narrative prompt template: %w", err)
	}

	out, err := cloud.GenerateText(ctx, g.inputTokenCounter, g.outputTokenCounter, g.genaiModel, cloud.NewTextContent(buffer.String()))
	if err != nil {
		return nil, err
	}

	var wordings []sceneWording
	if err := json.Unmarshal([]byte(out), &wordings); err != nil {
		return nil, fmt.Errorf("failed to parse narrative wording json: %w", err)
	}
	return wordings, nil
}

// fallbackWording composes scene copy directly from profile fields. Every
// branch tolerates an empty profile, so this path cannot fail.
func fallbackWording(profile *model.BrandProfile, scenes []*model.NarrativeScene) []sceneWording {
	name := profile.Identity.Name
	if name == "" {
		name = profile.URL
	}

	wordings := make([]sceneWording, 0, len(scenes))
	for _, scene := range scenes {
		var w sceneWording
		switch scene.Beat {
		case model.BeatProblem:
			w.Title = "The Problem"
			w.Description = firstNonEmpty(profile.Product.ProblemStatement,
				fmt.Sprintf("The status quo is holding teams like yours back. %s exists to change that.", name))
		case model.BeatTension:
			w.Title = "The Cost of Waiting"
			w.Description = firstNonEmpty(profile.Product.ValueSubhead,
				"Every day without a better way compounds the problem.")
		case model.BeatDiscovery:
			w.Title = fmt.Sprintf("Meet %s", name)
			w.Description = firstNonEmpty(profile.Identity.Tagline, profile.Product.ValueHeadline,
				fmt.Sprintf("%s is a better way forward.", name))
			for _, f := range profile.Product.Features {
				w.VisualElements = append(w.VisualElements, f.Title)
			}
		case model.BeatTransformation:
			w.Title = "How It Works"
			w.Description = firstNonEmpty(profile.Product.ValueHeadline,
				fmt.Sprintf("See what changes when %s does the heavy lifting.", name))
			for _, f := range profile.Product.Features {
				w.VisualElements = append(w.VisualElements, f.Title)
			}
		case model.BeatTriumph:
			w.Title = "Proof"
			if len(profile.SocialProof.Testimonials) > 0 {
				w.Description = profile.SocialProof.Testimonials[0].Quote
			} else {
				w.Description = fmt.Sprintf("Teams everywhere are winning with %s.", name)
			}
			for _, stat := range profile.SocialProof.Stats {
				w.VisualElements = append(w.VisualElements, fmt.Sprintf("%s %s", stat.Value, stat.Label))
			}
		case model.BeatInvitation:
			w.Title = "Get Started"
			if len(profile.Product.CallsToAction) > 0 {
				w.Description = profile.Product.CallsToAction[0]
			} else {
				w.Description = fmt.Sprintf("Start with %s today.", name)
			}
		default:
			w.Title = name
			w.Description = firstNonEmpty(profile.Identity.Tagline, name)
		}
		wordings = append(wordings, w)
	}
	return wordings
}

// DistributeFrames splits totalFrames across the beat sequence by weight,
// using largest-remainder rounding so the result sums exactly to
// totalFrames.
func DistributeFrames(beats []model.EmotionalBeat, totalFrames int) []int {
	weights := make([]float64, len(beats))
	var totalWeight float64
	for i, beat := range beats {
		w, ok := beatWeights[beat]
		if !ok {
			w = 1.0
		}
		weights[i] = w
		totalWeight += w
	}

	frames := make([]int, len(beats))
	remainders := make([]float64, len(beats))
	assigned := 0
	for i, w := range weights {
		exact := float64(totalFrames) * w / totalWeight
		frames[i] = int(exact)
		remainders[i] = exact - float64(frames[i])
		assigned += frames[i]
	}

	// Hand the leftover frames to the largest remainders, earliest scene
	// winning ties so the result is deterministic.
	order := make([]int, len(beats))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for i := 0; i < totalFrames-assigned; i++ {
		frames[order[i%len(order)]]++
	}
	return frames
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
