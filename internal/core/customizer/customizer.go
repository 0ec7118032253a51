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

// Package customizer turns a routed template plus brand profile plus scene
// copy into final scene code. The generative path gets one corrective retry
// on invalid output; after that the deterministic slot-substitution
// fallback takes over, so a scene always renders something on-brand.
package customizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/model"
)

// Customizer rewrites template slots for one brand and scene.
type Customizer struct {
	genaiModel         cloud.ContentGenerator
	customizeTemplate  *template.Template
	repairTemplate     *template.Template
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	fallbackCounter    metric.Int64Counter
}

// NewCustomizer builds a Customizer from the prompt templates in the
// configuration.
func NewCustomizer(config *cloud.Config, genaiModel cloud.ContentGenerator) (*Customizer, error) {
	customizeTemplate, err := template.New("customize-template").Parse(config.PromptTemplates.Customize)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customize prompt template: %w", err)
	}
	repairTemplate, err := template.New("customize-repair-template").Parse(config.PromptTemplates.CustomizeRepair)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customize repair prompt template: %w", err)
	}

	meter := otel.Meter("scene-customizer")
	in, _ := meter.Int64Counter("customizer.gemini.token.input")
	out, _ := meter.Int64Counter("customizer.gemini.token.output")
	fb, _ := meter.Int64Counter("customizer.fallback.count")

	return &Customizer{
		genaiModel:         genaiModel,
		customizeTemplate:  customizeTemplate,
		repairTemplate:     repairTemplate,
		inputTokenCounter:  in,
		outputTokenCounter: out,
		fallbackCounter:    fb,
	}, nil
}

// Customize produces the final code for one scene. The only error it
// returns is context cancellation; every generation failure degrades to the
// slot-substitution fallback instead.
func (c *Customizer) Customize(ctx context.Context, tmpl *model.Template, scene *model.NarrativeScene, profile *model.BrandProfile) (*model.CustomizedScene, error) {
	out := &model.CustomizedScene{
		Name:           scene.Title,
		DurationFrames: scene.DurationFrames,
		TemplateID:     tmpl.ID,
		SceneIndex:     scene.Index,
	}

	code, err := c.generate(ctx, tmpl, scene, profile)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("scene customization fell back to slot substitution",
			"scene", scene.Index, "template", tmpl.ID, "error", err)
		c.fallbackCounter.Add(ctx, 1)
		code = SubstituteSlots(tmpl, scene, profile)
		out.Fallback = true
	}

	out.Code = code
	return out, nil
}

// generate runs the generative path: one attempt, then one corrective
// retry that feeds the validation failure back to the model.
func (c *Customizer) generate(ctx context.Context, tmpl *model.Template, scene *model.NarrativeScene, profile *model.BrandProfile) (string, error) {
	if c.genaiModel == nil {
		return "", fmt.Errorf("no generative model configured")
	}

	prompt, err := c.renderPrompt(c.customizeTemplate, tmpl, scene, profile, "")
	if err != nil {
		return "", err
	}

	code, err := cloud.GenerateText(ctx, c.inputTokenCounter, c.outputTokenCounter, c.genaiModel, cloud.NewTextContent(prompt))
	if err != nil {
		return "", err
	}
	firstErr := ValidateSceneCode(code)
	if firstErr == nil {
		return code, nil
	}

	// One corrective pass: show the model its own output and the exact
	// structural complaint.
	repairPrompt, err := c.renderPrompt(c.repairTemplate, tmpl, scene, profile, fmt.Sprintf("%s\n\nPrevious output:\n%s", firstErr.Error(), code))
	if err != nil {
		return "", err
	}
	code, err = cloud.GenerateText(ctx, c.inputTokenCounter, c.outputTokenCounter, c.genaiModel, cloud.NewTextContent(repairPrompt))
	if err != nil {
		return "", err
	}
	if err := ValidateSceneCode(code); err != nil {
		return "", fmt.Errorf("repaired scene code still invalid: %w (first failure: %v)", err, firstErr)
	}
	return code, nil
}

func (c *Customizer) renderPrompt(promptTemplate *template.Template, tmpl *model.Template, scene *model.NarrativeScene, profile *model.BrandProfile, complaint string) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	sceneJSON, _ := json.Marshal(scene)
	slotsJSON, _ := json.Marshal(tmpl.Slots)

	params := map[string]interface{}{
		"TEMPLATE_CODE": tmpl.Code,
		"SLOTS":         string(slotsJSON),
		"BRAND_PROFILE": string(profileJSON),
		"SCENE":         string(sceneJSON),
		"COMPLAINT":     complaint,
	}

	var buffer bytes.Buffer
	if err := promptTemplate.Execute(&buffer, params); err != nil {
		return "", fmt.Errorf("failed to execute customize prompt template: %w", err)
	}
	return buffer.String(), nil
}

// SubstituteSlots fills a template's declared slot tokens (written as
// {{token}} in the code) directly from the profile and scene. It fabricates
// nothing: a slot with no matching brand data gets an empty value, and the
// template's own structure carries the scene.
func SubstituteSlots(tmpl *model.Template, scene *model.NarrativeScene, profile *model.BrandProfile) string {
	code := tmpl.Code

	for _, slot := range tmpl.Slots.Colors {
		var value string
		switch strings.ToLower(slot) {
		case "secondary":
			value = firstNonEmpty(profile.Visual.SecondaryColor, profile.Visual.PrimaryColor)
		case "accent":
			value = firstNonEmpty(profile.Visual.AccentColor, profile.Visual.PrimaryColor)
		default:
			value = profile.Visual.PrimaryColor
		}
		code = replaceSlot(code, slot, value)
	}

	texts := []string{scene.Title, scene.Description, profile.Identity.Tagline, profile.Identity.Name}
	for i, slot := range tmpl.Slots.Text {
		value := ""
		if i < len(texts) {
			value = texts[i]
		}
		code = replaceSlot(code, slot, value)
	}

	for i, slot := range tmpl.Slots.Metrics {
		value := ""
		if i < len(profile.SocialProof.Stats) {
			stat := profile.SocialProof.Stats[i]
			value = strings.TrimSpace(fmt.Sprintf("%s %s", stat.Value, stat.Label))
		}
		code = replaceSlot(code, slot, value)
	}

	for _, slot := range tmpl.Slots.Images {
		code = replaceSlot(code, slot, profile.Media.Screenshots[model.ViewportDesktop])
	}

	return code
}

func replaceSlot(code, slot, value string) string {
	return strings.ReplaceAll(code, "{{"+slot+"}}", value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
