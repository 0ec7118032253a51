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

package customizer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/customizer"
	"github.com/bazaar-it/brandreel/internal/core/model"
)

// scriptedModel returns one canned response per call, in order, and records
// how many calls it served.
type scriptedModel struct {
	responses []string
	calls     int
}

func (m *scriptedModel) GenerateContent(_ context.Context, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	text := m.responses[m.calls%len(m.responses)]
	m.calls++
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}, nil
}

const validCode = "export default function Hero() {\n  return <div>customized</div>;\n}"
const brokenCode = "export default function Hero() { return <div>customized</div>;"

func newTestCustomizer(t *testing.T, genaiModel cloud.ContentGenerator) *customizer.Customizer {
	t.Helper()
	config := &cloud.Config{}
	config.PromptTemplates.Customize = "Template: {{.TEMPLATE_CODE}}\nSlots: {{.SLOTS}}\nBrand: {{.BRAND_PROFILE}}\nScene: {{.SCENE}}"
	config.PromptTemplates.CustomizeRepair = "Fix this: {{.COMPLAINT}}\nTemplate: {{.TEMPLATE_CODE}}"
	c, err := customizer.NewCustomizer(config, genaiModel)
	assert.NoError(t, err)
	return c
}

func testTemplate() *model.Template {
	return &model.Template{
		ID:                "invitation-cta",
		Category:          model.CategoryInvitation,
		MinDurationFrames: 30,
		MaxDurationFrames: 300,
		Slots: model.TemplateSlots{
			Colors:  []string{"primary", "accent"},
			Text:    []string{"headline", "subhead"},
			Metrics: []string{"stat1"},
			Images:  []string{"screenshot"},
		},
		Code: "export default function Cta() {\n" +
			"  return <div style={{background: '{{primary}}', color: '{{accent}}'}}>\n" +
			"    <h1>{{headline}}</h1><p>{{subhead}}</p><span>{{stat1}}</span>\n" +
			"    <img src=\"{{screenshot}}\" />\n" +
			"  </div>;\n}",
	}
}

func testProfile() *model.BrandProfile {
	profile := model.NewBrandProfile("https://acme.dev")
	profile.Identity.Name = "Acme"
	profile.Identity.Tagline = "Ship faster."
	profile.Visual.PrimaryColor = "#1a1a2e"
	profile.SocialProof.Stats = []model.Stat{{Value: "24x", Label: "faster deploys"}}
	profile.Media.Screenshots[model.ViewportDesktop] = "gs://bucket/screenshots/run/desktop.png"
	return profile
}

func invitationScene() *model.NarrativeScene {
	scene := model.NewNarrativeScene(4, model.BeatInvitation)
	scene.Title = "Get Started"
	scene.Description = "Start with Acme today."
	scene.DurationFrames = 90
	return scene
}

func TestCustomizeValidFirstTry(t *testing.T) {
	stub := &scriptedModel{responses: []string{validCode}}
	c := newTestCustomizer(t, stub)

	out, err := c.Customize(context.Background(), testTemplate(), invitationScene(), testProfile())
	assert.NoError(t, err)
	assert.Equal(t, validCode, out.Code)
	assert.False(t, out.Fallback)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "Get Started", out.Name)
	assert.Equal(t, "invitation-cta", out.TemplateID)
	assert.Equal(t, 90, out.DurationFrames)
	assert.Equal(t, 4, out.SceneIndex)
}

func TestCustomizeRepairsInvalidOutput(t *testing.T) {
	stub := &scriptedModel{responses: []string{brokenCode, validCode}}
	c := newTestCustomizer(t, stub)

	out, err := c.Customize(context.Background(), testTemplate(), invitationScene(), testProfile())
	assert.NoError(t, err)
	assert.Equal(t, validCode, out.Code)
	assert.False(t, out.Fallback)
	assert.Equal(t, 2, stub.calls, "expected exactly one corrective retry")
}

// TestCustomizeFallsBackAfterTwoFailures verifies the deterministic path:
// two invalid generations end in slot substitution, never an error.
func TestCustomizeFallsBackAfterTwoFailures(t *testing.T) {
	stub := &scriptedModel{responses: []string{brokenCode, brokenCode}}
	c := newTestCustomizer(t, stub)
	profile := testProfile()

	out, err := c.Customize(context.Background(), testTemplate(), invitationScene(), profile)
	assert.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Equal(t, 2, stub.calls)
	assert.Contains(t, out.Code, profile.Visual.PrimaryColor)
	assert.Contains(t, out.Code, "Get Started")
	assert.NotContains(t, out.Code, "{{primary}}")
}

func TestCustomizeNilModelFallsBack(t *testing.T) {
	c := newTestCustomizer(t, nil)

	out, err := c.Customize(context.Background(), testTemplate(), invitationScene(), testProfile())
	assert.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.NotEmpty(t, out.Code)
}

func TestCustomizeReturnsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCustomizer(t, nil)
	_, err := c.Customize(ctx, testTemplate(), invitationScene(), testProfile())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubstituteSlots(t *testing.T) {
	tmpl := testTemplate()
	profile := testProfile()
	scene := invitationScene()

	code := customizer.SubstituteSlots(tmpl, scene, profile)

	// Colors: accent has no brand value, so it falls back to primary.
	assert.Contains(t, code, "background: '#1a1a2e'")
	assert.Contains(t, code, "color: '#1a1a2e'")
	// Text slots fill in declaration order from scene then identity copy.
	assert.Contains(t, code, "<h1>Get Started</h1>")
	assert.Contains(t, code, "<p>Start with Acme today.</p>")
	// Metrics keep the unit attached to the value.
	assert.Contains(t, code, "<span>24x faster deploys</span>")
	// Images resolve to the desktop screenshot reference.
	assert.Contains(t, code, "gs://bucket/screenshots/run/desktop.png")
	// No tokens survive substitution.
	assert.NotContains(t, code, "{{")
}

func TestSubstituteSlotsEmptyProfile(t *testing.T) {
	tmpl := testTemplate()
	scene := model.NewNarrativeScene(0, model.BeatInvitation)
	scene.Title = "Go"

	code := customizer.SubstituteSlots(tmpl, scene, model.NewBrandProfile("https://example.dev"))

	// Missing brand data empties the slot rather than inventing values.
	assert.NotContains(t, code, "{{")
	assert.Contains(t, code, "<h1>Go</h1>")
	assert.Contains(t, code, "<span></span>")
}
