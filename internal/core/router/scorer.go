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

package router

import (
	"strconv"
	"strings"

	"github.com/bazaar-it/brandreel/internal/core/model"
)

// Factor weights. They sum to 1.0 so a perfect candidate scores 1.0.
const (
	weightBeat      = 0.35
	weightArchetype = 0.20
	weightIndustry  = 0.15
	weightColor     = 0.10
	weightContent   = 0.12
	weightVariety   = 0.08
)

// score evaluates one template against a scene and profile. usedCount is
// how many times this template was already picked in the current run;
// offCategory marks candidates admitted by the widening fallback.
func score(tmpl *model.Template, scene *model.NarrativeScene, profile *model.BrandProfile, usedCount int, offCategory bool) model.ScoredCandidate {
	var b model.ScoreBreakdown

	beatFit := 1.0
	if offCategory {
		beatFit = 0.5
	}
	b.BeatCompatibility = weightBeat * beatFit

	b.ArchetypeAffinity = weightArchetype * tmpl.Characteristics.ArchetypeAffinity[string(profile.Identity.Archetype)]
	b.IndustryAffinity = weightIndustry * tmpl.Characteristics.IndustryAffinity[strings.ToLower(profile.Identity.Industry)]
	b.ColorCompat = weightColor * colorCompatibility(tmpl, profile)
	b.ContentFit = weightContent * contentFit(tmpl, scene, profile)
	if usedCount == 0 {
		b.VarietyBonus = weightVariety
	}

	b.Total = b.BeatCompatibility + b.ArchetypeAffinity + b.IndustryAffinity +
		b.ColorCompat + b.ContentFit + b.VarietyBonus

	return model.ScoredCandidate{TemplateID: tmpl.ID, Score: b.Total, Breakdown: b}
}

// colorCompatibility compares the template's declared aesthetic tone with
// the brand's primary color luminance. An unparseable or missing color is
// neutral, not a penalty.
func colorCompatibility(tmpl *model.Template, profile *model.BrandProfile) float64 {
	lum, ok := relativeLuminance(profile.Visual.PrimaryColor)
	if !ok || tmpl.Characteristics.AestheticTone == "" {
		return 0.5
	}
	brandIsDark := lum < 0.5
	templateIsDark := tmpl.Characteristics.AestheticTone == "dark"
	if brandIsDark == templateIsDark {
		return 1.0
	}
	return 0.0
}

// contentFit rewards templates whose structural features match what the
// scene actually has to show.
func contentFit(tmpl *model.Template, scene *model.NarrativeScene, profile *model.BrandProfile) float64 {
	fit := 0.5
	if tmpl.Characteristics.MultiElement {
		if len(scene.VisualElements) >= 2 {
			fit += 0.25
		} else {
			fit -= 0.25
		}
	}
	if tmpl.Characteristics.DataVisualization {
		if len(profile.SocialProof.Stats) > 0 {
			fit += 0.25
		} else {
			fit -= 0.25
		}
	}
	if fit < 0 {
		return 0
	}
	if fit > 1 {
		return 1
	}
	return fit
}

// relativeLuminance parses a #rgb or #rrggbb hex color and returns its
// perceptual luminance in [0, 1].
func relativeLuminance(hex string) (float64, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	r := float64((v>>16)&0xff) / 255.0
	g := float64((v>>8)&0xff) / 255.0
	b := float64(v&0xff) / 255.0
	return 0.2126*r + 0.7152*g + 0.0722*b, true
}
