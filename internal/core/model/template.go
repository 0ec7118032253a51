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
// pipeline. This file holds the template catalog types and the router's
// per-scene output. Templates are declarative: a new template is added by
// declaring its characteristics vector in the catalog, never by editing
// dispatch code.
package model

// TemplateCategory tags a template with the emotional beat family it was
// designed for.
type TemplateCategory string

const (
	CategoryProblem        TemplateCategory = "problem"
	CategoryDiscovery      TemplateCategory = "discovery"
	CategoryTransformation TemplateCategory = "transformation"
	CategoryTriumph        TemplateCategory = "triumph"
	CategoryInvitation     TemplateCategory = "invitation"
	CategoryTransition     TemplateCategory = "transition"
)

// StyleTier is the requested visual energy of a run.
type StyleTier string

const (
	StyleMinimal StyleTier = "minimal"
	StyleDynamic StyleTier = "dynamic"
	StyleBold    StyleTier = "bold"
)

// TemplateSlots declares what the customizer is allowed to rewrite in a
// template's code. Everything else (structure, animation logic) is kept.
type TemplateSlots struct {
	Colors  []string `yaml:"colors" json:"colors"`   // named color tokens, e.g. "primary"
	Text    []string `yaml:"text" json:"text"`       // named text tokens, e.g. "headline"
	Images  []string `yaml:"images" json:"images"`   // named image refs
	Metrics []string `yaml:"metrics" json:"metrics"` // numeric stat tokens
}

// TemplateCharacteristics is the scoring vector a template declares. All
// scalar axes are 0..1; affinity maps score named archetypes/industries.
type TemplateCharacteristics struct {
	AestheticTone     string             `yaml:"aesthetic_tone" json:"aesthetic_tone"` // "light" or "dark"
	VisualComplexity  float64            `yaml:"visual_complexity" json:"visual_complexity"`
	EnergyLevel       float64            `yaml:"energy_level" json:"energy_level"`
	ArchetypeAffinity map[string]float64 `yaml:"archetype_affinity" json:"archetype_affinity"`
	IndustryAffinity  map[string]float64 `yaml:"industry_affinity" json:"industry_affinity"`
	MultiElement      bool               `yaml:"multi_element" json:"multi_element"`
	DataVisualization bool               `yaml:"data_visualization" json:"data_visualization"`
	Styles            []StyleTier        `yaml:"styles" json:"styles"`
}

// Template is one reusable, parameterized visual unit from the catalog.
// The catalog is loaded once at process start and never mutated at runtime.
type Template struct {
	ID                string                  `yaml:"id" json:"id"`
	Name              string                  `yaml:"name" json:"name"`
	Category          TemplateCategory        `yaml:"category" json:"category"`
	MinDurationFrames int                     `yaml:"min_duration_frames" json:"min_duration_frames"`
	MaxDurationFrames int                     `yaml:"max_duration_frames" json:"max_duration_frames"`
	Slots             TemplateSlots           `yaml:"slots" json:"slots"`
	Characteristics   TemplateCharacteristics `yaml:"characteristics" json:"characteristics"`
	Code              string                  `yaml:"code" json:"-"`
}

// ScoreBreakdown records the weighted factors behind one candidate's score,
// kept for observability rather than for any runtime decision.
type ScoreBreakdown struct {
	BeatCompatibility float64 `json:"beat_compatibility"`
	ArchetypeAffinity float64 `json:"archetype_affinity"`
	IndustryAffinity  float64 `json:"industry_affinity"`
	ColorCompat       float64 `json:"color_compat"`
	ContentFit        float64 `json:"content_fit"`
	VarietyBonus      float64 `json:"variety_bonus"`
	Total             float64 `json:"total"`
}

// ScoredCandidate pairs a template with its score for ranking.
type ScoredCandidate struct {
	TemplateID string         `json:"template_id"`
	Score      float64        `json:"score"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// RoutingDecision is the router's per-scene output: the winning template,
// its confidence, the ranked alternatives, and a human-readable reasoning
// string. It is consumed immediately by the customizer and retained only in
// logs.
type RoutingDecision struct {
	TemplateID string            `json:"template_id"`
	Confidence float64           `json:"confidence"`
	Candidates []ScoredCandidate `json:"candidates"`
	Reasoning  string            `json:"reasoning"`
}
