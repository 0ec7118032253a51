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
// pipeline. This file holds the Brand Profile: the normalized result of
// analyzing one website URL. A profile is created once per generation run,
// is immutable after creation, and is owned exclusively by that run.
package model

// BrandArchetype is the closed set of brand personalities the extractor
// classifies a site into. The router scores template affinity against it.
type BrandArchetype string

const (
	ArchetypeInnovator    BrandArchetype = "innovator"
	ArchetypeProtector    BrandArchetype = "protector"
	ArchetypeSophisticate BrandArchetype = "sophisticate"
	ArchetypeEveryman     BrandArchetype = "everyman"
	ArchetypeProfessional BrandArchetype = "professional"
)

// KnownArchetypes lists every valid BrandArchetype value. The analysis
// prompt embeds this list so the model cannot invent new ones.
var KnownArchetypes = []BrandArchetype{
	ArchetypeInnovator,
	ArchetypeProtector,
	ArchetypeSophisticate,
	ArchetypeEveryman,
	ArchetypeProfessional,
}

// BrandIdentity holds who the brand says it is.
type BrandIdentity struct {
	Name      string         `json:"name"`
	Tagline   string         `json:"tagline,omitempty"`
	Mission   string         `json:"mission,omitempty"`
	Archetype BrandArchetype `json:"archetype"`
	Industry  string         `json:"industry"` // e.g. "fintech", "healthcare", "developer tools"
}

// BrandVisual holds the extracted visual system: colors as hex strings,
// preferred fonts, and loose shadow/spacing hints the customizer forwards
// into generated scene code.
type BrandVisual struct {
	PrimaryColor   string   `json:"primary_color"`
	SecondaryColor string   `json:"secondary_color,omitempty"`
	AccentColor    string   `json:"accent_color,omitempty"`
	Fonts          []string `json:"fonts"`
	ShadowHint     string   `json:"shadow_hint,omitempty"`
	SpacingHint    string   `json:"spacing_hint,omitempty"`
}

// BrandVoice describes how the brand talks.
type BrandVoice struct {
	Tone       string   `json:"tone,omitempty"` // e.g. "confident", "playful"
	Adjectives []string `json:"adjectives"`
}

// Feature is one product capability as presented on the page. The extractor
// never caps the feature list at a fixed count; any truncation is a
// display-layer decision outside this pipeline.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// BrandProduct holds the product story: the problem, the pitch, and the
// concrete capabilities backing it.
type BrandProduct struct {
	ProblemStatement string    `json:"problem_statement,omitempty"`
	ValueHeadline    string    `json:"value_headline,omitempty"`
	ValueSubhead     string    `json:"value_subhead,omitempty"`
	Features         []Feature `json:"features"`
	TargetAudiences  []string  `json:"target_audiences"`
	CallsToAction    []string  `json:"calls_to_action"`
}

// Testimonial is one quoted customer voice.
type Testimonial struct {
	Quote   string `json:"quote"`
	Author  string `json:"author,omitempty"`
	Company string `json:"company,omitempty"`
}

// Stat is a numeric proof point. The unit stays attached to the value
// exactly as scraped ("24x faster", "95% reduction"); it is never coerced
// into a generic placeholder.
type Stat struct {
	Value string `json:"value"` // e.g. "24x"
	Label string `json:"label"` // e.g. "faster deploys"
}

// BrandSocialProof aggregates testimonials, customer logos, trust badges,
// and numeric stats found on the page.
type BrandSocialProof struct {
	Testimonials []Testimonial `json:"testimonials"`
	Logos        []string      `json:"logos"`
	TrustBadges  []string      `json:"trust_badges"`
	Stats        []Stat        `json:"stats"`
}

// Screenshot viewport keys used in BrandMedia.Screenshots.
const (
	ViewportDesktop = "desktop"
	ViewportMobile  = "mobile"
)

// BrandMedia holds references to captured page screenshots, keyed by
// viewport. Values are blob storage object names, not raw bytes.
type BrandMedia struct {
	Screenshots map[string]string `json:"screenshots"`
}

// BrandProfile is the normalized result of analyzing one URL. Every list
// field defaults to an empty collection, never nil: a gap in extraction is
// represented by emptiness, not by a fabricated value.
type BrandProfile struct {
	URL         string           `json:"url"`
	Identity    BrandIdentity    `json:"identity"`
	Visual      BrandVisual      `json:"visual"`
	Voice       BrandVoice       `json:"voice"`
	Product     BrandProduct     `json:"product"`
	SocialProof BrandSocialProof `json:"social_proof"`
	Media       BrandMedia       `json:"media"`
}

// NewBrandProfile creates a profile for the given URL with every collection
// initialized empty, upholding the no-nil-lists invariant.
func NewBrandProfile(url string) *BrandProfile {
	return &BrandProfile{
		URL: url,
		Visual: BrandVisual{
			Fonts: make([]string, 0),
		},
		Voice: BrandVoice{
			Adjectives: make([]string, 0),
		},
		Product: BrandProduct{
			Features:        make([]Feature, 0),
			TargetAudiences: make([]string, 0),
			CallsToAction:   make([]string, 0),
		},
		SocialProof: BrandSocialProof{
			Testimonials: make([]Testimonial, 0),
			Logos:        make([]string, 0),
			TrustBadges:  make([]string, 0),
			Stats:        make([]Stat, 0),
		},
		Media: BrandMedia{
			Screenshots: make(map[string]string),
		},
	}
}

// Normalize repairs nil collections on a profile that was unmarshaled from
// model output, restoring the empty-collection invariant without touching
// populated fields.
func (p *BrandProfile) Normalize() {
	if p.Visual.Fonts == nil {
		p.Visual.Fonts = make([]string, 0)
	}
	if p.Voice.Adjectives == nil {
		p.Voice.Adjectives = make([]string, 0)
	}
	if p.Product.Features == nil {
		p.Product.Features = make([]Feature, 0)
	}
	if p.Product.TargetAudiences == nil {
		p.Product.TargetAudiences = make([]string, 0)
	}
	if p.Product.CallsToAction == nil {
		p.Product.CallsToAction = make([]string, 0)
	}
	if p.SocialProof.Testimonials == nil {
		p.SocialProof.Testimonials = make([]Testimonial, 0)
	}
	if p.SocialProof.Logos == nil {
		p.SocialProof.Logos = make([]string, 0)
	}
	if p.SocialProof.TrustBadges == nil {
		p.SocialProof.TrustBadges = make([]string, 0)
	}
	if p.SocialProof.Stats == nil {
		p.SocialProof.Stats = make([]Stat, 0)
	}
	if p.Media.Screenshots == nil {
		p.Media.Screenshots = make(map[string]string)
	}
}
