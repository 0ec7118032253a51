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
// pipeline. This file provides hardcoded example instances used for
// few-shot prompting: embedding a concrete instance of the desired JSON
// structure in a prompt keeps the generative model's output consistent and
// parsable.
package model

// GetExampleBrandProfile returns a sample profile embedded in the brand
// analysis prompt so the model mirrors its exact JSON shape.
func GetExampleBrandProfile() *BrandProfile {
	p := NewBrandProfile("https://ledgerly.example.com")
	p.Identity = BrandIdentity{
		Name:      "Ledgerly",
		Tagline:   "Close your books in minutes, not weeks",
		Mission:   "Make financial operations invisible for growing teams",
		Archetype: ArchetypeInnovator,
		Industry:  "fintech",
	}
	p.Visual = BrandVisual{
		PrimaryColor:   "#0B1F3B",
		SecondaryColor: "#FFFFFF",
		AccentColor:    "#2EE6A8",
		Fonts:          []string{"Inter", "JetBrains Mono"},
		ShadowHint:     "soft",
		SpacingHint:    "airy",
	}
	p.Voice = BrandVoice{
		Tone:       "confident",
		Adjectives: []string{"precise", "modern", "calm"},
	}
	p.Product = BrandProduct{
		ProblemStatement: "Finance teams waste days reconciling transactions by hand",
		ValueHeadline:    "Automated reconciliation for modern finance teams",
		ValueSubhead:     "Connect your accounts and watch the ledger close itself",
		Features: []Feature{
			{Title: "Auto-matching", Description: "Transactions matched across accounts in real time"},
			{Title: "Anomaly alerts", Description: "Outliers surfaced before they hit the close"},
		},
		TargetAudiences: []string{"startup finance teams", "controllers"},
		CallsToAction:   []string{"Start free trial", "Book a demo"},
	}
	p.SocialProof = BrandSocialProof{
		Testimonials: []Testimonial{
			{Quote: "Our close went from nine days to one.", Author: "Dana Ferris", Company: "McKenna Labs"},
		},
		Logos:       []string{"McKenna Labs", "Northbeam"},
		TrustBadges: []string{"SOC 2 Type II"},
		Stats: []Stat{
			{Value: "9x", Label: "faster close"},
			{Value: "99.98%", Label: "match accuracy"},
		},
	}
	return p
}

// GetExampleNarrativeScenes returns a short sample arc embedded in the
// narrative prompt. Scene content varies run to run; only the JSON shape is
// the point here.
func GetExampleNarrativeScenes() []*NarrativeScene {
	return []*NarrativeScene{
		{
			Index:          0,
			Title:          "The Nine Day Close",
			DurationFrames: 120,
			Description:    "Spreadsheets multiply across the screen while a clock spins; the pain of a manual close.",
			Beat:           BeatProblem,
			VisualElements: []string{"spreadsheet grid", "spinning clock", "muted palette"},
		},
		{
			Index:          1,
			Title:          "One Connection",
			DurationFrames: 90,
			Description:    "A single account connection cascades into matched transactions lighting up in brand green.",
			Beat:           BeatDiscovery,
			VisualElements: []string{"connection line", "cascading checkmarks"},
		},
	}
}
