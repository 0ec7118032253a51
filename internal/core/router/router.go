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
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/bazaar-it/brandreel/internal/core/model"
)

// Router picks one template per scene. It is stateless across runs: the
// per-run variety state travels in the RunState the orchestrator owns.
type Router struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewRouter creates a Router. rng drives the weighted pick among the top
// candidates; tests inject a seeded source for determinism.
func NewRouter(catalog *Catalog, rng *rand.Rand) *Router {
	return &Router{catalog: catalog, rng: rng}
}

// RunState tracks template usage within a single generation run so the
// variety bonus can steer later scenes away from repeats.
type RunState struct {
	used map[string]int
}

func NewRunState() *RunState {
	return &RunState{used: make(map[string]int)}
}

func (s *RunState) mark(templateID string) {
	s.used[templateID]++
}

// Route selects a template for the scene. Candidates are filtered by beat
// category, requested style, and duration range; an empty result widens to
// the whole catalog with a beat penalty. The winner is a weighted-random
// pick among the top three scores.
func (r *Router) Route(scene *model.NarrativeScene, profile *model.BrandProfile, style model.StyleTier, state *RunState) (*model.RoutingDecision, error) {
	viable, offCategory := r.filter(scene, style)
	if len(viable) == 0 {
		return nil, fmt.Errorf("no template can serve beat %q even after widening; catalog is misconfigured", scene.Beat)
	}

	candidates := make([]model.ScoredCandidate, 0, len(viable))
	for _, tmpl := range viable {
		candidates = append(candidates, score(tmpl, scene, profile, state.used[tmpl.ID], offCategory))
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	top := candidates
	if len(top) > 3 {
		top = top[:3]
	}
	winner := top[r.weightedPick(top)]
	state.mark(winner.TemplateID)

	reasoning := fmt.Sprintf("beat=%s archetype=%s industry=%s style=%s widened=%t score=%.3f",
		scene.Beat, profile.Identity.Archetype, profile.Identity.Industry, style, offCategory, winner.Score)
	if offCategory {
		slog.Warn("template routing widened beyond beat category",
			"beat", scene.Beat, "scene", scene.Index, "winner", winner.TemplateID)
	}

	return &model.RoutingDecision{
		TemplateID: winner.TemplateID,
		Confidence: winner.Score,
		Candidates: candidates,
		Reasoning:  reasoning,
	}, nil
}

// filter returns the candidate set and whether the widening fallback was
// taken. The strict pass requires matching category, style support, and a
// duration range covering the scene.
func (r *Router) filter(scene *model.NarrativeScene, style model.StyleTier) ([]*model.Template, bool) {
	category := beatCategory[scene.Beat]

	strict := make([]*model.Template, 0)
	for _, tmpl := range r.catalog.Templates() {
		if tmpl.Category != category {
			continue
		}
		if !supportsStyle(tmpl, style) {
			continue
		}
		if scene.DurationFrames < tmpl.MinDurationFrames || scene.DurationFrames > tmpl.MaxDurationFrames {
			continue
		}
		strict = append(strict, tmpl)
	}
	if len(strict) > 0 {
		return strict, false
	}

	// Widen once: every template is in play and the beat mismatch is priced
	// into the score instead.
	return r.catalog.Templates(), true
}

func supportsStyle(tmpl *model.Template, style model.StyleTier) bool {
	if style == "" || len(tmpl.Characteristics.Styles) == 0 {
		return true
	}
	for _, s := range tmpl.Characteristics.Styles {
		if s == style {
			return true
		}
	}
	return false
}

// weightedPick returns an index into top, chosen with probability
// proportional to score.
func (r *Router) weightedPick(top []model.ScoredCandidate) int {
	var total float64
	for _, c := range top {
		total += c.Score
	}
	if total <= 0 {
		return 0
	}
	roll := r.rng.Float64() * total
	for i, c := range top {
		roll -= c.Score
		if roll < 0 {
			return i
		}
	}
	return len(top) - 1
}
