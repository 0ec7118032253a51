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

// Package narrative turns a brand profile into an ordered sequence of
// story scenes. This file defines the stock story arcs and how an arc of N
// acts maps onto emotional beats.
package narrative

import "github.com/bazaar-it/brandreel/internal/core/model"

// Arc is a named story shape. Acts holds the beat sequence for each
// supported scene count, keyed by the count.
type Arc struct {
	Name string
	Acts map[int][]model.EmotionalBeat
}

// beatWeights skews the duration split: the transformation beat is the
// payoff and gets the long scene, while the hook and the closing call to
// action stay punchy.
var beatWeights = map[model.EmotionalBeat]float64{
	model.BeatProblem:        0.6,
	model.BeatTension:        1.0,
	model.BeatDiscovery:      1.0,
	model.BeatTransformation: 1.7,
	model.BeatTriumph:        1.0,
	model.BeatInvitation:     0.6,
}

// MinScenes and MaxScenes bound the supported run shapes.
const (
	MinScenes = 2
	MaxScenes = 10
)

// HeroJourney: the viewer is the hero, the product is the guide. The
// default arc when no stronger signal exists.
var HeroJourney = Arc{
	Name: "hero-journey",
	Acts: map[int][]model.EmotionalBeat{
		2: {model.BeatProblem, model.BeatInvitation},
		3: {model.BeatProblem, model.BeatTransformation, model.BeatInvitation},
		4: {model.BeatProblem, model.BeatDiscovery, model.BeatTransformation, model.BeatInvitation},
		5: {model.BeatProblem, model.BeatTension, model.BeatDiscovery, model.BeatTransformation, model.BeatInvitation},
		6: {model.BeatProblem, model.BeatTension, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		7: {model.BeatProblem, model.BeatTension, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		8: {model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		9: {model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		10: {model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatDiscovery, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
	},
}

// ProblemAgitateSolve leans on pain: agitation beats outnumber discovery.
// Selected when the profile carries a strong problem statement.
var ProblemAgitateSolve = Arc{
	Name: "problem-agitate-solve",
	Acts: map[int][]model.EmotionalBeat{
		2: {model.BeatProblem, model.BeatInvitation},
		3: {model.BeatProblem, model.BeatTension, model.BeatInvitation},
		4: {model.BeatProblem, model.BeatTension, model.BeatTransformation, model.BeatInvitation},
		5: {model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatTransformation, model.BeatInvitation},
		6: {model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		7: {model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		8: {model.BeatProblem, model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		9: {model.BeatProblem, model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatDiscovery, model.BeatTransformation, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		10: {model.BeatProblem, model.BeatProblem, model.BeatTension, model.BeatTension, model.BeatTension, model.BeatDiscovery, model.BeatTransformation, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
	},
}

// CustomerSuccess opens on proof rather than pain: triumph and discovery
// carry the story. Selected when the profile is rich in testimonials and
// stats.
var CustomerSuccess = Arc{
	Name: "customer-success",
	Acts: map[int][]model.EmotionalBeat{
		2: {model.BeatTriumph, model.BeatInvitation},
		3: {model.BeatTriumph, model.BeatDiscovery, model.BeatInvitation},
		4: {model.BeatProblem, model.BeatDiscovery, model.BeatTriumph, model.BeatInvitation},
		5: {model.BeatProblem, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatInvitation},
		6: {model.BeatProblem, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatTriumph, model.BeatInvitation},
		7: {model.BeatProblem, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatTriumph, model.BeatInvitation},
		8: {model.BeatProblem, model.BeatTension, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTriumph, model.BeatTriumph, model.BeatInvitation},
		9: {model.BeatProblem, model.BeatTension, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTransformation, model.BeatTriumph, model.BeatTriumph, model.BeatInvitation},
		10: {model.BeatProblem, model.BeatTension, model.BeatDiscovery, model.BeatDiscovery, model.BeatDiscovery, model.BeatTransformation, model.BeatTransformation, model.BeatTriumph, model.BeatTriumph, model.BeatInvitation},
	},
}

// SelectArc picks the story shape from the profile's signals: heavy social
// proof wins customer-success, an explicit problem statement wins
// problem-agitate-solve, everything else tells the hero journey.
func SelectArc(profile *model.BrandProfile) Arc {
	proof := len(profile.SocialProof.Testimonials) + len(profile.SocialProof.Stats)
	if proof >= 4 {
		return CustomerSuccess
	}
	if profile.Product.ProblemStatement != "" {
		return ProblemAgitateSolve
	}
	return HeroJourney
}
