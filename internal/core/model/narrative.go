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
// pipeline. This file holds the narrative layer: one NarrativeScene per
// story beat, produced in bulk by the narrative generator and consumed one
// at a time by the router and customizer.
package model

// EmotionalBeat names the narrative role a scene plays. The set is
// extensible; these are the beats the stock arcs use.
type EmotionalBeat string

const (
	BeatProblem        EmotionalBeat = "problem"
	BeatTension        EmotionalBeat = "tension"
	BeatDiscovery      EmotionalBeat = "discovery"
	BeatTransformation EmotionalBeat = "transformation"
	BeatTriumph        EmotionalBeat = "triumph"
	BeatInvitation     EmotionalBeat = "invitation"
)

// FrameRate is the fixed frame rate scene durations are expressed in.
const FrameRate = 30

// NarrativeScene is one beat of the story arc. Durations are in frames at
// FrameRate; across one run they sum exactly to the requested total.
type NarrativeScene struct {
	Index          int           `json:"index"`
	Title          string        `json:"title"`
	DurationFrames int           `json:"duration_frames"`
	Description    string        `json:"description"`
	Beat           EmotionalBeat `json:"beat"`
	VisualElements []string      `json:"visual_elements"`
}

// NewNarrativeScene creates a scene with its visual element list
// initialized empty.
func NewNarrativeScene(index int, beat EmotionalBeat) *NarrativeScene {
	return &NarrativeScene{
		Index:          index,
		Beat:           beat,
		VisualElements: make([]string, 0),
	}
}
