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
// pipeline. This file holds the streaming events the orchestrator emits to
// its caller. Events live only on the wire: one JSON object per line over
// whatever push channel the host chose.
package model

// Streaming event types.
const (
	EventProgress   = "progress"
	EventSceneAdded = "scene_added"
	EventComplete   = "complete"
	EventFailed     = "failed"
)

// StreamEvent is one progress/completion notification. The populated fields
// depend on Type; omitempty keeps each line minimal. SceneIndex must not be
// omitempty: the first scene of every run has index 0, and clients key off
// the field being present on scene_added lines. TotalScenes and
// ProgressPercent stay omitempty because they are structurally nonzero on
// every event that carries them (a run has at least one scene, and the
// percent counts completed scenes, never zero of them).
type StreamEvent struct {
	Type string `json:"type"`

	// progress
	Message string `json:"message,omitempty"`

	// scene_added
	SceneIndex      int    `json:"sceneIndex"`
	SceneName       string `json:"sceneName,omitempty"`
	TotalScenes     int    `json:"totalScenes,omitempty"`
	SceneID         string `json:"sceneId,omitempty"`
	ProgressPercent int    `json:"progressPercent,omitempty"`

	// complete
	Summary string `json:"summary,omitempty"`

	// failed
	Reason string `json:"reason,omitempty"`
}

// ProgressEvent narrates a long-running stage so the caller is never silent
// for more than one stage's latency.
func ProgressEvent(message string) StreamEvent {
	return StreamEvent{Type: EventProgress, Message: message}
}

// SceneAddedEvent reports a scene that is already durably stored. The
// orchestrator never emits this before the persist completes.
func SceneAddedEvent(index int, name string, total int, sceneID string) StreamEvent {
	return StreamEvent{
		Type:            EventSceneAdded,
		SceneIndex:      index,
		SceneName:       name,
		TotalScenes:     total,
		SceneID:         sceneID,
		ProgressPercent: ((index + 1) * 100) / total,
	}
}

// CompleteEvent terminates a successful run.
func CompleteEvent(total int, summary string) StreamEvent {
	return StreamEvent{Type: EventComplete, TotalScenes: total, Summary: summary}
}

// FailedEvent terminates a failed run.
func FailedEvent(reason string) StreamEvent {
	return StreamEvent{Type: EventFailed, Reason: reason}
}
