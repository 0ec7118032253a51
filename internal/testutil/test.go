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

// Package test provides shared helpers for the test suite: a cached test
// configuration, environment setup pointing the loader at the test TOML
// files, and canned request payloads.
package test

import (
	"log"
	"log/slog"
	"os"
	"testing"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/bazaar-it/brandreel/internal/cloud"
)

type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// NewLogger returns an OpenTelemetry-bridged slog logger for a test suite,
// so test log output carries the same correlation attributes as the server.
func NewLogger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// HandleErr fails the test if err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestGenerationRequestText returns a queued generation request payload
// as it would arrive from Pub/Sub.
func GetTestGenerationRequestText() string {
	return `{
  "project_id": "proj-unit-test",
  "url": "https://example.dev",
  "style": "dynamic",
  "scene_count": 5,
  "duration_seconds": 20
}`
}

// SetupOS points the configuration loader at the test TOML overrides.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig loads the test configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}
