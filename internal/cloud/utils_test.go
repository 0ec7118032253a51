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

package cloud_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/bazaar-it/brandreel/internal/cloud"
)

type cannedModel struct {
	text string
	err  error
}

func (m *cannedModel) GenerateContent(_ context.Context, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: m.text}}}},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 34,
		},
	}, nil
}

func TestGenerateTextStripsFencing(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"tsx fence", "```tsx\nexport default function S() {}\n```", "export default function S() {}"},
		{"plain fence", "```\nhello\n```", "hello"},
		{"padding", "  \n{\"a\": 1}\n\n", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := cloud.GenerateText(context.Background(), nil, nil,
				&cannedModel{text: tc.raw}, cloud.NewTextContent("prompt"))
			assert.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestGenerateTextPropagatesError(t *testing.T) {
	_, err := cloud.GenerateText(context.Background(), nil, nil,
		&cannedModel{err: fmt.Errorf("quota exhausted")}, cloud.NewTextContent("prompt"))
	assert.Error(t, err)
}

func TestLoadConfigOverlay(t *testing.T) {
	dir := t.TempDir()

	base := `
[application]
name = "brandreel"
google_project_id = "base-project"

[browser]
pool_size = 4
nav_timeout_seconds = 30

[agent_models.brand-analyst]
model = "gemini-2.0-flash"
rate_limit = 10
`
	override := `
[application]
google_project_id = "test-project"

[browser]
pool_size = 1
`
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.unittest.toml"), []byte(override), 0o644))

	t.Setenv(cloud.EnvConfigFilePrefix, dir+string(os.PathSeparator))
	t.Setenv(cloud.EnvConfigRuntime, "unittest")

	config := cloud.NewConfig()
	cloud.LoadConfig(config)

	// Overridden values win, everything else survives from the base file.
	assert.Equal(t, "test-project", config.Application.GoogleProjectId)
	assert.Equal(t, "brandreel", config.Application.Name)
	assert.Equal(t, 1, config.Browser.PoolSize)
	assert.Equal(t, 30, config.Browser.NavTimeoutSeconds)

	analyst, ok := config.AgentModels["brand-analyst"]
	assert.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash", analyst.Model)
	assert.Equal(t, 10, analyst.RateLimit)
}

func TestLoadConfigRuntimeDefaultsToTest(t *testing.T) {
	dir := t.TempDir()

	base := `
[application]
name = "brandreel"
`
	testOverride := `
[application]
name = "brandreel-test"
`
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(testOverride), 0o644))

	t.Setenv(cloud.EnvConfigFilePrefix, dir+string(os.PathSeparator))
	t.Setenv(cloud.EnvConfigRuntime, "")

	config := cloud.NewConfig()
	cloud.LoadConfig(config)

	assert.Equal(t, "brandreel-test", config.Application.Name)
}
