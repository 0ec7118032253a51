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

// Package cloud holds the configuration structures loaded from TOML files
// and the clients for every external service the pipeline touches: Google
// Cloud Storage for screenshot blobs, BigQuery for the durable scene store,
// Pub/Sub for queued generation requests, Vertex AI for the generative
// steps, and the headless browser pool for extraction.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings disables content blocking for all harm categories.
// The pipeline only ever analyzes customer-supplied marketing sites, so the
// input is trusted and a blocked response would just surface as a parse
// failure.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Browser configures the shared headless browser pool used by the brand
// extractor.
type Browser struct {
	PoolSize          int `toml:"pool_size"`           // hard ceiling on concurrent browser tabs
	NavTimeoutSeconds int `toml:"nav_timeout_seconds"` // fatal page-load bound
	CaptureRetries    int `toml:"capture_retries"`     // per-viewport screenshot attempts
	MaxImageWidth     int `toml:"max_image_width"`     // screenshots are downscaled to this before model upload
}

// Storage configures the screenshot blob bucket.
type Storage struct {
	ScreenshotBucket string `toml:"screenshot_bucket"`
}

// BigQueryDataSource configures the durable scene store.
type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`
	SceneTable  string `toml:"scene_table"`
}

// PromptTemplates holds the Go text/template sources for every generative
// call in the pipeline.
type PromptTemplates struct {
	BrandAnalysis   string `toml:"brand_analysis"`   // screenshots + structured content -> BrandProfile JSON
	Narrative       string `toml:"narrative"`        // BrandProfile -> scene wording
	Customize       string `toml:"customize"`        // template + profile + scene -> scene code
	CustomizeRepair string `toml:"customize_repair"` // corrective "fix only the syntax" follow-up
}

// VertexAiLLMModel configures one named Vertex AI model.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	RateLimit          int     `toml:"rate_limit"` // requests per second
}

// TopicSubscription configures one Pub/Sub subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`
	DeadLetterTopic  string `toml:"dead_letter_topic"`
	TimeoutInSeconds int    `toml:"timeout_in_seconds"`
}

// Catalog configures where the template catalog YAML files live.
type Catalog struct {
	Dir string `toml:"dir"`
}

// Pipeline holds run-shape defaults used when the caller specifies nothing.
type Pipeline struct {
	DefaultSceneCount      int `toml:"default_scene_count"`
	DefaultDurationSeconds int `toml:"default_duration_seconds"`
}

// Config is the top-level application configuration, loaded from
// `.env.toml` plus a runtime-specific override file.
type Config struct {
	Application struct {
		Name                      string `toml:"name"`
		GoogleProjectId           string `toml:"google_project_id"`
		GoogleLocation            string `toml:"location"`
		SignerServiceAccountEmail string `toml:"signer_service_account_email"`
	} `toml:"application"`
	Browser            Browser                      `toml:"browser"`
	Storage            Storage                      `toml:"storage"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	Catalog            Catalog                      `toml:"catalog"`
	Pipeline           Pipeline                     `toml:"pipeline"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`
}

// NewConfig creates a Config with its map fields initialized so the TOML
// loader never hits a nil map.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
	}
}
