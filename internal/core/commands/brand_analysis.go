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

// This file defines the generative heart of the brand extractor. It takes
// the structured page content plus both viewport screenshots and asks the
// model for a complete brand profile as JSON.
//
// Logic flow:
//  1. Receive the *PageContent from the preceding extraction command.
//  2. Render the prompt template with the serialized page content and a
//     complete example profile (few-shot prompting keeps the output shape
//     honest).
//  3. Attach the raw screenshot bytes as inline image parts so the model
//     grounds colors, typography, and layout on what the page actually
//     looks like, not just its markup.
//  4. Put the raw JSON string on the context for BrandJsonToStruct to parse.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/cor"
	"github.com/bazaar-it/brandreel/internal/core/model"
)

// BrandAnalysisCreator prompts the generative model with page content and
// screenshots and outputs the model's brand profile JSON.
type BrandAnalysisCreator struct {
	cor.BaseCommand
	generativeAIModel        cloud.ContentGenerator
	template                 *template.Template
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
}

func NewBrandAnalysisCreator(
	name string,
	generativeAIModel cloud.ContentGenerator,
	template *template.Template) *BrandAnalysisCreator {

	out := &BrandAnalysisCreator{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template}

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))

	return out
}

func (t *BrandAnalysisCreator) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(t.GetInputParam()).(*PageContent)
	return ok
}

// GenerateParams builds the substitution map for the prompt template.
func (t *BrandAnalysisCreator) GenerateParams(content *PageContent) (map[string]interface{}, error) {
	params := make(map[string]interface{})

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page content: %w", err)
	}
	params["PAGE_CONTENT"] = string(contentJSON)

	exampleProfile, _ := json.Marshal(model.GetExampleBrandProfile())
	params["EXAMPLE_JSON"] = string(exampleProfile)
	params["ARCHETYPES"] = model.KnownArchetypes
	return params, nil
}

func (t *BrandAnalysisCreator) Execute(context cor.Context) {
	content := context.Get(t.GetInputParam()).(*PageContent)

	params, err := t.GenerateParams(content)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, params); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	parts := []*genai.Part{{Text: buffer.String()}}
	if capture, ok := context.Get(CaptureParamName).(*PageCapture); ok {
		for _, viewport := range []string{model.ViewportDesktop, model.ViewportMobile} {
			if data, ok := capture.Screenshots[viewport]; ok {
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{MIMEType: "image/png", Data: data},
				})
			}
		}
	}
	contents := []*genai.Content{{Parts: parts, Role: "user"}}

	out, err := cloud.GenerateText(context.GetContext(), t.geminiInputTokenCounter, t.geminiOutputTokenCounter, t.generativeAIModel, contents)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("gemini request failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
