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

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaar-it/brandreel/internal/core/commands"
)

const landingPageHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Acme | Ship faster</title>
  <meta name="description" content="Acme deploys your code in seconds.">
  <meta name="theme-color" content="#1a1a2e">
</head>
<body>
  <header><img src="/assets/logo.svg" alt="Acme logo"></header>
  <h1>Ship faster with Acme</h1>
  <section class="features">
    <div class="feature-card"><h3>Instant Deploys</h3><p>Push and it is live.</p></div>
    <div class="feature-card"><h3>Zero Config</h3><p>No pipeline files required.</p></div>
  </section>
  <section class="proof">
    <div class="stat"><strong>10k+</strong><span>teams</span></div>
    <div class="stat"><strong>99.9%</strong><span>uptime</span></div>
    <div class="stat"><strong>Fast</strong><span>not a number</span></div>
  </section>
  <section class="social">
    <div class="testimonial"><p>Acme changed how we ship.</p><span class="author">Dana, CTO</span></div>
  </section>
  <h2>How it works</h2>
  <p>Connect your repo and push.</p>
  <a class="btn" href="/signup">Start free</a>
  <blockquote>Best tool we ever adopted.<cite>Sam</cite></blockquote>
</body>
</html>`

func landingCapture() *commands.PageCapture {
	return &commands.PageCapture{
		URL:   "https://acme.dev",
		HTML:  landingPageHTML,
		Title: "Acme | Ship faster",
	}
}

func TestExtractContentSemantics(t *testing.T) {
	content, err := commands.ExtractContent(landingCapture())
	assert.NoError(t, err)

	assert.Equal(t, "https://acme.dev", content.URL)
	assert.Equal(t, "Acme | Ship faster", content.Title)
	assert.Equal(t, "Acme deploys your code in seconds.", content.Description)
	assert.Equal(t, "#1a1a2e", content.ThemeColor)

	levels := make(map[int][]string)
	for _, h := range content.Headings {
		levels[h.Level] = append(levels[h.Level], h.Text)
	}
	assert.Equal(t, []string{"Ship faster with Acme"}, levels[1])
	assert.Equal(t, []string{"How it works"}, levels[2])
	assert.Contains(t, levels[3], "Instant Deploys")

	assert.Contains(t, content.LogoURLs, "/assets/logo.svg")
	assert.Contains(t, content.CTAs, "Start free")
}

func TestExtractContentFeatures(t *testing.T) {
	content, err := commands.ExtractContent(landingCapture())
	assert.NoError(t, err)

	titles := make([]string, 0, len(content.Features))
	for _, f := range content.Features {
		titles = append(titles, f.Title)
	}
	assert.Contains(t, titles, "Instant Deploys")
	assert.Contains(t, titles, "Zero Config")

	// The wrapping .features section must not produce a duplicate of its
	// first card.
	seen := make(map[string]int)
	for _, title := range titles {
		seen[title]++
		assert.Equal(t, 1, seen[title], "feature %q extracted twice", title)
	}

	for _, f := range content.Features {
		if f.Title == "Zero Config" {
			assert.Equal(t, "No pipeline files required.", f.Body)
		}
	}
}

// TestExtractContentStats checks that published values keep their units and
// that non-numeric stat blocks are dropped.
func TestExtractContentStats(t *testing.T) {
	content, err := commands.ExtractContent(landingCapture())
	assert.NoError(t, err)

	values := make(map[string]string)
	for _, s := range content.Stats {
		values[s.Value] = s.Label
	}
	assert.Equal(t, "teams", values["10k+"])
	assert.Equal(t, "uptime", values["99.9%"])
	_, hasJunk := values["Fast"]
	assert.False(t, hasJunk, "non-numeric stat value should be rejected")
}

func TestExtractContentTestimonials(t *testing.T) {
	content, err := commands.ExtractContent(landingCapture())
	assert.NoError(t, err)

	byText := make(map[string]string)
	for _, q := range content.Testimonials {
		byText[q.Text] = q.Author
	}
	assert.Equal(t, "Sam", byText["Best tool we ever adopted."])
	assert.Equal(t, "Dana, CTO", byText["Acme changed how we ship."])
}

func TestExtractContentSections(t *testing.T) {
	content, err := commands.ExtractContent(landingCapture())
	assert.NoError(t, err)

	assert.Len(t, content.Sections, 1)
	assert.Equal(t, "How it works", content.Sections[0].Heading)
	assert.Equal(t, "Connect your repo and push.", content.Sections[0].Text)
}

func TestExtractContentEmptyPage(t *testing.T) {
	content, err := commands.ExtractContent(&commands.PageCapture{
		URL:  "https://blank.example",
		HTML: "<html><body></body></html>",
	})
	assert.NoError(t, err)

	// Collections are empty, never nil, so downstream JSON marshals arrays.
	assert.NotNil(t, content.Headings)
	assert.NotNil(t, content.Features)
	assert.NotNil(t, content.Stats)
	assert.NotNil(t, content.CTAs)
	assert.Len(t, content.Features, 0)
}

func TestExtractionError(t *testing.T) {
	cause := context.DeadlineExceeded
	err := &commands.ExtractionError{
		Reason: commands.ReasonTimeout,
		URL:    "https://slow.example",
		Err:    cause,
	}

	assert.Contains(t, err.Error(), "https://slow.example")
	assert.Contains(t, err.Error(), string(commands.ReasonTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	var target *commands.ExtractionError
	wrapped := errors.Join(errors.New("capture-page"), err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, commands.ReasonTimeout, target.Reason)
}
