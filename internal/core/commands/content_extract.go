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

package commands

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bazaar-it/brandreel/internal/core/cor"
)

// ContentParamName is the context key the structured page content is stored
// under, in addition to the chain's piped output.
const ContentParamName = "__page_content__"

// PageContent is the structured distillation of a captured page that the
// brand analysis prompt is grounded on. Collections are unbounded: every
// block the selectors match is carried through, and the model decides what
// matters.
type PageContent struct {
	URL          string         `json:"url"`
	Title        string         `json:"title"`
	Description  string         `json:"meta_description"`
	ThemeColor   string         `json:"theme_color,omitempty"`
	Headings     []Heading      `json:"headings"`
	Features     []FeatureBlock `json:"features"`
	Testimonials []Quote        `json:"testimonials"`
	Stats        []StatBlock    `json:"stats"`
	CTAs         []string       `json:"call_to_actions"`
	LogoURLs     []string       `json:"logo_urls"`
	Sections     []Section      `json:"sections"`
}

type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type FeatureBlock struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// StatBlock preserves the value exactly as published, unit and all, so the
// downstream profile never invents precision ("10k+" stays "10k+").
type StatBlock struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Section is a heading-delimited slice of body text used as a catch-all for
// content the more specific passes miss.
type Section struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// statValuePattern matches numeric marketing figures: "10k+", "99.9%",
// "$4M", "24/7".
var statValuePattern = regexp.MustCompile(`^[~>$€£]?\d[\d,.]*\s?[kKmMbB%+x×]*\+?$|^\d+/\d+$`)

// ContentExtractCommand parses the captured HTML into a PageContent. Input
// is the *PageCapture from the preceding command.
type ContentExtractCommand struct {
	cor.BaseCommand
}

func NewContentExtractCommand(name string) *ContentExtractCommand {
	return &ContentExtractCommand{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *ContentExtractCommand) IsExecutable(context cor.Context) bool {
	if context.Get(c.GetInputParam()) == nil {
		return false
	}
	_, ok := context.Get(c.GetInputParam()).(*PageCapture)
	return ok
}

func (c *ContentExtractCommand) Execute(context cor.Context) {
	capture := context.Get(c.GetInputParam()).(*PageCapture)

	content, err := ExtractContent(capture)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("content extraction: %w", err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ContentParamName, content)
	context.Add(cor.CtxOut, content)
}

// ExtractContent runs three passes over the DOM: semantic containers
// (header, nav, footer, meta), repeated list structures (feature grids,
// testimonial cards, stat strips), and finally heading-delimited sections
// as the catch-all.
func ExtractContent(capture *PageCapture) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(capture.HTML))
	if err != nil {
		return nil, err
	}

	content := &PageContent{
		URL:          capture.URL,
		Title:        strings.TrimSpace(capture.Title),
		Headings:     []Heading{},
		Features:     []FeatureBlock{},
		Testimonials: []Quote{},
		Stats:        []StatBlock{},
		CTAs:         []string{},
		LogoURLs:     []string{},
		Sections:     []Section{},
	}

	extractSemantics(doc, content)
	extractListStructures(doc, content)
	extractSections(doc, content)

	return content, nil
}

// extractSemantics is pass one: document metadata and the elements whose
// tags declare their role.
func extractSemantics(doc *goquery.Document, content *PageContent) {
	if content.Title == "" {
		content.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		val, _ := s.Attr("content")
		val = strings.TrimSpace(val)
		if val == "" {
			return
		}
		switch {
		case name == "description" || property == "og:description":
			if content.Description == "" {
				content.Description = val
			}
		case name == "theme-color":
			content.ThemeColor = val
		case property == "og:title" && content.Title == "":
			content.Title = val
		}
	})

	for level := 1; level <= 3; level++ {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			text := normalizeSpace(s.Text())
			if text != "" {
				content.Headings = append(content.Headings, Heading{Level: level, Text: text})
			}
		})
	}

	doc.Find(`img[alt*="logo" i], img[class*="logo" i], img[src*="logo" i]`).Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			content.LogoURLs = appendUnique(content.LogoURLs, strings.TrimSpace(src))
		}
	})

	doc.Find(`a[class*="btn" i], a[class*="button" i], a[class*="cta" i], button`).Each(func(_ int, s *goquery.Selection) {
		text := normalizeSpace(s.Text())
		if text != "" && len(text) <= 60 {
			content.CTAs = appendUnique(content.CTAs, text)
		}
	})

	doc.Find("blockquote, q").Each(func(_ int, s *goquery.Selection) {
		text := normalizeSpace(s.Text())
		if text == "" {
			return
		}
		author := normalizeSpace(s.Find("cite, footer").Text())
		text = strings.TrimSuffix(text, author)
		content.Testimonials = append(content.Testimonials, Quote{Text: normalizeSpace(text), Author: author})
	})
}

// extractListStructures is pass two: repeated card/grid patterns that carry
// the feature set, the social proof, and the headline metrics.
func extractListStructures(doc *goquery.Document, content *PageContent) {
	doc.Find(`[class*="feature" i], [class*="benefit" i], [class*="service" i]`).Each(func(_ int, s *goquery.Selection) {
		title := normalizeSpace(s.Find("h2, h3, h4, h5").First().Text())
		body := normalizeSpace(s.Find("p").First().Text())
		if title == "" || seenFeature(content.Features, title) {
			return
		}
		content.Features = append(content.Features, FeatureBlock{Title: title, Body: body})
	})

	doc.Find(`[class*="testimonial" i], [class*="review" i], [class*="quote" i]`).Each(func(_ int, s *goquery.Selection) {
		text := normalizeSpace(s.Find("p").First().Text())
		if text == "" || seenQuote(content.Testimonials, text) {
			return
		}
		author := normalizeSpace(s.Find(`[class*="author" i], [class*="name" i], cite`).First().Text())
		content.Testimonials = append(content.Testimonials, Quote{Text: text, Author: author})
	})

	doc.Find(`[class*="stat" i], [class*="metric" i], [class*="number" i], [class*="counter" i]`).Each(func(_ int, s *goquery.Selection) {
		value := normalizeSpace(s.Find("strong, b, h2, h3, [class*='value' i]").First().Text())
		label := normalizeSpace(s.Find("p, span, [class*='label' i]").First().Text())
		if value == "" {
			// Sometimes the whole node is "500+ teams" with no inner split.
			fields := strings.Fields(normalizeSpace(s.Text()))
			if len(fields) >= 2 && statValuePattern.MatchString(fields[0]) {
				value, label = fields[0], strings.Join(fields[1:], " ")
			}
		}
		if value == "" || !statValuePattern.MatchString(value) {
			return
		}
		if label == value {
			label = ""
		}
		content.Stats = append(content.Stats, StatBlock{Value: value, Label: label})
	})

	// Partner/customer strips give archetype and industry signal.
	doc.Find(`[class*="partner" i] img, [class*="client" i] img, [class*="customer" i] img, [class*="trusted" i] img`).Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); ok {
			alt = normalizeSpace(alt)
			if alt != "" {
				content.LogoURLs = appendUnique(content.LogoURLs, alt)
			}
		}
	})
}

// extractSections is pass three: walk h2 headings and gather the prose that
// follows each one, so copy outside any recognizable component still reaches
// the analysis.
func extractSections(doc *goquery.Document, content *PageContent) {
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		heading := normalizeSpace(s.Text())
		if heading == "" {
			return
		}
		var body strings.Builder
		for node := s.Next(); node.Length() > 0; node = node.Next() {
			if goquery.NodeName(node) == "h2" {
				break
			}
			text := normalizeSpace(node.Find("p").Text())
			if text == "" {
				text = normalizeSpace(node.Filter("p").Text())
			}
			if text != "" {
				if body.Len() > 0 {
					body.WriteByte(' ')
				}
				body.WriteString(text)
			}
		}
		if body.Len() > 0 {
			content.Sections = append(content.Sections, Section{Heading: heading, Text: body.String()})
		}
	})
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func seenFeature(features []FeatureBlock, title string) bool {
	for _, f := range features {
		if f.Title == title {
			return true
		}
	}
	return false
}

func seenQuote(quotes []Quote, text string) bool {
	for _, q := range quotes {
		if q.Text == text {
			return true
		}
	}
	return false
}
