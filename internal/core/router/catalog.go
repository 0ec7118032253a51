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

// Package router selects a template from the catalog for each narrative
// scene. The catalog is declarative YAML: adding a template means adding a
// file, never touching selection code.
package router

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/bazaar-it/brandreel/internal/core/model"
)

// beatCategory maps narrative beats onto the template categories that serve
// them. Tension scenes draw from the transition family, which exists to
// bridge and escalate rather than to present.
var beatCategory = map[model.EmotionalBeat]model.TemplateCategory{
	model.BeatProblem:        model.CategoryProblem,
	model.BeatTension:        model.CategoryTransition,
	model.BeatDiscovery:      model.CategoryDiscovery,
	model.BeatTransformation: model.CategoryTransformation,
	model.BeatTriumph:        model.CategoryTriumph,
	model.BeatInvitation:     model.CategoryInvitation,
}

// Catalog is the loaded, immutable template set. Load it once at process
// start; a catalog that cannot serve every beat is a configuration error
// and refuses to load.
type Catalog struct {
	templates []*model.Template
	byID      map[string]*model.Template
}

// LoadCatalog reads every .yaml/.yml file under dir, one template per file.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template catalog dir %s: %w", dir, err)
	}

	catalog := &Catalog{byID: make(map[string]*model.Template)}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", path, err)
		}
		tmpl := &model.Template{}
		if err := yaml.Unmarshal(data, tmpl); err != nil {
			return nil, fmt.Errorf("failed to parse template file %s: %w", path, err)
		}
		if err := catalog.add(tmpl); err != nil {
			return nil, fmt.Errorf("template file %s: %w", path, err)
		}
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}

	// Stable ordering keeps scoring ties deterministic across restarts.
	sort.Slice(catalog.templates, func(a, b int) bool {
		return catalog.templates[a].ID < catalog.templates[b].ID
	})
	return catalog, nil
}

func (c *Catalog) add(tmpl *model.Template) error {
	if tmpl.ID == "" {
		return fmt.Errorf("template has no id")
	}
	if _, exists := c.byID[tmpl.ID]; exists {
		return fmt.Errorf("duplicate template id %q", tmpl.ID)
	}
	if tmpl.Code == "" {
		return fmt.Errorf("template %q has no code", tmpl.ID)
	}
	if tmpl.MinDurationFrames <= 0 || tmpl.MaxDurationFrames < tmpl.MinDurationFrames {
		return fmt.Errorf("template %q has invalid duration range [%d, %d]",
			tmpl.ID, tmpl.MinDurationFrames, tmpl.MaxDurationFrames)
	}
	c.byID[tmpl.ID] = tmpl
	c.templates = append(c.templates, tmpl)
	return nil
}

// validate ensures every beat has at least one template in its category, so
// no run shape can hit an empty candidate set before widening even starts.
func (c *Catalog) validate() error {
	if len(c.templates) == 0 {
		return fmt.Errorf("template catalog is empty")
	}
	for beat, category := range beatCategory {
		found := false
		for _, tmpl := range c.templates {
			if tmpl.Category == category {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no template in category %q serves the %q beat", category, beat)
		}
	}
	return nil
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (*model.Template, bool) {
	tmpl, ok := c.byID[id]
	return tmpl, ok
}

// Templates returns the full template list. Callers must not mutate it.
func (c *Catalog) Templates() []*model.Template {
	return c.templates
}

// Summaries returns catalog metadata for API listing, code excluded.
func (c *Catalog) Summaries() []*model.Template {
	out := make([]*model.Template, 0, len(c.templates))
	for _, tmpl := range c.templates {
		summary := *tmpl
		summary.Code = ""
		out = append(out, &summary)
	}
	return out
}
