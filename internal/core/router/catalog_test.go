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

package router_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/bazaar-it/brandreel/internal/core/model"
	"github.com/bazaar-it/brandreel/internal/core/router"
)

// fixtureTemplate builds a minimal valid template for one category.
func fixtureTemplate(id string, category model.TemplateCategory) *model.Template {
	return &model.Template{
		ID:                id,
		Name:              id,
		Category:          category,
		MinDurationFrames: 30,
		MaxDurationFrames: 420,
		Slots: model.TemplateSlots{
			Colors: []string{"primary"},
			Text:   []string{"headline"},
		},
		Characteristics: model.TemplateCharacteristics{
			AestheticTone:    "light",
			VisualComplexity: 0.5,
			EnergyLevel:      0.5,
		},
		Code: "export default function Scene() { return <div style={{color: '{{primary}}'}}>{{headline}}</div>; }",
	}
}

// writeCatalogDir writes one YAML file per template into a temp dir and
// returns the dir.
func writeCatalogDir(t *testing.T, templates ...*model.Template) string {
	t.Helper()
	dir := t.TempDir()
	for i, tmpl := range templates {
		data, err := yaml.Marshal(tmpl)
		assert.NoError(t, err)
		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.yaml", i, tmpl.ID))
		assert.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return dir
}

// fullCatalogTemplates returns one template per category, the minimum a
// catalog needs to load.
func fullCatalogTemplates() []*model.Template {
	return []*model.Template{
		fixtureTemplate("problem-base", model.CategoryProblem),
		fixtureTemplate("transition-base", model.CategoryTransition),
		fixtureTemplate("discovery-base", model.CategoryDiscovery),
		fixtureTemplate("transformation-base", model.CategoryTransformation),
		fixtureTemplate("triumph-base", model.CategoryTriumph),
		fixtureTemplate("invitation-base", model.CategoryInvitation),
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := writeCatalogDir(t, fullCatalogTemplates()...)

	catalog, err := router.LoadCatalog(dir)
	assert.NoError(t, err)
	assert.Len(t, catalog.Templates(), 6)

	tmpl, ok := catalog.Get("discovery-base")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryDiscovery, tmpl.Category)
	assert.NotEmpty(t, tmpl.Code)

	// Templates come back sorted by ID regardless of file order.
	ids := make([]string, 0, 6)
	for _, tmpl := range catalog.Templates() {
		ids = append(ids, tmpl.ID)
	}
	assert.Equal(t, []string{
		"discovery-base", "invitation-base", "problem-base",
		"transformation-base", "transition-base", "triumph-base",
	}, ids)
}

func TestLoadCatalogRejectsDuplicateID(t *testing.T) {
	templates := fullCatalogTemplates()
	dup := fixtureTemplate("problem-base", model.CategoryProblem)
	dir := writeCatalogDir(t, append(templates, dup)...)

	_, err := router.LoadCatalog(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}

func TestLoadCatalogRejectsMissingCategory(t *testing.T) {
	// Drop the triumph template; the catalog can no longer serve every
	// beat and must refuse to load.
	templates := fullCatalogTemplates()
	incomplete := make([]*model.Template, 0, len(templates)-1)
	for _, tmpl := range templates {
		if tmpl.Category == model.CategoryTriumph {
			continue
		}
		incomplete = append(incomplete, tmpl)
	}
	dir := writeCatalogDir(t, incomplete...)

	_, err := router.LoadCatalog(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "triumph")
}

func TestLoadCatalogRejectsEmptyDir(t *testing.T) {
	_, err := router.LoadCatalog(t.TempDir())
	assert.Error(t, err)
}

func TestLoadCatalogRejectsBadDurationRange(t *testing.T) {
	templates := fullCatalogTemplates()
	templates[0].MinDurationFrames = 100
	templates[0].MaxDurationFrames = 50
	dir := writeCatalogDir(t, templates...)

	_, err := router.LoadCatalog(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duration range")
}

func TestSummariesStripCode(t *testing.T) {
	dir := writeCatalogDir(t, fullCatalogTemplates()...)
	catalog, err := router.LoadCatalog(dir)
	assert.NoError(t, err)

	for _, summary := range catalog.Summaries() {
		assert.Empty(t, summary.Code)
	}
	// The underlying catalog still has its code.
	tmpl, _ := catalog.Get("problem-base")
	assert.NotEmpty(t, tmpl.Code)
}
