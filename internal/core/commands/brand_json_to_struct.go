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
	"encoding/json"
	"fmt"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/cor"
	"github.com/bazaar-it/brandreel/internal/core/model"
)

// BrandJsonToStruct parses the analysis model's JSON output into a
// *model.BrandProfile, restores the empty-collection invariant, and stamps
// the profile with the source URL and the uploaded screenshot references.
type BrandJsonToStruct struct {
	cor.BaseCommand
}

func NewBrandJsonToStruct(name string) *BrandJsonToStruct {
	return &BrandJsonToStruct{BaseCommand: *cor.NewBaseCommand(name)}
}

func (t *BrandJsonToStruct) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(t.GetInputParam()).(string)
	return ok
}

func (t *BrandJsonToStruct) Execute(context cor.Context) {
	raw := context.Get(t.GetInputParam()).(string)

	profile := &model.BrandProfile{}
	if err := json.Unmarshal([]byte(raw), profile); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to parse brand profile json: %w", err))
		return
	}
	profile.Normalize()

	if capture, ok := context.Get(CaptureParamName).(*PageCapture); ok {
		profile.URL = capture.URL
	}
	if refs, ok := context.Get(ScreenshotRefsParamName).(map[string]*cloud.ScreenshotObject); ok {
		for viewport, ref := range refs {
			profile.Media.Screenshots[viewport] = ref.Name
		}
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), profile)
}
