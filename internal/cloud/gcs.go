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

// Package cloud provides components for interacting with external services.
// This file holds the lightweight storage object reference passed between
// pipeline commands.
package cloud

// ScreenshotObject is a simplified reference to a captured screenshot blob
// in Cloud Storage.
type ScreenshotObject struct {
	Bucket   string // GCS bucket name
	Name     string // object name, e.g. "screenshots/<run>/desktop.png"
	Viewport string // model.ViewportDesktop or model.ViewportMobile
	MIMEType string
}
