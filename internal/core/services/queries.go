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

// Package services contains the data access layer. This file centralizes
// the BigQuery SQL used by the scene store; `%s` placeholders take the
// fully qualified table name, parameters bind through query parameters.
package services

const (
	// QryScenesByProject lists a project's scenes in presentation order.
	QryScenesByProject = "SELECT * FROM `%s` WHERE project_id = @project_id ORDER BY scene_order ASC"

	// QryDeleteScenesByProject clears a project's prior scene set before a
	// re-run writes the new one.
	QryDeleteScenesByProject = "DELETE FROM `%s` WHERE project_id = @project_id"
)
