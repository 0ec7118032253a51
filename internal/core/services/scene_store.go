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

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/bazaar-it/brandreel/internal/core/model"
)

// SceneStore is the durable store for generated scenes. The orchestrator
// persists each scene through it before announcing the scene to any client.
type SceneStore interface {
	// Save writes one scene. Saving a scene with an existing ID replaces it
	// logically: IDs are deterministic per (project, order), so re-runs
	// clear the project first and insert fresh rows.
	Save(ctx context.Context, scene *model.Scene) error

	// DeleteByProject removes every scene belonging to a project.
	DeleteByProject(ctx context.Context, projectID string) error

	// ListByProject returns a project's scenes in presentation order.
	ListByProject(ctx context.Context, projectID string) ([]*model.Scene, error)
}

// SceneService is the BigQuery-backed SceneStore. It also signs screenshot
// URLs so clients can fetch archived captures without GCS credentials.
type SceneService struct {
	BigqueryClient *bigquery.Client
	StorageClient  *storage.Client
	IAMClient      *credentials.IamCredentialsClient
	SignerEmail    string
	DatasetName    string
	SceneTable     string
}

var _ SceneStore = (*SceneService)(nil)

// GetFQN returns the fully qualified scene table name with dots, the form
// standard SQL expects.
func (s *SceneService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.SceneTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// Save streams one scene row into the scene table.
func (s *SceneService) Save(ctx context.Context, scene *model.Scene) error {
	inserter := s.BigqueryClient.Dataset(s.DatasetName).Table(s.SceneTable).Inserter()
	if err := inserter.Put(ctx, scene); err != nil {
		return fmt.Errorf("failed to persist scene %s: %w", scene.ID, err)
	}
	return nil
}

// DeleteByProject removes a project's existing scene set. Run before a
// re-generation so the deterministic scene IDs never collide with stale
// rows.
func (s *SceneService) DeleteByProject(ctx context.Context, projectID string) error {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryDeleteScenesByProject, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "project_id", Value: projectID}}
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete scenes for project %s: %w", projectID, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}

// ListByProject returns the project's scenes ordered for playback.
func (s *SceneService) ListByProject(ctx context.Context, projectID string) ([]*model.Scene, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryScenesByProject, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "project_id", Value: projectID}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	scenes := make([]*model.Scene, 0)
	for {
		scene := &model.Scene{}
		err := itr.Next(scene)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	return scenes, nil
}

// GenerateScreenshotURL creates a time-limited signed URL for an archived
// screenshot object. Signing goes through the IAM credentials API so the
// process never needs a private key on disk.
func (s *SceneService) GenerateScreenshotURL(ctx context.Context, bucket, object string, expires time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        time.Now().Add(expires),
		GoogleAccessID: s.SignerEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			req := &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", s.SignerEmail),
				Payload: b,
			}
			resp, err := s.IAMClient.SignBlob(ctx, req)
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		},
	}
	u, err := s.StorageClient.Bucket(bucket).SignedURL(object, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).Object(%q).SignedURL: %w", bucket, object, err)
	}
	return u, nil
}
