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
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/h2non/filetype"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/cor"
)

// ScreenshotRefsParamName is the context key holding the GCS references for
// persisted screenshots.
const ScreenshotRefsParamName = "__screenshot_refs__"

// RunIDParamName is the context key the workflow stores the run identifier
// under; it namespaces the uploaded objects.
const RunIDParamName = "__run_id__"

// ScreenshotUploadCommand persists captured screenshots to GCS under
// screenshots/<runID>/<viewport>.png. Upload failures are logged and
// skipped: the pipeline can produce a profile without archived screenshots.
// The input capture is passed through unchanged.
type ScreenshotUploadCommand struct {
	cor.BaseCommand
	client *storage.Client
	bucket string
}

func NewScreenshotUploadCommand(name string, client *storage.Client, bucket string) *ScreenshotUploadCommand {
	return &ScreenshotUploadCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		bucket:      bucket,
	}
}

func (c *ScreenshotUploadCommand) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(c.GetInputParam()).(*PageCapture)
	return ok
}

func (c *ScreenshotUploadCommand) Execute(context cor.Context) {
	capture := context.Get(c.GetInputParam()).(*PageCapture)
	runID, _ := context.Get(RunIDParamName).(string)

	refs := make(map[string]*cloud.ScreenshotObject)
	for viewport, data := range capture.Screenshots {
		mimeType := "image/png"
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			mimeType = kind.MIME.Value
		}
		objectName := fmt.Sprintf("screenshots/%s/%s.png", runID, viewport)

		wc := c.client.Bucket(c.bucket).Object(objectName).NewWriter(context.GetContext())
		wc.ContentType = mimeType
		if _, err := wc.Write(data); err != nil {
			slog.Error("screenshot upload failed",
				"bucket", c.bucket, "object", objectName, "error", err)
			_ = wc.Close()
			continue
		}
		if err := wc.Close(); err != nil {
			slog.Error("screenshot upload close failed",
				"bucket", c.bucket, "object", objectName, "error", err)
			continue
		}
		refs[viewport] = &cloud.ScreenshotObject{
			Bucket:   c.bucket,
			Name:     objectName,
			Viewport: viewport,
			MIMEType: mimeType,
		}
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ScreenshotRefsParamName, refs)
	context.Add(cor.CtxOut, capture)
}
