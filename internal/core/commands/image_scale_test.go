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
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaar-it/brandreel/internal/core/commands"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownscalePNG(t *testing.T) {
	data := encodeTestPNG(t, 200, 100)

	out, err := commands.DownscalePNG(data, 100)
	assert.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy(), "aspect ratio must be preserved")
}

func TestDownscalePNGWithinBounds(t *testing.T) {
	data := encodeTestPNG(t, 80, 40)

	out, err := commands.DownscalePNG(data, 100)
	assert.NoError(t, err)
	assert.Equal(t, data, out, "images already within bounds pass through untouched")

	// A zero bound disables scaling entirely.
	out, err = commands.DownscalePNG(data, 0)
	assert.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestDownscalePNGRejectsGarbage(t *testing.T) {
	_, err := commands.DownscalePNG([]byte("not a png"), 100)
	assert.Error(t, err)
}
