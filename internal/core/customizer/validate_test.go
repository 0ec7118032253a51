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

package customizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaar-it/brandreel/internal/core/customizer"
)

func TestValidateSceneCode(t *testing.T) {
	cases := []struct {
		name    string
		code    string
		wantErr string
	}{
		{
			name: "valid scene",
			code: "export default function Hero() {\n  return <div>{\"hi\"}</div>;\n}",
		},
		{
			name:    "empty",
			code:    "   \n\t",
			wantErr: "empty",
		},
		{
			name:    "no default export",
			code:    "function Hero() { return null; }",
			wantErr: "no default function export",
		},
		{
			name:    "two default exports",
			code:    "export default function A() {}\nexport default function B() {}",
			wantErr: "want exactly 1",
		},
		{
			name:    "import line",
			code:    "import React from 'react';\nexport default function Hero() { return null; }",
			wantErr: "import on line 1",
		},
		{
			name:    "unbalanced brace",
			code:    "export default function Hero() { return <div>x</div>;",
			wantErr: "unclosed",
		},
		{
			name:    "stray closer",
			code:    "export default function Hero() { return null; }}",
			wantErr: "unbalanced",
		},
		{
			name:    "mismatched pair",
			code:    "export default function Hero() { const a = [1, 2); return null; }",
			wantErr: "unbalanced",
		},
		{
			name: "brace inside string literal",
			code: "export default function Hero() { const s = \"{ not a block\"; return null; }",
		},
		{
			name: "brace inside template literal",
			code: "export default function Hero() { const s = `width: ${100}px {`; return null; }",
		},
		{
			name: "brace inside comment",
			code: "export default function Hero() {\n  // { opener in a comment\n  /* ) and another */\n  return null;\n}",
		},
		{
			name: "escaped quote in string",
			code: "export default function Hero() { const s = \"she said \\\"{\\\"\"; return null; }",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := customizer.ValidateSceneCode(tc.code)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
