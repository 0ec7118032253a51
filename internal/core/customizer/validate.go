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

package customizer

import (
	"fmt"
	"strings"
)

// ValidateSceneCode applies the structural checks every generated scene
// must pass before it is accepted: exactly one default component export,
// no import statements (the render host provides all bindings), and
// balanced brackets outside string and comment contexts. This is a shape
// check, not a compiler; it exists to reject the failure modes models
// actually produce.
func ValidateSceneCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("scene code is empty")
	}

	exports := strings.Count(code, "export default function")
	if exports == 0 {
		return fmt.Errorf("scene code has no default function export")
	}
	if exports > 1 {
		return fmt.Errorf("scene code has %d default function exports, want exactly 1", exports)
	}

	for i, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import{") {
			return fmt.Errorf("scene code contains an import on line %d", i+1)
		}
	}

	if err := checkBalanced(code); err != nil {
		return err
	}
	return nil
}

// checkBalanced verifies (), {}, [] pairing with a stack, skipping string
// literals, template literals, and comments.
func checkBalanced(code string) error {
	var stack []byte
	pairs := map[byte]byte{')': '(', '}': '{', ']': '['}

	const (
		stateCode = iota
		stateSingle
		stateDouble
		stateBacktick
		stateLineComment
		stateBlockComment
	)
	state := stateCode

	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch state {
		case stateSingle:
			if ch == '\\' {
				i++
			} else if ch == '\'' || ch == '\n' {
				state = stateCode
			}
		case stateDouble:
			if ch == '\\' {
				i++
			} else if ch == '"' || ch == '\n' {
				state = stateCode
			}
		case stateBacktick:
			if ch == '\\' {
				i++
			} else if ch == '`' {
				state = stateCode
			}
		case stateLineComment:
			if ch == '\n' {
				state = stateCode
			}
		case stateBlockComment:
			if ch == '*' && i+1 < len(code) && code[i+1] == '/' {
				i++
				state = stateCode
			}
		case stateCode:
			switch ch {
			case '\'':
				state = stateSingle
			case '"':
				state = stateDouble
			case '`':
				state = stateBacktick
			case '/':
				if i+1 < len(code) {
					switch code[i+1] {
					case '/':
						state = stateLineComment
						i++
					case '*':
						state = stateBlockComment
						i++
					}
				}
			case '(', '{', '[':
				stack = append(stack, ch)
			case ')', '}', ']':
				if len(stack) == 0 || stack[len(stack)-1] != pairs[ch] {
					return fmt.Errorf("unbalanced %q in scene code", string(ch))
				}
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q in scene code", string(stack[len(stack)-1]))
	}
	return nil
}
