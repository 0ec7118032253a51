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

// Package commands provides the atomic units of work the pipeline chains
// are built from. This file defines the fatal error surfaced when brand
// extraction cannot proceed at all. Partial gaps (a missing screenshot, no
// testimonials found) are never an ExtractionError; they degrade to empty
// profile fields instead.
package commands

import "fmt"

// ExtractionReason classifies why a site could not be extracted.
type ExtractionReason string

const (
	// ReasonUnreachable covers DNS and connection failures.
	ReasonUnreachable ExtractionReason = "unreachable"
	// ReasonTimeout covers page loads exceeding the configured bound.
	ReasonTimeout ExtractionReason = "timeout"
	// ReasonBlocked covers sites actively refusing automated access.
	ReasonBlocked ExtractionReason = "blocked"
)

// ExtractionError is the fatal extraction failure. The whole run aborts
// with a terminal failed event carrying the Reason.
type ExtractionError struct {
	Reason ExtractionReason
	URL    string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s (%s): %v", e.URL, e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
