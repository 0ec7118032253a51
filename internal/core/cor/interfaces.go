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

// Package cor (Chain of Responsibility) provides the building blocks every
// pipeline stage in this service is assembled from. A workflow is a Chain of
// Commands; Commands exchange data through a shared Context. Chains are
// Commands themselves, so workflows can be nested.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the reserved keys the chain uses to move the primary
// data flow between commands.
const (
	// CtxIn is the default key for a command's primary input. Between
	// commands, the chain populates it with whatever the previous command
	// wrote to CtxOut, so a command normally never sets CtxIn itself.
	CtxIn = "__IN__"
	// CtxOut is the default key a command writes its primary output to. The
	// chain consumes it after each command and hands the value to the next
	// command as CtxIn.
	CtxOut = "__OUT__"
)

// Context is the shared state for one workflow execution, passed to every
// command in the chain. It carries the Go context (cancellation signals,
// trace spans), arbitrary key-value data the commands exchange, the errors
// they record, and any temporary files to clean up when the run ends. A
// Context belongs to one run; it is never reused across executions.
type Context interface {
	// SetContext attaches the standard Go context.Context, carrying
	// request-scoped cancellation and OpenTelemetry trace state.
	SetContext(context context.Context)

	// GetContext returns the attached Go context.Context.
	GetContext() context.Context

	// Add stores a key-value pair. This is how commands publish data for
	// the commands after them. Returns the Context for fluent chaining.
	Add(key string, value interface{}) Context

	// AddError records an error under the name of the command that produced
	// it. Any recorded error marks the whole run as failed.
	AddError(key string, err error)

	// GetErrors returns every error recorded so far, keyed by command name.
	GetErrors() map[string]error

	// HasErrors reports whether any command has recorded an error.
	HasErrors() bool

	// Get retrieves a stored value by key, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// AddTempFile tracks a file created during the run so Close can remove
	// it.
	AddTempFile(file string)

	// GetTempFiles returns every tracked temporary file path.
	GetTempFiles() []string

	// Close removes all tracked temp files. Defer it at the start of a
	// workflow.
	Close()
}

// Executable is anything with a core unit of execution logic.
type Executable interface {
	// Execute runs the unit's logic against the shared context. Failures
	// are reported through Context.AddError, never returned.
	Execute(context Context)
}

// Command is an atomic unit of work in a workflow. Implementations must be
// safe for concurrent use: one Command instance is shared by every run that
// flows through its chain, so all per-run state lives in the Context.
type Command interface {
	Executable

	// GetName identifies the command in logs, traces, and error keys.
	GetName() string

	// GetInputParam returns the context key this command reads its primary
	// input from, CtxIn unless configured otherwise.
	GetInputParam() string

	// GetOutputParam returns the context key this command writes its
	// primary output to, CtxOut unless configured otherwise.
	GetOutputParam() string

	// IsExecutable reports whether the command's preconditions hold for the
	// current context state. The chain skips, without error, any command
	// that reports false.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands executed against one shared
// Context. A Chain is itself a Command, so chains compose: a whole workflow
// can be dropped into another workflow as a single step.
type Chain interface {
	Command

	// ContinueOnFailure configures whether the chain keeps executing after
	// a command records an error. The default is to stop at the first one.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the sequence. Returns the Chain for
	// fluent assembly.
	AddCommand(command Command) Chain
}
