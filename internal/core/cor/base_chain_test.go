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

package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/zeebo/assert"

	"github.com/bazaar-it/brandreel/internal/core/cor"
)

// appendCommand appends its suffix to the string flowing down the chain.
type appendCommand struct {
	cor.BaseCommand
	suffix string
}

func newAppendCommand(name, suffix string) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix}
}

func (c *appendCommand) Execute(ctx cor.Context) {
	in := ctx.Get(c.GetInputParam()).(string)
	ctx.Add(c.GetOutputParam(), in+c.suffix)
}

// failCommand records an error and produces no output.
type failCommand struct {
	cor.BaseCommand
}

func (c *failCommand) Execute(ctx cor.Context) {
	ctx.AddError(c.GetName(), errors.New("boom"))
}

func newChainContext(ctx context.Context, in string) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, in)
	return chainCtx
}

func TestChainPipesOutputToInput(t *testing.T) {
	chain := cor.NewBaseChain("pipe-chain")
	chain.AddCommand(newAppendCommand("first", "-a"))
	chain.AddCommand(newAppendCommand("second", "-b"))

	chainCtx := newChainContext(context.Background(), "start")
	defer chainCtx.Close()
	chain.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "start-a-b", chainCtx.Get(cor.CtxOut).(string))
}

func TestChainStopsOnError(t *testing.T) {
	chain := cor.NewBaseChain("fail-chain")
	chain.AddCommand(newAppendCommand("first", "-a"))
	chain.AddCommand(&failCommand{BaseCommand: *cor.NewBaseCommand("fail")})
	chain.AddCommand(newAppendCommand("unreached", "-c"))

	chainCtx := newChainContext(context.Background(), "start")
	defer chainCtx.Close()
	chain.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	_, hasFailErr := chainCtx.GetErrors()["fail"]
	assert.True(t, hasFailErr)
	// The fail command produced no output, so the pipe is empty.
	assert.Nil(t, chainCtx.Get(cor.CtxOut))
}

func TestChainHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := cor.NewBaseChain("canceled-chain")
	chain.AddCommand(newAppendCommand("never-runs", "-a"))

	chainCtx := newChainContext(ctx, "start")
	defer chainCtx.Close()
	chain.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	err := chainCtx.GetErrors()["canceled-chain"]
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestChainSkipsNonExecutableCommand(t *testing.T) {
	chain := cor.NewBaseChain("skip-chain")
	chain.AddCommand(newAppendCommand("needs-input", "-a"))

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	defer chainCtx.Close()
	chain.Execute(chainCtx)

	// No input means the command is skipped, not failed.
	assert.False(t, chainCtx.HasErrors())
	assert.Nil(t, chainCtx.Get(cor.CtxOut))
}
