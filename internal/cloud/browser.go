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
// This file implements the shared headless-browser pool. Chrome is the one
// local resource the pipeline can exhaust under load, so tabs are checked
// out against a weighted semaphore with a hard ceiling; a checkout blocks
// until a slot frees or the caller's context is canceled.
package cloud

import (
	"context"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"
)

// BrowserPool hands out chromedp tab contexts bounded by a fixed pool size.
// All tabs share one Chrome process via the allocator context.
type BrowserPool struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	slots       *semaphore.Weighted
}

// NewBrowserPool starts a headless Chrome allocator and returns a pool with
// the given maximum number of concurrent tabs.
func NewBrowserPool(ctx context.Context, size int) *BrowserPool {
	if size < 1 {
		size = 1
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	return &BrowserPool{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		slots:       semaphore.NewWeighted(int64(size)),
	}
}

// Acquire checks out one tab. It blocks while the pool is at capacity. The
// returned release function must be called exactly once; it closes the tab
// and frees the slot.
func (p *BrowserPool) Acquire(ctx context.Context) (context.Context, func(), error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(p.allocCtx)
	release := func() {
		tabCancel()
		p.slots.Release(1)
	}
	return tabCtx, release, nil
}

// Close shuts down the underlying Chrome process. In-flight tabs are
// terminated.
func (p *BrowserPool) Close() {
	p.allocCancel()
}
