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
// are built from. This file drives the headless browser: it checks a tab
// out of the shared pool, navigates to the target URL under a bounded
// timeout, grabs the rendered DOM, and captures desktop and mobile
// screenshots.
//
// Failure policy: navigation failure is fatal and classified into an
// ExtractionError reason (unreachable, timeout, blocked). Screenshot
// capture is retried per viewport with a linear backoff and is non-fatal;
// a viewport that never yields a screenshot is simply absent from the
// capture, which degrades the later analysis but does not abort the run.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"github.com/bazaar-it/brandreel/internal/cloud"
	"github.com/bazaar-it/brandreel/internal/core/cor"
	"github.com/bazaar-it/brandreel/internal/core/model"
)

// CaptureParamName is the context key the captured page is stored under, in
// addition to the chain's piped output.
const CaptureParamName = "__page_capture__"

// Viewport dimensions for the two capture passes.
var captureViewports = map[string][2]int64{
	model.ViewportDesktop: {1440, 900},
	model.ViewportMobile:  {390, 844},
}

// blockedMarkers are substrings of page titles/bodies that identify a
// bot wall rather than real content.
var blockedMarkers = []string{
	"access denied",
	"attention required",
	"verify you are human",
	"are you a robot",
	"captcha",
	"just a moment",
}

// PageCapture is the raw harvest from one navigation: the rendered DOM and
// whichever viewport screenshots succeeded.
type PageCapture struct {
	URL         string
	HTML        string
	Title       string
	Screenshots map[string][]byte // viewport -> PNG bytes
}

// PageCaptureCommand navigates to the URL found in its input parameter and
// produces a *PageCapture.
type PageCaptureCommand struct {
	cor.BaseCommand
	pool       *cloud.BrowserPool
	navTimeout time.Duration
	retries    int
	maxWidth   int
}

// NewPageCaptureCommand creates the capture command. retries bounds the
// per-viewport screenshot attempts; maxWidth is the downscale bound applied
// before the screenshot is shipped to the model.
func NewPageCaptureCommand(name string, pool *cloud.BrowserPool, navTimeout time.Duration, retries int, maxWidth int) *PageCaptureCommand {
	if retries < 1 {
		retries = 3
	}
	return &PageCaptureCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		pool:        pool,
		navTimeout:  navTimeout,
		retries:     retries,
		maxWidth:    maxWidth,
	}
}

func (c *PageCaptureCommand) Execute(context cor.Context) {
	url := context.Get(c.GetInputParam()).(string)

	capture, err := c.capture(context.GetContext(), url)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CaptureParamName, capture)
	context.Add(cor.CtxOut, capture)
}

// capture performs the navigation and both screenshot passes on one pooled
// browser tab.
func (c *PageCaptureCommand) capture(ctx context.Context, url string) (*PageCapture, error) {
	tabCtx, release, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("browser pool acquire: %w", err)
	}
	defer release()

	navCtx, cancel := context.WithTimeout(tabCtx, c.navTimeout)
	defer cancel()

	out := &PageCapture{URL: url, Screenshots: make(map[string][]byte)}

	err = chromedp.Run(navCtx,
		chromedp.EmulateViewport(captureViewports[model.ViewportDesktop][0], captureViewports[model.ViewportDesktop][1]),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Title(&out.Title),
		chromedp.OuterHTML("html", &out.HTML),
	)
	if err != nil {
		return nil, classifyNavError(url, err)
	}
	if isBlockedContent(out.Title, out.HTML) {
		return nil, &ExtractionError{Reason: ReasonBlocked, URL: url, Err: errors.New("bot wall detected in page content")}
	}

	// Screenshots are best effort and each viewport retries independently.
	// They share the tab, so the two passes run sequentially on it; the
	// encode/downscale work fans out afterwards.
	shots := make(map[string][]byte)
	for viewport, dims := range captureViewports {
		var buf []byte
		var shotErr error
		for attempt := 1; attempt <= c.retries; attempt++ {
			shotCtx, shotCancel := context.WithTimeout(tabCtx, c.navTimeout)
			shotErr = chromedp.Run(shotCtx,
				chromedp.EmulateViewport(dims[0], dims[1]),
				chromedp.CaptureScreenshot(&buf),
			)
			shotCancel()
			if shotErr == nil {
				break
			}
			// Linear backoff in the attempt number.
			select {
			case <-ctx.Done():
				return nil, classifyNavError(url, ctx.Err())
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		if shotErr == nil {
			shots[viewport] = buf
		}
	}

	var g errgroup.Group
	results := make([][]byte, 2)
	viewports := []string{model.ViewportDesktop, model.ViewportMobile}
	for i, viewport := range viewports {
		raw, ok := shots[viewport]
		if !ok {
			continue
		}
		g.Go(func() error {
			scaled, err := DownscalePNG(raw, c.maxWidth)
			if err != nil {
				// Keep the original rather than lose the viewport.
				scaled = raw
			}
			results[i] = scaled
			return nil
		})
	}
	_ = g.Wait()
	for i, viewport := range viewports {
		if results[i] != nil {
			out.Screenshots[viewport] = results[i]
		}
	}

	return out, nil
}

// classifyNavError maps a navigation failure onto the extraction taxonomy.
func classifyNavError(url string, err error) error {
	reason := ReasonUnreachable
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = ReasonTimeout
	case strings.Contains(err.Error(), "ERR_NAME_NOT_RESOLVED"),
		strings.Contains(err.Error(), "ERR_CONNECTION"),
		strings.Contains(err.Error(), "ERR_ADDRESS"):
		reason = ReasonUnreachable
	case strings.Contains(err.Error(), "ERR_BLOCKED"),
		strings.Contains(err.Error(), "ERR_HTTP_RESPONSE_CODE_FAILURE"):
		reason = ReasonBlocked
	}
	return &ExtractionError{Reason: reason, URL: url, Err: err}
}

// isBlockedContent reports whether the rendered page is a bot wall.
func isBlockedContent(title, html string) bool {
	lowerTitle := strings.ToLower(title)
	for _, marker := range blockedMarkers {
		if strings.Contains(lowerTitle, marker) {
			return true
		}
	}
	// A page with almost no markup after rendering is a challenge page in
	// practice; real landing pages carry structure.
	if len(html) < 512 {
		lowerHTML := strings.ToLower(html)
		for _, marker := range blockedMarkers {
			if strings.Contains(lowerHTML, marker) {
				return true
			}
		}
	}
	return false
}
