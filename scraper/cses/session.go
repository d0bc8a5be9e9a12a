// Package cses drives a headless browser session against the CSES judge
// site: logging in, rendering the problem list and extracting per-problem
// solve status.
package cses

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"cses-tracker/config"
	"cses-tracker/utils"
)

const (
	siteBase       = "https://cses.fi"
	loginURL       = siteBase + "/login"
	problemListURL = siteBase + "/problemset/list/"
)

// Driver is the capability surface the login and extraction steps need
// from a rendered browser session. Tests substitute a synthetic driver.
type Driver interface {
	Navigate(url string) error
	WaitVisible(sel string) error
	Clear(sel string) error
	SendKeys(sel, text string) error
	Click(sel string) error
	Title() (string, error)
	PageHTML() (string, error)
}

// Session owns one headless Chrome instance. It is not safe for concurrent
// use; each scrape run opens its own fully isolated session.
type Session struct {
	cfg    *config.Config
	logger *utils.Logger

	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// OpenSession launches a headless browser. Callers must defer Close so the
// OS-level rendering process is torn down on every path.
func OpenSession(cfg *config.Config, logger *utils.Logger) (*Session, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Debug("Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	ctx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Run a no-op so the browser process starts now and Open fails fast.
	startCtx, cancelStart := context.WithTimeout(ctx, cfg.NavTimeout)
	defer cancelStart()
	if err := chromedp.Run(startCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		cfg:           cfg,
		logger:        logger,
		ctx:           ctx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

// Close tears down the browser and its allocator. Safe to call after any
// partial failure.
func (s *Session) Close() {
	s.cancelBrowser()
	s.cancelAlloc()
}

func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate loads the given URL and blocks until the navigation settles.
func (s *Session) Navigate(url string) error {
	if err := s.run(s.cfg.NavTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the selector matches a visible element or the
// wait timeout elapses.
func (s *Session) WaitVisible(sel string) error {
	if err := s.run(s.cfg.WaitTimeout, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %q: %w", sel, err)
	}
	return nil
}

// Clear empties the value of the matched form field.
func (s *Session) Clear(sel string) error {
	if err := s.run(s.cfg.WaitTimeout, chromedp.SetValue(sel, "", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("clear %q: %w", sel, err)
	}
	return nil
}

// SendKeys types text into the matched form field.
func (s *Session) SendKeys(sel, text string) error {
	if err := s.run(s.cfg.WaitTimeout, chromedp.SendKeys(sel, text, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("type into %q: %w", sel, err)
	}
	return nil
}

// Click activates the matched control once it is visible.
func (s *Session) Click(sel string) error {
	if err := s.run(s.cfg.WaitTimeout, chromedp.Click(sel, chromedp.NodeVisible, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %q: %w", sel, err)
	}
	return nil
}

// Title returns the current page title.
func (s *Session) Title() (string, error) {
	var title string
	if err := s.run(s.cfg.WaitTimeout, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	return title, nil
}

// PageHTML returns the rendered document markup.
func (s *Session) PageHTML() (string, error) {
	var html string
	if err := s.run(s.cfg.WaitTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

// findChromeBinary locates the Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
