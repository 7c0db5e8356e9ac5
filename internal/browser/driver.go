// Package browser wraps the underlying automation engines behind a small
// driver facade. The rest of the server treats engine failures as opaque
// errors; nothing outside this package imports playwright or chromedp.
package browser

import (
	"context"
	"fmt"
)

// ConsoleMessage is a message emitted by the page's console.
type ConsoleMessage struct {
	Level string
	Text  string
}

// ScreenshotOptions configures a capture.
type ScreenshotOptions struct {
	// Selector captures a single element when set; the page otherwise.
	Selector string
	// FullPage captures beyond the viewport. Ignored when Selector is set.
	FullPage bool
}

// Page is a single automation page.
type Page interface {
	Navigate(ctx context.Context, url string) error
	SetViewport(width, height int) error
	Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	SelectOption(ctx context.Context, selector, value string) error
	Hover(ctx context.Context, selector string) error
	Evaluate(ctx context.Context, script string) (any, error)
	OnConsole(fn func(ConsoleMessage))
	Close() error
}

// Driver launches an automation engine and creates pages.
type Driver interface {
	Start(ctx context.Context) error
	NewPage(ctx context.Context) (Page, error)
	Stop() error
}

// New creates the driver selected by cfg.
func New(cfg Config) (Driver, error) {
	cfg = cfg.withDefaults()

	switch cfg.Driver {
	case DriverPlaywright:
		return newPlaywrightDriver(cfg), nil
	case DriverCDP:
		return newCDPDriver(cfg), nil
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}
