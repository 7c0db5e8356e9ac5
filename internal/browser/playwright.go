package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// playwrightDriver launches a managed Chromium through the Playwright
// driver binary.
type playwrightDriver struct {
	mu sync.Mutex

	cfg        Config
	pw         *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	started    bool
}

func newPlaywrightDriver(cfg Config) *playwrightDriver {
	return &playwrightDriver{cfg: cfg}
}

func (d *playwrightDriver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}

	// Discard driver output: stdout carries the MCP stdio framing.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright browsers: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.cfg.Headless),
	}
	if d.cfg.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(d.cfg.ExecutablePath)
	}
	if d.cfg.NoSandbox {
		launchOpts.Args = append(launchOpts.Args, "--no-sandbox")
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	d.pw = pw
	d.browser = browser
	d.browserCtx = browserCtx
	d.started = true
	return nil
}

func (d *playwrightDriver) NewPage(ctx context.Context) (Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil, fmt.Errorf("driver not started")
	}

	pwPage, err := d.browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	pwPage.SetDefaultTimeout(float64(d.cfg.NavigationTimeout) * 1000)

	return &playwrightPage{page: pwPage, timeout: time.Duration(d.cfg.NavigationTimeout) * time.Second}, nil
}

func (d *playwrightDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}
	d.started = false

	// Ignore errors, continue cleanup
	if d.browserCtx != nil {
		_ = d.browserCtx.Close()
	}
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
	}
	return nil
}

type playwrightPage struct {
	page    playwright.Page
	timeout time.Duration
}

func (p *playwrightPage) timeoutMs() *float64 {
	return playwright.Float(float64(p.timeout.Milliseconds()))
}

func (p *playwrightPage) Navigate(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   p.timeoutMs(),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) SetViewport(width, height int) error {
	if err := p.page.SetViewportSize(width, height); err != nil {
		return fmt.Errorf("set viewport failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	var data []byte
	var err error

	if opts.Selector != "" {
		data, err = p.page.Locator(opts.Selector).Screenshot(playwright.LocatorScreenshotOptions{
			Timeout: p.timeoutMs(),
		})
	} else {
		data, err = p.page.Screenshot(playwright.PageScreenshotOptions{
			FullPage: playwright.Bool(opts.FullPage),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

func (p *playwrightPage) Click(ctx context.Context, selector string) error {
	err := p.page.Locator(selector).Click(playwright.LocatorClickOptions{
		Timeout: p.timeoutMs(),
	})
	if err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Fill(ctx context.Context, selector, value string) error {
	err := p.page.Locator(selector).Fill(value, playwright.LocatorFillOptions{
		Timeout: p.timeoutMs(),
	})
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) SelectOption(ctx context.Context, selector, value string) error {
	values := []string{value}
	_, err := p.page.Locator(selector).SelectOption(playwright.SelectOptionValues{
		Values: &values,
	}, playwright.LocatorSelectOptionOptions{
		Timeout: p.timeoutMs(),
	})
	if err != nil {
		return fmt.Errorf("select failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Hover(ctx context.Context, selector string) error {
	err := p.page.Locator(selector).Hover(playwright.LocatorHoverOptions{
		Timeout: p.timeoutMs(),
	})
	if err != nil {
		return fmt.Errorf("hover failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Evaluate(ctx context.Context, script string) (any, error) {
	result, err := p.page.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

func (p *playwrightPage) OnConsole(fn func(ConsoleMessage)) {
	p.page.OnConsole(func(msg playwright.ConsoleMessage) {
		fn(ConsoleMessage{Level: msg.Type(), Text: msg.Text()})
	})
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
