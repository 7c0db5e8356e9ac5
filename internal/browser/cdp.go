package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// cdpDriver drives Chrome over the DevTools Protocol. It launches a local
// binary unless CDPUrl points at a running browser.
type cdpDriver struct {
	mu sync.Mutex

	cfg         Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
	started     bool
}

func newCDPDriver(cfg Config) *cdpDriver {
	return &cdpDriver{cfg: cfg}
}

func (d *cdpDriver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}

	if d.cfg.CDPUrl != "" {
		d.allocCtx, d.allocCancel = chromedp.NewRemoteAllocator(context.Background(), d.cfg.CDPUrl)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", d.cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if d.cfg.NoSandbox {
			opts = append(opts, chromedp.Flag("no-sandbox", true))
		}
		if d.cfg.ExecutablePath != "" {
			opts = append(opts, chromedp.ExecPath(d.cfg.ExecutablePath))
		}
		d.allocCtx, d.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	d.started = true
	return nil
}

func (d *cdpDriver) NewPage(ctx context.Context) (Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil, fmt.Errorf("driver not started")
	}

	tabCtx, cancel := chromedp.NewContext(d.allocCtx)

	// Run a no-op so the browser process starts and the target is live
	// before any listeners are attached.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &cdpPage{
		ctx:     tabCtx,
		cancel:  cancel,
		timeout: time.Duration(d.cfg.NavigationTimeout) * time.Second,
	}, nil
}

func (d *cdpDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}
	d.started = false

	if d.allocCancel != nil {
		d.allocCancel()
	}
	return nil
}

type cdpPage struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// run executes actions against the tab with the configured timeout.
func (p *cdpPage) run(actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

func (p *cdpPage) Navigate(ctx context.Context, url string) error {
	err := p.run(
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *cdpPage) SetViewport(width, height int) error {
	if err := p.run(chromedp.EmulateViewport(int64(width), int64(height))); err != nil {
		return fmt.Errorf("set viewport failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	var buf []byte
	var err error

	switch {
	case opts.Selector != "":
		err = p.run(chromedp.Screenshot(opts.Selector, &buf, chromedp.NodeVisible))
	case opts.FullPage:
		err = p.run(chromedp.FullScreenshot(&buf, 90))
	default:
		err = p.run(chromedp.CaptureScreenshot(&buf))
	}
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

func (p *cdpPage) Click(ctx context.Context, selector string) error {
	err := p.run(
		chromedp.WaitVisible(selector),
		chromedp.Click(selector),
	)
	if err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Fill(ctx context.Context, selector, value string) error {
	err := p.run(
		chromedp.WaitVisible(selector),
		chromedp.Clear(selector),
		chromedp.SendKeys(selector, value),
	)
	if err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *cdpPage) SelectOption(ctx context.Context, selector, value string) error {
	err := p.run(
		chromedp.WaitVisible(selector),
		chromedp.SetValue(selector, value),
	)
	if err != nil {
		return fmt.Errorf("select failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Hover(ctx context.Context, selector string) error {
	err := p.run(
		chromedp.WaitVisible(selector),
		chromedp.ScrollIntoView(selector),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var nodes []*cdp.Node
			if err := chromedp.Nodes(selector, &nodes, chromedp.ByQuery).Do(ctx); err != nil {
				return err
			}
			if len(nodes) == 0 {
				return fmt.Errorf("no element matches %q", selector)
			}
			box, err := dom.GetBoxModel().WithNodeID(nodes[0].NodeID).Do(ctx)
			if err != nil {
				return err
			}
			// Quad is 8 floats: x1,y1,...,x4,y4 clockwise from top-left.
			x := (box.Content[0] + box.Content[4]) / 2
			y := (box.Content[1] + box.Content[5]) / 2
			return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("hover failed: %w", err)
	}
	return nil
}

func (p *cdpPage) Evaluate(ctx context.Context, script string) (any, error) {
	var result any
	if err := p.run(chromedp.Evaluate(script, &result)); err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

func (p *cdpPage) OnConsole(fn func(ConsoleMessage)) {
	chromedp.ListenTarget(p.ctx, func(ev any) {
		e, ok := ev.(*runtime.EventConsoleAPICalled)
		if !ok {
			return
		}

		parts := make([]string, 0, len(e.Args))
		for _, arg := range e.Args {
			parts = append(parts, formatConsoleArg(arg))
		}
		fn(ConsoleMessage{
			Level: string(e.Type),
			Text:  strings.Join(parts, " "),
		})
	})
}

func (p *cdpPage) Close() error {
	p.cancel()
	return nil
}

// formatConsoleArg renders one console argument the way DevTools would:
// primitive values by value, everything else by description.
func formatConsoleArg(arg *runtime.RemoteObject) string {
	if arg == nil {
		return ""
	}
	if len(arg.Value) > 0 {
		s := string(arg.Value)
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
		return s
	}
	return arg.Description
}
