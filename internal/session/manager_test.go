package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/neboloop/webmcp/internal/browser"
	"github.com/neboloop/webmcp/internal/resources"
)

type fakePage struct {
	mu        sync.Mutex
	consoleFn func(browser.ConsoleMessage)
	closed    bool
}

func (p *fakePage) Navigate(ctx context.Context, url string) error { return nil }
func (p *fakePage) SetViewport(width, height int) error            { return nil }
func (p *fakePage) Screenshot(ctx context.Context, opts browser.ScreenshotOptions) ([]byte, error) {
	return nil, nil
}
func (p *fakePage) Click(ctx context.Context, selector string) error               { return nil }
func (p *fakePage) Fill(ctx context.Context, selector, value string) error         { return nil }
func (p *fakePage) SelectOption(ctx context.Context, selector, value string) error { return nil }
func (p *fakePage) Hover(ctx context.Context, selector string) error               { return nil }
func (p *fakePage) Evaluate(ctx context.Context, script string) (any, error)       { return nil, nil }

func (p *fakePage) OnConsole(fn func(browser.ConsoleMessage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consoleFn = fn
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePage) emitConsole(level, text string) {
	p.mu.Lock()
	fn := p.consoleFn
	p.mu.Unlock()
	if fn != nil {
		fn(browser.ConsoleMessage{Level: level, Text: text})
	}
}

type fakeDriver struct {
	page     *fakePage
	startErr error

	starts atomic.Int32
	stops  atomic.Int32
}

func (d *fakeDriver) Start(ctx context.Context) error {
	if d.startErr != nil {
		return d.startErr
	}
	d.starts.Add(1)
	return nil
}

func (d *fakeDriver) NewPage(ctx context.Context) (browser.Page, error) {
	return d.page, nil
}

func (d *fakeDriver) Stop() error {
	d.stops.Add(1)
	return nil
}

type countingNotifier struct {
	updates atomic.Int32
}

func (n *countingNotifier) LogsUpdated() {
	n.updates.Add(1)
}

func TestEnsureConcurrentCreatesOnce(t *testing.T) {
	driver := &fakeDriver{page: &fakePage{}}
	var factoryCalls atomic.Int32
	mgr := NewManagerWithFactory(func() (browser.Driver, error) {
		factoryCalls.Add(1)
		return driver, nil
	}, resources.NewLogBuffer(), nil)

	const n = 20
	sessions := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sess, err := mgr.Ensure(context.Background())
			if err != nil {
				t.Errorf("Ensure failed: %v", err)
				return
			}
			sessions[idx] = sess
		}(i)
	}
	wg.Wait()

	if got := factoryCalls.Load(); got != 1 {
		t.Errorf("expected 1 driver creation, got %d", got)
	}
	if got := driver.starts.Load(); got != 1 {
		t.Errorf("expected 1 driver start, got %d", got)
	}
	for i := 1; i < n; i++ {
		if sessions[i] != sessions[0] {
			t.Fatalf("caller %d observed a different session", i)
		}
	}
}

func TestEnsureRetryAfterFailure(t *testing.T) {
	bad := &fakeDriver{page: &fakePage{}, startErr: errors.New("no browser")}
	good := &fakeDriver{page: &fakePage{}}

	attempt := 0
	mgr := NewManagerWithFactory(func() (browser.Driver, error) {
		attempt++
		if attempt == 1 {
			return bad, nil
		}
		return good, nil
	}, resources.NewLogBuffer(), nil)

	if _, err := mgr.Ensure(context.Background()); err == nil {
		t.Fatal("expected first Ensure to fail")
	}
	if mgr.Active() {
		t.Fatal("failed creation must not leave a session visible")
	}

	sess, err := mgr.Ensure(context.Background())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if sess == nil || !mgr.Active() {
		t.Fatal("expected a live session after retry")
	}
}

func TestConsoleForwarding(t *testing.T) {
	page := &fakePage{}
	logs := resources.NewLogBuffer()
	notifier := &countingNotifier{}
	mgr := NewManagerWithFactory(func() (browser.Driver, error) {
		return &fakeDriver{page: page}, nil
	}, logs, notifier)

	if _, err := mgr.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	page.emitConsole("log", "hello")
	page.emitConsole("error", "boom")

	entries := logs.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != "log" || entries[0].Text != "hello" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Level != "error" || entries[1].Text != "boom" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
	if got := notifier.updates.Load(); got != 2 {
		t.Errorf("expected 2 update notifications, got %d", got)
	}
}

func TestTeardownWithoutSession(t *testing.T) {
	mgr := NewManagerWithFactory(func() (browser.Driver, error) {
		t.Fatal("factory must not be called")
		return nil, nil
	}, resources.NewLogBuffer(), nil)

	if err := mgr.Teardown(); err != nil {
		t.Fatalf("Teardown with no session should be a no-op, got %v", err)
	}
}

func TestTeardownClosesSessionAndBlocksRecreate(t *testing.T) {
	page := &fakePage{}
	driver := &fakeDriver{page: page}
	mgr := NewManagerWithFactory(func() (browser.Driver, error) {
		return driver, nil
	}, resources.NewLogBuffer(), nil)

	if _, err := mgr.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := mgr.Teardown(); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}

	if !page.closed {
		t.Error("page was not closed")
	}
	if got := driver.stops.Load(); got != 1 {
		t.Errorf("expected 1 driver stop, got %d", got)
	}
	if mgr.Active() {
		t.Error("session still visible after teardown")
	}
	if _, err := mgr.Ensure(context.Background()); err == nil {
		t.Error("Ensure after teardown should fail")
	}
}
