// Package session owns the single automation session: lazy creation on
// first use, console capture into the log buffer, and teardown at shutdown.
package session

import (
	"context"
	"fmt"

	"sync"

	"github.com/neboloop/webmcp/internal/browser"
	"github.com/neboloop/webmcp/internal/logging"
	"github.com/neboloop/webmcp/internal/resources"
)

// Notifier receives resource-change events produced by the session.
type Notifier interface {
	// LogsUpdated signals that the console log resource changed content.
	LogsUpdated()
}

// DriverFactory creates the automation driver for a new session.
type DriverFactory func() (browser.Driver, error)

// Session is the single live automation session.
type Session struct {
	driver browser.Driver
	page   browser.Page
}

// Page returns the session's page.
func (s *Session) Page() browser.Page {
	return s.page
}

// Manager owns at most one active session per process.
type Manager struct {
	mu sync.Mutex

	newDriver DriverFactory
	logs      *resources.LogBuffer
	notifier  Notifier

	sess     *Session
	tornDown bool
}

// NewManager creates a manager that builds drivers from cfg.
func NewManager(cfg browser.Config, logs *resources.LogBuffer, notifier Notifier) *Manager {
	return NewManagerWithFactory(func() (browser.Driver, error) {
		return browser.New(cfg)
	}, logs, notifier)
}

// NewManagerWithFactory creates a manager with an explicit driver factory.
func NewManagerWithFactory(factory DriverFactory, logs *resources.LogBuffer, notifier Notifier) *Manager {
	return &Manager{
		newDriver: factory,
		logs:      logs,
		notifier:  notifier,
	}
}

// Ensure returns the live session, creating it on first use. Creation
// happens at most once: the lock is held across driver start and page
// creation, so concurrent first-callers all observe the same completed
// session. On failure the manager is left with no session and a later call
// may retry.
func (m *Manager) Ensure(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tornDown {
		return nil, fmt.Errorf("session manager is shut down")
	}
	if m.sess != nil {
		return m.sess, nil
	}

	driver, err := m.newDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	if err := driver.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	page, err := driver.NewPage(ctx)
	if err != nil {
		_ = driver.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	// The session's only console subscription: every engine console event
	// lands in the log buffer in arrival order and fires one notification.
	page.OnConsole(func(msg browser.ConsoleMessage) {
		m.logs.Append(msg.Level, msg.Text)
		if m.notifier != nil {
			m.notifier.LogsUpdated()
		}
	})

	m.sess = &Session{driver: driver, page: page}
	logging.Infof("[Session] Browser session created")
	return m.sess, nil
}

// Active reports whether a session is currently live, without creating one.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess != nil
}

// Teardown closes the session if present. Safe to call with no session.
// The manager does not re-create after teardown.
func (m *Manager) Teardown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tornDown = true
	if m.sess == nil {
		return nil
	}

	sess := m.sess
	m.sess = nil

	_ = sess.page.Close() // Ignore errors, continue cleanup
	if err := sess.driver.Stop(); err != nil {
		return fmt.Errorf("failed to stop driver: %w", err)
	}
	logging.Infof("[Session] Browser session closed")
	return nil
}
