package browser

// Driver selection.
const (
	// DriverPlaywright launches a managed Chromium via Playwright.
	DriverPlaywright = "playwright"

	// DriverCDP drives Chrome over the DevTools Protocol, either launching
	// a local binary or attaching to a running browser via CDPUrl.
	DriverCDP = "cdp"
)

// Default viewport used when a command does not supply dimensions.
const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
)

// DefaultNavigationTimeout is the per-operation driver timeout in seconds.
const DefaultNavigationTimeout = 30

// Config is the browser configuration from webmcp config.
type Config struct {
	// Driver is "playwright" (managed Chromium) or "cdp" (DevTools Protocol).
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`

	// Headless runs the browser without UI.
	Headless bool `json:"headless,omitempty" yaml:"headless,omitempty"`

	// ExecutablePath overrides auto-detection of the browser binary.
	ExecutablePath string `json:"executablePath,omitempty" yaml:"executablePath,omitempty"`

	// NoSandbox disables the Chrome sandbox (needed in some containers).
	NoSandbox bool `json:"noSandbox,omitempty" yaml:"noSandbox,omitempty"`

	// CDPUrl attaches the cdp driver to a running browser instead of
	// launching one.
	CDPUrl string `json:"cdpUrl,omitempty" yaml:"cdpUrl,omitempty"`

	// NavigationTimeout is the per-operation timeout in seconds.
	NavigationTimeout int `json:"navigationTimeout,omitempty" yaml:"navigationTimeout,omitempty"`
}

func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = DriverPlaywright
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = DefaultNavigationTimeout
	}
	return c
}
