package config

import (
	"testing"

	"github.com/neboloop/webmcp/internal/browser"
)

func TestLoadFromBytes(t *testing.T) {
	data := []byte(`
server:
  name: custom
  version: 2.1.0
http:
  addr: ":8931"
browser:
  driver: cdp
  headless: false
  cdpUrl: ws://localhost:9222
  navigationTimeout: 10
`)
	c, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if c.Server.Name != "custom" || c.Server.Version != "2.1.0" {
		t.Errorf("unexpected server config: %+v", c.Server)
	}
	if c.HTTP.Addr != ":8931" {
		t.Errorf("unexpected http addr: %q", c.HTTP.Addr)
	}
	if c.Browser.Driver != browser.DriverCDP {
		t.Errorf("unexpected driver: %q", c.Browser.Driver)
	}
	if c.Browser.Headless {
		t.Error("headless should be false")
	}
	if c.Browser.CDPUrl != "ws://localhost:9222" {
		t.Errorf("unexpected cdp url: %q", c.Browser.CDPUrl)
	}
	if c.Browser.NavigationTimeout != 10 {
		t.Errorf("unexpected navigation timeout: %d", c.Browser.NavigationTimeout)
	}
}

func TestLoadFromBytesDefaults(t *testing.T) {
	c, err := LoadFromBytes([]byte("{}"))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if c.Server.Name != "webmcp" {
		t.Errorf("expected default name, got %q", c.Server.Name)
	}
	if c.Server.Version != "1.0.0" {
		t.Errorf("expected default version, got %q", c.Server.Version)
	}
	if c.Browser.Driver != browser.DriverPlaywright {
		t.Errorf("expected playwright driver default, got %q", c.Browser.Driver)
	}
	if c.HTTP.Addr != "" {
		t.Errorf("expected stdio-only default, got addr %q", c.HTTP.Addr)
	}
}

func TestLoadFromBytesExpandsEnv(t *testing.T) {
	t.Setenv("WEBMCP_CDP_URL", "ws://remote:9222")
	data := []byte(`
browser:
  driver: cdp
  cdpUrl: ${WEBMCP_CDP_URL}
`)
	c, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if c.Browser.CDPUrl != "ws://remote:9222" {
		t.Errorf("env expansion failed: %q", c.Browser.CDPUrl)
	}
}

func TestLoadFromBytesInvalidYAML(t *testing.T) {
	if _, err := LoadFromBytes([]byte("server: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}
