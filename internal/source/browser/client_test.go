package browser

import (
	"testing"
	"time"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
	"github.com/riftwatch/rift-ledger/internal/source/webscrape"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(ClientConfig{Logger: logging.NewNop()})

	if c.Kind() != summoner.SourceBrowser {
		t.Fatalf("kind = %s", c.Kind())
	}
	if len(c.templates) != len(webscrape.DefaultURLTemplates) {
		t.Fatalf("expected shared candidate templates, got %d", len(c.templates))
	}
	if c.navTimeout != 20*time.Second {
		t.Fatalf("navTimeout = %v", c.navTimeout)
	}
}

func TestNewClientOverrides(t *testing.T) {
	c := NewClient(ClientConfig{
		URLTemplates: []string{"https://example.test/p/%s"},
		NavTimeout:   5 * time.Second,
		Headless:     true,
		Logger:       logging.NewNop(),
	})

	if len(c.templates) != 1 || c.templates[0] != "https://example.test/p/%s" {
		t.Fatalf("templates = %v", c.templates)
	}
	if c.navTimeout != 5*time.Second || !c.headless {
		t.Fatalf("overrides not applied: %v headless=%v", c.navTimeout, c.headless)
	}
}
