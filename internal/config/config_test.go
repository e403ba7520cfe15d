package config

import (
	"testing"
	"time"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "rift-ledger" {
		t.Fatalf("unexpected service name: %s", cfg.ServiceName)
	}
	if cfg.MaxBatchSize != 10 {
		t.Fatalf("unexpected max batch size: %d", cfg.MaxBatchSize)
	}
	if cfg.BatchItemDelay != 2*time.Second {
		t.Fatalf("unexpected batch item delay: %s", cfg.BatchItemDelay)
	}
	if len(cfg.ChainOrder) != 5 || cfg.ChainOrder[len(cfg.ChainOrder)-1] != summoner.SourceSynthetic {
		t.Fatalf("unexpected default chain: %v", cfg.ChainOrder)
	}
	if cfg.BrowserEnabled {
		t.Fatal("browser adapter must be opt-in")
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_BatchLimits(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("INGEST_MAX_BATCH_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero batch size")
	}

	t.Setenv("INGEST_MAX_BATCH_SIZE", "5")
	t.Setenv("INGEST_BATCH_ITEM_DELAY", "-1s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative batch delay")
	}

	t.Setenv("INGEST_BATCH_ITEM_DELAY", "0s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MaxBatchSize != 5 || cfg.BatchItemDelay != 0 {
		t.Fatalf("unexpected batch config: size=%d delay=%s", cfg.MaxBatchSize, cfg.BatchItemDelay)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestParseChainOrder(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []summoner.Source
		wantErr bool
	}{
		{
			name: "empty uses the default chain",
			raw:  "",
			want: DefaultChainOrder(),
		},
		{
			name: "custom order",
			raw:  "web_scrape, riot_api, synthetic",
			want: []summoner.Source{summoner.SourceWebScrape, summoner.SourceRiotAPI, summoner.SourceSynthetic},
		},
		{
			name: "case folded",
			raw:  "RIOT_API,SYNTHETIC",
			want: []summoner.Source{summoner.SourceRiotAPI, summoner.SourceSynthetic},
		},
		{
			name:    "unknown source rejected",
			raw:     "riot_api,carrier_pigeon,synthetic",
			wantErr: true,
		},
		{
			name:    "chain must end with the synthetic terminus",
			raw:     "synthetic,riot_api",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChainOrder(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("chain = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("chain = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a ,, b,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected result: %v", got)
	}
	if out := splitCSV(""); len(out) != 0 {
		t.Fatalf("expected empty slice, got %v", out)
	}
}
