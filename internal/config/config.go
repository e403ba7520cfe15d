package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
	"github.com/riftwatch/rift-ledger/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	DBURL                      string
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	LogLevel                   logging.Level
	ChainOrder                 []summoner.Source
	MaxBatchSize               int
	BatchItemDelay             time.Duration
	RiotEnabled                bool
	RiotBaseURL                string
	RiotAPIKey                 string
	RiotTimeout                time.Duration
	RiotMaxRetries             int
	RiotMatchWindow            int
	RiotRequestsPerSec         float64
	RiotCircuitEnabled         bool
	RiotCircuitFailureCount    int
	RiotCircuitOpenTimeout     time.Duration
	RiotCircuitHalfOpenMaxReq  int
	ScrapeEnabled              bool
	ScrapeURLTemplates         []string
	ScrapeTimeout              time.Duration
	ScrapeUserAgent            string
	BrowserEnabled             bool
	BrowserNavTimeout          time.Duration
	BrowserHeadless            bool
	AggregatorEnabled          bool
	AggregatorBaseURL          string
	AggregatorTimeout          time.Duration
	SyntheticMatchCount        int
	ReconcileWorkers           int
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "rift-ledger"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		// Empty DB_URL keeps all state in memory. Handy for dev and for
		// the crawler CLI, where persistence across runs is optional.
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		RiotBaseURL:        getEnv("RIOT_BASE_URL", "https://kr.api.riotgames.com"),
		RiotAPIKey:         strings.TrimSpace(getEnv("RIOT_API_KEY", "")),
		ScrapeUserAgent:    getEnv("SCRAPE_USER_AGENT", ""),
		AggregatorBaseURL:  getEnv("AGGREGATOR_BASE_URL", ""),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofAddr:          getEnv("PPROF_ADDR", "localhost:6060"),
	}

	cfg.ReadTimeout, err = getEnvAsDuration("HTTP_READ_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	cfg.WriteTimeout, err = getEnvAsDuration("HTTP_WRITE_TIMEOUT", "120s")
	if err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP timeouts must be > 0")
	}

	cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "30s")
	if err != nil {
		return Config{}, err
	}

	cfg.ChainOrder, err = parseChainOrder(getEnv("SOURCE_CHAIN_ORDER", ""))
	if err != nil {
		return Config{}, err
	}

	cfg.MaxBatchSize, err = getEnvAsInt("INGEST_MAX_BATCH_SIZE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_MAX_BATCH_SIZE: %w", err)
	}
	if cfg.MaxBatchSize < 1 {
		return Config{}, fmt.Errorf("INGEST_MAX_BATCH_SIZE must be >= 1")
	}

	cfg.BatchItemDelay, err = getEnvAsDuration("INGEST_BATCH_ITEM_DELAY", "2s")
	if err != nil {
		return Config{}, err
	}
	if cfg.BatchItemDelay < 0 {
		return Config{}, fmt.Errorf("INGEST_BATCH_ITEM_DELAY must be >= 0")
	}

	cfg.RiotEnabled, err = getEnvAsBool("RIOT_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cfg.RiotTimeout, err = getEnvAsDuration("RIOT_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	cfg.RiotMaxRetries, err = getEnvAsInt("RIOT_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_MAX_RETRIES: %w", err)
	}
	if cfg.RiotMaxRetries < 0 {
		return Config{}, fmt.Errorf("RIOT_MAX_RETRIES must be >= 0")
	}
	cfg.RiotMatchWindow, err = getEnvAsInt("RIOT_MATCH_WINDOW", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_MATCH_WINDOW: %w", err)
	}
	if cfg.RiotMatchWindow < 1 {
		return Config{}, fmt.Errorf("RIOT_MATCH_WINDOW must be >= 1")
	}
	cfg.RiotRequestsPerSec, err = getEnvAsFloat("RIOT_REQUESTS_PER_SEC", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_REQUESTS_PER_SEC: %w", err)
	}
	if cfg.RiotRequestsPerSec <= 0 {
		return Config{}, fmt.Errorf("RIOT_REQUESTS_PER_SEC must be > 0")
	}

	cfg.RiotCircuitEnabled, err = getEnvAsBool("RIOT_CIRCUIT_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cfg.RiotCircuitFailureCount, err = getEnvAsInt("RIOT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.RiotCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.RiotCircuitOpenTimeout, err = getEnvAsDuration("RIOT_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	cfg.RiotCircuitHalfOpenMaxReq, err = getEnvAsInt("RIOT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RIOT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.RiotCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("RIOT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg.ScrapeEnabled, err = getEnvAsBool("SCRAPE_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cfg.ScrapeURLTemplates = splitCSV(getEnv("SCRAPE_URL_TEMPLATES", ""))
	cfg.ScrapeTimeout, err = getEnvAsDuration("SCRAPE_TIMEOUT", "8s")
	if err != nil {
		return Config{}, err
	}

	cfg.BrowserEnabled, err = getEnvAsBool("BROWSER_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cfg.BrowserNavTimeout, err = getEnvAsDuration("BROWSER_NAV_TIMEOUT", "20s")
	if err != nil {
		return Config{}, err
	}
	cfg.BrowserHeadless, err = getEnvAsBool("BROWSER_HEADLESS", "true")
	if err != nil {
		return Config{}, err
	}

	cfg.AggregatorEnabled, err = getEnvAsBool("AGGREGATOR_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	cfg.AggregatorTimeout, err = getEnvAsDuration("AGGREGATOR_TIMEOUT", "8s")
	if err != nil {
		return Config{}, err
	}

	cfg.SyntheticMatchCount, err = getEnvAsInt("SYNTHETIC_MATCH_COUNT", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNTHETIC_MATCH_COUNT: %w", err)
	}
	if cfg.SyntheticMatchCount < 1 {
		return Config{}, fmt.Errorf("SYNTHETIC_MATCH_COUNT must be >= 1")
	}

	cfg.ReconcileWorkers, err = getEnvAsInt("RECONCILE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECONCILE_WORKERS: %w", err)
	}
	if cfg.ReconcileWorkers < 1 {
		return Config{}, fmt.Errorf("RECONCILE_WORKERS must be >= 1")
	}

	cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}

	cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

// DefaultChainOrder is the cost-ordered adapter sequence: cheap and
// structured first, expensive and noisy later, synthetic always last.
func DefaultChainOrder() []summoner.Source {
	return []summoner.Source{
		summoner.SourceRiotAPI,
		summoner.SourceWebScrape,
		summoner.SourceBrowser,
		summoner.SourceAggregator,
		summoner.SourceSynthetic,
	}
}

func parseChainOrder(raw string) ([]summoner.Source, error) {
	items := splitCSV(raw)
	if len(items) == 0 {
		return DefaultChainOrder(), nil
	}

	priorities := summoner.DefaultSourcePriority()
	out := make([]summoner.Source, 0, len(items))
	for _, item := range items {
		src := summoner.Source(strings.ToLower(item))
		if _, ok := priorities[src]; !ok {
			return nil, fmt.Errorf("unknown source %q in SOURCE_CHAIN_ORDER", item)
		}
		out = append(out, src)
	}

	if out[len(out)-1] != summoner.SourceSynthetic {
		return nil, fmt.Errorf("SOURCE_CHAIN_ORDER must end with %s", summoner.SourceSynthetic)
	}

	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
