package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// browserUserAgent is sent on every outbound request. Many small-business
// sites refuse requests that do not look like a browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// defaultDenylist excludes obviously non-business destinations from search
// results: social and video platforms, reference sites, generic health
// information, government domains. Heuristic data, overridable via
// search.denylist or search.denylist_file.
var defaultDenylist = []string{
	"facebook.com",
	"instagram.com",
	"linkedin.com",
	"twitter.com",
	"x.com",
	"youtube.com",
	"tiktok.com",
	"pinterest.com",
	"wikipedia.org",
	"yelp.com",
	"tripadvisor",
	"healthline",
	"webmd",
	"clinic",
	".govt.nz",
}

// Config holds the full application configuration.
type Config struct {
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SearchConfig configures the DuckDuckGo resolver.
type SearchConfig struct {
	BaseURL      string   `yaml:"base_url" mapstructure:"base_url"`
	SiteFilter   string   `yaml:"site_filter" mapstructure:"site_filter"`
	TimeoutSecs  int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string   `yaml:"user_agent" mapstructure:"user_agent"`
	Oversample   int      `yaml:"oversample" mapstructure:"oversample"`
	Denylist     []string `yaml:"denylist" mapstructure:"denylist"`
	DenylistFile string   `yaml:"denylist_file" mapstructure:"denylist_file"`
}

// FetchConfig configures per-site page fetching.
type FetchConfig struct {
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LedgerConfig configures the lead ledger backend.
type LedgerConfig struct {
	Driver          string `yaml:"driver" mapstructure:"driver"`
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	Sheet           string `yaml:"sheet" mapstructure:"sheet"`
	Path            string `yaml:"path" mapstructure:"path"`
	DatabaseURL     string `yaml:"database_url" mapstructure:"database_url"`
}

// PipelineConfig configures run behavior.
type PipelineConfig struct {
	DelaySecs    float64 `yaml:"delay_secs" mapstructure:"delay_secs"`
	DefaultCount int     `yaml:"default_count" mapstructure:"default_count"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and LEADS_* environment
// variables. The spreadsheet ID also binds to the bare SPREADSHEET_ID variable
// so an existing .env keeps working.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ledger.spreadsheet_id", "LEADS_LEDGER_SPREADSHEET_ID", "SPREADSHEET_ID"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}

	// Defaults
	v.SetDefault("search.base_url", "https://html.duckduckgo.com/html/")
	v.SetDefault("search.site_filter", ".nz")
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("search.user_agent", browserUserAgent)
	v.SetDefault("search.oversample", 3)
	v.SetDefault("search.denylist", defaultDenylist)
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.user_agent", browserUserAgent)
	v.SetDefault("fetch.max_body_bytes", 2*1024*1024)
	v.SetDefault("ledger.driver", "sheets")
	v.SetDefault("ledger.credentials_file", "google-credentials.json")
	v.SetDefault("ledger.sheet", "Sheet1")
	v.SetDefault("pipeline.delay_secs", 2.0)
	v.SetDefault("pipeline.default_count", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Search.DenylistFile != "" {
		denylist, err := LoadDenylist(cfg.Search.DenylistFile)
		if err != nil {
			return nil, err
		}
		cfg.Search.Denylist = denylist
	}

	return &cfg, nil
}

// LoadDenylist reads a YAML list of URL substrings to exclude from search
// results.
func LoadDenylist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read denylist %s", path)
	}
	var denylist []string
	if err := yaml.Unmarshal(data, &denylist); err != nil {
		return nil, eris.Wrapf(err, "config: parse denylist %s", path)
	}
	return denylist, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
