package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const (
	StoreNotion   = "notion"
	StorePostgres = "postgres"
)

// Config хранит параметры одного запуска синхронизации.
type Config struct {
	APIKey      string        `long:"api-key" env:"BIZINFO_API_KEY" description:"bizinfo API key (crtfcKey)"`
	BaseURL     string        `long:"base-url" env:"BIZINFO_BASE_URL" default:"https://www.bizinfo.go.kr" description:"bizinfo host, also used to resolve relative announcement URLs"`
	CollectDays int           `long:"collect-days" env:"COLLECT_DAYS" default:"2" description:"Number of previous days to collect in addition to today"`
	PageSize    int           `long:"page-size" env:"PAGE_SIZE" default:"100" description:"Page size of the single feed request"`
	Timeout     time.Duration `long:"timeout" env:"REQUEST_TIMEOUT" default:"10s" description:"Per-request timeout"`

	Store       string `long:"store" env:"STORE_BACKEND" default:"notion" choice:"notion" choice:"postgres" description:"Record store backend"`
	NotionToken string `long:"notion-token" env:"NOTION_TOKEN" description:"Notion integration token"`
	NotionDB    string `long:"notion-db" env:"NOTION_DB_ID" description:"Notion database ID"`
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"PostgreSQL connection string"`

	Timezone    string `long:"timezone" env:"GRANTSYNC_TZ" default:"Asia/Seoul" description:"Time zone in which today's date is computed"`
	Pushgateway string `long:"pushgateway" env:"PUSHGATEWAY_URL" description:"Prometheus Pushgateway URL (optional)"`
	Debug       bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Validate проверяет обязательные параметры и параметры выбранного хранилища.
func (cfg *Config) Validate() error {
	if cfg.APIKey == "" {
		return errors.New("api key is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %s", cfg.BaseURL)
	}
	if cfg.CollectDays < 0 {
		return errors.New("collect days must be ≥ 0")
	}
	if cfg.PageSize < 1 {
		return errors.New("page size must be ≥ 1")
	}
	if cfg.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	switch cfg.Store {
	case StoreNotion:
		if cfg.NotionToken == "" || cfg.NotionDB == "" {
			return errors.New("notion store requires token and database ID")
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("postgres store requires database URL")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", cfg.Store)
	}
	if cfg.Pushgateway != "" {
		if _, err := url.ParseRequestURI(cfg.Pushgateway); err != nil {
			return fmt.Errorf("invalid pushgateway URL: %s", cfg.Pushgateway)
		}
	}
	if cfg.Timezone == "" {
		return errors.New("timezone is required")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %v", cfg.Timezone, err)
	}
	return nil
}

// Location возвращает часовой пояс, в котором считается «сегодня».
func (cfg *Config) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load подгружает envFile (если он есть), затем разбирает args и окружение.
// При запросе справки возвращает nil, nil.
func Load(envFile string, args []string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}

// EnvFile возвращает путь к .env-файлу, переопределяемый через GRANTSYNC_ENV_FILE.
func EnvFile() string {
	if p := os.Getenv("GRANTSYNC_ENV_FILE"); p != "" {
		return p
	}
	return ".env"
}
