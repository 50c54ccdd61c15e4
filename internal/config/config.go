// config реализует конфигурацию warnings-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/robfig/cron/v3"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Countries CountriesConfig `yaml:"countries"`
	Batch     BatchConfig     `yaml:"batch"`
	Notify    NotifyConfig    `yaml:"notify"`
	SMS       SMSConfig       `yaml:"sms"`
	Artifact  ArtifactConfig  `yaml:"artifact"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// HTTPConfig — операционный HTTP (health/metrics/warnings.json/ручной запуск).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50085"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
	// Дедлайн на подключение и ping при старте.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
}

// ScraperConfig — источник предупреждений и параметры обхода.
type ScraperConfig struct {
	IndexURL string `yaml:"index_url" env:"SCRAPER_INDEX_URL" env-default:"http://travel.state.gov/content/passports/en/alertswarnings.html"`
	// База для относительных ссылок из колонки страны.
	BaseURL    string `yaml:"base_url"    env:"SCRAPER_BASE_URL"    env-default:"http://travel.state.gov"`
	Source     string `yaml:"source"      env:"SCRAPER_SOURCE"      env-default:"US State Department"`
	DateLayout string `yaml:"date_layout" env:"SCRAPER_DATE_LAYOUT" env-default:"January 2, 2006"`
	UserAgent  string `yaml:"user_agent"  env:"SCRAPER_USER_AGENT"  env-default:"go-travel-warnings/1.0"`
	// Селекторы страницы с подробностями.
	TextSelector     string `yaml:"text_selector"     env:"SCRAPER_TEXT_SELECTOR"     env-default:".content_par"`
	OverviewSelector string `yaml:"overview_selector" env:"SCRAPER_OVERVIEW_SELECTOR" env-default:".callout_text"`
	// Сколько страниц подробностей качаем одновременно.
	DetailConcurrency int `yaml:"detail_concurrency" env:"SCRAPER_DETAIL_CONCURRENCY" env-default:"4"`
	// Запросов в секунду к одному хосту.
	RatePerSecond float64       `yaml:"rate_per_second" env:"SCRAPER_RATE_PER_SECOND" env-default:"2"`
	Burst         int           `yaml:"burst"           env:"SCRAPER_BURST"           env-default:"2"`
	Timeout       time.Duration `yaml:"timeout"         env:"SCRAPER_TIMEOUT"         env-default:"20s"`
}

// CountriesConfig — справочник код -> название страны.
type CountriesConfig struct {
	// Пустой путь — встроенный справочник ISO 3166-1.
	Path string `yaml:"path" env:"COUNTRIES_PATH"`
}

// BatchConfig — параметры пакетного upsert.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" env:"BATCH_CONCURRENCY" env-default:"8"`
}

// NotifyConfig — параметры рассылки.
type NotifyConfig struct {
	Concurrency int `yaml:"concurrency" env:"NOTIFY_CONCURRENCY" env-default:"4"`
}

// SMSConfig — учётные данные Twilio.
// Если AccountSID/AuthToken пусты — SMS не отправляются (только лог).
type SMSConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_SID"`
	AuthToken  string `yaml:"auth_token"  env:"TWILIO_AUTH"`
	From       string `yaml:"from"        env:"BONVOYAGE_NUMBER"`
}

// Enabled сообщает, настроена ли реальная отправка.
func (s SMSConfig) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != ""
}

// Виды публикации артефакта warnings.json.
const (
	ArtifactNone = "none"
	ArtifactFile = "file"
	ArtifactS3   = "s3"
	ArtifactBoth = "both"
)

// ArtifactConfig — куда публиковать warnings.json.
type ArtifactConfig struct {
	Kind string   `yaml:"kind" env:"ARTIFACT_KIND" env-default:"none"`
	Path string   `yaml:"path" env:"ARTIFACT_PATH" env-default:"public/data/warnings.json"`
	S3   S3Config `yaml:"s3"`
}

// S3Config — настройки MinIO/S3.
type S3Config struct {
	Endpoint     string `yaml:"endpoint"      env:"S3_ENDPOINT"`
	Bucket       string `yaml:"bucket"        env:"S3_BUCKET"`
	Object       string `yaml:"object"        env:"S3_OBJECT"        env-default:"data/warnings.json"`
	RootUser     string `yaml:"root_user"     env:"S3_ROOT_USER"`
	RootPassword string `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
}

// SchedulerConfig — периодический запуск конвейера.
type SchedulerConfig struct {
	// Отключает cron; запуски остаются доступны через HTTP и --once.
	Disabled bool `yaml:"disabled" env:"SCHEDULER_DISABLED"`
	// Стандартная cron-спецификация из 5 полей.
	Spec       string `yaml:"spec"         env:"SCHEDULER_SPEC"         env-default:"0 */6 * * *"`
	RunOnStart bool   `yaml:"run_on_start" env:"SCHEDULER_RUN_ON_START" env-default:"false"`
}

// TimeoutConfig — сервисные таймауты.
type TimeoutConfig struct {
	// Общий дедлайн обработки HTTP-запроса.
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"5s"`
	// Дедлайн одного прогона конвейера целиком.
	Run time.Duration `yaml:"run" env:"RUN_TIMEOUT" env-default:"10m"`
	// Дедлайн graceful shutdown.
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return readFile(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return readFile(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if err := validateHTTPURL(c.Scraper.IndexURL); err != nil {
		return fmt.Errorf("scraper.index_url: %w", err)
	}

	if err := validateHTTPURL(c.Scraper.BaseURL); err != nil {
		return fmt.Errorf("scraper.base_url: %w", err)
	}

	if strings.TrimSpace(c.Scraper.Source) == "" {
		return fmt.Errorf("scraper.source is required")
	}

	if strings.TrimSpace(c.Scraper.DateLayout) == "" {
		return fmt.Errorf("scraper.date_layout is required")
	}

	if c.Scraper.DetailConcurrency <= 0 {
		return fmt.Errorf("scraper.detail_concurrency must be > 0")
	}

	if c.Scraper.RatePerSecond < 0 {
		return fmt.Errorf("scraper.rate_per_second must be >= 0")
	}

	if c.Scraper.RatePerSecond > 0 && c.Scraper.Burst <= 0 {
		return fmt.Errorf("scraper.burst must be > 0 when rate is limited")
	}

	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be > 0")
	}

	if c.Notify.Concurrency <= 0 {
		return fmt.Errorf("notify.concurrency must be > 0")
	}

	if c.SMS.Enabled() && c.SMS.From == "" {
		return fmt.Errorf("sms.from is required when twilio credentials are set")
	}

	switch c.Artifact.Kind {
	case "", ArtifactNone:
	case ArtifactFile:
		if c.Artifact.Path == "" {
			return fmt.Errorf("artifact.path is required for kind=file")
		}
	case ArtifactS3:
		if err := c.Artifact.S3.validate(); err != nil {
			return err
		}
	case ArtifactBoth:
		if c.Artifact.Path == "" {
			return fmt.Errorf("artifact.path is required for kind=both")
		}

		if err := c.Artifact.S3.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("artifact.kind must be one of none|file|s3|both, got %q", c.Artifact.Kind)
	}

	if !c.Scheduler.Disabled {
		if _, err := cron.ParseStandard(c.Scheduler.Spec); err != nil {
			return fmt.Errorf("scheduler.spec is invalid: %w", err)
		}
	}

	if c.Timeouts.Run <= 0 {
		return fmt.Errorf("timeouts.run must be > 0")
	}

	return nil
}

func (s S3Config) validate() error {
	if s.Endpoint == "" || s.Bucket == "" {
		return fmt.Errorf("artifact.s3.endpoint and artifact.s3.bucket are required")
	}

	if s.Object == "" {
		return fmt.Errorf("artifact.s3.object is required")
	}

	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}

	if u.Host == "" {
		return fmt.Errorf("host is required")
	}

	return nil
}
