package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Report   ReportConfig   `yaml:"report"`
	Delays   DelaysConfig   `yaml:"delays"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// ReportConfig drives the stop report generator.
type ReportConfig struct {
	OutputDir       string `yaml:"output_dir" validate:"required"`
	Provider        string `yaml:"provider" validate:"oneof=vitrasa renfe default"`
	Workers         int    `yaml:"workers" validate:"gte=1,lte=64"`
	WriteJSON       bool   `yaml:"write_json"`
	WriteBinary     bool   `yaml:"write_binary"`
	SubsetCacheSize int    `yaml:"subset_cache_size" validate:"gte=1"`
	MetricsTextfile string `yaml:"metrics_textfile"`
	DownloadRetries int    `yaml:"download_retries" validate:"gte=0,lte=20"`
}

// DelaysConfig drives the real-time delay collector.
type DelaysConfig struct {
	APIURL          string        `yaml:"api_url" validate:"required,contains={stop}"`
	StopCodes       []int         `yaml:"stop_codes" validate:"required,min=1,dive,gt=0"`
	Frequency       time.Duration `yaml:"frequency" validate:"gte=1000000000"`
	ServiceStart    string        `yaml:"service_start" validate:"datetime=15:04"`
	ServiceEnd      string        `yaml:"service_end" validate:"datetime=15:04"`
	ServiceTimezone string        `yaml:"service_timezone" validate:"required,timezone"`
	RetentionDays   int           `yaml:"retention_days" validate:"gte=0"`
	MetricsAddr     string        `yaml:"metrics_addr"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     string `yaml:"port" validate:"required,numeric"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" validate:"required"`
	SSLMode  string `yaml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
}

type AlertsConfig struct {
	DiscordURL string `yaml:"discord_url" validate:"omitempty,url"`
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment overrides. Validation is left to the caller, since each binary
// only needs its own sections.
func Load(path string) (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Report: ReportConfig{
			OutputDir:       "./output/",
			Provider:        "vitrasa",
			Workers:         4,
			WriteJSON:       true,
			WriteBinary:     true,
			SubsetCacheSize: 64,
			DownloadRetries: 5,
		},
		Delays: DelaysConfig{
			APIURL:          "https://busurbano.costas.dev/api/vigo/GetConsolidatedCirculations?stopId={stop}",
			StopCodes:       defaultStopCodes(),
			Frequency:       30 * time.Second,
			ServiceStart:    "07:00",
			ServiceEnd:      "23:00",
			ServiceTimezone: "Europe/Madrid",
			RetentionDays:   90,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DBName:  "busurbano",
			SSLMode: "disable",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultStopCodes are the Vigo stops sampled when none are configured.
func defaultStopCodes() []int {
	return []int{
		14227, // Torrecedeira 86
		8460,  // Torrecedeira 105
		20206, // Marqués Valladares 19
		14264, // Urzáiz-Príncipe
		8770,  // Urzáiz 13
		5610,  // Gran Vía 12
		5660,  // Gran Vía 19
		6940,  // Praza América 3
		2780,  // Camelias 135
		8630,  // Travesía 7
		8610,  // Travesía 8
		5410,  // Fragoso 12
		1360,  // Castrelos 16
		8040,  // Sanjurjo Badía 167
		14132, // Sanjurjo Badía 252
	}
}

func applyEnv(cfg *Config) error {
	cfg.Report.OutputDir = getEnv("STOPREPORT_OUTPUT_DIR", cfg.Report.OutputDir)
	cfg.Report.Provider = strings.ToLower(getEnv("STOPREPORT_PROVIDER", cfg.Report.Provider))
	workers, err := getIntEnv("STOPREPORT_WORKERS", cfg.Report.Workers)
	if err != nil {
		return err
	}
	cfg.Report.Workers = workers
	cfg.Report.MetricsTextfile = getEnv("METRICS_TEXTFILE", cfg.Report.MetricsTextfile)

	cfg.Delays.APIURL = getEnv("DELAY_API_URL", cfg.Delays.APIURL)
	if v := os.Getenv("DELAY_STOP_CODES"); v != "" {
		codes, err := parseIntList(v)
		if err != nil {
			return fmt.Errorf("invalid DELAY_STOP_CODES: %w", err)
		}
		cfg.Delays.StopCodes = codes
	}
	if v := os.Getenv("FREQUENCY_SECONDS"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return fmt.Errorf("invalid FREQUENCY_SECONDS: %q", v)
		}
		cfg.Delays.Frequency = time.Duration(sec) * time.Second
	}
	cfg.Delays.ServiceStart = getEnv("SERVICE_START", cfg.Delays.ServiceStart)
	cfg.Delays.ServiceEnd = getEnv("SERVICE_END", cfg.Delays.ServiceEnd)
	cfg.Delays.ServiceTimezone = getEnv("SERVICE_TIMEZONE", cfg.Delays.ServiceTimezone)
	retention, err := getIntEnv("DELAY_RETENTION_DAYS", cfg.Delays.RetentionDays)
	if err != nil {
		return err
	}
	cfg.Delays.RetentionDays = retention
	cfg.Delays.MetricsAddr = getEnv("METRICS_ADDR", cfg.Delays.MetricsAddr)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.FilePath = getEnv("LOG_FILE", cfg.Logging.FilePath)

	cfg.Alerts.DiscordURL = getEnv("DISCORD_WEBHOOK_URL", cfg.Alerts.DiscordURL)
	return nil
}

// Validate checks the report section.
func (c *ReportConfig) Validate() error {
	return validator.New().Struct(c)
}

// Validate checks the delay collector section.
func (c *DelaysConfig) Validate() error {
	return validator.New().Struct(c)
}

func (c *DatabaseConfig) Validate() error {
	return validator.New().Struct(c)
}

func (c *AlertsConfig) Validate() error {
	return validator.New().Struct(c)
}

// ConnectionString returns a lib/pq key/value DSN with every value quoted.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		quoteDSN(c.Host), quoteDSN(c.Port), quoteDSN(c.User), quoteDSN(c.Password), quoteDSN(c.DBName), quoteDSN(c.SSLMode))
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSN(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// ServiceWindow returns the collector's daily window as minutes since midnight.
func (c *DelaysConfig) ServiceWindow() (start, end int, err error) {
	start, err = minutesOfDay(c.ServiceStart)
	if err != nil {
		return 0, 0, fmt.Errorf("service start: %w", err)
	}
	end, err = minutesOfDay(c.ServiceEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("service end: %w", err)
	}
	return start, end, nil
}

func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return v, nil
}
