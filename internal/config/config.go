package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DataDir   string    `json:"data_dir" validate:"required"`
	LogLevel  string    `json:"log_level" validate:"oneof=debug info warn error"`
	LogFile   string    `json:"log_file"`
	Assistant Assistant `json:"assistant"`
	Flight    Flight    `json:"flight"`
	Viewport  struct {
		Width  int `json:"width" validate:"gt=0"`
		Height int `json:"height" validate:"gt=0"`
	} `json:"viewport"`
	Catalog struct {
		ProductCount int `json:"product_count" validate:"gte=1,lte=1000"`
	} `json:"catalog"`
	HTTP struct {
		Enabled bool   `json:"enabled"`
		Listen  string `json:"listen" validate:"required_if=Enabled true"`
	} `json:"http"`
}

type Assistant struct {
	LatencyMS int `json:"latency_ms" validate:"gte=0"`
}

func (a Assistant) Latency() time.Duration {
	return time.Duration(a.LatencyMS) * time.Millisecond
}

type Flight struct {
	ToCenterMS int     `json:"to_center_ms" validate:"gte=0"`
	ToCartMS   int     `json:"to_cart_ms" validate:"gte=0"`
	Policy     string  `json:"policy" validate:"oneof=reject queue"`
	QueueSize  int     `json:"queue_size" validate:"gte=1,lte=64"`
	EndScale   float64 `json:"end_scale" validate:"gt=0,lte=1"`
	Easing     string  `json:"easing" validate:"oneof=linear ease-in ease-out ease-in-out"`
}

func (f Flight) ToCenter() time.Duration {
	return time.Duration(f.ToCenterMS) * time.Millisecond
}

func (f Flight) ToCart() time.Duration {
	return time.Duration(f.ToCartMS) * time.Millisecond
}

func (c *Config) DataPath(name string) string {
	return filepath.Join(c.DataDir, name)
}

// Default returns the configuration written on first run.
func Default() *Config {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".shopfront"),
		LogLevel: "info",
	}
	cfg.Assistant.LatencyMS = 7000
	cfg.Flight.ToCenterMS = 400
	cfg.Flight.ToCartMS = 400
	cfg.Flight.Policy = "reject"
	cfg.Flight.QueueSize = 4
	cfg.Flight.EndScale = 0.2
	cfg.Flight.Easing = "ease-in-out"
	cfg.Viewport.Width = 420
	cfg.Viewport.Height = 800
	cfg.Catalog.ProductCount = 12
	cfg.HTTP.Enabled = true
	cfg.HTTP.Listen = "127.0.0.1:8787"
	return cfg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the config file at path, writing defaults there if it does not
// exist, then applies a .env file from the working directory and the
// environment on top.
func Load(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	// Missing .env is fine; existing variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile returns the defaults overlaid with the file at path, creating
// the file from the defaults when it is missing.
func readFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides from env (highest precedence).
func applyEnv(cfg *Config) error {
	if level := os.Getenv("SHOPFRONT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if file := os.Getenv("SHOPFRONT_LOG_FILE"); file != "" {
		cfg.LogFile = file
	}
	if listen := os.Getenv("SHOPFRONT_HTTP_LISTEN"); listen != "" {
		cfg.HTTP.Listen = listen
	}
	if policy := os.Getenv("SHOPFRONT_FLIGHT_POLICY"); policy != "" {
		cfg.Flight.Policy = policy
	}
	if latency := os.Getenv("SHOPFRONT_LATENCY_MS"); latency != "" {
		ms, err := strconv.Atoi(latency)
		if err != nil {
			return fmt.Errorf("parse SHOPFRONT_LATENCY_MS: %w", err)
		}
		cfg.Assistant.LatencyMS = ms
	}
	return nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
