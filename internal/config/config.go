package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appDir = "timetally"

var ErrInvalidConfig = errors.New("config: invalid value")

type RuntimeConfig struct {
	DBPath           string        `yaml:"db_path"`
	StateKey         string        `yaml:"state_key"`
	MaxStateBytes    int           `yaml:"max_state_bytes"`
	TickInterval     time.Duration `yaml:"tick_interval"`
	EstimateInterval time.Duration `yaml:"estimate_interval"`
	EventBuffer      int           `yaml:"event_buffer"`
	SoundFile        string        `yaml:"sound_file"`
	SpeechBackend    string        `yaml:"speech_backend"`
	LogFile          string        `yaml:"log_file"`
	LogLevel         string        `yaml:"log_level"`
	WebEnabled       bool          `yaml:"web_enabled"`
	WebAddr          string        `yaml:"web_addr"`
	WebOnly          bool          `yaml:"web_only"`
}

// Dir is the per-user directory holding the config file, database and log.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, appDir)
}

func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultRuntimeConfig() RuntimeConfig {
	dir := Dir()
	return RuntimeConfig{
		DBPath:           filepath.Join(dir, "timetally.db"),
		StateKey:         "timeTallyData",
		MaxStateBytes:    1 << 20,
		TickInterval:     time.Second,
		EstimateInterval: 5 * time.Second,
		EventBuffer:      64,
		SpeechBackend:    "auto",
		LogFile:          filepath.Join(dir, "timetally.log"),
		LogLevel:         "info",
		WebAddr:          "127.0.0.1:8080",
	}
}

func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// LoadFile overlays the YAML file at path onto base. A missing file leaves
// base untouched.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return base, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TIMETALLY_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TIMETALLY_STATE_KEY"); ok {
		cfg.StateKey = v
	}
	if v, ok := getEnvInt("TIMETALLY_MAX_STATE_BYTES"); ok && v > 0 {
		cfg.MaxStateBytes = v
	}
	if v, ok := getEnvDuration("TIMETALLY_TICK_INTERVAL"); ok && v > 0 {
		cfg.TickInterval = v
	}
	if v, ok := getEnvDuration("TIMETALLY_ESTIMATE_INTERVAL"); ok && v > 0 {
		cfg.EstimateInterval = v
	}
	if v, ok := getEnvInt("TIMETALLY_EVENT_BUFFER"); ok && v > 0 {
		cfg.EventBuffer = v
	}
	if v, ok := getEnvString("TIMETALLY_SOUND_FILE"); ok {
		cfg.SoundFile = v
	}
	if v, ok := getEnvString("TIMETALLY_SPEECH"); ok {
		cfg.SpeechBackend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TIMETALLY_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TIMETALLY_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvBool("TIMETALLY_WEB"); ok {
		cfg.WebEnabled = v
	}
	if v, ok := getEnvString("TIMETALLY_WEB_ADDR"); ok {
		cfg.WebAddr = v
	}
	if v, ok := getEnvBool("TIMETALLY_WEB_ONLY"); ok {
		cfg.WebOnly = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	switch c.SpeechBackend {
	case "auto", "espeak", "say", "none":
	default:
		return fmt.Errorf("%w: speech backend %q", ErrInvalidConfig, c.SpeechBackend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.TickInterval <= 0 || c.EstimateInterval <= 0 {
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.StateKey) == "" {
		return fmt.Errorf("%w: empty state key", ErrInvalidConfig)
	}
	if c.WebOnly && strings.TrimSpace(c.WebAddr) == "" {
		return fmt.Errorf("%w: web-only mode needs a web address", ErrInvalidConfig)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
