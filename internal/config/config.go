package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mavwarf/genicons/internal/paths"
	"github.com/caarlos0/env/v11"
)

// DefaultRenderer needs nothing beyond the binary itself.
const DefaultRenderer = "builtin"

// DefaultMQTTTopic is the topic run summaries are published to.
const DefaultMQTTTopic = "genicons/runs"

// ExplicitPathEnv names a config file that must exist.
const ExplicitPathEnv = "GENICONS_CONFIG"

// MQTT holds the optional broker settings for run summaries. An empty
// Broker disables publishing.
type MQTT struct {
	Broker   string `json:"broker,omitempty"    env:"GENICONS_MQTT_BROKER"`
	Topic    string `json:"topic,omitempty"     env:"GENICONS_MQTT_TOPIC"`
	ClientID string `json:"client_id,omitempty" env:"GENICONS_MQTT_CLIENT_ID"`
	Username string `json:"username,omitempty"  env:"GENICONS_MQTT_USERNAME"`
	Password string `json:"password,omitempty"  env:"GENICONS_MQTT_PASSWORD"`
}

// Config holds all genicons settings. File values are overridden by
// environment variables.
type Config struct {
	Dir       string `json:"dir,omitempty"        env:"GENICONS_DIR"`
	Renderer  string `json:"renderer,omitempty"   env:"GENICONS_RENDERER"`
	Strict    bool   `json:"strict,omitempty"     env:"GENICONS_STRICT"`
	Log       bool   `json:"log,omitempty"        env:"GENICONS_LOG"`
	HistoryDB string `json:"history_db,omitempty" env:"GENICONS_HISTORY_DB"`
	MQTT      MQTT   `json:"mqtt,omitempty"`
}

// Default returns the settings used when no file or variable says otherwise.
func Default() Config {
	return Config{
		Dir:       paths.PublicDirName,
		Renderer:  DefaultRenderer,
		HistoryDB: filepath.Join(paths.DataDir(), paths.HistoryDBName),
		MQTT: MQTT{
			Topic:    DefaultMQTTTopic,
			ClientID: paths.AppDirName,
		},
	}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = Default()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Validate reports settings that cannot work. Renderer names are not
// checked here; an unknown renderer is reported as unavailable.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("config: dir must not be empty")
	}
	if c.Renderer == "" {
		return fmt.Errorf("config: renderer must not be empty")
	}
	if c.Log && c.HistoryDB == "" {
		return fmt.Errorf("config: log is enabled but history_db is empty")
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("config: mqtt.broker is set but mqtt.topic is empty")
	}
	return nil
}

// Load builds the configuration. The file is found, in order:
//  1. $GENICONS_CONFIG (if set; it must exist)
//  2. genicons-config.json next to the running binary
//  3. ~/.config/genicons/genicons-config.json (%APPDATA%\genicons on Windows)
//
// No file means defaults. Environment variables are applied last.
func Load() (Config, error) {
	cfg := Default()

	path, err := find()
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if cfg, err = readConfig(path); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func find() (string, error) {
	if p := os.Getenv(ExplicitPathEnv); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("reading config: %w", err)
		}
		return p, nil
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// User config directory
	p := filepath.Join(paths.DataDir(), paths.ConfigFileName)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return "", nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
