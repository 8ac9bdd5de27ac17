package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings.  Values come from an optional YAML file
// named by CONFIG_FILE and are then overridden by environment variables.
type Config struct {
	Port          string   `yaml:"port"`
	DatabaseURL   string   `yaml:"database_url"`
	NotifyChannel string   `yaml:"notify_channel"`
	LogMode       string   `yaml:"log_mode"`
	LogRedaction  bool     `yaml:"log_redaction"`
	LogHashSalt   string   `yaml:"log_hash_salt"`
	CORSOrigins   []string `yaml:"cors_origins"`
	OpenAI        OpenAI   `yaml:"openai"`
}

// OpenAI selects the endpoint and models used for drafting notes.
type OpenAI struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	ChatModel string `yaml:"chat_model"`
	NoteModel string `yaml:"note_model"`
}

func defaults() Config {
	return Config{
		Port:          "8080",
		NotifyChannel: "note_updates",
		LogMode:       "development",
		LogRedaction:  true,
		CORSOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Load reads configuration from CONFIG_FILE (if set) and the environment.
func Load() (Config, error) {
	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL must be set")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.NotifyChannel, "POSTGRES_NOTIFY_CHANNEL")
	setString(&cfg.LogMode, "LOG_MODE")
	setString(&cfg.LogHashSalt, "LOG_HASH_SALT")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.ChatModel, "OPENAI_MODEL_CHAT")
	setString(&cfg.OpenAI.NoteModel, "OPENAI_MODEL_NOTE")
	if v := strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogRedaction = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}
