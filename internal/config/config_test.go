package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `port: "9000"
database_url: postgres://file/db
log_mode: production
cors_origins:
  - https://app.example.org
openai:
  chat_model: gpt-4o
  note_model: gpt-4o
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_MODEL_NOTE", "gpt-4.1")
	t.Setenv("OPENAI_MODEL_CHAT", "")
	t.Setenv("LOG_MODE", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("LOG_REDACTION_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" || cfg.DatabaseURL != "postgres://file/db" || cfg.LogMode != "production" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o" || cfg.OpenAI.NoteModel != "gpt-4.1" {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://app.example.org"}) {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
	if cfg.LogRedaction {
		t.Error("LOG_REDACTION_ENABLED=false not applied")
	}
	if cfg.NotifyChannel != "note_updates" {
		t.Errorf("default channel lost: %q", cfg.NotifyChannel)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
