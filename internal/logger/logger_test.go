package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	l := NewNop().WithRedaction(true, "salt")
	out := l.sanitizeKVs([]interface{}{
		"api_key", "sk-123",
		"patient_ref", "mrn-42",
		"route", "/api/notes",
		"dangling",
	})
	if out[1] != "[REDACTED]" {
		t.Errorf("api_key = %v", out[1])
	}
	hashed, _ := out[3].(string)
	if !strings.HasPrefix(hashed, "hash:") || strings.Contains(hashed, "mrn-42") {
		t.Errorf("patient_ref = %v", out[3])
	}
	if out[5] != "/api/notes" {
		t.Errorf("route = %v", out[5])
	}
	if out[6] != "dangling" {
		t.Errorf("odd trailing key dropped: %v", out)
	}

	same := l.sanitizeKVs([]interface{}{"patient_ref", "mrn-42"})
	if same[1] != hashed {
		t.Error("hash is not stable")
	}
}

func TestRedactionDisabled(t *testing.T) {
	l := NewNop().WithRedaction(false, "")
	out := l.sanitizeKVs([]interface{}{"api_key", "sk-123"})
	if out[1] != "sk-123" {
		t.Errorf("value = %v", out[1])
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("template", "soap").Debug("ok")
	}
}
