package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("output contains entries below the configured level:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("output missing warn/error entries:\n%s", out)
	}
}

func TestLogger_TextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})

	logger.Info("selected", Fields{"provider": "openai", "attempt": 2})

	out := buf.String()
	if !strings.Contains(out, "provider=openai") {
		t.Errorf("text output missing provider field: %s", out)
	}
	if !strings.Contains(out, "attempt=2") {
		t.Errorf("text output missing attempt field: %s", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Error("request failed", errors.New("quota exceeded"), Fields{"provider": "gemini"})

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", parsed["level"])
	}
	if parsed["error"] != "quota exceeded" {
		t.Errorf("error = %v, want %q", parsed["error"], "quota exceeded")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelNone},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggingRoundTripper_RedactsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})
	client := &http.Client{Transport: NewLoggingRoundTripper(nil, logger, true)}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", "Bearer super-secret")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if string(body) != `{"ok":true}` {
		t.Errorf("round tripper altered body: %q", body)
	}
	out := buf.String()
	if strings.Contains(out, "super-secret") {
		t.Errorf("log output leaked credential:\n%s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Errorf("log output missing redaction marker:\n%s", out)
	}
}
