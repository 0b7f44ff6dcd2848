package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"", Info, false},
		{"warning", Warn, false},
		{"error", Error, false},
		{"verbose", Info, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("store", Warn, &buf)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "[store]") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestLogger_NamedJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("mediagraph", Debug, &buf)
	l.JSON = true

	l.Named("scan").Debug("registered %s", "a.mp3")

	var entry logEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry.Component != "mediagraph/scan" || entry.Level != "DEBUG" || entry.Message != "registered a.mp3" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestLogger_NilIsSilent(t *testing.T) {
	var l *Logger
	l.Info("nothing")
	if l.Named("x") != nil {
		t.Error("Named on nil logger should be nil")
	}
}
