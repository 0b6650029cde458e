package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_DisabledByDefault(t *testing.T) {
	dir := t.TempDir()
	logger, closer, err := Setup(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer closer.Close()

	logger.Error().Msg("should vanish")
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got %v", logger.GetLevel())
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Error("Expected no log file when debug is off")
	}
}

func TestSetup_EnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closer, err := Setup(Options{Debug: true, Dir: dir, Level: "info"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info().Msg("Test log message")
	logger.Debug().Msg("Filtered out")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Expected log file to be created: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Expected log file to contain content")
	}
	if got := string(data); !strings.Contains(got, "Test log message") || strings.Contains(got, "Filtered out") {
		t.Errorf("Unexpected log content: %s", got)
	}
}

func TestSetup_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	if err := os.WriteFile(path, make([]byte, MaxSize+1), 0644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	_, closer, err := Setup(Options{Debug: true, Dir: dir})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer closer.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != FileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > MaxSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", MaxSize, info.Size())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"verbose", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: expected error=%v, got %v", tt.name, tt.wantErr, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.name, tt.want, got)
		}
	}

	if _, _, err := Setup(Options{Debug: true, Dir: t.TempDir(), Level: "verbose"}); err == nil {
		t.Error("Expected Setup to reject an unknown level")
	}
}
