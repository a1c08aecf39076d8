package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, zerolog.InfoLevel)

	log.Debug().Msg("hidden")
	log.Info().Int("depth", 3).Msg("perft")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "perft") || !strings.Contains(out, "depth") {
		t.Errorf("Expected message and field in output, got %q", out)
	}
	if !strings.Contains(out, "logx_test.go:") {
		t.Errorf("Expected short caller in output, got %q", out)
	}
}

func TestLevel(t *testing.T) {
	if Level(true) != zerolog.DebugLevel {
		t.Error("Expected debug level when verbose")
	}
	if Level(false) != zerolog.InfoLevel {
		t.Error("Expected info level by default")
	}
}
