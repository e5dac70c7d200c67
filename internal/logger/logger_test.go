package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cortexai/toolhost/internal/logger"
)

func restore(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetupJSON(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	logger.Setup("debug", "json", &buf)

	log.Debug().Str("tool", "x").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("json format should emit JSON, got %q: %v", buf.String(), err)
	}
	if line["message"] != "hello" || line["tool"] != "x" || line["level"] != "debug" {
		t.Errorf("line = %v", line)
	}
}

func TestSetupLevelFilters(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	logger.Setup("warn", "json", &buf)

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestSetupUnknownLevel(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	logger.Setup("loud", "json", &buf)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("GlobalLevel = %v, want info", zerolog.GlobalLevel())
	}
	if !bytes.Contains(buf.Bytes(), []byte("unknown log level")) {
		t.Error("unknown level should be reported")
	}
}

func TestSetupConsole(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	logger.Setup("info", "console", &buf)
	log.Info().Msg("readable")
	if !bytes.Contains(buf.Bytes(), []byte("readable")) {
		t.Errorf("console output = %q", buf.String())
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Error("console format should not be JSON")
	}
}
