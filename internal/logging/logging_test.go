package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestConfigureLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Configure(&buf, "warn", false)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestConfigureUnknownLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Configure(&buf, "loud", false)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %s", zerolog.GlobalLevel())
	}
	l := Component("bot")
	l.Info().Msg("tagged")
	if !strings.Contains(buf.String(), `"component":"bot"`) {
		t.Fatalf("component field missing: %s", buf.String())
	}
}
