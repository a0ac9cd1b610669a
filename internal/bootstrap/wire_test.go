package bootstrap

import (
	"testing"

	"github.com/rs/zerolog"

	"selah/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	services, err := Build(noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Engine == nil {
		t.Fatalf("expected engine")
	}
	if services.Config.Gemini.APIKey != "test-key" {
		t.Fatalf("unexpected config: %+v", services.Config.Gemini)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	if got := newLogger("debug").GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", got)
	}
	if got := newLogger("not-a-level").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", got)
	}
	if got := newLogger("").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("expected info default, got %s", got)
	}
}

type noopEventSink struct{}

func (noopEventSink) SessionStateChanged(_ domain.SessionState, _ domain.SessionStateReason) {}
func (noopEventSink) TranscriptUpdated(_ []domain.TranscriptEntry)                           {}
func (noopEventSink) PassageRetrieved(_ domain.Passage)                                      {}
func (noopEventSink) SessionEnded(_ domain.SessionRecord)                                    {}
func (noopEventSink) SessionError(_ domain.ErrorCode, _ string)                              {}
