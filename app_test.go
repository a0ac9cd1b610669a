package main

import (
	"errors"
	"testing"
	"time"

	"selah/internal/domain"
)

func TestSessionReasonMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.SessionStateReason]string{
		domain.SessionReasonReady:            "Ready",
		domain.SessionReasonConnecting:       "Connecting...",
		domain.SessionReasonSessionOpened:    "Conversation started",
		domain.SessionReasonSessionRestarted: "Conversation restarted; previous session discarded",
		domain.SessionReasonSessionStopped:   "Conversation ended",
		domain.SessionReasonSessionClosed:    "Conversation closed by the service",
		domain.SessionReasonConnectFailed:    "Could not connect",
		domain.SessionReasonSessionFailed:    "Conversation failed",
	}

	for reason, want := range cases {
		reason := reason
		want := want
		t.Run(string(reason), func(t *testing.T) {
			t.Parallel()
			if got := sessionReasonMessage(reason); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := sessionReasonMessage("unknown"); got != "" {
		t.Fatalf("expected empty unknown reason message, got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.ErrorCode]string{
		domain.ErrorCodeStartup:     "Startup failed",
		domain.ErrorCodeConnect:     "Connection failed",
		domain.ErrorCodeAudioStop:   "Audio stop issue",
		domain.ErrorCodeAudioStream: "Audio streaming issue",
		domain.ErrorCodeSession:     "Conversation error",
	}
	for code, want := range cases {
		code := code
		want := want
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			if got := errorMessage(code, "ignored"); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := errorMessage("unknown", "detail"); got != "detail" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := errorMessage("unknown", ""); got != "Unknown error" {
		t.Fatalf("expected unknown fallback, got %q", got)
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected uninitialized error")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
}

func TestGetStatusWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	status := app.GetStatus()
	if status.State != domain.SessionStateIdle || status.Active {
		t.Fatalf("unexpected status: %+v", status)
	}

	app.bootErr = errors.New("boot")
	status = app.GetStatus()
	if status.State != domain.SessionStateError || status.Active != false || status.Message != "boot" {
		t.Fatalf("unexpected boot status: %+v", status)
	}
}

func TestSessionHistory(t *testing.T) {
	t.Parallel()

	app := &App{}
	if got := app.ListSessions(); len(got) != 0 {
		t.Fatalf("expected empty history, got %+v", got)
	}

	app.SessionEnded(domain.SessionRecord{
		ID:        "s-1",
		StartTime: time.Now(),
		Transcript: []domain.TranscriptEntry{
			{Speaker: domain.SpeakerUser, Text: "amen", IsFinal: true},
		},
	})
	app.SessionEnded(domain.SessionRecord{ID: "s-2", StartTime: time.Now()})

	records := app.ListSessions()
	if len(records) != 2 || records[0].ID != "s-1" || records[1].ID != "s-2" {
		t.Fatalf("unexpected history: %+v", records)
	}

	// ListSessions hands out a copy.
	records[0].ID = "mutated"
	if got := app.ListSessions(); got[0].ID != "s-1" {
		t.Fatalf("history mutation leaked: %+v", got)
	}

	app.ClearSessions()
	if got := app.ListSessions(); len(got) != 0 {
		t.Fatalf("expected cleared history, got %+v", got)
	}
}

func TestGetTranscriptWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	if got := app.GetTranscript(); got != nil {
		t.Fatalf("expected nil transcript, got %+v", got)
	}
}
