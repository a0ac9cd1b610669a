package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"selah/internal/bootstrap"
	"selah/internal/config"
	"selah/internal/domain"
	"selah/internal/usecase"
)

const (
	eventSession    = "selah:session"
	eventTranscript = "selah:transcript"
	eventPassage    = "selah:passage"
	eventEnded      = "selah:ended"
	eventError      = "selah:error"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	engine  *usecase.SessionEngine
	cfg     config.Config
	bootErr error

	historyMu sync.Mutex
	history   []domain.SessionRecord
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.engine = services.Engine
	a.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonReady)
}

func (a *App) shutdown(_ context.Context) {
	if a.engine != nil {
		a.engine.Stop()
	}
}

// StartSession opens a live conversation, replacing any session in progress.
func (a *App) StartSession() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.engine.Start(a.ctx); err != nil {
		return domain.Status{}, err
	}
	return a.engine.Status(), nil
}

// StopSession ends the live conversation and releases audio devices.
func (a *App) StopSession() domain.Status {
	if err := a.requireReady(); err != nil {
		return domain.Status{State: domain.SessionStateError, Message: err.Error()}
	}
	a.engine.Stop()
	return a.engine.Status()
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.engine == nil {
		if a.bootErr != nil {
			return domain.Status{State: domain.SessionStateError, Active: false, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.SessionStateIdle, Active: false}
	}
	return a.engine.Status()
}

// GetTranscript returns the transcript of the session in progress.
func (a *App) GetTranscript() []domain.TranscriptEntry {
	if a.engine == nil {
		return nil
	}
	return a.engine.Transcript()
}

// ListSessions returns completed session records, most recent last.
func (a *App) ListSessions() []domain.SessionRecord {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()
	out := make([]domain.SessionRecord, len(a.history))
	copy(out, a.history)
	return out
}

// ClearSessions discards the completed session history.
func (a *App) ClearSessions() {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()
	a.history = nil
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"provider":         "Gemini Live",
		"model":            a.cfg.Gemini.Model,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
		"playbackCommand":  a.cfg.Playback.PlayerCommand,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.engine == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// SessionStateChanged emits session lifecycle updates to the frontend.
func (a *App) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": sessionReasonMessage(reason),
	})
}

// TranscriptUpdated emits the current transcript snapshot.
func (a *App) TranscriptUpdated(entries []domain.TranscriptEntry) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTranscript, entries)
}

// PassageRetrieved emits the scripture passage fetched for the session.
func (a *App) PassageRetrieved(passage domain.Passage) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventPassage, passage)
}

// SessionEnded records the finished session and notifies the frontend.
func (a *App) SessionEnded(record domain.SessionRecord) {
	a.historyMu.Lock()
	a.history = append(a.history, record)
	a.historyMu.Unlock()

	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventEnded, record)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func sessionReasonMessage(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonReady:
		return "Ready"
	case domain.SessionReasonConnecting:
		return "Connecting..."
	case domain.SessionReasonSessionOpened:
		return "Conversation started"
	case domain.SessionReasonSessionRestarted:
		return "Conversation restarted; previous session discarded"
	case domain.SessionReasonSessionStopped:
		return "Conversation ended"
	case domain.SessionReasonSessionClosed:
		return "Conversation closed by the service"
	case domain.SessionReasonConnectFailed:
		return "Could not connect"
	case domain.SessionReasonSessionFailed:
		return "Conversation failed"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeConnect:
		return "Connection failed"
	case domain.ErrorCodeAudioStop:
		return "Audio stop issue"
	case domain.ErrorCodeAudioStream:
		return "Audio streaming issue"
	case domain.ErrorCodeSession:
		return "Conversation error"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
