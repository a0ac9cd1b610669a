package ports

import (
	"context"
	"io"

	"selah/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live microphone capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// ToolDeclaration describes one callable function exposed to the model.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// LiveConfig describes a bidirectional conversation session.
type LiveConfig struct {
	InputSampleRate   int
	OutputSampleRate  int
	Channels          int
	SystemInstruction string
	Tools             []ToolDeclaration
}

// LiveSession is an active bidirectional session with the conversational
// service. Events delivers inbound messages in arrival order; the channel is
// closed when the remote side closes or the session fails (Wait reports why).
type LiveSession interface {
	SendAudio(chunk []byte) error
	SendToolResponse(result domain.FunctionResult) error
	Events() <-chan domain.LiveEvent
	Wait() error
	Close() error
}

// LiveProvider opens live conversation sessions.
type LiveProvider interface {
	Connect(ctx context.Context, cfg LiveConfig) (LiveSession, error)
}

// Speaker is an output audio device accepting s16le PCM writes.
type Speaker interface {
	Start() error
	Write(pcm []byte) error
	Close() error
}

// ScriptureSource retrieves canonical scripture text for a reference string.
type ScriptureSource interface {
	Lookup(ctx context.Context, reference string) (domain.Passage, error)
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason)
	TranscriptUpdated(entries []domain.TranscriptEntry)
	PassageRetrieved(passage domain.Passage)
	SessionEnded(record domain.SessionRecord)
	SessionError(code domain.ErrorCode, detail string)
}
