package domain

import "time"

// SessionState models the live conversation lifecycle.
type SessionState string

const (
	SessionStateIdle       SessionState = "idle"
	SessionStateConnecting SessionState = "connecting"
	SessionStateActive     SessionState = "active"
	SessionStateError      SessionState = "error"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonReady            SessionStateReason = "ready"
	SessionReasonConnecting       SessionStateReason = "connecting"
	SessionReasonSessionOpened    SessionStateReason = "session_opened"
	SessionReasonSessionRestarted SessionStateReason = "session_restarted"
	SessionReasonSessionStopped   SessionStateReason = "session_stopped"
	SessionReasonSessionClosed    SessionStateReason = "session_closed"
	SessionReasonConnectFailed    SessionStateReason = "connect_failed"
	SessionReasonSessionFailed    SessionStateReason = "session_failed"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeConnect     ErrorCode = "connect"
	ErrorCodeAudioStop   ErrorCode = "audio_stop"
	ErrorCodeAudioStream ErrorCode = "audio_stream"
	ErrorCodeSession     ErrorCode = "session"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerAI   Speaker = "ai"
)

// TranscriptEntry is one utterance in the session transcript. While a
// speaker's turn is in progress the trailing entry for that speaker stays
// non-final and accumulates fragments; turn-complete finalizes it.
type TranscriptEntry struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
	IsFinal bool    `json:"isFinal"`
}

// Passage is the scripture reference and text retrieved by a tool call.
type Passage struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// SessionRecord is the value handed to the app shell when a session ends.
type SessionRecord struct {
	ID         string            `json:"id"`
	StartTime  time.Time         `json:"startTime"`
	Passage    *Passage          `json:"passage"`
	Transcript []TranscriptEntry `json:"transcript"`
}

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// FunctionResult answers one FunctionCall, addressed by its id. Response
// carries either a "result" or an "error" key.
type FunctionResult struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// LiveEvent is one inbound message from the live session. A single event may
// carry any combination of the fields; absent fields are zero-valued.
type LiveEvent struct {
	// InputTranscription is a partial transcription fragment of user speech.
	InputTranscription string
	// OutputTranscription is a partial transcription fragment of model speech.
	OutputTranscription string
	// TurnComplete signals the end of the current exchange.
	TurnComplete bool
	// Audio is a decoded chunk of synthesized model speech (s16le PCM).
	Audio []byte
	// FunctionCalls are tool invocations requested by the model.
	FunctionCalls []FunctionCall
}

// Status summarizes the current runtime status.
type Status struct {
	State   SessionState `json:"state"`
	Active  bool         `json:"active"`
	Message string       `json:"message,omitempty"`
}
