package geminilive

import (
	"encoding/json"

	"selah/internal/domain"
	"selah/internal/pcm"
)

// Outgoing BidiGenerateContent frames.

type setupMessage struct {
	Setup struct {
		Model            string `json:"model"`
		GenerationConfig struct {
			ResponseModalities []string `json:"responseModalities"`
		} `json:"generationConfig"`
		SystemInstruction        *systemInstruction `json:"systemInstruction,omitempty"`
		Tools                    []liveTool         `json:"tools,omitempty"`
		InputAudioTranscription  *struct{}          `json:"inputAudioTranscription,omitempty"`
		OutputAudioTranscription *struct{}          `json:"outputAudioTranscription,omitempty"`
	} `json:"setup"`
}

type systemInstruction struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64-encoded
}

type liveTool struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations,omitempty"`
}

type functionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type realtimeInputMessage struct {
	RealtimeInput struct {
		MediaChunks []mediaChunk `json:"mediaChunks"`
	} `json:"realtimeInput"`
}

type mediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64-encoded
}

type toolResponseMessage struct {
	ToolResponse struct {
		FunctionResponses []functionResponse `json:"functionResponses"`
	} `json:"toolResponse"`
}

type functionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Incoming BidiGenerateContent frames.

type serverMessage struct {
	SetupComplete *json.RawMessage `json:"setupComplete,omitempty"`
	ServerContent *serverContent   `json:"serverContent,omitempty"`
	ToolCall      *toolCallMsg     `json:"toolCall,omitempty"`
	Error         *liveError       `json:"error,omitempty"`
}

type liveError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

type serverContent struct {
	ModelTurn           *modelTurn     `json:"modelTurn,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
	InputTranscription  *transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *transcription `json:"outputTranscription,omitempty"`
}

type modelTurn struct {
	Parts []part `json:"parts"`
}

type transcription struct {
	Text string `json:"text"`
}

type toolCallMsg struct {
	FunctionCalls []functionCall `json:"functionCalls"`
}

type functionCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// toLiveEvent flattens one server message into a domain event. The payload
// kinds are independent; any combination may be present in one message.
func (m *serverMessage) toLiveEvent() (domain.LiveEvent, bool) {
	var event domain.LiveEvent
	present := false

	if m.ToolCall != nil && len(m.ToolCall.FunctionCalls) > 0 {
		calls := make([]domain.FunctionCall, 0, len(m.ToolCall.FunctionCalls))
		for _, fc := range m.ToolCall.FunctionCalls {
			calls = append(calls, domain.FunctionCall{ID: fc.ID, Name: fc.Name, Args: fc.Args})
		}
		event.FunctionCalls = calls
		present = true
	}

	sc := m.ServerContent
	if sc == nil {
		return event, present
	}

	if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
		event.InputTranscription = sc.InputTranscription.Text
		present = true
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		event.OutputTranscription = sc.OutputTranscription.Text
		present = true
	}
	if sc.TurnComplete {
		event.TurnComplete = true
		present = true
	}
	if sc.ModelTurn != nil {
		for _, p := range sc.ModelTurn.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			audio, err := pcm.Decode(p.InlineData.Data)
			if err != nil || len(audio) == 0 {
				continue
			}
			event.Audio = append(event.Audio, audio...)
			present = true
		}
	}

	return event, present
}
