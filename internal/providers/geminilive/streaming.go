// Package geminilive implements ports.LiveProvider against the Gemini Live
// BidiGenerateContent websocket protocol. Audio travels as base64 PCM chunks
// inside JSON frames; transcriptions, tool calls and synthesized audio arrive
// multiplexed in server messages.
package geminilive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"selah/internal/domain"
	"selah/internal/pcm"
	"selah/internal/ports"
)

// Config controls Gemini Live websocket settings.
type Config struct {
	APIKey     string
	APIBaseURL string
	Model      string
}

// Provider implements ports.LiveProvider for Gemini Live.
type Provider struct {
	cfg Config
}

func NewProvider(cfg Config) *Provider {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "wss://generativelanguage.googleapis.com/ws"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-native-audio-preview-09-2025"
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Connect(ctx context.Context, cfg ports.LiveConfig) (ports.LiveSession, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is not configured")
	}

	wsURL, err := buildSocketURL(p.cfg)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to Gemini Live websocket: %w", err)
	}

	session := &liveSession{
		conn:          conn,
		inputMIMEType: inputMIMEType(cfg),
		events:        make(chan domain.LiveEvent, 64),
		outbound:      make(chan []byte, 32),
		closed:        make(chan struct{}),
		done:          make(chan struct{}),
	}

	if err := session.sendSetup(p.cfg.Model, cfg); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send session setup: %w", err)
	}

	session.wg.Add(2)
	go session.readLoop()
	go session.writeLoop()
	go func() {
		session.wg.Wait()
		close(session.events)
		close(session.done)
		_ = conn.Close()
	}()

	go func() {
		<-ctx.Done()
		_ = session.Close()
	}()

	return session, nil
}

type liveSession struct {
	conn          *websocket.Conn
	inputMIMEType string

	events   chan domain.LiveEvent
	outbound chan []byte
	// closed signals shutdown to senders and the write loop. outbound is
	// never closed: a close would race senders parked in send's select.
	closed chan struct{}
	done   chan struct{}

	wg sync.WaitGroup

	errMu sync.Mutex
	err   error

	closeSendOnce sync.Once
	closeOnce     sync.Once
}

// SendAudio transmits one encoded microphone frame as a realtime media chunk.
func (s *liveSession) SendAudio(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	msg := realtimeInputMessage{}
	msg.RealtimeInput.MediaChunks = []mediaChunk{{
		MIMEType: s.inputMIMEType,
		Data:     pcm.Encode(chunk),
	}}
	return s.send(msg)
}

// SendToolResponse answers one function call, addressed by its id. Once the
// session is gone the response is discarded without error.
func (s *liveSession) SendToolResponse(result domain.FunctionResult) error {
	msg := toolResponseMessage{}
	msg.ToolResponse.FunctionResponses = []functionResponse{{
		ID:       result.ID,
		Name:     result.Name,
		Response: result.Response,
	}}
	return s.send(msg)
}

func (s *liveSession) send(v any) error {
	select {
	case <-s.closed:
		return errors.New("session is already closed")
	default:
	}

	frame, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal outbound frame: %w", err)
	}

	select {
	case s.outbound <- frame:
		return nil
	case <-s.closed:
		if err := s.waitErr(); err != nil {
			return err
		}
		return errors.New("session closed")
	}
}

func (s *liveSession) closeSend() {
	s.closeSendOnce.Do(func() {
		close(s.closed)
	})
}

func (s *liveSession) Events() <-chan domain.LiveEvent {
	return s.events
}

func (s *liveSession) Wait() error {
	<-s.done
	return s.waitErr()
}

func (s *liveSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeSend()
		_ = s.conn.Close()
	})
	<-s.done
	return s.waitErr()
}

func (s *liveSession) waitErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *liveSession) setErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}

	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *liveSession) sendSetup(model string, cfg ports.LiveConfig) error {
	msg := setupMessage{}
	msg.Setup.Model = "models/" + model
	msg.Setup.GenerationConfig.ResponseModalities = []string{"AUDIO"}
	msg.Setup.InputAudioTranscription = &struct{}{}
	msg.Setup.OutputAudioTranscription = &struct{}{}

	if cfg.SystemInstruction != "" {
		msg.Setup.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: cfg.SystemInstruction}},
		}
	}

	if len(cfg.Tools) > 0 {
		decls := make([]functionDeclaration, len(cfg.Tools))
		for i, tool := range cfg.Tools {
			decls[i] = functionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			}
		}
		msg.Setup.Tools = []liveTool{{FunctionDeclarations: decls}}
	}

	frame, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

func (s *liveSession) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case frame := <-s.outbound:
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.setErr(fmt.Errorf("send frame: %w", err))
				// Release parked senders and unblock the read loop so the
				// session can finish tearing down.
				s.closeSend()
				_ = s.conn.Close()
				return
			}
		case <-s.closed:
			return
		}
	}
}

func (s *liveSession) readLoop() {
	defer s.wg.Done()
	// A remote error or close must also release the write loop.
	defer s.closeSend()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.setErr(fmt.Errorf("read server message: %w", err))
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		if msg.Error != nil {
			detail := strings.TrimSpace(msg.Error.Message)
			if detail == "" {
				detail = "gemini returned an unknown error"
			}
			s.setErr(errors.New(detail))
			return
		}

		event, ok := msg.toLiveEvent()
		if !ok {
			continue
		}
		select {
		case s.events <- event:
		case <-s.done:
			return
		}
	}
}

func inputMIMEType(cfg ports.LiveConfig) string {
	rate := cfg.InputSampleRate
	if rate <= 0 {
		rate = 16000
	}
	return fmt.Sprintf("audio/pcm;rate=%d", rate)
}

func buildSocketURL(cfg Config) (string, error) {
	base := strings.TrimSpace(cfg.APIBaseURL)
	if base == "" {
		base = "wss://generativelanguage.googleapis.com/ws"
	}

	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	socketURL, err := url.Parse(base + "/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent")
	if err != nil {
		return "", fmt.Errorf("invalid Gemini API base URL: %w", err)
	}

	query := socketURL.Query()
	query.Set("key", cfg.APIKey)
	socketURL.RawQuery = query.Encode()
	return socketURL.String(), nil
}
