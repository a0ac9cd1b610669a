package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"selah/internal/domain"
	"selah/internal/pcm"
	"selah/internal/ports"
)

// PlaybackQueue schedules decoded audio segments for sequential playback.
type PlaybackQueue interface {
	Enqueue(segment pcm.SampleBuffer) time.Duration
	StopAll()
}

// Config controls session behavior.
type Config struct {
	Audio        ports.AudioConfig
	Live         ports.LiveConfig
	FrameSamples int
}

// SessionEngine owns the live conversation lifecycle: it opens the remote
// session, streams microphone frames up, routes inbound transcriptions, tool
// calls and audio, and guarantees cleanup on every exit path.
type SessionEngine struct {
	audio      ports.AudioCapture
	provider   ports.LiveProvider
	dispatcher toolDispatcher
	queue      PlaybackQueue
	speaker    ports.Speaker
	events     ports.EventSink
	log        zerolog.Logger
	cfg        Config

	mu      sync.Mutex
	state   domain.SessionState
	lastErr string
	current *activeSession
}

func NewSessionEngine(
	audio ports.AudioCapture,
	provider ports.LiveProvider,
	scripture ports.ScriptureSource,
	queue PlaybackQueue,
	speaker ports.Speaker,
	events ports.EventSink,
	log zerolog.Logger,
	cfg Config,
) *SessionEngine {
	if cfg.FrameSamples <= 0 {
		cfg.FrameSamples = 4096
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Live.InputSampleRate <= 0 {
		cfg.Live.InputSampleRate = cfg.Audio.SampleRate
	}
	if cfg.Live.OutputSampleRate <= 0 {
		cfg.Live.OutputSampleRate = 24000
	}
	if cfg.Live.Channels <= 0 {
		cfg.Live.Channels = 1
	}
	if cfg.Live.SystemInstruction == "" {
		cfg.Live.SystemInstruction = SystemInstruction
	}
	if len(cfg.Live.Tools) == 0 {
		cfg.Live.Tools = []ports.ToolDeclaration{ScriptureTool()}
	}

	return &SessionEngine{
		audio:      audio,
		provider:   provider,
		dispatcher: newToolDispatcher(scripture),
		queue:      queue,
		speaker:    speaker,
		events:     events,
		log:        log.With().Str("component", "engine").Logger(),
		cfg:        cfg,
	}
}

// Start begins a new live session, replacing any session still running.
func (e *SessionEngine) Start(ctx context.Context) error {
	var previous *activeSession

	e.mu.Lock()
	if e.current != nil {
		previous = e.current
		e.current = nil
	}
	e.mu.Unlock()

	if previous != nil {
		e.teardown(previous)
	}

	e.setState(domain.SessionStateConnecting, "")
	e.events.SessionStateChanged(domain.SessionStateConnecting, domain.SessionReasonConnecting)

	// The cursor and any stale scheduled audio belong to the previous session.
	e.queue.StopAll()

	if err := e.speaker.Start(); err != nil {
		return e.failStart(domain.ErrorCodeStartup, err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)

	live, err := e.provider.Connect(sessionCtx, e.cfg.Live)
	if err != nil {
		cancel()
		_ = e.speaker.Close()
		return e.failStart(domain.ErrorCodeConnect, err)
	}

	audioSession, err := e.audio.Start(sessionCtx, e.cfg.Audio)
	if err != nil {
		cancel()
		_ = live.Close()
		_ = e.speaker.Close()
		return e.failStart(domain.ErrorCodeStartup, err)
	}

	active := &activeSession{
		cancel:     cancel,
		audio:      audioSession,
		live:       live,
		startTime:  time.Now(),
		transcript: newTranscriptAssembler(),
		eventsDone: make(chan struct{}),
		audioDone:  make(chan struct{}),
	}

	e.mu.Lock()
	e.current = active
	e.mu.Unlock()

	go e.consumeLiveEvents(active)
	go pumpAudioFrames(sessionCtx, active.audio, active.live,
		pcm.FrameBytes(e.cfg.FrameSamples, e.cfg.Audio.Channels), e.events, active.audioDone)

	reason := domain.SessionReasonSessionOpened
	if previous != nil {
		reason = domain.SessionReasonSessionRestarted
	}
	e.setState(domain.SessionStateActive, "")
	e.events.SessionStateChanged(domain.SessionStateActive, reason)
	e.log.Info().Msg("live session opened")
	return nil
}

// Stop ends the active session and releases every resource. Safe to call
// when no session is running and safe to call repeatedly.
func (e *SessionEngine) Stop() {
	e.mu.Lock()
	active := e.current
	e.current = nil
	stateIsError := e.state == domain.SessionStateError
	e.mu.Unlock()

	if active == nil {
		// A stop after an error keeps the error visible until the next start.
		if !stateIsError {
			e.setState(domain.SessionStateIdle, "")
		}
		return
	}

	e.teardown(active)
	e.setState(domain.SessionStateIdle, "")
	e.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonSessionStopped)
	e.emitRecord(active)
	e.log.Info().Msg("live session stopped")
}

// Status returns the current engine status.
func (e *SessionEngine) Status() domain.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := domain.Status{State: e.state}
	if status.State == "" {
		status.State = domain.SessionStateIdle
	}
	status.Active = status.State == domain.SessionStateConnecting || status.State == domain.SessionStateActive
	if status.State == domain.SessionStateError {
		status.Message = e.lastErr
	}
	return status
}

// Transcript returns the transcript of the active session, or nil when no
// session is running.
func (e *SessionEngine) Transcript() []domain.TranscriptEntry {
	e.mu.Lock()
	active := e.current
	e.mu.Unlock()
	if active == nil {
		return nil
	}
	return active.transcript.Snapshot()
}

// consumeLiveEvents processes inbound messages in arrival order until the
// remote side closes or fails, then finishes the session if the engine has
// not already taken it over.
func (e *SessionEngine) consumeLiveEvents(active *activeSession) {
	for event := range active.live.Events() {
		e.handleLiveEvent(active, event)
	}
	close(active.eventsDone)
	e.finishRemote(active, active.live.Wait())
}

func (e *SessionEngine) handleLiveEvent(active *activeSession, event domain.LiveEvent) {
	// Payload kinds are independent; a single message may carry several.
	for _, call := range event.FunctionCalls {
		go e.dispatchToolCall(active, call)
	}

	if event.InputTranscription != "" {
		active.transcript.Append(domain.SpeakerUser, event.InputTranscription)
		e.events.TranscriptUpdated(active.transcript.Snapshot())
	}
	if event.OutputTranscription != "" {
		active.transcript.Append(domain.SpeakerAI, event.OutputTranscription)
		e.events.TranscriptUpdated(active.transcript.Snapshot())
	}
	if event.TurnComplete {
		active.transcript.FinalizeAll()
		e.events.TranscriptUpdated(active.transcript.Snapshot())
	}

	if len(event.Audio) > 0 {
		segment, err := pcm.DecodeSamples(event.Audio, e.cfg.Live.OutputSampleRate, e.cfg.Live.Channels)
		if err != nil {
			// A malformed payload costs one chunk, not the session.
			e.log.Warn().Err(err).Msg("dropping malformed audio payload")
			return
		}
		e.queue.Enqueue(segment)
	}
}

// dispatchToolCall services one function call and sends exactly one response
// for it. Lookups run on their own goroutine so the event loop stays
// responsive; a response outliving the session is discarded.
func (e *SessionEngine) dispatchToolCall(active *activeSession, call domain.FunctionCall) {
	result, passage := e.dispatcher.Dispatch(context.Background(), call)
	if result == nil {
		e.log.Debug().Str("tool", call.Name).Msg("ignoring unsupported tool call")
		return
	}

	if passage != nil {
		active.setPassage(*passage)
		e.events.PassageRetrieved(*passage)
	}

	if err := active.live.SendToolResponse(*result); err != nil {
		e.log.Debug().Err(err).Str("call_id", call.ID).Msg("discarding tool response for closed session")
	}
}

// finishRemote handles the remote-close and remote-error exit paths. If an
// explicit Stop already claimed the session this is a no-op.
func (e *SessionEngine) finishRemote(active *activeSession, err error) {
	e.mu.Lock()
	isCurrent := e.current == active
	if isCurrent {
		e.current = nil
	}
	e.mu.Unlock()

	if !isCurrent {
		return
	}

	e.teardown(active)

	if err != nil {
		e.setState(domain.SessionStateError, err.Error())
		e.events.SessionError(domain.ErrorCodeSession, err.Error())
		e.events.SessionStateChanged(domain.SessionStateError, domain.SessionReasonSessionFailed)
		e.log.Error().Err(err).Msg("live session failed")
	} else {
		e.setState(domain.SessionStateIdle, "")
		e.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonSessionClosed)
		e.log.Info().Msg("live session closed by remote")
	}
	e.emitRecord(active)
}

func (e *SessionEngine) failStart(code domain.ErrorCode, err error) error {
	e.setState(domain.SessionStateError, err.Error())
	e.events.SessionError(code, err.Error())
	e.events.SessionStateChanged(domain.SessionStateError, domain.SessionReasonConnectFailed)
	e.log.Error().Err(err).Msg("session start failed")
	return err
}

// teardown releases every session resource exactly once. It may be invoked
// from the explicit stop path and the remote close path concurrently; each
// underlying release is itself idempotent.
func (e *SessionEngine) teardown(active *activeSession) {
	active.cleanupOnce.Do(func() {
		active.cancel()
		if err := active.audio.Stop(); err != nil {
			e.events.SessionError(domain.ErrorCodeAudioStop, "failed to stop audio capture cleanly")
		}
		_ = active.live.Close()
		<-active.audioDone
		<-active.eventsDone
		e.queue.StopAll()
		_ = e.speaker.Close()
	})
}

func (e *SessionEngine) emitRecord(active *activeSession) {
	transcript := active.transcript.Snapshot()
	if len(transcript) == 0 {
		return
	}
	e.events.SessionEnded(domain.SessionRecord{
		ID:         uuid.NewString(),
		StartTime:  active.startTime,
		Passage:    active.currentPassage(),
		Transcript: transcript,
	})
}

func (e *SessionEngine) setState(state domain.SessionState, errDetail string) {
	e.mu.Lock()
	e.state = state
	e.lastErr = errDetail
	e.mu.Unlock()
}
