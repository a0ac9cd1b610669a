// Package bootstrap assembles the backend dependency graph.
package bootstrap

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"selah/internal/audio"
	"selah/internal/config"
	"selah/internal/playback"
	"selah/internal/ports"
	"selah/internal/providers/geminilive"
	"selah/internal/scripture"
	"selah/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Engine *usecase.SessionEngine
	Config config.Config
	Logger zerolog.Logger
}

// Build wires all backend dependencies for the current runtime.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	logger := newLogger(cfg.LogLevel)

	speaker := audio.NewFFplaySpeaker(cfg.Playback.PlayerCommand, cfg.Playback.SampleRate, cfg.Playback.Channels)
	scheduler := playback.NewScheduler(speaker)

	engine := usecase.NewSessionEngine(
		audio.NewFFmpegCapture(cfg.Audio.RecorderCommand),
		geminilive.NewProvider(geminilive.Config{
			APIKey:     cfg.Gemini.APIKey,
			APIBaseURL: cfg.Gemini.APIBaseURL,
			Model:      cfg.Gemini.Model,
		}),
		scripture.NewClient(scripture.Config{}),
		scheduler,
		speaker,
		eventSink,
		logger,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			Live: ports.LiveConfig{
				InputSampleRate:  cfg.Audio.SampleRate,
				OutputSampleRate: cfg.Playback.SampleRate,
				Channels:         cfg.Playback.Channels,
			},
			FrameSamples: cfg.Session.FrameSamples,
		},
	)

	return Services{Engine: engine, Config: cfg, Logger: logger}, nil
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(parsed).With().
		Timestamp().
		Str("service", "selah").
		Logger()
}
