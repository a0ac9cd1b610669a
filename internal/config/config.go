package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the app.
type Config struct {
	Gemini   GeminiConfig
	Audio    AudioConfig
	Playback PlaybackConfig
	Session  SessionConfig
	LogLevel string
}

type GeminiConfig struct {
	APIKey     string
	APIBaseURL string
	Model      string
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

type PlaybackConfig struct {
	PlayerCommand string
	SampleRate    int
	Channels      int
}

type SessionConfig struct {
	FrameSamples int
}

// Load resolves configuration from a .env file (when present) and
// environment variables, with sensible defaults. Environment variables win
// over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Gemini: GeminiConfig{
			APIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			APIBaseURL: envOrDefault("GEMINI_API_BASE", "wss://generativelanguage.googleapis.com/ws"),
			Model:      envOrDefault("GEMINI_MODEL", "gemini-2.5-flash-native-audio-preview-09-2025"),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("SELAH_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("SELAH_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice: firstNonEmpty(
				os.Getenv("SELAH_AUDIO_INPUT_DEVICE"),
				os.Getenv("PULSE_SOURCE"),
				"default",
			),
			SampleRate: envOrDefaultInt("SELAH_SAMPLE_RATE", 16000),
			Channels:   envOrDefaultInt("SELAH_CHANNELS", 1),
		},
		Playback: PlaybackConfig{
			PlayerCommand: envOrDefault("SELAH_FFPLAY_COMMAND", "ffplay"),
			SampleRate:    envOrDefaultInt("SELAH_PLAYBACK_SAMPLE_RATE", 24000),
			Channels:      envOrDefaultInt("SELAH_PLAYBACK_CHANNELS", 1),
		},
		Session: SessionConfig{
			FrameSamples: envOrDefaultInt("SELAH_FRAME_SAMPLES", 4096),
		},
		LogLevel: envOrDefault("SELAH_LOG_LEVEL", "info"),
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Playback.SampleRate <= 0 {
		cfg.Playback.SampleRate = 24000
	}
	if cfg.Playback.Channels <= 0 {
		cfg.Playback.Channels = 1
	}
	if cfg.Session.FrameSamples < 256 {
		cfg.Session.FrameSamples = 4096
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
