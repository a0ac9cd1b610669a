package audio

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"selah/internal/ports"
)

// FFplaySpeaker plays s16le PCM by piping it into an ffplay subprocess tuned
// to the playback sample rate.
type FFplaySpeaker struct {
	command    string
	sampleRate int
	channels   int

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	closed bool
}

var _ ports.Speaker = (*FFplaySpeaker)(nil)

func NewFFplaySpeaker(command string, sampleRate int, channels int) *FFplaySpeaker {
	if command == "" {
		command = "ffplay"
	}
	if sampleRate <= 0 {
		sampleRate = 24000
	}
	if channels <= 0 {
		channels = 1
	}
	return &FFplaySpeaker{command: command, sampleRate: sampleRate, channels: channels}
}

// Start launches ffplay reading PCM from stdin. Calling Start on an already
// running speaker is a no-op.
func (s *FFplaySpeaker) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil && s.cmd.Process != nil {
		return nil
	}
	s.closed = false

	// ffplay rejects ffmpeg-style -ac; channel count goes through -ch_layout.
	layout := "mono"
	if s.channels == 2 {
		layout = "stereo"
	}
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		"-nodisp",
		"-autoexit",
		"-f", "s16le",
		"-ch_layout", layout,
		"-ar", fmt.Sprintf("%d", s.sampleRate),
		"-i", "-",
	}

	cmd := exec.Command(s.command, args...)
	if runtime.GOOS == "darwin" && os.Getenv("SDL_AUDIODRIVER") == "" {
		// SDL can pick a silent dummy backend on macOS; prefer CoreAudio.
		cmd.Env = append(os.Environ(), "SDL_AUDIODRIVER=coreaudio")
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create ffplay stdin pipe: %w", err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start ffplay: %w", err)
	}

	s.cmd = cmd
	s.stdin = stdin
	go func(c *exec.Cmd) {
		_ = c.Wait()
		s.mu.Lock()
		if s.cmd == c {
			s.cmd = nil
			s.stdin = nil
		}
		s.mu.Unlock()
	}(cmd)
	return nil
}

// Write feeds PCM to the output device. Writes block at the device's
// consumption rate, which is what the playback scheduler relies on.
func (s *FFplaySpeaker) Write(pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}

	s.mu.Lock()
	stdin := s.stdin
	s.mu.Unlock()
	if stdin == nil {
		return fmt.Errorf("ffplay is not running")
	}
	_, err := stdin.Write(pcm)
	return err
}

// Close halts playback and releases the output device. Idempotent.
func (s *FFplaySpeaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed && s.cmd == nil {
		return nil
	}
	s.closed = true
	if s.stdin != nil {
		_ = s.stdin.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	s.cmd = nil
	s.stdin = nil
	return nil
}
