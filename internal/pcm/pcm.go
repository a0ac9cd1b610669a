// Package pcm converts between raw linear PCM audio and the representations
// the live protocol and the playback path need: a reversible byte-to-text
// transport codec and a sample decoder producing duration-bearing buffers.
package pcm

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedAudio reports raw bytes whose length is not a whole number of
// frames for the declared sample width and channel count.
var ErrMalformedAudio = errors.New("malformed audio byte length")

const bytesPerSample = 2 // s16le

// Encode converts raw audio bytes to the transport-safe text form.
func Encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// Decode is the exact inverse of Encode.
func Decode(transport string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(transport)
	if err != nil {
		return nil, fmt.Errorf("decode transport audio: %w", err)
	}
	return raw, nil
}

// SampleBuffer is a decoded chunk of s16le PCM with its playable duration.
type SampleBuffer struct {
	Data       []byte
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// DecodeSamples interprets raw bytes as 16-bit linear samples at the given
// rate and channel count.
func DecodeSamples(raw []byte, sampleRate int, channels int) (SampleBuffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return SampleBuffer{}, fmt.Errorf("invalid sample rate %d or channels %d", sampleRate, channels)
	}
	frameSize := bytesPerSample * channels
	if len(raw) == 0 || len(raw)%frameSize != 0 {
		return SampleBuffer{}, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformedAudio, len(raw), frameSize)
	}

	frames := len(raw) / frameSize
	duration := time.Duration(frames) * time.Second / time.Duration(sampleRate)
	return SampleBuffer{
		Data:       raw,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   duration,
	}, nil
}

// FrameBytes returns the byte size of a capture frame of the given sample
// count for s16le audio.
func FrameBytes(samples int, channels int) int {
	if samples <= 0 || channels <= 0 {
		return 0
	}
	return samples * channels * bytesPerSample
}
