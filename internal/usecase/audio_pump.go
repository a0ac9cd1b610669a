package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"selah/internal/domain"
	"selah/internal/ports"
)

// pumpAudioFrames reads fixed-size microphone frames and forwards each one
// over the live session for as long as the capture stream produces data. A
// trailing short frame at shutdown is still sent.
func pumpAudioFrames(
	ctx context.Context,
	audio ports.AudioSession,
	live ports.LiveSession,
	frameBytes int,
	events ports.EventSink,
	done chan struct{},
) {
	defer close(done)

	if frameBytes < 256 {
		frameBytes = 8192
	}

	buf := make([]byte, frameBytes)
	for {
		n, err := io.ReadFull(audio, buf)
		if n > 0 {
			if sendErr := live.SendAudio(buf[:n]); sendErr != nil {
				// During teardown the session is gone before the mic stops;
				// that is not a streaming failure.
				if ctx.Err() == nil {
					events.SessionError(domain.ErrorCodeAudioStream, fmt.Sprintf("failed to stream audio: %v", sendErr))
				}
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) && ctx.Err() == nil {
				events.SessionError(domain.ErrorCodeAudioStream, fmt.Sprintf("audio capture error: %v", err))
			}
			return
		}
	}
}
