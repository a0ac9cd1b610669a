package usecase

import (
	"sync"

	"selah/internal/domain"
)

// transcriptAssembler merges partial transcription fragments into per-speaker
// entries. At most one trailing non-final entry exists per speaker; fragments
// for that speaker extend it, and turn-complete finalizes everything at once.
// Entry boundaries depend only on speaker identity and the open/final flag,
// so interleaved fragment streams never merge into the wrong speaker's entry.
type transcriptAssembler struct {
	mu      sync.Mutex
	entries []domain.TranscriptEntry
	open    map[domain.Speaker]int
}

func newTranscriptAssembler() *transcriptAssembler {
	return &transcriptAssembler{open: make(map[domain.Speaker]int)}
}

// Append adds one fragment to the speaker's open entry, creating the entry if
// the speaker has none.
func (a *transcriptAssembler) Append(speaker domain.Speaker, fragment string) {
	if fragment == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if idx, ok := a.open[speaker]; ok {
		a.entries[idx] = domain.TranscriptEntry{
			Speaker: speaker,
			Text:    a.entries[idx].Text + fragment,
			IsFinal: false,
		}
		return
	}

	a.entries = append(a.entries, domain.TranscriptEntry{Speaker: speaker, Text: fragment})
	a.open[speaker] = len(a.entries) - 1
}

// FinalizeAll closes every open entry. The next fragment for any speaker
// starts a fresh entry.
func (a *transcriptAssembler) FinalizeAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.entries {
		a.entries[i].IsFinal = true
	}
	clear(a.open)
}

// Snapshot returns a copy of the current transcript.
func (a *transcriptAssembler) Snapshot() []domain.TranscriptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.TranscriptEntry, len(a.entries))
	copy(out, a.entries)
	return out
}
