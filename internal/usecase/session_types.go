package usecase

import (
	"sync"
	"time"

	"selah/internal/domain"
	"selah/internal/ports"
)

// activeSession bundles every resource owned by one live session so cleanup
// can run exactly once from whichever exit path gets there first.
type activeSession struct {
	cancel func()
	audio  ports.AudioSession
	live   ports.LiveSession

	startTime  time.Time
	transcript *transcriptAssembler

	passageMu sync.Mutex
	passage   *domain.Passage

	eventsDone  chan struct{}
	audioDone   chan struct{}
	cleanupOnce sync.Once
}

func (s *activeSession) setPassage(p domain.Passage) {
	s.passageMu.Lock()
	defer s.passageMu.Unlock()
	s.passage = &p
}

func (s *activeSession) currentPassage() *domain.Passage {
	s.passageMu.Lock()
	defer s.passageMu.Unlock()
	if s.passage == nil {
		return nil
	}
	p := *s.passage
	return &p
}
