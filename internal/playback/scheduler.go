// Package playback schedules decoded audio segments for strictly sequential
// playback. Segments arrive at irregular intervals relative to their playable
// duration; the scheduler keeps a single cursor, the device-clock time at
// which the next segment must begin, and never lets segments overlap.
package playback

import (
	"sync"
	"time"

	"selah/internal/pcm"
	"selah/internal/ports"
)

// Clock reports the current device playback time. It is injectable so the
// scheduling invariant can be tested without a real output device.
type Clock interface {
	Now() time.Duration
}

type wallClock struct {
	start time.Time
}

func (c *wallClock) Now() time.Duration {
	return time.Since(c.start)
}

type unit struct {
	segment pcm.SampleBuffer
	startAt time.Duration
	timer   *time.Timer
}

// Scheduler plays segments back-to-back on a Speaker. The cursor only moves
// forward: an overdue cursor snaps to the current clock time, trading a gap
// for never overlapping already-scheduled audio.
type Scheduler struct {
	speaker ports.Speaker
	clock   Clock

	// timerFn is swapped in tests to trigger playback deterministically.
	timerFn func(d time.Duration, f func()) *time.Timer

	mu     sync.Mutex
	cursor time.Duration
	live   map[*unit]struct{}

	// writeMu keeps device writes in schedule order when a slow write
	// overlaps the next unit's timer fire.
	writeMu sync.Mutex
}

func NewScheduler(speaker ports.Speaker) *Scheduler {
	return &Scheduler{
		speaker: speaker,
		clock:   &wallClock{start: time.Now()},
		timerFn: time.AfterFunc,
		live:    make(map[*unit]struct{}),
	}
}

// Enqueue schedules one segment. The returned start time is the device-clock
// instant the segment will begin playing; it is >= the current clock time and
// >= the end of every previously enqueued segment.
func (s *Scheduler) Enqueue(segment pcm.SampleBuffer) time.Duration {
	s.mu.Lock()
	now := s.clock.Now()
	startAt := s.cursor
	if startAt < now {
		startAt = now
	}
	u := &unit{segment: segment, startAt: startAt}
	s.live[u] = struct{}{}
	s.cursor = startAt + segment.Duration
	u.timer = s.timerFn(startAt-now, func() { s.play(u) })
	s.mu.Unlock()

	return startAt
}

// play writes the unit's samples to the speaker, then retires it. A unit
// evicted by StopAll before its timer fires is skipped.
func (s *Scheduler) play(u *unit) {
	s.mu.Lock()
	if _, ok := s.live[u]; !ok {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.writeMu.Lock()
	_ = s.speaker.Write(u.segment.Data)
	s.writeMu.Unlock()

	s.mu.Lock()
	delete(s.live, u)
	s.mu.Unlock()
}

// StopAll halts every scheduled unit, clears the live set and resets the
// cursor to zero. Idempotent.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	for u := range s.live {
		if u.timer != nil {
			u.timer.Stop()
		}
		delete(s.live, u)
	}
	s.cursor = 0
	s.mu.Unlock()
}

// Pending reports how many segments are scheduled but not yet finished.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}
