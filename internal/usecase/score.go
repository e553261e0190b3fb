package usecase

import (
	"sync"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
)

// ScoreTracker holds the latest worthiness assessment broadcast by either
// data channel. The backend is the sole authority; applying the same value
// twice is a no-op and the tracker performs no smoothing.
type ScoreTracker struct {
	score    float64
	set      bool
	avgPrice float64
	hasAvg   bool
	message  string
	mutex    sync.RWMutex
}

// NewScoreTracker creates a tracker with no score observed yet
func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{}
}

// Apply records a worthiness update. A nil score (the backend's "no market
// prices yet" placeholder) leaves the current value untouched.
func (s *ScoreTracker) Apply(w domain.Worthiness) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if w.Score == nil {
		return
	}
	s.score = *w.Score
	s.set = true
	if w.AvgPrice != nil {
		s.avgPrice = *w.AvgPrice
		s.hasAvg = true
	}
	if w.Message != "" {
		s.message = w.Message
	}
}

// Value returns the raw authoritative score and whether one has been observed
func (s *ScoreTracker) Value() (float64, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.score, s.set
}

// Display returns the score clamped at 100 for presentation. The producer
// may exceed 100 for below-average prices; display is capped.
func (s *ScoreTracker) Display() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.set {
		return 0
	}
	if s.score > 100 {
		return 100
	}
	return s.score
}

// AvgPrice returns the backend's average market price if one was reported
func (s *ScoreTracker) AvgPrice() (float64, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.avgPrice, s.hasAvg
}

// Verdict returns the backend's message for the current score, falling back
// to a locally derived one when the backend did not send any.
func (s *ScoreTracker) Verdict() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.set {
		return ""
	}
	if s.message != "" {
		return s.message
	}
	return VerdictFor(s.score)
}

// VerdictFor maps a score to a user-facing deal verdict
func VerdictFor(score float64) string {
	switch {
	case score > 95:
		return "Great deal. You can go for it"
	case score > 90:
		return "Good deal. See if you can negotiate"
	case score > 80:
		return "Decent deal, other alternatives available online"
	case score > 70:
		return "Average deal. Better prices available"
	case score > 50:
		return "Below average. Consider comparing prices"
	case score > 30:
		return "Poor deal. Many better options exist"
	default:
		return "Very poor deal. Avoid purchasing"
	}
}
