package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
)

// Snapshot is the read-only state exposed to the presentation collaborator
type Snapshot struct {
	Query          string       `json:"query,omitempty"`
	Rows           []domain.Row `json:"rows"`
	Score          float64      `json:"score"` // display-clamped at 100
	ScoreSet       bool         `json:"scoreSet"`
	Verdict        string       `json:"verdict,omitempty"`
	AvgPrice       float64      `json:"avgPrice,omitempty"`
	MoreAvailable  bool         `json:"moreAvailable"`
	LoadingMore    bool         `json:"loadingMore"`
	MoreFailed     bool         `json:"moreFailed"`
	OverlayVisible bool         `json:"overlayVisible"`
	OverlayStage   OverlayStage `json:"overlayStage"`
	SessionState   string       `json:"sessionState"`
}

// SearchService orchestrates one search at a time: it opens the live
// stream, routes both data channels through the shared aggregation path,
// enforces the single-session and single-poll disciplines, and drives the
// splash overlay's data-ready condition. Presentation reads Snapshot and
// issues commands; all mutation happens here.
type SearchService struct {
	stream domain.StreamClient
	more   domain.MoreClient

	rows      *RowTable
	score     *ScoreTracker
	collector *Collector
	overlay   *Overlay

	mutex          sync.Mutex
	generation     uint64
	session        domain.StreamSession
	sessionState   domain.SessionState
	moreCancel     context.CancelFunc
	lastQuery      string
	lastPrice      string
	streamDone     bool
	moreAvailable  bool
	loadingMore    bool
	moreFailed     bool
	overlayVisible bool
}

// NewSearchService creates a search service with empty state
func NewSearchService(stream domain.StreamClient, more domain.MoreClient, timings OverlayTimings) *SearchService {
	rows := NewRowTable()
	score := NewScoreTracker()

	s := &SearchService{
		stream:       stream,
		more:         more,
		rows:         rows,
		score:        score,
		collector:    NewCollector(rows, score),
		sessionState: domain.SessionClosed,
	}
	s.overlay = NewOverlay(timings, s.handleOverlayHidden)
	return s
}

// StartSearch validates the input locally, tears down any prior session,
// and opens a fresh live stream. Validation failures return a distinct
// error per missing field without touching the network; transport failures
// degrade to observable state and are not returned.
func (s *SearchService) StartSearch(query, referencePrice string) error {
	query = strings.TrimSpace(query)
	price := CleanReferencePrice(referencePrice)

	if query == "" {
		return domain.ErrMissingQuery
	}
	if price == "" {
		return domain.ErrMissingPrice
	}

	s.mutex.Lock()
	s.generation++
	generation := s.generation
	previous := s.session
	s.session = nil
	s.sessionState = domain.SessionClosed
	if s.moreCancel != nil {
		s.moreCancel()
		s.moreCancel = nil
	}
	s.rows.Reset()
	s.lastQuery = query
	s.lastPrice = price
	s.streamDone = false
	s.moreAvailable = false
	s.loadingMore = false
	s.moreFailed = false
	s.overlayVisible = true
	s.mutex.Unlock()

	// Explicit teardown before opening the new session: two sessions must
	// never write into the same row table.
	if previous != nil {
		previous.Close()
	}
	s.overlay.Show()

	sink := &sessionSink{svc: s, generation: generation}
	session, err := s.stream.Start(context.Background(), query, price, sink)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if generation != s.generation {
		// A newer search superseded this one while the stream was opening
		if session != nil {
			session.Close()
		}
		return nil
	}
	if err != nil {
		log.Printf("[search] failed to open stream for %q: %v", query, err)
		s.sessionState = domain.SessionErrored
		s.streamDone = true
		s.refreshDataReadyLocked()
		return nil
	}

	s.session = session
	s.sessionState = domain.SessionOpen
	go s.watchSession(generation, session)
	return nil
}

// RequestMore starts the supplementary polling phase. At most one poll
// loop runs at a time; the loading flag held for its duration is the
// mutual exclusion.
func (s *SearchService) RequestMore() error {
	s.mutex.Lock()
	if s.lastQuery == "" {
		s.mutex.Unlock()
		return domain.ErrNoSearch
	}
	if s.loadingMore {
		s.mutex.Unlock()
		return domain.ErrPollInFlight
	}

	generation := s.generation
	query, price := s.lastQuery, s.lastPrice
	ctx, cancel := context.WithCancel(context.Background())
	s.moreCancel = cancel
	s.loadingMore = true
	s.moreFailed = false
	s.moreAvailable = true
	s.mutex.Unlock()

	go func() {
		err := s.more.FetchMore(ctx, query, price, &sessionSink{svc: s, generation: generation})
		cancel()

		s.mutex.Lock()
		defer s.mutex.Unlock()
		if generation != s.generation {
			return
		}
		s.moreCancel = nil
		s.loadingMore = false
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("[search] more results fetch failed for %q: %v", query, err)
			}
			// Keep the action available so the user can retry
			s.moreFailed = true
		} else {
			s.moreAvailable = false
		}
		s.refreshDataReadyLocked()
	}()
	return nil
}

// AcknowledgeOverlayHidden is the presentation's overlay command: it clears
// the visible flag and interrupts any still-running splash sequence.
func (s *SearchService) AcknowledgeOverlayHidden() {
	s.mutex.Lock()
	s.overlayVisible = false
	s.mutex.Unlock()

	s.overlay.Hide()
}

// Snapshot returns the current observable state. Safe to call at any time;
// presentation never writes back.
func (s *SearchService) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, set := s.score.Value()
	avgPrice, _ := s.score.AvgPrice()

	return Snapshot{
		Query:          s.lastQuery,
		Rows:           s.rows.List(),
		Score:          s.score.Display(),
		ScoreSet:       set,
		Verdict:        s.score.Verdict(),
		AvgPrice:       avgPrice,
		MoreAvailable:  s.moreAvailable,
		LoadingMore:    s.loadingMore,
		MoreFailed:     s.moreFailed,
		OverlayVisible: s.overlayVisible,
		OverlayStage:   s.overlay.Stage(),
		SessionState:   string(s.sessionState),
	}
}

// Overlay exposes the splash orchestrator for presentation layers that
// subscribe to stage changes directly.
func (s *SearchService) Overlay() *Overlay {
	return s.overlay
}

// watchSession waits for the stream to reach a terminal state and flips the
// completion flags, unless a newer search has superseded it.
func (s *SearchService) watchSession(generation uint64, session domain.StreamSession) {
	<-session.Done()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if generation != s.generation {
		return
	}

	state := session.State()
	s.sessionState = state
	s.streamDone = true
	if state == domain.SessionCompleted {
		// Stream finished cleanly: phase two becomes available
		s.moreAvailable = true
	}
	s.refreshDataReadyLocked()
}

// handleOverlayHidden fires when the splash sequence completes
func (s *SearchService) handleOverlayHidden() {
	s.mutex.Lock()
	s.overlayVisible = false
	s.mutex.Unlock()
}

// refreshDataReadyLocked recomputes the overlay's data-ready condition:
// at least one row has arrived, or the current phase concluded without
// rows. Mutex must be held.
func (s *SearchService) refreshDataReadyLocked() {
	ready := s.rows.Len() > 0 || s.streamDone
	s.overlay.SetDataReady(ready)
}

// sessionSink routes events from one session or poll loop into the shared
// collector, discarding anything from a superseded generation. Stale
// transports are fenced by identity, not by hoping their references died.
type sessionSink struct {
	svc        *SearchService
	generation uint64
}

func (k *sessionSink) ResultReceived(site string, raw map[string]interface{}) {
	s := k.svc
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if k.generation != s.generation {
		return
	}
	s.collector.ResultReceived(site, raw)
	s.refreshDataReadyLocked()
}

func (k *sessionSink) ScoreReceived(w domain.Worthiness) {
	s := k.svc
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if k.generation != s.generation {
		return
	}
	s.collector.ScoreReceived(w)
}

var _ domain.EventSink = (*sessionSink)(nil)
