package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
	"golang.org/x/time/rate"
)

// StreamClient opens live comparison streams against the backend's
// /compare endpoint, a persistent server-push channel of framed JSON
// events terminated by the sentinel site key.
type StreamClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewStreamClient creates a new stream client. searchesPerMinute bounds
// how fast fresh searches may be opened against the upstream.
func NewStreamClient(baseURL string, searchesPerMinute int) *StreamClient {
	limiter := rate.NewLimiter(rate.Limit(float64(searchesPerMinute)/60.0), 3)

	return &StreamClient{
		// No overall timeout: the stream stays open until the backend
		// finishes; cancellation runs through the session context.
		httpClient:  &http.Client{},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// Start opens the push channel for one search and consumes it in the
// background, routing every event into sink until the terminal message,
// a transport failure, or Close. Exactly one search is served per session;
// concurrent-session discipline is the caller's responsibility.
func (c *StreamClient) Start(ctx context.Context, query, userPrice string, sink domain.EventSink) (domain.StreamSession, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/compare", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("user_price", userPrice)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, "GET", reqURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("User-Agent", "WorthIt/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: status %d", domain.ErrBackendFailure, resp.StatusCode)
	}

	sess := &streamSession{
		cancel: cancel,
		state:  domain.SessionOpen,
		done:   make(chan struct{}),
	}
	go sess.consume(resp.Body, sink)

	return sess, nil
}

// streamSession owns one open /compare connection. It routes events, never
// rows; whatever was collected before a failure stays collected.
type streamSession struct {
	cancel context.CancelFunc
	done   chan struct{}

	mutex  sync.Mutex
	state  domain.SessionState
	closed bool // Close was requested; distinguishes teardown from transport error
}

func (s *streamSession) State() domain.SessionState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

func (s *streamSession) Done() <-chan struct{} {
	return s.done
}

// Close tears the connection down best-effort. In-flight events still being
// parsed are abandoned, not delivered late.
func (s *streamSession) Close() {
	s.mutex.Lock()
	if s.closed || s.state != domain.SessionOpen {
		s.mutex.Unlock()
		return
	}
	s.closed = true
	s.state = domain.SessionClosed
	s.mutex.Unlock()

	s.cancel()
}

// consume reads framed events off the wire in arrival order until the
// terminal message or a transport failure.
func (s *streamSession) consume(body io.ReadCloser, sink domain.EventSink) {
	defer body.Close()
	defer close(s.done)
	defer s.cancel()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		// Blank line terminates one frame
		if line == "" {
			if data.Len() > 0 {
				if s.dispatch(data.String(), sink) {
					s.finish(domain.SessionCompleted)
					return
				}
				data.Reset()
			}
			continue
		}

		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(payload, " "))
		}
		// Other SSE fields (event:, id:, retry:, comments) are ignored
	}

	// Stream ended without the terminal message: transport error unless the
	// consumer itself asked for teardown. Collected rows stay in place.
	s.mutex.Lock()
	wasClosed := s.closed
	s.mutex.Unlock()
	if wasClosed {
		return
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[stream] transport error: %v", err)
	} else {
		log.Printf("[stream] connection closed before terminal message")
	}
	s.finish(domain.SessionErrored)
}

// dispatch parses one frame and routes it. Returns true for the terminal
// message. Malformed frames are logged and skipped, never fatal.
func (s *streamSession) dispatch(data string, sink domain.EventSink) (terminal bool) {
	var event StreamEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		log.Printf("[stream] skipping malformed event: %v", err)
		return false
	}

	if event.Site == DoneSite {
		if event.Worthit != nil {
			sink.ScoreReceived(*event.Worthit)
		}
		return true
	}

	sink.ResultReceived(event.Site, event.Result)
	if event.Worthit != nil {
		sink.ScoreReceived(*event.Worthit)
	}
	return false
}

// finish moves the session to a terminal state unless Close got there first
func (s *streamSession) finish(state domain.SessionState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state == domain.SessionOpen {
		s.state = state
	}
}

var _ domain.StreamClient = (*StreamClient)(nil)
