package domain

import "context"

// SessionState describes the lifecycle of one open push-stream connection
type SessionState string

const (
	SessionClosed    SessionState = "closed"
	SessionOpen      SessionState = "open"
	SessionCompleted SessionState = "completed"
	SessionErrored   SessionState = "errored"
)

// EventSink receives raw vendor payloads and score updates from either data
// channel (live stream or polling fallback). Implementations normalize and
// aggregate; the transport never interprets vendor payloads itself.
type EventSink interface {
	ResultReceived(site string, raw map[string]interface{})
	ScoreReceived(w Worthiness)
}

// StreamSession is one logical lifetime of an open push-stream connection.
// It owns no rows; it only routes events to a sink until the backend sends
// its terminal message, the transport fails, or Close is called.
type StreamSession interface {
	// Close tears down the connection. Events that arrive after Close are
	// discarded. Safe to call more than once.
	Close()
	// State reports the current session lifecycle state.
	State() SessionState
	// Done is closed once the session reaches a terminal state.
	Done() <-chan struct{}
}

// StreamClient opens live comparison streams against the backend
type StreamClient interface {
	Start(ctx context.Context, query, userPrice string, sink EventSink) (StreamSession, error)
}

// MoreClient drives the "more results" polling protocol. FetchMore blocks
// until the backend delivers results, the attempt ceiling is hit, or ctx is
// cancelled; results flow through the same sink as the live stream.
type MoreClient interface {
	FetchMore(ctx context.Context, query, userPrice string, sink EventSink) error
}
