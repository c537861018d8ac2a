package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PollerState enumerates the lifecycle of a Poller.
type PollerState string

const (
	PollerIdle      PollerState = "idle"
	PollerPolling   PollerState = "polling"
	PollerCompleted PollerState = "terminal-completed"
	PollerFailed    PollerState = "terminal-error"
	PollerStopped   PollerState = "stopped" // torn down before a terminal snapshot
)

// SnapshotHandler receives every snapshot whose content differs from the previous one.
type SnapshotHandler func(ProgressSnapshot)

// PollerOption customizes a Poller.
type PollerOption func(*Poller)

// WithPollInterval overrides the fixed poll cadence.
func WithPollInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithSnapshotHandler registers fn to observe snapshot changes.
func WithSnapshotHandler(fn SnapshotHandler) PollerOption {
	return func(p *Poller) {
		p.onSnapshot = fn
	}
}

// WithPollerLogger sets the logger used for poll records.
func WithPollerLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Poller drives one session from its first poll to a terminal snapshot.
// Polls are strictly serial: a tick that arrives while a request is
// outstanding is dropped, so responses are applied in the order they were issued.
// A Poller runs once and is not safe for concurrent use.
type Poller struct {
	source     ProgressReader
	sessionID  string
	interval   time.Duration
	onSnapshot SnapshotHandler
	logger     *slog.Logger

	state    PollerState
	snapshot *ProgressSnapshot
	polls    int
}

// NewPoller returns an idle Poller for sessionID.
func NewPoller(source ProgressReader, sessionID string, opts ...PollerOption) *Poller {
	p := &Poller{
		source:    source,
		sessionID: sessionID,
		interval:  DefaultPollInterval,
		logger:    slog.Default(),
		state:     PollerIdle,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// State returns the current lifecycle state.
func (p *Poller) State() PollerState { return p.state }

// Snapshot returns the latest snapshot, or nil before the first successful poll.
func (p *Poller) Snapshot() *ProgressSnapshot { return p.snapshot }

// Polls returns how many progress requests were issued.
func (p *Poller) Polls() int { return p.polls }

// Run polls immediately and then once per interval until a terminal snapshot is
// observed or ctx is cancelled. On completion it fetches the result set exactly once.
func (p *Poller) Run(ctx context.Context) (*ResultSet, error) {
	if p.sessionID == "" {
		return nil, ErrEmptySessionID
	}

	if p.state != PollerIdle {
		return nil, ErrPollerStarted
	}
	p.state = PollerPolling

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		snapshot, err := p.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.state = PollerStopped
				return nil, fmt.Errorf("waiting for session %s cancelled: %w", p.sessionID, ctx.Err())
			}
			p.state = PollerFailed
			p.logger.ErrorContext(ctx, "progress poll failed", "session_id", p.sessionID, "error", err)
			return nil, &ProgressUnavailableError{SessionID: p.sessionID, Err: err}
		}

		switch snapshot.Status {
		case ProgressCompleted:
			p.state = PollerCompleted
			return p.fetchResults(ctx)
		case ProgressError:
			p.state = PollerFailed
			msg := snapshot.ErrorMessage
			if msg == "" {
				msg = processingFailedMessage
			}
			p.logger.WarnContext(ctx, "session failed", "session_id", p.sessionID, "message", msg)
			return nil, &ServiceError{SessionID: p.sessionID, Message: msg}
		}

		if err := waitForNextPoll(ctx, ticker, p.sessionID); err != nil {
			p.state = PollerStopped
			return nil, err
		}
	}
}

// poll issues one progress request and publishes the snapshot if its content changed.
func (p *Poller) poll(ctx context.Context) (*ProgressSnapshot, error) {
	p.polls++
	snapshot, err := p.source.GetProgress(ctx, p.sessionID)
	if err != nil {
		return nil, err
	}

	if p.snapshot != nil && p.snapshot.Equal(*snapshot) {
		return snapshot, nil
	}

	p.snapshot = snapshot
	p.logger.DebugContext(ctx, "progress",
		"session_id", p.sessionID,
		"status", snapshot.Status,
		"step", snapshot.CurrentStep,
		"total_steps", snapshot.TotalSteps,
	)

	if p.onSnapshot != nil {
		p.onSnapshot(*snapshot)
	}

	return snapshot, nil
}

// fetchResults issues the one results request of a completed session. Cancelling ctx
// while it is in flight stops the poller instead of failing it.
func (p *Poller) fetchResults(ctx context.Context) (*ResultSet, error) {
	results, err := p.source.GetResults(ctx, p.sessionID)
	if err != nil {
		if ctx.Err() != nil {
			p.state = PollerStopped
			return nil, fmt.Errorf("waiting for session %s cancelled: %w", p.sessionID, ctx.Err())
		}
		p.logger.ErrorContext(ctx, "results fetch failed", "session_id", p.sessionID, "error", err)
		return nil, &ResultsError{SessionID: p.sessionID, Err: err}
	}
	return results, nil
}

// waitForNextPoll blocks until the next ticker pulse or context cancellation.
func waitForNextPoll(ctx context.Context, ticker *time.Ticker, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("waiting for session %s cancelled: %w", sessionID, err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for session %s cancelled: %w", sessionID, ctx.Err())
	case <-ticker.C:
		return nil
	}
}
