package client

import (
	"context"
	"fmt"
)

// GetProgress fetches the current processing snapshot for a session.
func (c *client) GetProgress(ctx context.Context, sessionID string) (*ProgressSnapshot, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	var result ProgressSnapshot
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetPathParam("session_id", sessionID).
		SetResult(&result).
		SetError(&apiError{}).
		Get(EndpointProgress)

	traceID, err := checkResponse(OperationGetProgress, resp, err)
	if err != nil {
		return nil, err
	}
	result.TraceID = traceID

	if result.Status == "" {
		return nil, fmt.Errorf("get progress for session %s: %w", sessionID, ErrEmptyResponse)
	}

	if result.TotalSteps == 0 {
		result.TotalSteps = len(result.Steps)
	}

	return &result, nil
}

// GetResults fetches the final result set of a completed session.
func (c *client) GetResults(ctx context.Context, sessionID string) (*ResultSet, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	var result ResultSet
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetPathParam("session_id", sessionID).
		SetResult(&result).
		SetError(&apiError{}).
		Get(EndpointResults)

	traceID, err := checkResponse(OperationGetResults, resp, err)
	if err != nil {
		return nil, err
	}
	result.TraceID = traceID

	c.logger.DebugContext(ctx, "results fetched",
		"session_id", sessionID,
		"results", len(result.Results),
		"trace-id", traceID,
	)

	return &result, nil
}
