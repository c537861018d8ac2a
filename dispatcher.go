package client

import (
	"context"
	"errors"
	"log/slog"
)

// Dispatcher turns a validated file set and mode into a running session.
type Dispatcher struct {
	uploader Uploader
	logger   *slog.Logger
}

// NewDispatcher returns a Dispatcher sending its calls through uploader.
func NewDispatcher(uploader Uploader, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{uploader: uploader, logger: logger}
}

// Submit validates the selection, uploads it and starts processing. The two remote
// calls are strictly sequential. On failure no session is returned.
func (d *Dispatcher) Submit(ctx context.Context, files []File, mode Mode) (*Session, error) {
	if err := ValidateSelection(files, mode); err != nil {
		return nil, err
	}

	resp, err := d.uploader.Upload(ctx, files, mode)
	if err != nil {
		d.logger.WarnContext(ctx, "upload failed", "mode", mode, "files", len(files), "error", err)
		return nil, &UploadError{Message: failureMessage(err, uploadFailedMessage), Err: err}
	}

	if err := d.uploader.StartProcessing(ctx, resp.SessionID); err != nil {
		d.logger.WarnContext(ctx, "start processing failed", "session_id", resp.SessionID, "error", err)
		return nil, &ProcessStartError{
			SessionID: resp.SessionID,
			Message:   failureMessage(err, uploadFailedMessage),
			Err:       err,
		}
	}

	d.logger.InfoContext(ctx, "session started", "session_id", resp.SessionID, "mode", mode, "files", len(resp.Files))

	return &Session{
		ID:    resp.SessionID,
		Mode:  mode,
		Files: resp.Files,
	}, nil
}

// failureMessage prefers a message embedded in the failed response over fallback.
func failureMessage(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}
