package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Upload sends the file set and mode tag as one multipart request and returns the new session.
func (c *client) Upload(ctx context.Context, files []File, mode Mode) (*UploadResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	fields := make([]*resty.MultipartField, 0, len(files))
	for _, f := range files {
		if f.Reader == nil {
			return nil, fmt.Errorf("%s: %w", f.Name, ErrNilReader)
		}
		fields = append(fields, &resty.MultipartField{
			Param:       FormFieldFiles,
			FileName:    f.Name,
			ContentType: "application/pdf",
			Reader:      f.Reader,
		})
	}

	var result UploadResponse
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetMultipartFields(fields...).
		SetMultipartFormData(map[string]string{FormFieldMode: string(mode)}).
		SetResult(&result).
		SetError(&apiError{}).
		Post(EndpointUpload)

	traceID, err := checkResponse(OperationUpload, resp, err)
	if err != nil {
		return nil, err
	}
	result.TraceID = traceID

	if result.SessionID == "" {
		return nil, ErrMissingSessionID
	}

	c.logger.DebugContext(ctx, "upload accepted",
		"session_id", result.SessionID,
		"mode", mode,
		"files", len(result.Files),
		"trace-id", traceID,
	)

	return &result, nil
}

// StartProcessing signals the service to begin the pipeline for an uploaded session.
// A success status is enough; the response body is ignored.
func (c *client) StartProcessing(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetPathParam("session_id", sessionID).
		SetError(&apiError{}).
		Post(EndpointProcess)

	traceID, err := checkResponse(OperationStartProcessing, resp, err)
	if err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "processing started", "session_id", sessionID, "trace-id", traceID)
	return nil
}
