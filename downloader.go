package client

import (
	"context"
	"fmt"
	"io"
)

// DownloadPackage downloads a packaged artifact by filename.
func (c *client) DownloadPackage(ctx context.Context, filename string) ([]byte, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	resp, err := c.transferClient.R().
		SetContext(ctx).
		SetPathParam("filename", filename).
		SetError(&apiError{}).
		Get(EndpointDownload)

	if _, err := checkResponse(OperationDownload, resp, err); err != nil {
		return nil, err
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, fmt.Errorf("download %s: %w", filename, ErrEmptyResponse)
	}

	return data, nil
}

// DownloadPackageTo streams a packaged artifact into dst.
func (c *client) DownloadPackageTo(ctx context.Context, filename string, dst io.Writer) error {
	if filename == "" {
		return ErrEmptyFilename
	}

	if dst == nil {
		return ErrNilWriter
	}

	resp, err := c.transferClient.R().
		SetContext(ctx).
		SetPathParam("filename", filename).
		SetDoNotParseResponse(true).
		Get(EndpointDownload)
	if err != nil {
		return fmt.Errorf("%s failed: %w", OperationDownload, err)
	}

	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return errStatus(OperationDownload, resp.StatusCode(), resp.Status(), "", resp.Header().Get(TraceIDHeader))
	}

	n, err := io.Copy(dst, body)
	if err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	if n == 0 {
		return fmt.Errorf("download %s: %w", filename, ErrEmptyResponse)
	}

	return nil
}
