package client

import (
	"context"
	"io"
)

// Info provides metadata about the client
type Info interface {
	Name() string
	Version() string
}

// ConfigStore checks and saves the service-side configuration
type ConfigStore interface {
	CheckConfig(ctx context.Context) (*ConfigStatus, error)
	SaveConfig(ctx context.Context, cfg Config) error
}

// Uploader creates sessions and starts their processing pipeline
type Uploader interface {
	Upload(ctx context.Context, files []File, mode Mode) (*UploadResponse, error)
	StartProcessing(ctx context.Context, sessionID string) error
}

// ProgressReader observes a running session and fetches its final results
type ProgressReader interface {
	GetProgress(ctx context.Context, sessionID string) (*ProgressSnapshot, error)
	GetResults(ctx context.Context, sessionID string) (*ResultSet, error)
}

// Downloader handles package download operations
type Downloader interface {
	DownloadPackage(ctx context.Context, filename string) ([]byte, error)
	DownloadPackageTo(ctx context.Context, filename string, dst io.Writer) error
}

// Service is everything the wizard needs from the conversion service
type Service interface {
	ConfigStore
	Uploader
	ProgressReader
}

// Client combines all conversion service operations
type Client interface {
	Info
	Service
	Downloader
}
