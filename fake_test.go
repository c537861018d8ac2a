package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

var errTransport = errors.New("connection refused")

// fakeService is a scripted in-memory conversion service.
type fakeService struct {
	configStatus *ConfigStatus
	configErr    error
	saveErr      error
	saved        []Config

	uploadResp *UploadResponse
	uploadErr  error
	uploaded   [][]string
	modes      []Mode
	startErr   error
	started    []string

	snapshots   []ProgressSnapshot
	progressErr error
	progressAt  int // first poll index that fails with progressErr
	onPoll      func(n int)
	polls       int

	results      *ResultSet
	resultsErr   error
	resultsCalls int
	onResults    func(n int)

	calls []string
}

var _ Service = (*fakeService)(nil)

func (f *fakeService) CheckConfig(ctx context.Context) (*ConfigStatus, error) {
	f.calls = append(f.calls, "check")
	if f.configErr != nil {
		return nil, f.configErr
	}
	if f.configStatus == nil {
		return &ConfigStatus{}, nil
	}
	return f.configStatus, nil
}

func (f *fakeService) SaveConfig(ctx context.Context, cfg Config) error {
	f.calls = append(f.calls, "save")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, cfg)
	return nil
}

func (f *fakeService) Upload(ctx context.Context, files []File, mode Mode) (*UploadResponse, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	names := make([]string, len(files))
	for i, file := range files {
		names[i] = file.Name
	}
	f.uploaded = append(f.uploaded, names)
	f.modes = append(f.modes, mode)
	return f.uploadResp, nil
}

func (f *fakeService) StartProcessing(ctx context.Context, sessionID string) error {
	f.calls = append(f.calls, "process")
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, sessionID)
	return nil
}

func (f *fakeService) GetProgress(ctx context.Context, sessionID string) (*ProgressSnapshot, error) {
	f.calls = append(f.calls, "progress")
	n := f.polls
	f.polls++
	if f.onPoll != nil {
		f.onPoll(n)
	}
	if f.progressErr != nil && n >= f.progressAt {
		return nil, f.progressErr
	}
	if len(f.snapshots) == 0 {
		return &ProgressSnapshot{Status: ProgressProcessing}, nil
	}
	if n >= len(f.snapshots) {
		n = len(f.snapshots) - 1
	}
	s := f.snapshots[n]
	return &s, nil
}

func (f *fakeService) GetResults(ctx context.Context, sessionID string) (*ResultSet, error) {
	f.calls = append(f.calls, "results")
	n := f.resultsCalls
	f.resultsCalls++
	if f.onResults != nil {
		f.onResults(n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.results, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func steps() []string {
	return []string{"Extracting fields", "Generating sections", "Packaging"}
}

func processing(step int) ProgressSnapshot {
	return ProgressSnapshot{
		Status:      ProgressProcessing,
		Steps:       steps(),
		CurrentStep: step,
		TotalSteps:  len(steps()),
	}
}

func pdf(name string) File {
	return File{Name: name, Size: 3, Reader: strings.NewReader("pdf")}
}

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }
