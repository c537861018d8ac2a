package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	client "github.com/hsn0918/pdf2af-client"
)

func buildClient(opts *cliOptions) client.Client {
	return client.NewClient(
		client.WithBaseURL(opts.baseURL),
		client.WithTimeout(opts.timeout),
		client.WithProcessingTimeout(opts.processingTimeout),
		client.WithLogger(opts.logger),
	)
}

// collectInputFiles expands each argument: glob patterns (including **) are matched,
// files are taken as given, directories contribute their top-level *.pdf entries.
func collectInputFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		if strings.ContainsAny(p, "*?[{") {
			matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expand pattern %s: %w", p, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %s", p)
			}
			files = append(files, matches...)
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat path: %w", err)
		}

		if info.Mode().IsRegular() {
			files = append(files, p)
			continue
		}

		if !info.IsDir() {
			return nil, fmt.Errorf("path is neither file nor directory: %s", p)
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				files = append(files, filepath.Join(p, entry.Name()))
			}
		}
	}

	return files, nil
}

// openFiles opens every path for upload. The returned closer releases all handles.
func openFiles(paths []string) ([]client.File, func(), error) {
	var handles []*os.File
	closeAll := func() {
		for _, f := range handles {
			f.Close()
		}
	}

	files := make([]client.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open file: %w", err)
		}
		handles = append(handles, f)

		info, err := f.Stat()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("stat file: %w", err)
		}

		files = append(files, client.File{Name: filepath.Base(p), Size: info.Size(), Reader: f})
	}

	return files, closeAll, nil
}

func downloadToFile(ctx context.Context, cli client.Downloader, filename, targetPath string) error {
	dir := filepath.Dir(targetPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}
	}

	file, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := cli.DownloadPackageTo(ctx, filename, file); err != nil {
		os.Remove(targetPath)
		return err
	}

	return nil
}

// failed appends err to the fail log and returns it, annotated when the log itself cannot be written.
func failed(opts *cliOptions, f failure, err error) error {
	if logErr := logFailure(opts.failLogPath, f, err); logErr != nil {
		return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
	}
	return err
}

func printOut(cmd *cobra.Command, msg string, attrs ...slog.Attr) error {
	return logWith(cmd, slog.LevelInfo, "", msg, attrs...)
}

func printWithTrace(cmd *cobra.Command, level slog.Level, traceID string, msg string, attrs ...slog.Attr) error {
	return logWith(cmd, level, traceID, msg, attrs...)
}

// outputMu serializes user-facing lines written from concurrent downloads.
var outputMu sync.Mutex

func logWith(cmd *cobra.Command, level slog.Level, traceID string, msg string, attrs ...slog.Attr) error {
	outputMu.Lock()
	defer outputMu.Unlock()

	logger := newLogger(cmd.OutOrStdout(), slog.LevelDebug)
	if traceID != "" {
		attrs = append(attrs, slog.String("trace-id", traceID))
	}
	logger.LogAttrs(cmd.Context(), level, strings.TrimSuffix(msg, "\n"), attrs...)
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
