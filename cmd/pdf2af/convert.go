package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	client "github.com/hsn0918/pdf2af-client"
)

func newConvertCmd(opts *cliOptions) *cobra.Command {
	co := &convertOptions{
		opts: opts,
	}

	cmd := &cobra.Command{
		Use:   "convert FILE|DIR...",
		Short: "Upload PDF forms, follow processing and print the results",
		Long: `Upload PDF forms, follow processing and print the results.

Every file name must start with four letters and end in .pdf, e.g. ABIC_en.pdf.
Single mode takes exactly one file; batch mode takes one or more.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: pdfCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := co.complete(args); err != nil {
				return failed(opts, failure{operation: "convert", target: strings.Join(args, ",")}, err)
			}
			return co.run(cmd)
		},
	}

	co.addFlags(cmd)

	return cmd
}

type convertOptions struct {
	mode     string
	download downloadOptions
	opts     *cliOptions
	files    []string
}

type downloadOptions struct {
	enabled     bool
	dir         string
	concurrency int
	session     string
}

var errUnsafePackageName = errors.New("package name is not a plain file name")

// safeFileName reports whether a service-supplied name stays inside the directory it is joined to.
func safeFileName(name string) bool {
	return name != "." && name != ".." && filepath.Base(name) == name
}

func (o *convertOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.mode, "mode", "m", string(client.ModeBatch), "Processing mode: single|batch")
	o.download.addFlags(cmd)
}

func (d *downloadOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&d.enabled, "download", false, "Download every completed package")
	cmd.Flags().StringVar(&d.dir, "download-dir", ".", "Directory to store downloaded packages")
	cmd.Flags().IntVar(&d.concurrency, "concurrency", 3, "Number of concurrent package downloads")
}

func (o *convertOptions) complete(args []string) error {
	if !client.Mode(o.mode).Valid() {
		return fmt.Errorf("unsupported mode %q: %w", o.mode, client.ErrInvalidMode)
	}

	if o.download.concurrency <= 0 {
		o.download.concurrency = 3
	}

	files, err := collectInputFiles(args)
	if err != nil {
		return err
	}
	o.files = files

	return nil
}

func (o *convertOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cli := buildClient(o.opts)
	target := strings.Join(o.files, ",")

	view := newProgressView(cmd.ErrOrStderr())
	defer view.Close()

	w := client.NewWizard(cli,
		client.WithWizardLogger(o.opts.logger),
		client.WithWizardPollInterval(o.opts.interval),
		client.WithProgressHandler(view.Update),
	)

	if step := w.Start(ctx); step != client.WizardChoice {
		err := errors.New("the conversion service is unreachable or not configured; run `pdf2af config show`")
		return failed(o.opts, failure{operation: string(client.OperationCheckConfig), target: target}, err)
	}

	if err := w.SelectMode(ctx, client.Mode(o.mode)); err != nil {
		return failed(o.opts, failure{operation: "convert", target: target}, err)
	}

	files, closeFiles, err := openFiles(o.files)
	if err != nil {
		return failed(o.opts, failure{operation: "convert", target: target}, err)
	}
	defer closeFiles()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = fmt.Sprintf(" Uploading %d file(s)", len(files))
	s.Start()
	err = w.Upload(ctx, files)
	s.Stop()
	if err != nil {
		return failed(o.opts, failure{operation: string(client.OperationUpload), target: target}, err)
	}

	state := w.State()
	renderSession(cmd.OutOrStdout(), state.Session)

	if err := w.Process(ctx); err != nil {
		view.Close()
		state = w.State()
		var traceID string
		if state.Snapshot != nil {
			traceID = state.Snapshot.TraceID
			renderSteps(cmd.OutOrStdout(), *state.Snapshot)
		}
		if state.Error != "" {
			_ = printWithTrace(cmd, slog.LevelError, traceID, state.Error, slog.String("session", state.Session.ID))
		}
		return failed(o.opts, failure{
			operation: string(client.OperationGetProgress),
			traceID:   traceID,
			session:   state.Session.ID,
			target:    target,
		}, err)
	}

	state = w.State()
	if state.Results == nil {
		return failed(o.opts, failure{
			operation: string(client.OperationGetResults),
			session:   state.Session.ID,
			target:    target,
		}, client.ErrEmptyResponse)
	}
	if err := renderResults(cmd.OutOrStdout(), *state.Results); err != nil {
		return err
	}

	if o.download.enabled {
		o.download.session = state.Session.ID
		return downloadAll(ctx, cmd, cli, *state.Results, o.download, o.opts)
	}

	return nil
}

// downloadAll saves every completed package into the download directory.
// Downloads run concurrently; a failed download does not cancel the others.
func downloadAll(ctx context.Context, cmd *cobra.Command, cli client.Downloader, rs client.ResultSet, d downloadOptions, opts *cliOptions) error {
	eg, ctx := errgroup.WithContext(ctx)
	if d.concurrency > 0 {
		eg.SetLimit(d.concurrency)
	}

	var (
		errs []error
		mu   sync.Mutex
	)

	for _, r := range rs.Results {
		name := r.DownloadName()
		if name == "" {
			continue
		}

		record := failure{
			operation: string(client.OperationDownload),
			traceID:   rs.TraceID,
			session:   d.session,
			target:    name,
		}

		if !safeFileName(name) {
			err := failed(opts, record, fmt.Errorf("%w: %q", errUnsafePackageName, name))
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			continue
		}

		r := r
		eg.Go(func() error {
			outPath := filepath.Join(d.dir, name)
			if err := downloadToFile(ctx, cli, name, outPath); err != nil {
				mu.Lock()
				errs = append(errs, failed(opts, record, err))
				mu.Unlock()
				return nil
			}
			return printWithTrace(cmd, slog.LevelInfo, rs.TraceID, "Downloaded package",
				slog.String("form", r.DisplayName()),
				slog.String("path", outPath),
			)
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if len(errs) > 0 {
		return fmt.Errorf("downloads completed with %d errors, first: %w", len(errs), errs[0])
	}

	return nil
}
