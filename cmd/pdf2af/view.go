package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	client "github.com/hsn0918/pdf2af-client"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

// progressView renders processing snapshots as a single progress bar.
type progressView struct {
	bar *progressbar.ProgressBar
}

func newProgressView(w io.Writer) *progressView {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Waiting for the service"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
	return &progressView{bar: bar}
}

// Update is a client.SnapshotHandler.
func (p *progressView) Update(s client.ProgressSnapshot) {
	percent := s.StepPercent()
	if s.IsBatch() {
		percent = s.Progress
	}

	_ = p.bar.Set(int(percent))
	p.bar.Describe(describeSnapshot(s))

	if s.Status == client.ProgressCompleted {
		_ = p.bar.Finish()
	}
}

// Close leaves the bar line when processing ended without completion.
func (p *progressView) Close() {
	if !p.bar.IsFinished() {
		_ = p.bar.Clear()
	}
}

func describeSnapshot(s client.ProgressSnapshot) string {
	parts := []string{"[" + client.FormatElapsed(s.ElapsedTime) + "]"}
	if s.IsBatch() {
		parts = append(parts, s.FileLabel(), s.CurrentFileLabel())
	}
	if s.CurrentStep >= 0 && s.CurrentStep < len(s.Steps) {
		parts = append(parts, s.Steps[s.CurrentStep])
	}
	return strings.Join(parts, " ")
}

// renderSteps prints the pipeline checklist of s.
func renderSteps(w io.Writer, s client.ProgressSnapshot) {
	for i, label := range s.Steps {
		var mark string
		switch s.StepState(i) {
		case client.StepCompleted:
			mark = green("✓")
		case client.StepActive:
			mark = cyan("▶")
		case client.StepFailed:
			mark = red("✗")
		default:
			mark = faint("·")
		}
		fmt.Fprintf(w, "  %s %d. %s\n", mark, i+1, label)
	}
}

func renderSnapshot(w io.Writer, s client.ProgressSnapshot) {
	fmt.Fprintf(w, "Status:   %s\n", statusBadge(string(s.Status)))
	fmt.Fprintf(w, "Elapsed:  %s\n", client.FormatElapsed(s.ElapsedTime))
	fmt.Fprintf(w, "Progress: %.0f%%\n", s.StepPercent())
	if s.IsBatch() {
		fmt.Fprintf(w, "Batch:    %s (%.0f%%) %s\n", s.FileLabel(), s.Progress, s.CurrentFileLabel())
	}
	renderSteps(w, s)
	if s.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:    %s\n", red(s.ErrorMessage))
	}
}

func renderSession(w io.Writer, session *client.Session) {
	fmt.Fprintf(w, "Session %s (%s)\n", cyan(session.ID), session.Mode)
	for _, f := range session.Files {
		fmt.Fprintf(w, "  %s %s\n", f.Name, faint(client.FormatFileSize(f.Size)))
	}
}

// renderResults prints the summary tiles followed by one table row per result.
func renderResults(w io.Writer, rs client.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, line := range client.Summary(rs) {
		fmt.Fprintf(tw, "%s:\t%s\n", line.Label, line.Value)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "FORM\tPAGES\tSECTIONS\tTOKENS\tCOST\tSTATUS\tDOWNLOAD / ERROR")
	for _, row := range client.Rows(rs) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Name, row.Pages, row.Sections, row.Tokens, row.Cost, statusBadge(string(row.Status)), row.Action)
	}

	return tw.Flush()
}

func statusBadge(status string) string {
	switch status {
	case string(client.ResultCompleted):
		return green("Success")
	case string(client.ResultError):
		return red("Error")
	case string(client.ProgressProcessing):
		return cyan("Processing")
	default:
		return status
	}
}
