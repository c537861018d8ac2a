package client

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// StepState is how one pipeline stage renders.
type StepState string

const (
	StepPending   StepState = "pending"
	StepActive    StepState = "active"
	StepCompleted StepState = "completed"
	StepFailed    StepState = "error"
)

// IsBatch reports whether the snapshot carries per-file batch progress.
func (s ProgressSnapshot) IsBatch() bool {
	return s.Mode == ModeBatch
}

// StepPercent is the step-based completion, independent of the batch Progress field.
func (s ProgressSnapshot) StepPercent() float64 {
	if s.TotalSteps <= 0 {
		return 0
	}
	return float64(s.CurrentStep) / float64(s.TotalSteps) * 100
}

// StepState returns the render state of the stage at index.
func (s ProgressSnapshot) StepState(index int) StepState {
	switch {
	case s.Status == ProgressError:
		return StepFailed
	case index < s.CurrentStep:
		return StepCompleted
	case index == s.CurrentStep && s.Status == ProgressProcessing:
		return StepActive
	default:
		return StepPending
	}
}

// FileLabel is the batch position line, e.g. "File 2 of 5".
func (s ProgressSnapshot) FileLabel() string {
	return fmt.Sprintf("File %d of %d", s.CurrentFileIndex+1, s.TotalFiles)
}

// CurrentFileLabel is the file being converted, or a placeholder before the first file starts.
func (s ProgressSnapshot) CurrentFileLabel() string {
	if s.CurrentFile == "" {
		return "Preparing..."
	}
	return s.CurrentFile
}

// FormatElapsed renders seconds as MM:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatFileSize renders a byte count for file listings.
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(size))
}
