package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// WizardStep enumerates the screens of one conversion flow.
type WizardStep string

const (
	WizardConfig     WizardStep = "config"
	WizardChoice     WizardStep = "choice"
	WizardUpload     WizardStep = "upload"
	WizardProcessing WizardStep = "processing"
	WizardResults    WizardStep = "results"
)

// WizardState is the complete UI state of one flow. It is owned by the Wizard
// and handed out as a copy.
type WizardState struct {
	Step     WizardStep
	Mode     Mode
	Session  *Session
	Snapshot *ProgressSnapshot
	Results  *ResultSet
	Error    string // Message shown by the current step's error display
}

// WizardOption customizes a Wizard.
type WizardOption func(*Wizard)

func WithWizardLogger(logger *slog.Logger) WizardOption {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithWizardPollInterval(interval time.Duration) WizardOption {
	return func(w *Wizard) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithProgressHandler observes every new snapshot while processing.
func WithProgressHandler(fn SnapshotHandler) WizardOption {
	return func(w *Wizard) {
		w.onSnapshot = fn
	}
}

// Wizard sequences configuration, mode choice, upload, processing and results.
// All transitions run on the caller's goroutine; a Wizard is not safe for concurrent use.
type Wizard struct {
	svc        Service
	dispatcher *Dispatcher
	logger     *slog.Logger
	interval   time.Duration
	onSnapshot SnapshotHandler

	state  WizardState
	poller *Poller
}

// NewWizard returns a Wizard at the config step. Call Start to run the startup config check.
func NewWizard(svc Service, opts ...WizardOption) *Wizard {
	w := &Wizard{
		svc:      svc,
		logger:   slog.Default(),
		interval: DefaultPollInterval,
		state:    WizardState{Step: WizardConfig},
	}

	for _, opt := range opts {
		opt(w)
	}

	w.dispatcher = NewDispatcher(svc, w.logger)
	return w
}

// State returns a copy of the current UI state.
func (w *Wizard) State() WizardState {
	return w.state
}

// Step returns the current step.
func (w *Wizard) Step() WizardStep {
	return w.state.Step
}

// Start checks the service configuration and moves to choice when both the
// configuration and the secrets exist. A failed check leaves the wizard at config.
func (w *Wizard) Start(ctx context.Context) WizardStep {
	if w.state.Step != WizardConfig {
		return w.state.Step
	}

	status, err := w.svc.CheckConfig(ctx)
	if err != nil {
		w.logger.WarnContext(ctx, "config check failed", "error", err)
		return w.state.Step
	}

	if status.Ready() {
		w.transition(ctx, WizardChoice)
	}
	return w.state.Step
}

// SubmitConfig validates cfg, saves it and moves to choice.
func (w *Wizard) SubmitConfig(ctx context.Context, cfg Config) error {
	if err := w.expect(WizardConfig, "submit config"); err != nil {
		return err
	}

	w.state.Error = ""

	cfg, err := NormalizeConfig(cfg)
	if err != nil {
		return err
	}

	if err := w.svc.SaveConfig(ctx, cfg); err != nil {
		w.state.Error = failureMessage(err, saveConfigFailedMessage)
		return err
	}

	w.transition(ctx, WizardChoice)
	return nil
}

// SelectMode fixes the processing mode and moves to upload.
func (w *Wizard) SelectMode(ctx context.Context, mode Mode) error {
	if err := w.expect(WizardChoice, "select mode"); err != nil {
		return err
	}

	if !mode.Valid() {
		return ErrInvalidMode
	}

	w.state.Mode = mode
	w.transition(ctx, WizardUpload)
	return nil
}

// Back returns from upload to choice. It is the only backward transition.
func (w *Wizard) Back(ctx context.Context) error {
	if err := w.expect(WizardUpload, "back"); err != nil {
		return err
	}

	w.state.Mode = ""
	w.transition(ctx, WizardChoice)
	return nil
}

// Upload validates files, creates the session, starts processing and moves to processing.
// Validation failures are returned without touching the state; remote failures are
// also surfaced through State().Error and keep the wizard at upload.
func (w *Wizard) Upload(ctx context.Context, files []File) error {
	if err := w.expect(WizardUpload, "upload"); err != nil {
		return err
	}
	w.state.Error = ""

	if err := ValidateSelection(files, w.state.Mode); err != nil {
		return err
	}

	session, err := w.dispatcher.Submit(ctx, files, w.state.Mode)
	if err != nil {
		w.state.Error = UserMessage(err)
		return err
	}

	w.state.Session = session
	w.state.Snapshot = nil
	w.poller = nil
	w.transition(ctx, WizardProcessing)
	return nil
}

// Process polls the session until a terminal snapshot. On completion the result set
// is fetched once and the wizard moves to results. A service-reported error or a
// failed fetch is surfaced through State().Error and the wizard stays at processing.
// Cancelling ctx tears the poller down; Process may then be called again.
func (w *Wizard) Process(ctx context.Context) error {
	if err := w.expect(WizardProcessing, "process"); err != nil {
		return err
	}

	if w.poller != nil && w.poller.State() != PollerStopped {
		return fmt.Errorf("%w: session %s already polled to %s", ErrInvalidTransition, w.state.Session.ID, w.poller.State())
	}

	w.poller = NewPoller(w.svc, w.state.Session.ID,
		WithPollInterval(w.interval),
		WithPollerLogger(w.logger),
		WithSnapshotHandler(func(s ProgressSnapshot) {
			snapshot := s
			w.state.Snapshot = &snapshot
			if w.onSnapshot != nil {
				w.onSnapshot(s)
			}
		}),
	)

	results, err := w.poller.Run(ctx)
	if err != nil {
		if w.poller.State() != PollerStopped {
			w.state.Error = UserMessage(err)
		}
		return err
	}

	w.state.Results = results
	w.transition(ctx, WizardResults)
	return nil
}

// Restart discards the session and returns to choice. It is allowed from results and
// from processing once polling has ended in a terminal state. Config is never revisited.
func (w *Wizard) Restart(ctx context.Context) error {
	switch {
	case w.state.Step == WizardResults:
	case w.state.Step == WizardProcessing && w.poller != nil &&
		(w.poller.State() == PollerFailed || w.poller.State() == PollerCompleted):
	default:
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, w.state.Step)
	}

	w.poller = nil
	w.state = WizardState{Step: w.state.Step}
	w.transition(ctx, WizardChoice)
	return nil
}

func (w *Wizard) expect(step WizardStep, action string) error {
	if w.state.Step != step {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, w.state.Step)
	}
	return nil
}

func (w *Wizard) transition(ctx context.Context, to WizardStep) {
	w.logger.DebugContext(ctx, "wizard transition", "from", w.state.Step, "to", to)
	w.state.Step = to
	w.state.Error = ""
}
