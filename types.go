package client

import (
	"io"
	"slices"
)

// Mode enumerates how a session processes its files.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// Valid reports whether m is a known processing mode.
func (m Mode) Valid() bool {
	return m == ModeSingle || m == ModeBatch
}

// PackagerMode enumerates the output packager targets.
type PackagerMode string

const (
	PackagerSandbox PackagerMode = "sandbox"
	PackagerDev     PackagerMode = "dev"
)

// ProgressStatus enumerates service-side session states.
type ProgressStatus string

const (
	ProgressProcessing ProgressStatus = "processing"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressError      ProgressStatus = "error"
)

// Terminal reports whether no further polling should happen after s.
func (s ProgressStatus) Terminal() bool {
	return s == ProgressCompleted || s == ProgressError
}

// ResultStatus enumerates per-file outcomes.
type ResultStatus string

const (
	ResultCompleted ResultStatus = "completed"
	ResultError     ResultStatus = "error"
)

// Operation enumerates named remote calls for error reporting.
type Operation string

const (
	OperationCheckConfig     Operation = "check config"
	OperationSaveConfig      Operation = "save config"
	OperationUpload          Operation = "upload"
	OperationStartProcessing Operation = "start processing"
	OperationGetProgress     Operation = "get progress"
	OperationGetResults      Operation = "get results"
	OperationDownload        Operation = "download"
)

// ConfigStatus reports which server-side configuration artifacts exist.
type ConfigStatus struct {
	TraceID       string `json:"-"`
	ConfigExists  bool   `json:"config_exists"`
	SecretsExists bool   `json:"secrets_exists"`
}

// Ready reports whether the wizard may skip the configuration step.
func (s ConfigStatus) Ready() bool {
	return s.ConfigExists && s.SecretsExists
}

// Config is the designer and model configuration saved on the service.
type Config struct {
	TNumber      string       `json:"t_number" mapstructure:"t_number"`           // Designer identifier
	APIKey       string       `json:"api_key" mapstructure:"api_key"`             // Model provider key, stored as a secret
	Endpoint     string       `json:"endpoint" mapstructure:"endpoint"`           // Model provider endpoint URL
	ModelName    string       `json:"model_name" mapstructure:"model_name"`       // Deployment or model name
	APIVersion   string       `json:"api_version" mapstructure:"api_version"`     // Model provider API version
	PackagerMode PackagerMode `json:"packager_mode" mapstructure:"packager_mode"` // "sandbox" or "dev"
}

// File is one local document selected for upload.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// FileInfo describes an accepted file as echoed by the service.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// UploadResponse is returned by the upload call.
type UploadResponse struct {
	TraceID   string     `json:"-"`
	SessionID string     `json:"session_id"` // Identifier for process, progress and results calls
	Files     []FileInfo `json:"files"`      // Accepted files in upload order
}

// Session identifies one conversion run. It is created when the upload is accepted.
type Session struct {
	ID    string
	Mode  Mode
	Files []FileInfo
}

// ProgressSnapshot is a point-in-time view of service-side processing.
// A snapshot is replaced wholesale on every poll, never mutated in place.
type ProgressSnapshot struct {
	TraceID          string         `json:"-"`
	Status           ProgressStatus `json:"status"`
	Mode             Mode           `json:"mode,omitempty"`
	Steps            []string       `json:"steps"`                        // Human-readable stage labels
	CurrentStep      int            `json:"current_step"`                 // 0-based index into Steps
	TotalSteps       int            `json:"total_steps"`                  // len(Steps)
	CurrentFile      string         `json:"current_file,omitempty"`       // Batch only
	CurrentFileIndex int            `json:"current_file_index,omitempty"` // Batch only, 0-based
	TotalFiles       int            `json:"total_files,omitempty"`        // Batch only
	Progress         float64        `json:"progress"`                     // Batch-level completion, 0-100
	ElapsedTime      int            `json:"elapsed_time"`                 // Seconds since processing started
	ErrorMessage     string         `json:"error_message,omitempty"`      // Only when Status is error
}

// Equal reports whether two snapshots carry the same content. Trace ids are ignored.
func (s ProgressSnapshot) Equal(o ProgressSnapshot) bool {
	return s.Status == o.Status &&
		s.Mode == o.Mode &&
		slices.Equal(s.Steps, o.Steps) &&
		s.CurrentStep == o.CurrentStep &&
		s.TotalSteps == o.TotalSteps &&
		s.CurrentFile == o.CurrentFile &&
		s.CurrentFileIndex == o.CurrentFileIndex &&
		s.TotalFiles == o.TotalFiles &&
		s.Progress == o.Progress &&
		s.ElapsedTime == o.ElapsedTime &&
		s.ErrorMessage == o.ErrorMessage
}

// ConversionResult is the final outcome for one input file.
type ConversionResult struct {
	Filename    string       `json:"filename"`
	FormCode    string       `json:"form_code,omitempty"`
	PageCount   *int         `json:"page_count,omitempty"`   // nil when unknown
	NumSections *int         `json:"num_sections,omitempty"` // nil when unknown
	TotalTokens *int64       `json:"total_tokens,omitempty"`
	TotalCost   *float64     `json:"total_cost,omitempty"`
	Status      ResultStatus `json:"status"`
	PackageName string       `json:"package_name,omitempty"` // Only when Status is completed
	Error       string       `json:"error,omitempty"`        // Only when Status is error
}

// GlobalStats aggregates all results of one session.
type GlobalStats struct {
	TotalPagesAllForms    int     `json:"total_pages_all_forms"`
	TotalSectionsAllForms int     `json:"total_sections_all_forms"`
	TotalTokensAllForms   int64   `json:"total_tokens_all_forms"`
	TotalCostAllForms     float64 `json:"total_cost_all_forms"`
}

// ResultSet is returned once per session, after completion.
type ResultSet struct {
	TraceID     string             `json:"-"`
	Results     []ConversionResult `json:"results"`
	GlobalStats GlobalStats        `json:"global_stats"`
}

// apiError is the JSON body the service sends on failure.
type apiError struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
