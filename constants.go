package client

import "time"

const (
	ServiceName         = "pdf2af"
	DefaultBaseURL      = "http://localhost:5001/api"
	DefaultTimeout      = 5 * time.Minute
	DefaultPollInterval = 1 * time.Second
	APIVersion          = "v1"
	TraceIDHeader       = "trace-id"
)

// API endpoints
const (
	EndpointConfig   = "/config"
	EndpointUpload   = "/upload"
	EndpointProcess  = "/process/{session_id}"
	EndpointProgress = "/progress/{session_id}"
	EndpointResults  = "/results/{session_id}"
	EndpointDownload = "/download/{filename}"
)

// Multipart form fields used by the upload call.
const (
	FormFieldFiles = "files"
	FormFieldMode  = "mode"
)

const (
	progressUnavailableMessage = "failed to get progress updates"
	processingFailedMessage    = "an error occurred during processing"
	uploadFailedMessage        = "error uploading files, please try again"
	saveConfigFailedMessage    = "error saving configuration, please try again"
	resultsFailedMessage       = "failed to get conversion results"
	filenameRuleHint           = "filenames must end with .pdf and have letters as their first 4 characters (e.g. ABIC_en.pdf)"
)
