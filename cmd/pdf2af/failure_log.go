package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	client "github.com/hsn0918/pdf2af-client"
)

var failureLogMu sync.Mutex

// failure identifies what a fail-log record is about.
type failure struct {
	operation string
	traceID   string
	session   string
	target    string
}

// logFailure appends one tab-separated record for a failed operation.
// The session falls back to the one carried by err, then to "-".
func logFailure(path string, f failure, err error) error {
	if path == "" || err == nil {
		return nil
	}

	if f.traceID == "" {
		f.traceID = "unknown"
	}
	if f.session == "" {
		f.session = sessionOf(err)
	}
	if f.operation == "" {
		f.operation = "-"
	}

	line := fmt.Sprintf("%s\tlevel=ERROR\toperation=%s\tsession=%s\ttrace-id=%s\ttarget=%s\tmessage=%s\n",
		time.Now().Format(time.RFC3339), f.operation, f.session, f.traceID, f.target, client.UserMessage(err))

	failureLogMu.Lock()
	defer failureLogMu.Unlock()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return mkErr
		}
	}

	file, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return openErr
	}
	defer file.Close()

	_, writeErr := file.WriteString(line)
	return writeErr
}

func sessionOf(err error) string {
	var (
		startErr  *client.ProcessStartError
		svcErr    *client.ServiceError
		progErr   *client.ProgressUnavailableError
		resultErr *client.ResultsError
	)
	switch {
	case errors.As(err, &startErr):
		return startErr.SessionID
	case errors.As(err, &svcErr):
		return svcErr.SessionID
	case errors.As(err, &progErr):
		return progErr.SessionID
	case errors.As(err, &resultErr):
		return resultErr.SessionID
	}
	return "-"
}
