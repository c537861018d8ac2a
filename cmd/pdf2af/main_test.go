package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	client "github.com/hsn0918/pdf2af-client"
)

func intPtr(v int) *int { return &v }

// newFakeService serves a configured service whose sessions complete on the second poll.
func newFakeService(t *testing.T, uploads *atomic.Int32) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	var polls atomic.Int32
	r := chi.NewRouter()
	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, client.ConfigStatus{ConfigExists: true, SecretsExists: true})
	})
	r.Post("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		uploads.Add(1)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		var files []client.FileInfo
		for _, fh := range r.MultipartForm.File[client.FormFieldFiles] {
			files = append(files, client.FileInfo{Name: fh.Filename, Size: fh.Size})
		}
		writeJSON(w, http.StatusOK, client.UploadResponse{SessionID: "s1", Files: files})
	})
	r.Post("/api/process/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/api/progress/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		snapshot := client.ProgressSnapshot{
			Status:      client.ProgressProcessing,
			Steps:       []string{"Extracting fields", "Packaging"},
			TotalSteps:  2,
			ElapsedTime: 3,
		}
		if polls.Add(1) > 1 {
			snapshot.Status = client.ProgressCompleted
			snapshot.CurrentStep = 2
		}
		writeJSON(w, http.StatusOK, snapshot)
	})
	r.Get("/api/results/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, client.ResultSet{
			Results: []client.ConversionResult{
				{Filename: "ABIC_en.pdf", FormCode: "ABIC", PageCount: intPtr(2), Status: client.ResultCompleted, PackageName: "ABIC_af"},
				{Filename: "AAAX.pdf", Status: client.ResultError, Error: "extraction failed"},
			},
			GlobalStats: client.GlobalStats{TotalPagesAllForms: 2, TotalTokensAllForms: 1500, TotalCostAllForms: 0.05},
		})
	})
	r.Get("/api/download/{filename}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "filename") != "ABIC_af.zip" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
			return
		}
		_, _ = w.Write([]byte("PK-package"))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePDFs(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.7"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestCollectInputFiles(t *testing.T) {
	dir := t.TempDir()
	writePDFs(t, dir, "ABIC_en.pdf", "AAAX.PDF", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	other := t.TempDir()
	explicit := writePDFs(t, other, "form.txt")

	files, err := collectInputFiles([]string{dir, explicit[0]})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "ABIC_en.pdf"),
		filepath.Join(dir, "AAAX.PDF"),
		explicit[0],
	}, files)

	_, err = collectInputFiles([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}

func TestCollectInputFiles_Patterns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	writePDFs(t, dir, "ABIC_en.pdf")
	writePDFs(t, filepath.Join(dir, "a", "b"), "AAAX.pdf", "skip.txt")

	files, err := collectInputFiles([]string{filepath.Join(dir, "**", "*.pdf")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "ABIC_en.pdf"),
		filepath.Join(dir, "a", "b", "AAAX.pdf"),
	}, files)

	_, err = collectInputFiles([]string{filepath.Join(dir, "*.docx")})
	assert.Error(t, err)
}

func TestLogFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fail.log")

	require.NoError(t, logFailure(path, failure{operation: "get progress", target: "ABIC_en.pdf"}, &client.ServiceError{SessionID: "s1", Message: "X"}))
	require.NoError(t, logFailure(path, failure{operation: "download", traceID: "t-1", session: "s2", target: "a.zip"}, client.ErrEmptyResponse))
	require.NoError(t, logFailure(path, failure{target: "config"}, client.ErrEmptyResponse))
	require.NoError(t, logFailure("", failure{traceID: "t-1", target: "ignored"}, client.ErrEmptyResponse))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "operation=get progress\tsession=s1\ttrace-id=unknown\ttarget=ABIC_en.pdf\tmessage=X")
	assert.Contains(t, string(lines[1]), "operation=download\tsession=s2\ttrace-id=t-1\ttarget=a.zip")
	assert.Contains(t, string(lines[2]), "operation=-\tsession=-\ttrace-id=unknown\ttarget=config")
}

// fakeDownloader serves every requested package from memory.
type fakeDownloader struct {
	mu        sync.Mutex
	requested []string
}

func (f *fakeDownloader) DownloadPackage(ctx context.Context, filename string) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.DownloadPackageTo(ctx, filename, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *fakeDownloader) DownloadPackageTo(ctx context.Context, filename string, dst io.Writer) error {
	f.mu.Lock()
	f.requested = append(f.requested, filename)
	f.mu.Unlock()
	_, err := io.WriteString(dst, "PK-"+filename)
	return err
}

func TestSafeFileName(t *testing.T) {
	assert.True(t, safeFileName("ABIC_af.zip"))
	assert.True(t, safeFileName("...zip"))
	assert.False(t, safeFileName("../evil.zip"))
	assert.False(t, safeFileName("nested/ABIC_af.zip"))
	assert.False(t, safeFileName("/tmp/ABIC_af.zip"))
	assert.False(t, safeFileName(".."))
	assert.False(t, safeFileName("."))
}

func TestDownloadAll_RejectsEscapingPackageNames(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(root, "out")
	failLog := filepath.Join(root, "fail.log")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	dl := &fakeDownloader{}
	rs := client.ResultSet{
		TraceID: "t-9",
		Results: []client.ConversionResult{
			{Filename: "ABIC_en.pdf", Status: client.ResultCompleted, PackageName: "ABIC_af"},
			{Filename: "AAAX.pdf", Status: client.ResultCompleted, PackageName: "../../escaped"},
		},
	}

	err := downloadAll(context.Background(), cmd, dl, rs,
		downloadOptions{enabled: true, dir: outDir, concurrency: 2, session: "s1"},
		&cliOptions{failLogPath: failLog},
	)
	require.ErrorIs(t, err, errUnsafePackageName)

	assert.Equal(t, []string{"ABIC_af.zip"}, dl.requested)
	data, err := os.ReadFile(filepath.Join(outDir, "ABIC_af.zip"))
	require.NoError(t, err)
	assert.Equal(t, "PK-ABIC_af.zip", string(data))
	assert.NoFileExists(t, filepath.Join(root, "escaped.zip"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escaped.zip"))

	logged, err := os.ReadFile(failLog)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "operation=download\tsession=s1\ttrace-id=t-9\ttarget=../../escaped.zip")
}

func TestRenderResults(t *testing.T) {
	var out bytes.Buffer
	err := renderResults(&out, client.ResultSet{
		Results: []client.ConversionResult{
			{Filename: "ABIC_en.pdf", FormCode: "ABIC", PageCount: intPtr(2), Status: client.ResultCompleted, PackageName: "ABIC_af"},
			{Filename: "AAAX.pdf", Status: client.ResultError, Error: "extraction failed"},
		},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "ABIC_af.zip")
	assert.Contains(t, text, "AAAX.pdf")
	assert.Contains(t, text, "extraction failed")
	assert.Contains(t, text, "Avg Tokens/Page:")
	assert.Contains(t, text, "0.00")
}

func TestRenderSnapshot(t *testing.T) {
	var out bytes.Buffer
	renderSnapshot(&out, client.ProgressSnapshot{
		Status:           client.ProgressProcessing,
		Mode:             client.ModeBatch,
		Steps:            []string{"Extracting fields", "Packaging"},
		CurrentStep:      1,
		TotalSteps:       2,
		CurrentFileIndex: 1,
		TotalFiles:       3,
		ElapsedTime:      75,
	})

	text := out.String()
	assert.Contains(t, text, "01:15")
	assert.Contains(t, text, "File 2 of 3")
	assert.Contains(t, text, "Preparing...")
	assert.Contains(t, text, "2. Packaging")
}

func TestConvertCommand(t *testing.T) {
	var uploads atomic.Int32
	srv := newFakeService(t, &uploads)
	dir := t.TempDir()
	files := writePDFs(t, dir, "ABIC_en.pdf", "AAAX.pdf")
	outDir := filepath.Join(dir, "out")

	out, err := runCLI(t, "convert",
		"--config", filepath.Join(dir, "config.yaml"),
		"--base-url", srv.URL+"/api",
		"--interval", "5ms",
		"--fail-log", filepath.Join(dir, "fail.log"),
		"--mode", "batch",
		"--download", "--download-dir", outDir,
		files[0], files[1],
	)
	require.NoError(t, err, out)

	assert.Equal(t, int32(1), uploads.Load())
	assert.Contains(t, out, "Session s1 (batch)")
	assert.Contains(t, out, "extraction failed")
	assert.Contains(t, out, "Downloaded package")

	data, err := os.ReadFile(filepath.Join(outDir, "ABIC_af.zip"))
	require.NoError(t, err)
	assert.Equal(t, "PK-package", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "fail.log"))
}

func TestConvertCommand_RejectsInvalidNames(t *testing.T) {
	var uploads atomic.Int32
	srv := newFakeService(t, &uploads)
	dir := t.TempDir()
	files := writePDFs(t, dir, "ABIC_en.pdf", "xyz.pdf")
	failLog := filepath.Join(dir, "fail.log")

	_, err := runCLI(t, "convert",
		"--config", filepath.Join(dir, "config.yaml"),
		"--base-url", srv.URL+"/api",
		"--fail-log", failLog,
		files[0], files[1],
	)

	var invalid *client.InvalidFilenamesError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"xyz.pdf"}, invalid.Names)
	assert.Zero(t, uploads.Load())
	assert.FileExists(t, failLog)
}

func TestConvertCommand_SingleModeTakesOneFile(t *testing.T) {
	var uploads atomic.Int32
	srv := newFakeService(t, &uploads)
	dir := t.TempDir()
	files := writePDFs(t, dir, "ABIC_en.pdf", "AAAX.pdf")

	_, err := runCLI(t, "convert",
		"--config", filepath.Join(dir, "config.yaml"),
		"--base-url", srv.URL+"/api",
		"--fail-log", "",
		"--mode", "single",
		files[0], files[1],
	)

	assert.ErrorIs(t, err, client.ErrTooManyFiles)
	assert.Zero(t, uploads.Load())
}

func TestConfigSetCommand_ReportsMissingFields(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "config", "set",
		"--config", filepath.Join(dir, "config.yaml"),
		"--base-url", "http://127.0.0.1:1/api",
		"--fail-log", "",
		"--t-number", "T1",
	)

	var invalid *client.ConfigValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Fields, 4)
	assert.Contains(t, out, "API key is required")
}

func TestDownloadCommand(t *testing.T) {
	var uploads atomic.Int32
	srv := newFakeService(t, &uploads)
	dir := t.TempDir()
	target := filepath.Join(dir, "pkg.zip")

	_, err := runCLI(t, "download", "ABIC_af.zip",
		"--config", filepath.Join(dir, "config.yaml"),
		"--base-url", srv.URL+"/api",
		"--fail-log", "",
		"-o", target,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "PK-package", string(data))

	_, err = runCLI(t, "download", "missing.zip",
		"--config", filepath.Join(dir, "config.yaml"),
		"--base-url", srv.URL+"/api",
		"--fail-log", "",
		"-o", filepath.Join(dir, "missing.zip"),
	)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "missing.zip"))
}
