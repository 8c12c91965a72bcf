// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wget downloads catalog editions by running the wget command-line
// utility. Retries and per-attempt timeouts are left to wget; success is its
// exit status alone.
package wget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

const (
	defaultBinary  = "wget"
	defaultTries   = 3
	defaultTimeout = 30 * time.Second
)

var (
	// ErrToolNotFound is returned when the wget binary is not on PATH.
	ErrToolNotFound = errors.New("download tool not found")

	// ErrDownloadFailed is returned when wget exits with a non-zero status.
	ErrDownloadFailed = errors.New("download failed")
)

// Downloader fetches url into destPath.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	// Run executes name with args and returns the captured stderr.
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// Wget runs the wget binary once per download.
type Wget struct {
	bin     string
	tries   int
	timeout time.Duration
	exec    executor
}

// New returns a Wget configured from cfg, filling unset fields with
// defaults (wget, 3 tries, 30s).
func New(cfg types.WgetConfig) *Wget {
	return newWget(cfg, &osExecutor{})
}

func newWget(cfg types.WgetConfig, exec executor) *Wget {
	w := &Wget{bin: cfg.Binary, tries: cfg.Tries, timeout: cfg.Timeout, exec: exec}
	if w.bin == "" {
		w.bin = defaultBinary
	}
	if w.tries <= 0 {
		w.tries = defaultTries
	}
	if w.timeout <= 0 {
		w.timeout = defaultTimeout
	}
	return w
}

// Available reports whether the wget binary can be found.
func (w *Wget) Available() error {
	if _, err := w.exec.LookPath(w.bin); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolNotFound, w.bin, err)
	}
	return nil
}

// Args returns the wget argument list for one download.
func (w *Wget) Args(url, destPath string) []string {
	secs := int(w.timeout.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return []string{
		"--progress=bar:force",
		"--tries=" + strconv.Itoa(w.tries),
		"--timeout=" + strconv.Itoa(secs),
		"-O", destPath,
		url,
	}
}

// Download runs wget, writing url to destPath. A non-zero exit yields an
// error wrapping ErrDownloadFailed that carries wget's stderr.
func (w *Wget) Download(ctx context.Context, url, destPath string) error {
	if err := w.Available(); err != nil {
		return err
	}

	stderr, err := w.exec.Run(ctx, w.bin, w.Args(url, destPath)...)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s exited with code %d: %s",
			ErrDownloadFailed, w.bin, exitErr.ExitCode(), lastLine(stderr))
	}
	return fmt.Errorf("%w: running %s: %v", ErrDownloadFailed, w.bin, err)
}

// lastLine returns the last non-empty line of wget's progress output, which
// holds the error summary.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
