package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"print-exporter/core/metrics"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrTimeout is returned when a conversion exceeds its time budget.
var ErrTimeout = errors.New("conversion timed out")

// Error reports a converter run that exited without producing its artifact.
type Error struct {
	Input  string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("conversion of %s failed", e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Converter turns a native geometry file into a loadable scene file.
type Converter interface {
	// Convert writes the scene for input into outDir and returns its path.
	Convert(ctx context.Context, input, outDir string) (string, error)
}

// Runner executes one process and returns its captured stderr.
type Runner func(ctx context.Context, name string, args ...string) (stderr []byte, err error)

// ExecRunner runs the process with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second
	err := cmd.Run()
	return stderr.Bytes(), err
}

// Process drives an external converter binary.
type Process struct {
	cfg    Config
	flags  []string
	fs     afero.Fs
	run    Runner
	logger *zap.Logger
	sf     singleflight.Group
}

// NewProcess creates a converter from configuration. run may be nil to use ExecRunner.
func NewProcess(cfg Config, fs afero.Fs, run Runner, logger *zap.Logger) (*Process, error) {
	flags, err := shellwords.Parse(cfg.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid converter flags %q: %w", cfg.Flags, err)
	}
	if run == nil {
		run = ExecRunner
	}
	return &Process{cfg: cfg, flags: flags, fs: fs, run: run, logger: logger}, nil
}

// ArtifactPath returns where the converter writes the scene for input.
func (p *Process) ArtifactPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outDir, base+p.cfg.ArtifactExt)
}

// Convert implements Converter.
// An existing artifact is reused. Concurrent calls for the same input share
// one process run. The run is bounded by the converter timeout only, so a
// caller that gives up does not fail the others waiting on it.
func (p *Process) Convert(ctx context.Context, input, outDir string) (string, error) {
	artifact := p.ArtifactPath(input, outDir)
	if p.exists(artifact) {
		p.logger.Debug("Reusing converted artifact", zap.String("artifact", artifact))
		return artifact, nil
	}

	runCtx := context.WithoutCancel(ctx)
	ch := p.sf.DoChan(input+"\x00"+outDir, func() (interface{}, error) {
		if p.exists(artifact) {
			return artifact, nil
		}
		return artifact, p.runOnce(runCtx, input, outDir, artifact)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			p.logger.Debug("Joined running conversion", zap.String("input", input))
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (p *Process) runOnce(ctx context.Context, input, outDir, artifact string) error {
	if err := p.fs.MkdirAll(outDir, 0o755); err != nil {
		return &Error{Input: input, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout())
	defer cancel()

	args := append([]string{}, p.flags...)
	if p.cfg.OutputFlag != "" {
		args = append(args, p.cfg.OutputFlag, outDir)
	}
	args = append(args, input)

	p.logger.Info("Running converter",
		zap.String("binary", p.cfg.Path),
		zap.Strings("args", args),
	)

	timer := metrics.NewTimer()
	stderr, err := p.run(ctx, p.cfg.Path, args...)
	elapsed := timer.Duration()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		metrics.RecordConversion("timeout", elapsed)
		// A timed-out run may leave a partial artifact behind.
		_ = p.fs.Remove(artifact)
		return fmt.Errorf("%s after %s: %w", input, p.cfg.Timeout(), ErrTimeout)
	}
	if err != nil {
		metrics.RecordConversion("failed", elapsed)
		return &Error{Input: input, Stderr: string(stderr), Err: err}
	}
	if !p.exists(artifact) {
		metrics.RecordConversion("failed", elapsed)
		return &Error{Input: input, Stderr: string(stderr), Err: fmt.Errorf("no artifact at %s", artifact)}
	}

	metrics.RecordConversion("ok", elapsed)
	p.logger.Info("Converter finished",
		zap.String("artifact", artifact),
		zap.Duration("duration", elapsed),
	)
	return nil
}

func (p *Process) exists(path string) bool {
	info, err := p.fs.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Available reports whether the converter binary can be found.
func (p *Process) Available() error {
	if _, err := exec.LookPath(p.cfg.Path); err != nil {
		return fmt.Errorf("converter %q not found: %w", p.cfg.Path, err)
	}
	return nil
}
