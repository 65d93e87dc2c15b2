package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/jockelind/lagerkoll/internal/metrics"
)

const defaultExecTimeout = 30 * time.Second

// ExecSource implements Source by shelling out to the legacy checker
// programs (one for availability, one for the store directory). Each
// invocation gets its own bounded timeout; stdout carries a JSON array,
// stderr carries the error message on failure.
type ExecSource struct {
	command   string
	storesCmd string
	dir       string
	timeout   time.Duration
}

// ExecOption configures the ExecSource.
type ExecOption func(*ExecSource)

// WithWorkDir sets the working directory for checker invocations.
func WithWorkDir(dir string) ExecOption {
	return func(s *ExecSource) {
		s.dir = dir
	}
}

// WithExecTimeout overrides the per-invocation timeout.
func WithExecTimeout(d time.Duration) ExecOption {
	return func(s *ExecSource) {
		s.timeout = d
	}
}

// NewExecSource creates a subprocess-backed availability client.
func NewExecSource(command, storesCmd string, opts ...ExecOption) *ExecSource {
	s := &ExecSource{
		command:   command,
		storesCmd: storesCmd,
		timeout:   defaultExecTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch invokes the checker for a product and parses its JSON output.
func (s *ExecSource) Fetch(
	ctx context.Context,
	region, productID string,
	storeIDs []string,
) ([]StoreStock, error) {
	storeArg := strings.Join(storeIDs, ",")

	stdout, err := s.run(ctx, s.command, region, productID, storeArg)
	if err != nil {
		return nil, err
	}

	if len(stdout) == 0 {
		return nil, nil
	}

	var records []StoreStock
	if err := json.Unmarshal(stdout, &records); err != nil {
		return nil, fmt.Errorf("parsing checker output: %w", err)
	}
	return records, nil
}

// Stores invokes the store directory checker for a region.
func (s *ExecSource) Stores(ctx context.Context, region string) ([]StoreInfo, error) {
	stdout, err := s.run(ctx, s.storesCmd, region)
	if err != nil {
		return nil, err
	}

	if len(stdout) == 0 {
		return nil, nil
	}

	var stores []StoreInfo
	if err := json.Unmarshal(stdout, &stores); err != nil {
		return nil, fmt.Errorf("parsing store directory output: %w", err)
	}
	return stores, nil
}

func (s *ExecSource) run(ctx context.Context, command string, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	metrics.SourceCallsTotal.Inc()

	cmd := exec.CommandContext(runCtx, command, args...)
	cmd.Dir = s.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		metrics.SourceErrorsTotal.Inc()
		return nil, fmt.Errorf("availability checker timed out after %s", s.timeout)
	}
	if err != nil {
		metrics.SourceErrorsTotal.Inc()
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "availability checker failed"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	return bytes.TrimSpace(stdout.Bytes()), nil
}
