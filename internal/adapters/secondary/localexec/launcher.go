// Package localexec runs the external trainer/linker as a local child
// process. It exists for single-machine setups and development, where a
// cluster launcher is not configured.
package localexec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"entity-linking-service/internal/config"
	ports "entity-linking-service/internal/core/ports/output"
)

type process struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

type launcher struct {
	binary  string
	workDir string
	logger  *logrus.Logger

	mu    sync.Mutex
	procs map[string]*process
}

// NewLauncher creates a local process launcher around the configured
// trainer binary.
func NewLauncher(cfg *config.TrainerConfig, logger *logrus.Logger) ports.JobLauncher {
	return &launcher{
		binary:  cfg.Binary,
		workDir: cfg.WorkDir,
		logger:  logger,
		procs:   make(map[string]*process),
	}
}

func (l *launcher) IsAvailable() bool {
	return l.binary != ""
}

func (l *launcher) Launch(ctx context.Context, spec ports.BatchJobSpec) (string, error) {
	if l.binary == "" {
		return "", fmt.Errorf("no trainer binary configured")
	}

	if spec.OutputPath != "" {
		if err := os.MkdirAll(spec.OutputPath, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}

	cmd := exec.Command(l.binary, spec.Args...)
	if spec.WorkingDir != "" {
		cmd.Dir = spec.WorkingDir
	} else if l.workDir != "" {
		cmd.Dir = l.workDir
	}
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	// Child output goes next to the artifacts it produces.
	if spec.OutputPath != "" {
		logPath := filepath.Join(spec.OutputPath, "train.log")
		logFile, err := os.Create(logPath)
		if err != nil {
			return "", fmt.Errorf("create train log: %w", err)
		}
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start trainer process: %w", err)
	}

	p := &process{cmd: cmd, done: make(chan struct{})}
	l.mu.Lock()
	l.procs[spec.Name] = p
	l.mu.Unlock()

	l.logger.WithFields(logrus.Fields{
		"name": spec.Name,
		"pid":  cmd.Process.Pid,
	}).Info("launched local trainer process")

	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()

	return spec.Name, nil
}

func (l *launcher) Status(ctx context.Context, namespace, externalID string) (*ports.JobStatus, error) {
	l.mu.Lock()
	p, ok := l.procs[externalID]
	l.mu.Unlock()
	if !ok {
		// Process table is in-memory; a restart loses it.
		return &ports.JobStatus{Phase: ports.JobPhaseUnknown}, nil
	}

	select {
	case <-p.done:
		// Exited processes are reaped on first observation, so the table
		// holds only live jobs.
		l.remove(externalID)
		if p.err != nil {
			return &ports.JobStatus{Phase: ports.JobPhaseFailed, Message: p.err.Error()}, nil
		}
		return &ports.JobStatus{Phase: ports.JobPhaseSucceeded}, nil
	default:
		return &ports.JobStatus{Phase: ports.JobPhaseRunning}, nil
	}
}

func (l *launcher) remove(externalID string) {
	l.mu.Lock()
	delete(l.procs, externalID)
	l.mu.Unlock()
}

func (l *launcher) Cancel(ctx context.Context, namespace, externalID string) error {
	l.mu.Lock()
	p, ok := l.procs[externalID]
	l.mu.Unlock()
	if !ok {
		return nil
	}

	select {
	case <-p.done:
		l.remove(externalID)
		return nil
	default:
	}

	if err := p.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill trainer process: %w", err)
	}
	l.remove(externalID)
	return nil
}
