package localexec

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-linking-service/internal/config"
	ports "entity-linking-service/internal/core/ports/output"
)

func newTestLauncher(t *testing.T, binary string) *launcher {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewLauncher(&config.TrainerConfig{Binary: binary}, logger).(*launcher)
}

func (l *launcher) tableSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.procs)
}

func TestStatus_ReapsExitedProcess(t *testing.T) {
	l := newTestLauncher(t, "true")

	id, err := l.Launch(context.Background(), ports.BatchJobSpec{Name: "job-1"})
	require.NoError(t, err)

	l.mu.Lock()
	p := l.procs[id]
	l.mu.Unlock()
	<-p.done

	status, err := l.Status(context.Background(), "", id)
	require.NoError(t, err)
	assert.Equal(t, ports.JobPhaseSucceeded, status.Phase)
	assert.Equal(t, 0, l.tableSize())

	// A second poll after reaping finds nothing.
	status, err = l.Status(context.Background(), "", id)
	require.NoError(t, err)
	assert.Equal(t, ports.JobPhaseUnknown, status.Phase)
}

func TestStatus_FailedProcess(t *testing.T) {
	l := newTestLauncher(t, "false")

	id, err := l.Launch(context.Background(), ports.BatchJobSpec{Name: "job-1"})
	require.NoError(t, err)

	l.mu.Lock()
	p := l.procs[id]
	l.mu.Unlock()
	<-p.done

	status, err := l.Status(context.Background(), "", id)
	require.NoError(t, err)
	assert.Equal(t, ports.JobPhaseFailed, status.Phase)
	assert.NotEmpty(t, status.Message)
	assert.Equal(t, 0, l.tableSize())
}

func TestCancel_RemovesEntry(t *testing.T) {
	l := newTestLauncher(t, "sleep")

	id, err := l.Launch(context.Background(), ports.BatchJobSpec{Name: "job-1", Args: []string{"60"}})
	require.NoError(t, err)
	require.Equal(t, 1, l.tableSize())

	require.NoError(t, l.Cancel(context.Background(), "", id))
	assert.Equal(t, 0, l.tableSize())
}
