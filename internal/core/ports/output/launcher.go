package ports

import "context"

// JobPhase mirrors the cluster-side view of a launched batch job.
type JobPhase string

const (
	JobPhasePending   JobPhase = "PENDING"
	JobPhaseRunning   JobPhase = "RUNNING"
	JobPhaseSucceeded JobPhase = "SUCCEEDED"
	JobPhaseFailed    JobPhase = "FAILED"
	JobPhaseUnknown   JobPhase = "UNKNOWN"
)

// BatchJobSpec describes one external trainer/linker invocation. Args are
// the fully composed argv (see internal/trainer); the launcher only decides
// where and how the program runs.
type BatchJobSpec struct {
	Name       string
	Namespace  string
	Args       []string
	WorkingDir string
	OutputPath string
	GPUs       int
	CPUMillis  int
	MemoryMB   int
	NodeLabels map[string]string
	Env        map[string]string
}

// JobStatus is the launcher-side status of a launched job.
type JobStatus struct {
	Phase   JobPhase
	Message string
}

// JobLauncher submits external training/inference programs to whatever
// substrate is configured (cluster batch jobs or a local process).
type JobLauncher interface {
	// IsAvailable reports whether the launcher was configured and can
	// accept submissions.
	IsAvailable() bool
	// Launch submits the job and returns its external ID.
	Launch(ctx context.Context, spec BatchJobSpec) (string, error)
	// Status returns the current phase of a previously launched job.
	Status(ctx context.Context, namespace, externalID string) (*JobStatus, error)
	// Cancel terminates a launched job. Cancelling an already finished
	// job is not an error.
	Cancel(ctx context.Context, namespace, externalID string) error
}
