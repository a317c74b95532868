// Package trainer composes the invocation surface of the external
// bi-encoder training and linking programs: the argv they accept and the
// artifact layout they write under a run's output directory.
package trainer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// Artifact file names written by the external programs.
const (
	EvalResultsFile   = "eval_results.txt"
	TrainingStateFile = "training_state.th"
	TrainingParams    = "training_params.txt"
	TrainLogFile      = "train.log"

	PredictionsFile = "biencoder_outs.jsonl"
	LabelsFile      = "biencoder_labels.npy"
	NeighborsFile   = "biencoder_nns.npy"
	DistancesFile   = "biencoder_dists.npy"
	SamplesFile     = "samples.json"
	RuntimeFile     = "runtime.txt"
)

var epochDirRe = regexp.MustCompile(`^epoch_(\d+)$`)

// EpochDir returns the checkpoint directory for one epoch under the run
// output path.
func EpochDir(outputPath string, epoch int) string {
	return filepath.Join(outputPath, fmt.Sprintf("epoch_%d", epoch))
}

// ParseEpochDir extracts the epoch index from a checkpoint directory name.
// The second return is false when the name is not an epoch directory.
func ParseEpochDir(name string) (int, bool) {
	m := epochDirRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	epoch, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return epoch, true
}

// EvalResultsPath returns the eval results file for one epoch.
func EvalResultsPath(outputPath string, epoch int) string {
	return filepath.Join(EpochDir(outputPath, epoch), EvalResultsFile)
}

// TrainingStatePath returns the optimizer/scheduler state file for one epoch.
func TrainingStatePath(outputPath string, epoch int) string {
	return filepath.Join(EpochDir(outputPath, epoch), TrainingStateFile)
}

// PredictionsPath returns the predictions dump inside a preds directory.
func PredictionsPath(predsDir string) string {
	return filepath.Join(predsDir, PredictionsFile)
}

// RuntimePath returns the completion marker inside a preds directory. The
// linker writes it last, so its presence means the dump is reusable.
func RuntimePath(predsDir string) string {
	return filepath.Join(predsDir, RuntimeFile)
}
