// Package artifactfs reads and manages the directory layout the external
// trainer writes: per-epoch checkpoint directories with eval results, and
// prediction dumps with a runtime completion marker.
package artifactfs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"entity-linking-service/internal/catalog"
	"entity-linking-service/internal/core/domain"
	"entity-linking-service/internal/core/ports/output"
	"entity-linking-service/internal/dataset"
	"entity-linking-service/internal/eval"
	"entity-linking-service/internal/trainer"
)

type store struct {
	// root is prepended to relative paths, empty means paths are absolute.
	root string
}

// NewStore creates a filesystem-backed artifact store.
func NewStore(root string) ports.ArtifactStore {
	return &store{root: root}
}

func (s *store) resolve(path string) string {
	if s.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func (s *store) ListEpochs(ctx context.Context, outputPath string) ([]ports.EpochArtifact, error) {
	dir := s.resolve(outputPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	var epochs []ports.EpochArtifact
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		epoch, ok := trainer.ParseEpochDir(entry.Name())
		if !ok {
			continue
		}

		art := ports.EpochArtifact{
			Epoch: epoch,
			Path:  filepath.Join(dir, entry.Name()),
		}

		if acc, err := readEvalAccuracy(trainer.EvalResultsPath(dir, epoch)); err == nil {
			art.EvalAccuracy = &acc
		}
		if _, err := os.Stat(trainer.TrainingStatePath(dir, epoch)); err == nil {
			art.Resumable = true
		}

		epochs = append(epochs, art)
	}

	sort.Slice(epochs, func(i, j int) bool { return epochs[i].Epoch < epochs[j].Epoch })
	return epochs, nil
}

// Promote copies the epoch's files into the run root. Subdirectories are
// skipped: an epoch directory holds flat model/config files.
func (s *store) Promote(ctx context.Context, outputPath string, epoch int) error {
	dir := s.resolve(outputPath)
	epochDir := trainer.EpochDir(dir, epoch)

	entries, err := os.ReadDir(epochDir)
	if err != nil {
		return fmt.Errorf("read epoch dir: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(epochDir, entry.Name())
		dst := filepath.Join(dir, entry.Name())
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *store) HasPredictions(ctx context.Context, predsDir string) (bool, error) {
	dir := s.resolve(predsDir)
	if _, err := os.Stat(trainer.RuntimePath(dir)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat runtime marker: %w", err)
	}
	if _, err := os.Stat(trainer.PredictionsPath(dir)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat predictions: %w", err)
	}
	return true, nil
}

func (s *store) ReadRuntime(ctx context.Context, predsDir string) (float64, error) {
	data, err := os.ReadFile(trainer.RuntimePath(s.resolve(predsDir)))
	if err != nil {
		return 0, fmt.Errorf("read runtime marker: %w", err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse runtime marker: %w", err)
	}
	return seconds, nil
}

func (s *store) ReadPredictions(ctx context.Context, predsDir string) ([]eval.PredictionRecord, error) {
	return eval.ReadPredictions(trainer.PredictionsPath(s.resolve(predsDir)))
}

// LoadMentions maps the dataset's gold labels through the catalogue. When
// an evaluation entity subset is given, labels are re-keyed against it
// instead of the full catalogue index.
func (s *store) LoadMentions(ctx context.Context, catalogPath, entitiesPath, mentionsPath string, mode domain.MentionMode) ([]dataset.Sample, dataset.Stats, error) {
	loaded, err := catalog.Load(ctx, s.resolve(catalogPath))
	if err != nil {
		return nil, dataset.Stats{}, err
	}

	kbToID := loaded.KBToID
	if entitiesPath != "" {
		entries, err := catalog.ReadEntries(ctx, s.resolve(entitiesPath))
		if err != nil {
			return nil, dataset.Stats{}, err
		}
		kbToID, _, _, _ = loaded.MapKBIDs(entries)
	}

	return dataset.Load(ctx, s.resolve(mentionsPath), kbToID, mode)
}

// readEvalAccuracy parses the epoch's eval results file. The trainer writes
// "key = value" lines; normalized accuracy is the one we keep.
func readEvalAccuracy(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) != "normalized_accuracy" {
			continue
		}
		acc, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("parse accuracy: %w", err)
		}
		return acc, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no accuracy in %s", path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
