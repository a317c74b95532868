package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"entity-linking-service/internal/adapters/primary/http/dto"
	"entity-linking-service/internal/history"
)

// trainRecipe is the YAML file describing a training run submission.
type trainRecipe struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	DataPath    string                 `yaml:"data_path"`
	OutputPath  string                 `yaml:"output_path"`
	Catalog     string                 `yaml:"catalog"`
	ResumeFrom  string                 `yaml:"resume_from"`
	Params      map[string]interface{} `yaml:"params"`
	Labels      map[string]string      `yaml:"labels"`
	Launch      *launchSpec            `yaml:"launch"`
}

type launchSpec struct {
	Namespace  string            `yaml:"namespace"`
	GPUs       int               `yaml:"gpus"`
	CPUMillis  int               `yaml:"cpu_millis"`
	MemoryMB   int               `yaml:"memory_mb"`
	NodeLabels map[string]string `yaml:"node_labels"`
}

func (s *launchSpec) toRequest() dto.LaunchJobRequest {
	if s == nil {
		return dto.LaunchJobRequest{}
	}
	return dto.LaunchJobRequest{
		Namespace:  s.Namespace,
		GPUs:       s.GPUs,
		CPUMillis:  s.CPUMillis,
		MemoryMB:   s.MemoryMB,
		NodeLabels: s.NodeLabels,
	}
}

// NewTrainCmd creates the train command.
func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Submit a bi-encoder training run",
		Long: `Train submits a bi-encoder training run described by a YAML recipe.

Recipe example:
  name: zeshel-biencoder
  data_path: /data/zeshel
  output_path: models/zeshel
  catalog: wikipedia-5.9M
  params:
    learning_rate: 3e-5
    num_train_epochs: 5
    train_batch_size: 128
  launch:
    gpus: 4`,
		RunE: runTrainCmd,
	}

	cmd.Flags().StringP("file", "f", "", "Path to the training recipe YAML file")
	cmd.Flags().BoolP("launch", "l", false, "Launch the run immediately after creating it")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	launch, _ := cmd.Flags().GetBool("launch")

	recipe, err := loadTrainRecipe(path)
	if err != nil {
		return err
	}

	client, err := newClientFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	req := dto.CreateTrainingRunRequest{
		Name:        recipe.Name,
		Description: recipe.Description,
		DataPath:    recipe.DataPath,
		OutputPath:  recipe.OutputPath,
		ResumeFrom:  recipe.ResumeFrom,
		Labels:      recipe.Labels,
	}

	if recipe.Params != nil {
		params, err := recipeParams(recipe.Params)
		if err != nil {
			return fmt.Errorf("recipe params: %w", err)
		}
		req.Params = params
	}

	if recipe.Catalog != "" {
		catalogID, err := resolveCatalog(ctx, client, recipe.Catalog)
		if err != nil {
			return err
		}
		req.CatalogID = &catalogID
	}

	run, err := client.createTrainingRun(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created training run %s (%s)\n", run.Name, run.ID)

	if launch {
		run, err = client.launchTrainingRun(ctx, run.ID.String(), recipe.Launch.toRequest())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "launched: status=%s external_id=%s\n", run.Status, run.ExternalID)
	}

	recordSubmission(ctx, history.Submission{
		Kind:      history.KindTrain,
		RemoteID:  run.ID.String(),
		ProjectID: client.projectID,
		Name:      run.Name,
		Status:    run.Status,
		Detail:    map[string]string{"data_path": run.DataPath, "output_path": run.OutputPath},
	})

	return nil
}

func loadTrainRecipe(path string) (*trainRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}

	var recipe trainRecipe
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}

	if recipe.Name == "" {
		return nil, fmt.Errorf("recipe is missing name")
	}
	if recipe.DataPath == "" || recipe.OutputPath == "" {
		return nil, fmt.Errorf("recipe is missing data_path or output_path")
	}
	return &recipe, nil
}

// recipeParams converts the YAML params mapping into the API's override
// struct. Going through JSON keeps the recipe keys identical to the API
// field names.
func recipeParams(m map[string]interface{}) (*dto.HyperparamsDTO, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	var params dto.HyperparamsDTO
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// resolveCatalog accepts either a catalog UUID or a catalog name.
func resolveCatalog(ctx context.Context, client *apiClient, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}

	cat, err := client.getCatalogByName(ctx, ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve catalog %q: %w", ref, err)
	}
	return cat.ID, nil
}

// recordSubmission appends to the local history, best effort.
func recordSubmission(ctx context.Context, sub history.Submission) {
	db, err := history.Open(historyDir(), history.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer db.Close()

	if _, err := db.Record(ctx, &sub); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record submission: %v\n", err)
	}
}
