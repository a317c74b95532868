package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"entity-linking-service/internal/adapters/primary/http/dto"
	"entity-linking-service/internal/history"
)

// NewLinkCmd creates the link command.
func NewLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Submit a linking job over a mentions file",
		Long: `Link submits a linking job that resolves the mentions in a JSONL file
against a registered entity catalog.

Examples:
  # Link gold-boundary mentions with the promoted model of a run
  elinkctl link --catalog wikipedia-5.9M --run 5f1c0b3a-... \
      --mentions /data/test_mentions.jsonl --launch

  # End-to-end linking with a mention classifier threshold
  elinkctl link --catalog wikipedia-5.9M --mentions /data/raw.jsonl \
      --mode joint --threshold -4.5`,
		RunE: runLinkCmd,
	}

	cmd.Flags().StringP("catalog", "c", "", "Catalog name or ID to link against")
	cmd.Flags().StringP("run", "r", "", "Training run ID whose model to use")
	cmd.Flags().StringP("mentions", "m", "", "Path to the mentions JSONL file")
	cmd.Flags().String("entities", "", "Optional evaluation entity subset (JSONL) to restrict gold labels")
	cmd.Flags().String("preds-dir", "", "Directory for prediction artifacts")
	cmd.Flags().String("mode", "gold", "Mention mode: gold, single, joint, ngram, classifier")
	cmd.Flags().IntP("top-k", "k", 0, "Candidates retrieved per mention (default 100)")
	cmd.Flags().Float64P("threshold", "t", 0, "Mention classifier score threshold")
	cmd.Flags().String("thresholding", "", "Final thresholding: joint_0, top_joint_by_mention, top_entity_by_mention")
	cmd.Flags().Int("eval-batch-size", 0, "Encoder batch size during linking")
	cmd.Flags().BoolP("launch", "l", false, "Launch the job immediately after creating it")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("mentions")

	return cmd
}

func runLinkCmd(cmd *cobra.Command, _ []string) error {
	client, err := newClientFromFlags(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	catalogRef, _ := cmd.Flags().GetString("catalog")
	runID, _ := cmd.Flags().GetString("run")
	mentions, _ := cmd.Flags().GetString("mentions")
	entities, _ := cmd.Flags().GetString("entities")
	predsDir, _ := cmd.Flags().GetString("preds-dir")
	mode, _ := cmd.Flags().GetString("mode")
	topK, _ := cmd.Flags().GetInt("top-k")
	thresholding, _ := cmd.Flags().GetString("thresholding")
	evalBatchSize, _ := cmd.Flags().GetInt("eval-batch-size")
	launch, _ := cmd.Flags().GetBool("launch")

	catalogID, err := resolveCatalog(ctx, client, catalogRef)
	if err != nil {
		return err
	}

	req := dto.CreateLinkingJobRequest{
		CatalogID:        catalogID,
		MentionsPath:     mentions,
		EvalEntitiesPath: entities,
		PredsDir:         predsDir,
		Mode:             mode,
		TopK:             topK,
		Thresholding:     thresholding,
		EvalBatchSize:    evalBatchSize,
	}

	if runID != "" {
		id, err := uuid.Parse(runID)
		if err != nil {
			return fmt.Errorf("invalid training run id %q", runID)
		}
		req.TrainingRunID = &id
	}

	if cmd.Flags().Changed("threshold") {
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		req.Threshold = &threshold
	}

	job, err := client.createLinkingJob(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created linking job %s (mode=%s top_k=%d)\n", job.ID, job.Mode, job.TopK)

	if launch {
		job, err = client.launchLinkingJob(ctx, job.ID.String(), dto.LaunchJobRequest{})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "launched: status=%s external_id=%s\n", job.Status, job.ExternalID)
	}

	recordSubmission(ctx, history.Submission{
		Kind:      history.KindLink,
		RemoteID:  job.ID.String(),
		ProjectID: client.projectID,
		Name:      catalogRef,
		Status:    job.Status,
		Detail:    map[string]string{"mentions_path": job.MentionsPath, "mode": job.Mode},
	})

	return nil
}
