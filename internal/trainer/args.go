package trainer

import (
	"strconv"

	"entity-linking-service/internal/core/domain"
)

// TrainArgs composes the argv for one bi-encoder training invocation from
// the run's hyperparameters. Flag names match the external trainer's CLI.
func TrainArgs(run *domain.TrainingRun) []string {
	p := run.Params
	args := []string{
		"train",
		"--data_path", run.DataPath,
		"--output_path", run.OutputPath,
		"--bert_model", p.BertModel,
		"--learning_rate", formatFloat(p.LearningRate),
		"--num_train_epochs", strconv.Itoa(p.NumTrainEpochs),
		"--train_batch_size", strconv.Itoa(p.TrainBatchSize),
		"--eval_batch_size", strconv.Itoa(p.EvalBatchSize),
		"--gradient_accumulation_steps", strconv.Itoa(p.GradAccumulationSteps),
		"--max_context_length", strconv.Itoa(p.MaxContextLength),
		"--max_cand_length", strconv.Itoa(p.MaxCandidateLength),
		"--warmup_proportion", formatFloat(p.WarmupProportion),
		"--max_grad_norm", formatFloat(p.MaxGradNorm),
		"--seed", strconv.Itoa(p.Seed),
		"--print_interval", strconv.Itoa(p.PrintInterval),
		"--eval_interval", strconv.Itoa(p.EvalInterval),
		"--last_epoch", strconv.Itoa(p.LastEpoch),
	}
	if p.Shuffle {
		args = append(args, "--shuffle")
	}
	if p.FreezeCandidateEnc {
		args = append(args, "--freeze_cand_enc")
	}
	if p.AdversarialTraining {
		args = append(args, "--adversarial_training")
	}
	if p.NoMentionBounds {
		args = append(args, "--no_mention_bounds")
	}
	if run.ResumeFrom != "" {
		args = append(args, "--path_to_trainer_state", run.ResumeFrom)
	}
	return args
}

// LinkArgs composes the argv for one linking (inference) invocation.
// checkpointPath points at the promoted model weights to evaluate.
func LinkArgs(job *domain.LinkingJob, catalog *domain.EntityCatalog, checkpointPath string) []string {
	args := []string{
		"link",
		"--test_mentions", job.MentionsPath,
		"--entity_catalogue", catalog.Path,
		"--entity_encoding", catalog.EncodingPath,
		"--entity_token_ids", catalog.TokenIDsPath,
		"--save_preds_dir", job.PredsDir,
		"--top_k", strconv.Itoa(job.TopK),
		"--do_ner", nerFlag(job.Mode),
		"--eval_batch_size", strconv.Itoa(job.EvalBatchSize),
	}
	if job.EvalEntitiesPath != "" {
		args = append(args, "--test_entities", job.EvalEntitiesPath)
	}
	if checkpointPath != "" {
		args = append(args, "--biencoder_model", checkpointPath)
	}
	if job.Threshold != nil {
		args = append(args, "--mention_classifier_threshold", formatFloat(*job.Threshold))
	}
	if job.Thresholding != "" {
		args = append(args, "--final_thresholding", string(job.Thresholding))
	}
	return args
}

// nerFlag maps the mention mode to the linker's --do_ner values. Gold
// boundaries are spelled "none" there: no mention detection is performed.
func nerFlag(mode domain.MentionMode) string {
	if mode == domain.MentionModeGold {
		return "none"
	}
	return string(mode)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
