package sync

import (
	"context"
	"log/slog"
)

// Runner reconciles batches of source records one at a time. A failure
// for one record never stops the rest of the batch.
type Runner struct {
	logger     *slog.Logger
	reconciler Reconciler
}

// NewRunner creates a batch runner over the given reconciler.
func NewRunner(reconciler Reconciler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		logger:     logger,
		reconciler: reconciler,
	}
}

// Run reconciles each source ID in order and returns a summary of the
// batch. When the context is cancelled the remaining IDs are skipped
// and the summary covers only the records attempted so far.
func (r *Runner) Run(ctx context.Context, sourceIDs []int64) Summary {
	var summary Summary

	for _, id := range sourceIDs {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("batch interrupted",
				"error", err,
				"attempted", summary.Total,
				"remaining", len(sourceIDs)-summary.Total)
			break
		}

		outcome := r.reconciler.Reconcile(ctx, id)

		summary.Total++
		if outcome.Failed() {
			summary.Failed++
			r.logger.Error("record failed to reconcile",
				"source_id", id,
				"reason", outcome.Reason,
				"message", outcome.Message)
		} else {
			summary.Success++
		}
		summary.Details = append(summary.Details, outcome)
	}

	return summary
}
