package sync

import (
	"context"
	"fmt"
)

// persistOutcome upserts the mapping record for an attempt and surfaces
// any store failure on the outcome. A failed upsert is never silently
// dropped: the outcome flips to failed and carries the store error.
func persistOutcome(ctx context.Context, store MappingStore, outcome *Outcome, record MappingRecord) {
	err := store.Upsert(ctx, record)
	if err == nil {
		return
	}

	outcome.Status = StatusFailed
	if outcome.Reason == "" {
		outcome.Reason = ReasonStoreError
	}
	if outcome.Message != "" {
		outcome.Message += "; "
	}
	outcome.Message += fmt.Sprintf("persisting mapping: %v", err)
}

// failExisting marks the mapping record for a source ID as failed, but
// only if one already exists. Used when the source record itself is
// missing or a dependency failed before any payload was built.
func failExisting(ctx context.Context, store MappingStore, sourceID int64, message string) error {
	record, err := store.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("loading mapping: %w", err)
	}
	if record == nil {
		return nil
	}

	record.Status = StatusFailed
	record.ErrorMessage = message
	if err := store.Upsert(ctx, *record); err != nil {
		return fmt.Errorf("persisting mapping: %w", err)
	}
	return nil
}

// appendStoreError folds a failExisting error into the outcome message.
func appendStoreError(outcome *Outcome, err error) {
	if err == nil {
		return
	}
	outcome.Message += fmt.Sprintf("; %v", err)
}
