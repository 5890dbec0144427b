// Package sync provides reconciliation of billing records into Bukku.
package sync

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SyncStatus represents the sync state of a mapping record.
type SyncStatus string

const (
	// StatusFailed indicates the last sync attempt failed.
	StatusFailed SyncStatus = "failed"

	// StatusPending indicates the record has never completed a sync.
	StatusPending SyncStatus = "pending"

	// StatusSuccess indicates the last sync attempt succeeded.
	StatusSuccess SyncStatus = "success"
)

// FailureReason classifies why a reconciliation attempt failed.
type FailureReason string

const (
	// ReasonDependencyFailed indicates a required upstream record
	// (the invoice's contact) could not be synced.
	ReasonDependencyFailed FailureReason = "dependency_failed"

	// ReasonRemoteRejection indicates Bukku rejected the request with
	// an application-level error.
	ReasonRemoteRejection FailureReason = "remote_rejection"

	// ReasonSourceMissing indicates the billing record does not exist.
	ReasonSourceMissing FailureReason = "source_record_missing"

	// ReasonStoreError indicates a local persistence failure.
	ReasonStoreError FailureReason = "store_error"

	// ReasonTransportError indicates a network or timeout failure
	// talking to Bukku.
	ReasonTransportError FailureReason = "transport_error"
)

// MappingRecord links a billing record to its Bukku counterpart along
// with the outcome of the last sync attempt. One record exists per
// source ID within each entity kind's table.
type MappingRecord struct {
	// DisplayName is a denormalized name for reporting. Derived, not
	// authoritative.
	DisplayName string

	// Email is a denormalized email for reporting (contacts only).
	Email string

	// ErrorMessage is the last failure message, cleared on success.
	ErrorMessage string

	// LastSyncedAt is the time of the last successful sync.
	LastSyncedAt time.Time

	// Price is a denormalized price for reporting (products only).
	Price decimal.Decimal

	// SourceID is the billing-system record identifier.
	SourceID int64

	// Status is the sync state after the last attempt.
	Status SyncStatus

	// TargetID is the Bukku record identifier. Zero until the first
	// successful sync; never cleared by a later failure.
	TargetID int64
}

// Outcome is the result of reconciling a single record.
type Outcome struct {
	// Created indicates a new Bukku record was created.
	Created bool

	// Message is the operator-visible result message.
	Message string

	// Reason classifies the failure, empty on success.
	Reason FailureReason

	// SourceID is the billing-system record identifier.
	SourceID int64

	// Status is the outcome status.
	Status SyncStatus

	// TargetID is the Bukku record identifier, if known.
	TargetID int64

	// Updated indicates an existing Bukku record was updated.
	Updated bool
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Status != StatusSuccess
}

// Summary aggregates the outcomes of a batch run.
type Summary struct {
	// Details contains one outcome per processed record, in input order.
	Details []Outcome

	// Failed is the number of failed records.
	Failed int

	// Success is the number of successfully synced records.
	Success int

	// Total is the number of processed records.
	Total int
}

// Reconciler reconciles a single billing record into Bukku.
type Reconciler interface {
	// Reconcile syncs the record with the given source ID and returns
	// the outcome. Errors are captured in the outcome, never returned.
	Reconcile(ctx context.Context, sourceID int64) Outcome
}

// MappingStore persists mapping records for one entity kind.
type MappingStore interface {
	// Get returns the mapping record for a source ID, or nil if none
	// exists.
	Get(ctx context.Context, sourceID int64) (*MappingRecord, error)

	// List returns all mapping records in the store.
	List(ctx context.Context) ([]MappingRecord, error)

	// Upsert creates or updates the mapping record keyed on its
	// source ID. A zero TargetID leaves any previously stored target
	// ID untouched.
	Upsert(ctx context.Context, record MappingRecord) error
}
