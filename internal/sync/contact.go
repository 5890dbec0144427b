package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gbnetwork/bukkubridge/internal/billing"
)

// CustomerSource provides read access to billing customers.
type CustomerSource interface {
	// Customer returns a single customer by ID. Missing customers
	// surface billing.ErrNotFound.
	Customer(ctx context.Context, id int64) (*billing.Customer, error)
}

// ContactConfig holds the required configuration for creating a
// ContactService.
type ContactConfig struct {
	// Gateway is the Bukku contact gateway.
	Gateway ContactGateway

	// Logger is the structured logger for the service.
	Logger *slog.Logger

	// Source provides billing customer records.
	Source CustomerSource

	// Store persists contact mapping records.
	Store MappingStore
}

// validate checks that all required ContactConfig fields are set.
func (c *ContactConfig) validate() error {
	var errs []error
	if c.Gateway == nil {
		errs = append(errs, errors.New("contact gateway is required"))
	}
	if c.Source == nil {
		errs = append(errs, errors.New("customer source is required"))
	}
	if c.Store == nil {
		errs = append(errs, errors.New("mapping store is required"))
	}
	return errors.Join(errs...)
}

// ContactService reconciles billing customers into Bukku contacts.
type ContactService struct {
	gateway ContactGateway
	locks   *keyedMutex
	logger  *slog.Logger
	source  CustomerSource
	store   MappingStore
}

// NewContactService creates a new contact reconciliation service.
func NewContactService(cfg ContactConfig) (*ContactService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ContactService{
		gateway: cfg.Gateway,
		locks:   newKeyedMutex(),
		logger:  logger,
		source:  cfg.Source,
		store:   cfg.Store,
	}, nil
}

// Reconcile syncs a single billing customer into Bukku: find the
// matching contact by email, create or update it, and persist the
// mapping outcome. Safe to call repeatedly; a prior successful target
// ID is never lost to a later failure.
func (s *ContactService) Reconcile(ctx context.Context, sourceID int64) Outcome {
	unlock := s.locks.Lock(sourceID)
	defer unlock()

	outcome := Outcome{SourceID: sourceID, Status: StatusFailed}

	customer, err := s.source.Customer(ctx, sourceID)
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			outcome.Reason = ReasonSourceMissing
		} else {
			outcome.Reason = ReasonStoreError
		}
		outcome.Message = err.Error()
		appendStoreError(&outcome, failExisting(ctx, s.store, sourceID, outcome.Message))
		return outcome
	}

	record := MappingRecord{
		DisplayName: customer.DisplayName(),
		Email:       customer.Email,
		SourceID:    sourceID,
		Status:      StatusFailed,
	}

	payload := customer.ToContact()

	existing, err := s.gateway.FindContactByEmail(ctx, customer.Email)
	if err != nil {
		outcome.Reason = failureReason(err)
		outcome.Message = fmt.Sprintf("looking up contact: %v", err)
		record.ErrorMessage = outcome.Message
		persistOutcome(ctx, s.store, &outcome, record)
		return outcome
	}

	if existing != nil {
		updated, err := s.gateway.UpdateContact(ctx, existing.ID, payload)
		if err != nil {
			outcome.Reason = failureReason(err)
			outcome.Message = fmt.Sprintf("updating contact: %v", err)
			record.ErrorMessage = outcome.Message
			persistOutcome(ctx, s.store, &outcome, record)
			return outcome
		}

		outcome.TargetID = updated.ID
		if outcome.TargetID == 0 {
			outcome.TargetID = existing.ID
		}
		outcome.Updated = true
		outcome.Message = "contact updated"
	} else {
		created, err := s.gateway.CreateContact(ctx, payload)
		if err != nil {
			outcome.Reason = failureReason(err)
			outcome.Message = fmt.Sprintf("creating contact: %v", err)
			record.ErrorMessage = outcome.Message
			persistOutcome(ctx, s.store, &outcome, record)
			return outcome
		}

		outcome.TargetID = created.ID
		outcome.Created = true
		outcome.Message = "contact created"
	}

	outcome.Status = StatusSuccess
	record.Status = StatusSuccess
	record.TargetID = outcome.TargetID
	record.LastSyncedAt = time.Now()
	record.ErrorMessage = ""
	persistOutcome(ctx, s.store, &outcome, record)

	s.logger.Info("reconciled contact",
		"source_id", sourceID,
		"target_id", outcome.TargetID,
		"created", outcome.Created,
		"updated", outcome.Updated,
		"status", outcome.Status)

	return outcome
}

// SyncedContacts returns all persisted contact mapping records. Store
// failures on this read-only path are swallowed and yield an empty list.
func (s *ContactService) SyncedContacts(ctx context.Context) []MappingRecord {
	records, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("listing synced contacts", "error", err)
		return nil
	}
	return records
}
