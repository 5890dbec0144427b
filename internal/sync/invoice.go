package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gbnetwork/bukkubridge/internal/billing"
	"github.com/gbnetwork/bukkubridge/internal/config"
)

// InvoiceSource provides read access to billing invoices and their
// customers.
type InvoiceSource interface {
	// Customer returns a single customer by ID. Missing customers
	// surface billing.ErrNotFound.
	Customer(ctx context.Context, id int64) (*billing.Customer, error)

	// Invoice returns a single invoice, with its line items, by ID.
	// Missing invoices surface billing.ErrNotFound.
	Invoice(ctx context.Context, id int64) (*billing.Invoice, error)
}

// ContactReconciler reconciles a billing customer before an invoice
// that depends on it.
type ContactReconciler interface {
	Reconcile(ctx context.Context, sourceID int64) Outcome
}

// InvoiceConfig holds the required configuration for creating an
// InvoiceService.
type InvoiceConfig struct {
	// Contacts reconciles the customer an invoice belongs to before the
	// invoice itself is sent.
	Contacts ContactReconciler

	// Defaults supplies the bookkeeping values applied to every
	// transaction line.
	Defaults config.InvoiceDefaults

	// Gateway is the Bukku transaction gateway.
	Gateway TransactionGateway

	// Logger is the structured logger for the service.
	Logger *slog.Logger

	// Source provides billing invoice and customer records.
	Source InvoiceSource

	// Store persists invoice mapping records.
	Store MappingStore
}

// validate checks that all required InvoiceConfig fields are set.
func (c *InvoiceConfig) validate() error {
	var errs []error
	if c.Contacts == nil {
		errs = append(errs, errors.New("contact reconciler is required"))
	}
	if c.Gateway == nil {
		errs = append(errs, errors.New("transaction gateway is required"))
	}
	if c.Source == nil {
		errs = append(errs, errors.New("invoice source is required"))
	}
	if c.Store == nil {
		errs = append(errs, errors.New("mapping store is required"))
	}
	return errors.Join(errs...)
}

// InvoiceService reconciles billing invoices into Bukku sale
// transactions. Each invoice reconciles its customer first, so an
// invoice can never reference a contact that does not exist in Bukku.
type InvoiceService struct {
	contacts ContactReconciler
	defaults config.InvoiceDefaults
	gateway  TransactionGateway
	locks    *keyedMutex
	logger   *slog.Logger
	source   InvoiceSource
	store    MappingStore
}

// NewInvoiceService creates a new invoice reconciliation service.
func NewInvoiceService(cfg InvoiceConfig) (*InvoiceService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &InvoiceService{
		contacts: cfg.Contacts,
		defaults: cfg.Defaults,
		gateway:  cfg.Gateway,
		locks:    newKeyedMutex(),
		logger:   logger,
		source:   cfg.Source,
		store:    cfg.Store,
	}, nil
}

// Reconcile syncs a single billing invoice into Bukku: reconcile the
// owning customer, match the transaction by invoice number, then create
// or update it. When the customer fails to reconcile the invoice is
// marked failed without touching the remote invoice endpoints.
func (s *InvoiceService) Reconcile(ctx context.Context, sourceID int64) Outcome {
	unlock := s.locks.Lock(sourceID)
	defer unlock()

	outcome := Outcome{SourceID: sourceID, Status: StatusFailed}

	invoice, err := s.source.Invoice(ctx, sourceID)
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

	contactOutcome := s.contacts.Reconcile(ctx, invoice.CustomerID)
	if contactOutcome.Failed() {
		outcome.Reason = ReasonDependencyFailed
		outcome.Message = fmt.Sprintf("customer %d failed to reconcile: %s", invoice.CustomerID, contactOutcome.Message)
		appendStoreError(&outcome, failExisting(ctx, s.store, sourceID, outcome.Message))
		return outcome
	}

	record := MappingRecord{
		DisplayName: invoice.Number,
		Price:       invoice.Total,
		SourceID:    sourceID,
		Status:      StatusFailed,
	}

	customer, err := s.source.Customer(ctx, invoice.CustomerID)
	if err != nil {
		outcome.Reason = ReasonStoreError
		outcome.Message = fmt.Sprintf("loading customer %d: %v", invoice.CustomerID, err)
		record.ErrorMessage = outcome.Message
		persistOutcome(ctx, s.store, &outcome, record)
		return outcome
	}

	payload := invoice.ToTransaction(contactOutcome.TargetID, customer.DisplayName(), s.defaults)

	existing, err := s.gateway.FindTransactionByNumber(ctx, invoice.Number)
	if err != nil {
		outcome.Reason = failureReason(err)
		outcome.Message = fmt.Sprintf("looking up transaction: %v", err)
		record.ErrorMessage = outcome.Message
		persistOutcome(ctx, s.store, &outcome, record)
		return outcome
	}

	if existing != nil {
		updated, err := s.gateway.UpdateTransaction(ctx, existing.ID, payload)
		if err != nil {
			outcome.Reason = failureReason(err)
			outcome.Message = fmt.Sprintf("updating transaction: %v", err)
			record.ErrorMessage = outcome.Message
			persistOutcome(ctx, s.store, &outcome, record)
			return outcome
		}

		outcome.TargetID = updated.ID
		if outcome.TargetID == 0 {
			outcome.TargetID = existing.ID
		}
		outcome.Updated = true
		outcome.Message = "transaction updated"
	} else {
		created, err := s.gateway.CreateTransaction(ctx, payload)
		if err != nil {
			outcome.Reason = failureReason(err)
			outcome.Message = fmt.Sprintf("creating transaction: %v", err)
			record.ErrorMessage = outcome.Message
			persistOutcome(ctx, s.store, &outcome, record)
			return outcome
		}

		outcome.TargetID = created.ID
		outcome.Created = true
		outcome.Message = "transaction created"
	}

	outcome.Status = StatusSuccess
	record.Status = StatusSuccess
	record.TargetID = outcome.TargetID
	record.LastSyncedAt = time.Now()
	record.ErrorMessage = ""
	persistOutcome(ctx, s.store, &outcome, record)

	s.logger.Info("reconciled invoice",
		"source_id", sourceID,
		"number", invoice.Number,
		"target_id", outcome.TargetID,
		"created", outcome.Created,
		"updated", outcome.Updated,
		"status", outcome.Status)

	return outcome
}
