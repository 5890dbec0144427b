package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gbnetwork/bukkubridge/internal/billing"
	"github.com/gbnetwork/bukkubridge/internal/bukku"
)

// ProductSource provides read access to billing products.
type ProductSource interface {
	// Product returns a single product by ID. Missing products surface
	// billing.ErrNotFound.
	Product(ctx context.Context, id int64) (*billing.Product, error)
}

// ProductConfig holds the required configuration for creating a
// ProductService.
type ProductConfig struct {
	// Gateway is the Bukku item gateway.
	Gateway ItemGateway

	// Logger is the structured logger for the service.
	Logger *slog.Logger

	// Source provides billing product records.
	Source ProductSource

	// Store persists product mapping records.
	Store MappingStore
}

// validate checks that all required ProductConfig fields are set.
func (c *ProductConfig) validate() error {
	var errs []error
	if c.Gateway == nil {
		errs = append(errs, errors.New("item gateway is required"))
	}
	if c.Source == nil {
		errs = append(errs, errors.New("product source is required"))
	}
	if c.Store == nil {
		errs = append(errs, errors.New("mapping store is required"))
	}
	return errors.Join(errs...)
}

// ProductService reconciles billing products into Bukku items.
type ProductService struct {
	gateway ItemGateway
	locks   *keyedMutex
	logger  *slog.Logger
	source  ProductSource
	store   MappingStore
}

// NewProductService creates a new product reconciliation service.
func NewProductService(cfg ProductConfig) (*ProductService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ProductService{
		gateway: cfg.Gateway,
		locks:   newKeyedMutex(),
		logger:  logger,
		source:  cfg.Source,
		store:   cfg.Store,
	}, nil
}

// Reconcile syncs a single billing product into Bukku. Items are
// matched by name first, then by generated SKU, so a renamed product
// still resolves through its SKU.
func (s *ProductService) Reconcile(ctx context.Context, sourceID int64) Outcome {
	unlock := s.locks.Lock(sourceID)
	defer unlock()

	outcome := Outcome{SourceID: sourceID, Status: StatusFailed}

	product, err := s.source.Product(ctx, sourceID)
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
		DisplayName: product.Name,
		Price:       product.MonthlyPrice,
		SourceID:    sourceID,
		Status:      StatusFailed,
	}

	payload := product.ToItem()

	existing, err := s.findItem(ctx, product)
	if err != nil {
		outcome.Reason = failureReason(err)
		outcome.Message = fmt.Sprintf("looking up item: %v", err)
		record.ErrorMessage = outcome.Message
		persistOutcome(ctx, s.store, &outcome, record)
		return outcome
	}

	if existing != nil {
		updated, err := s.gateway.UpdateItem(ctx, existing.ID, payload)
		if err != nil {
			outcome.Reason = failureReason(err)
			outcome.Message = fmt.Sprintf("updating item: %v", err)
			record.ErrorMessage = outcome.Message
			persistOutcome(ctx, s.store, &outcome, record)
			return outcome
		}

		outcome.TargetID = updated.ID
		if outcome.TargetID == 0 {
			outcome.TargetID = existing.ID
		}
		outcome.Updated = true
		outcome.Message = "item updated"
	} else {
		created, err := s.gateway.CreateItem(ctx, payload)
		if err != nil {
			outcome.Reason = failureReason(err)
			outcome.Message = fmt.Sprintf("creating item: %v", err)
			record.ErrorMessage = outcome.Message
			persistOutcome(ctx, s.store, &outcome, record)
			return outcome
		}

		outcome.TargetID = created.ID
		outcome.Created = true
		outcome.Message = "item created"
	}

	outcome.Status = StatusSuccess
	record.Status = StatusSuccess
	record.TargetID = outcome.TargetID
	record.LastSyncedAt = time.Now()
	record.ErrorMessage = ""
	persistOutcome(ctx, s.store, &outcome, record)

	s.logger.Info("reconciled product",
		"source_id", sourceID,
		"target_id", outcome.TargetID,
		"created", outcome.Created,
		"updated", outcome.Updated,
		"status", outcome.Status)

	return outcome
}

// findItem matches by product name first and falls back to the
// generated SKU when no name match exists.
func (s *ProductService) findItem(ctx context.Context, product *billing.Product) (*bukku.Item, error) {
	item, err := s.gateway.FindItemByName(ctx, product.Name)
	if err != nil || item != nil {
		return item, err
	}
	return s.gateway.FindItemBySKU(ctx, product.SKU())
}
