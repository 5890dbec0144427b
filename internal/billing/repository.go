package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound indicates the requested record does not exist in the
// billing database.
var ErrNotFound = errors.New("billing record not found")

// Repository provides read-only access to billing records.
type Repository struct {
	// db is the billing database handle.
	db *gorm.DB
}

// NewRepository creates a new billing repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}
	return &Repository{db: db}, nil
}

// Customer returns a single customer by ID.
func (r *Repository) Customer(ctx context.Context, id int64) (*Customer, error) {
	var customer Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading customer %d: %w", id, err)
	}
	return &customer, nil
}

// CustomerIDs returns the IDs of all customers, newest first.
func (r *Repository) CustomerIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&Customer{}).
		Order("id desc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing customer IDs: %w", err)
	}
	return ids, nil
}

// Product returns a single product by ID.
func (r *Repository) Product(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading product %d: %w", id, err)
	}
	return &product, nil
}

// ProductIDs returns the IDs of all products.
func (r *Repository) ProductIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&Product{}).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing product IDs: %w", err)
	}
	return ids, nil
}

// Invoice returns a single invoice by ID with its line items loaded.
func (r *Repository) Invoice(ctx context.Context, id int64) (*Invoice, error) {
	var invoice Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading invoice %d: %w", id, err)
	}
	return &invoice, nil
}

// InvoiceIDsSince returns the IDs of invoices dated on or after the
// given time, oldest first.
func (r *Repository) InvoiceIDsSince(ctx context.Context, since time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&Invoice{}).
		Where("date >= ?", since).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing invoice IDs since %s: %w", since.Format("2006-01-02"), err)
	}
	return ids, nil
}

// InvoiceIDsForCustomer returns the IDs of all invoices owned by the
// given customer, oldest first.
func (r *Repository) InvoiceIDsForCustomer(ctx context.Context, customerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&Invoice{}).
		Where("customer_id = ?", customerID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing invoice IDs for customer %d: %w", customerID, err)
	}
	return ids, nil
}
