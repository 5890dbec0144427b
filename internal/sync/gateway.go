package sync

import (
	"context"
	"errors"

	"github.com/gbnetwork/bukkubridge/internal/bukku"
)

// ContactGateway defines the Bukku contact operations required by the
// contact reconciliation service.
type ContactGateway interface {
	// CreateContact creates a new contact and returns the created record.
	CreateContact(ctx context.Context, contact *bukku.Contact) (*bukku.Contact, error)

	// FindContactByEmail returns the first contact matching the given
	// email, or nil if no contact matches.
	FindContactByEmail(ctx context.Context, email string) (*bukku.Contact, error)

	// UpdateContact updates an existing contact by ID.
	UpdateContact(ctx context.Context, contactID int64, contact *bukku.Contact) (*bukku.Contact, error)
}

// ItemGateway defines the Bukku catalog item operations required by the
// product reconciliation service.
type ItemGateway interface {
	// CreateItem creates a new catalog item and returns the created record.
	CreateItem(ctx context.Context, item *bukku.Item) (*bukku.Item, error)

	// FindItemByName returns the first item matching the given name,
	// or nil if no item matches.
	FindItemByName(ctx context.Context, name string) (*bukku.Item, error)

	// FindItemBySKU returns the first item matching the given SKU,
	// or nil if no item matches.
	FindItemBySKU(ctx context.Context, sku string) (*bukku.Item, error)

	// UpdateItem updates an existing catalog item by ID.
	UpdateItem(ctx context.Context, itemID int64, item *bukku.Item) (*bukku.Item, error)
}

// TransactionGateway defines the Bukku sales invoice operations required
// by the invoice reconciliation service.
type TransactionGateway interface {
	// CreateTransaction creates a new sales invoice and returns the
	// created record.
	CreateTransaction(ctx context.Context, txn *bukku.Transaction) (*bukku.Transaction, error)

	// FindTransactionByNumber returns the first sales invoice matching
	// the given transaction number, or nil if no transaction matches.
	FindTransactionByNumber(ctx context.Context, number string) (*bukku.Transaction, error)

	// UpdateTransaction updates an existing sales invoice by ID.
	UpdateTransaction(ctx context.Context, txnID int64, txn *bukku.Transaction) (*bukku.Transaction, error)
}

// Gateway combines the per-entity gateways. The Bukku API client
// satisfies this interface.
type Gateway interface {
	ContactGateway
	ItemGateway
	TransactionGateway
}

// failureReason classifies a gateway error. Application-level
// rejections carry a *bukku.RemoteError; everything else is treated as
// a transport failure. Status codes are never inspected here.
func failureReason(err error) FailureReason {
	var remoteErr *bukku.RemoteError
	if errors.As(err, &remoteErr) {
		return ReasonRemoteRejection
	}
	return ReasonTransportError
}
