package sync

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gbnetwork/bukkubridge/internal/bukku"
)

// dryRunGateway wraps a Gateway and suppresses every write. Lookups
// pass through untouched so a dry run reports the same create/update
// decisions a real run would make. Suppressed creates return fake
// records with negative IDs so downstream bookkeeping still links up.
type dryRunGateway struct {
	gateway Gateway
	lastID  atomic.Int64
	logger  *slog.Logger
}

// NewDryRunGateway wraps gateway so write operations are logged rather
// than sent.
func NewDryRunGateway(gateway Gateway, logger *slog.Logger) Gateway {
	if logger == nil {
		logger = slog.Default()
	}

	return &dryRunGateway{
		gateway: gateway,
		logger:  logger,
	}
}

// nextID returns a unique negative placeholder ID.
func (g *dryRunGateway) nextID() int64 {
	return -g.lastID.Add(1)
}

func (g *dryRunGateway) FindContactByEmail(ctx context.Context, email string) (*bukku.Contact, error) {
	return g.gateway.FindContactByEmail(ctx, email)
}

func (g *dryRunGateway) CreateContact(ctx context.Context, contact *bukku.Contact) (*bukku.Contact, error) {
	g.logger.Info("[DRY-RUN] would create contact", "email", contact.Email, "legal_name", contact.LegalName)

	created := *contact
	created.ID = g.nextID()
	return &created, nil
}

func (g *dryRunGateway) UpdateContact(ctx context.Context, id int64, contact *bukku.Contact) (*bukku.Contact, error) {
	g.logger.Info("[DRY-RUN] would update contact", "id", id, "email", contact.Email)

	updated := *contact
	updated.ID = id
	return &updated, nil
}

func (g *dryRunGateway) FindItemByName(ctx context.Context, name string) (*bukku.Item, error) {
	return g.gateway.FindItemByName(ctx, name)
}

func (g *dryRunGateway) FindItemBySKU(ctx context.Context, sku string) (*bukku.Item, error) {
	return g.gateway.FindItemBySKU(ctx, sku)
}

func (g *dryRunGateway) CreateItem(ctx context.Context, item *bukku.Item) (*bukku.Item, error) {
	g.logger.Info("[DRY-RUN] would create item", "name", item.Name, "sku", item.SKU)

	created := *item
	created.ID = g.nextID()
	return &created, nil
}

func (g *dryRunGateway) UpdateItem(ctx context.Context, id int64, item *bukku.Item) (*bukku.Item, error) {
	g.logger.Info("[DRY-RUN] would update item", "id", id, "name", item.Name)

	updated := *item
	updated.ID = id
	return &updated, nil
}

func (g *dryRunGateway) FindTransactionByNumber(ctx context.Context, number string) (*bukku.Transaction, error) {
	return g.gateway.FindTransactionByNumber(ctx, number)
}

func (g *dryRunGateway) CreateTransaction(ctx context.Context, tx *bukku.Transaction) (*bukku.Transaction, error) {
	g.logger.Info("[DRY-RUN] would create transaction", "number", tx.Number, "amount", tx.Amount)

	created := *tx
	created.ID = g.nextID()
	return &created, nil
}

func (g *dryRunGateway) UpdateTransaction(ctx context.Context, id int64, tx *bukku.Transaction) (*bukku.Transaction, error) {
	g.logger.Info("[DRY-RUN] would update transaction", "id", id, "number", tx.Number)

	updated := *tx
	updated.ID = id
	return &updated, nil
}
