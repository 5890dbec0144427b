package sync

import (
	"context"

	"github.com/gbnetwork/bukkubridge/internal/billing"
	"github.com/gbnetwork/bukkubridge/internal/bukku"
)

// memStore is an in-memory MappingStore honoring the Upsert contract:
// a zero TargetID leaves any previously stored target ID untouched.
type memStore struct {
	getErr    error
	listErr   error
	records   map[int64]MappingRecord
	upsertErr error
	upserts   []MappingRecord
}

func newMemStore() *memStore {
	return &memStore{records: make(map[int64]MappingRecord)}
}

func (s *memStore) Get(_ context.Context, sourceID int64) (*MappingRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	record, ok := s.records[sourceID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *memStore) List(_ context.Context) ([]MappingRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	records := make([]MappingRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	return records, nil
}

func (s *memStore) Upsert(_ context.Context, record MappingRecord) error {
	s.upserts = append(s.upserts, record)
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if existing, ok := s.records[record.SourceID]; ok && record.TargetID == 0 {
		record.TargetID = existing.TargetID
	}
	s.records[record.SourceID] = record
	return nil
}

// fakeGateway implements Gateway with function fields, so each test
// overrides only the calls it cares about. Unset write calls panic to
// catch reconciliations that should never reach the remote side.
type fakeGateway struct {
	createContact           func(ctx context.Context, contact *bukku.Contact) (*bukku.Contact, error)
	createItem              func(ctx context.Context, item *bukku.Item) (*bukku.Item, error)
	createTransaction       func(ctx context.Context, txn *bukku.Transaction) (*bukku.Transaction, error)
	findContactByEmail      func(ctx context.Context, email string) (*bukku.Contact, error)
	findItemByName          func(ctx context.Context, name string) (*bukku.Item, error)
	findItemBySKU           func(ctx context.Context, sku string) (*bukku.Item, error)
	findTransactionByNumber func(ctx context.Context, number string) (*bukku.Transaction, error)
	updateContact           func(ctx context.Context, id int64, contact *bukku.Contact) (*bukku.Contact, error)
	updateItem              func(ctx context.Context, id int64, item *bukku.Item) (*bukku.Item, error)
	updateTransaction       func(ctx context.Context, id int64, txn *bukku.Transaction) (*bukku.Transaction, error)
}

func (g *fakeGateway) CreateContact(ctx context.Context, contact *bukku.Contact) (*bukku.Contact, error) {
	if g.createContact == nil {
		panic("unexpected CreateContact call")
	}
	return g.createContact(ctx, contact)
}

func (g *fakeGateway) FindContactByEmail(ctx context.Context, email string) (*bukku.Contact, error) {
	if g.findContactByEmail == nil {
		return nil, nil
	}
	return g.findContactByEmail(ctx, email)
}

func (g *fakeGateway) UpdateContact(ctx context.Context, id int64, contact *bukku.Contact) (*bukku.Contact, error) {
	if g.updateContact == nil {
		panic("unexpected UpdateContact call")
	}
	return g.updateContact(ctx, id, contact)
}

func (g *fakeGateway) CreateItem(ctx context.Context, item *bukku.Item) (*bukku.Item, error) {
	if g.createItem == nil {
		panic("unexpected CreateItem call")
	}
	return g.createItem(ctx, item)
}

func (g *fakeGateway) FindItemByName(ctx context.Context, name string) (*bukku.Item, error) {
	if g.findItemByName == nil {
		return nil, nil
	}
	return g.findItemByName(ctx, name)
}

func (g *fakeGateway) FindItemBySKU(ctx context.Context, sku string) (*bukku.Item, error) {
	if g.findItemBySKU == nil {
		return nil, nil
	}
	return g.findItemBySKU(ctx, sku)
}

func (g *fakeGateway) UpdateItem(ctx context.Context, id int64, item *bukku.Item) (*bukku.Item, error) {
	if g.updateItem == nil {
		panic("unexpected UpdateItem call")
	}
	return g.updateItem(ctx, id, item)
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, txn *bukku.Transaction) (*bukku.Transaction, error) {
	if g.createTransaction == nil {
		panic("unexpected CreateTransaction call")
	}
	return g.createTransaction(ctx, txn)
}

func (g *fakeGateway) FindTransactionByNumber(ctx context.Context, number string) (*bukku.Transaction, error) {
	if g.findTransactionByNumber == nil {
		return nil, nil
	}
	return g.findTransactionByNumber(ctx, number)
}

func (g *fakeGateway) UpdateTransaction(ctx context.Context, id int64, txn *bukku.Transaction) (*bukku.Transaction, error) {
	if g.updateTransaction == nil {
		panic("unexpected UpdateTransaction call")
	}
	return g.updateTransaction(ctx, id, txn)
}

// fakeBilling is an in-memory billing source.
type fakeBilling struct {
	customers map[int64]*billing.Customer
	invoices  map[int64]*billing.Invoice
	products  map[int64]*billing.Product
}

func (f *fakeBilling) Customer(_ context.Context, id int64) (*billing.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return customer, nil
}

func (f *fakeBilling) Product(_ context.Context, id int64) (*billing.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return product, nil
}

func (f *fakeBilling) Invoice(_ context.Context, id int64) (*billing.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return invoice, nil
}

// reconcilerFunc adapts a function to the Reconciler interface.
type reconcilerFunc func(ctx context.Context, sourceID int64) Outcome

func (f reconcilerFunc) Reconcile(ctx context.Context, sourceID int64) Outcome {
	return f(ctx, sourceID)
}
