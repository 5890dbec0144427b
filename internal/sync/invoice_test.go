package sync

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gbnetwork/bukkubridge/internal/billing"
	"github.com/gbnetwork/bukkubridge/internal/bukku"
	"github.com/gbnetwork/bukkubridge/internal/config"
)

func testInvoice() *billing.Invoice {
	return &billing.Invoice{
		CustomerID: 7,
		Date:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		ID:         100,
		Items: []billing.InvoiceItem{
			{
				Description: "Web Hosting Basic (annual)",
				ID:          501,
				InvoiceID:   100,
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.RequireFromString("499.00"),
			},
		},
		Number: "INV-1001",
		Status: "Unpaid",
		Total:  decimal.RequireFromString("499.00"),
	}
}

func newInvoiceService(t *testing.T, gateway *fakeGateway, contacts ContactReconciler, source InvoiceSource, store MappingStore) *InvoiceService {
	t.Helper()

	service, err := NewInvoiceService(InvoiceConfig{
		Contacts: contacts,
		Defaults: config.InvoiceDefaults{TermID: 3, TermName: "NET30"},
		Gateway:  gateway,
		Source:   source,
		Store:    store,
	})
	require.NoError(t, err)

	return service
}

func succeedingContacts(targetID int64) ContactReconciler {
	return reconcilerFunc(func(_ context.Context, sourceID int64) Outcome {
		return Outcome{SourceID: sourceID, Status: StatusSuccess, TargetID: targetID}
	})
}

func TestInvoiceReconcileCreates(t *testing.T) {
	t.Parallel()

	var created *bukku.Transaction
	gateway := &fakeGateway{
		createTransaction: func(_ context.Context, txn *bukku.Transaction) (*bukku.Transaction, error) {
			created = txn
			result := *txn
			result.ID = 900
			return &result, nil
		},
	}
	store := newMemStore()
	source := &fakeBilling{
		customers: map[int64]*billing.Customer{7: testCustomer()},
		invoices:  map[int64]*billing.Invoice{100: testInvoice()},
	}

	outcome := newInvoiceService(t, gateway, succeedingContacts(88), source, store).
		Reconcile(context.Background(), 100)

	require.Equal(t, StatusSuccess, outcome.Status)
	require.True(t, outcome.Created)
	require.EqualValues(t, 900, outcome.TargetID)

	// The payload carries the reconciled contact's target ID and the
	// customer's display name.
	require.NotNil(t, created)
	require.EqualValues(t, 88, created.ContactID)
	require.Equal(t, "Acme Sdn Bhd", created.BillingParty)
	require.True(t, created.Amount.Equal(decimal.RequireFromString("499.00")))

	record := store.records[100]
	require.Equal(t, StatusSuccess, record.Status)
	require.Equal(t, "INV-1001", record.DisplayName)
	require.EqualValues(t, 900, record.TargetID)
}

func TestInvoiceReconcileUpdatesByNumber(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		findTransactionByNumber: func(_ context.Context, number string) (*bukku.Transaction, error) {
			require.Equal(t, "INV-1001", number)
			return &bukku.Transaction{ID: 900, Number: "IV-00123"}, nil
		},
		updateTransaction: func(_ context.Context, id int64, txn *bukku.Transaction) (*bukku.Transaction, error) {
			require.EqualValues(t, 900, id)
			result := *txn
			result.ID = id
			return &result, nil
		},
	}
	store := newMemStore()
	source := &fakeBilling{
		customers: map[int64]*billing.Customer{7: testCustomer()},
		invoices:  map[int64]*billing.Invoice{100: testInvoice()},
	}

	outcome := newInvoiceService(t, gateway, succeedingContacts(88), source, store).
		Reconcile(context.Background(), 100)

	require.Equal(t, StatusSuccess, outcome.Status)
	require.True(t, outcome.Updated)
	require.EqualValues(t, 900, outcome.TargetID)
}

func TestInvoiceReconcileDependencyFailed(t *testing.T) {
	t.Parallel()

	// All gateway functions unset: any remote invoice call panics.
	gateway := &fakeGateway{
		findTransactionByNumber: func(_ context.Context, _ string) (*bukku.Transaction, error) {
			t.Fatal("invoice endpoints must not be called when the contact failed")
			return nil, nil
		},
	}
	contacts := reconcilerFunc(func(_ context.Context, sourceID int64) Outcome {
		return Outcome{
			Message:  "dial tcp: connection refused",
			Reason:   ReasonTransportError,
			SourceID: sourceID,
			Status:   StatusFailed,
		}
	})
	store := newMemStore()
	source := &fakeBilling{
		customers: map[int64]*billing.Customer{7: testCustomer()},
		invoices:  map[int64]*billing.Invoice{100: testInvoice()},
	}

	outcome := newInvoiceService(t, gateway, contacts, source, store).
		Reconcile(context.Background(), 100)

	require.Equal(t, StatusFailed, outcome.Status)
	require.Equal(t, ReasonDependencyFailed, outcome.Reason)
	require.Contains(t, outcome.Message, "customer 7 failed to reconcile")
	require.Contains(t, outcome.Message, "connection refused")

	// Without a prior record, a dependency failure leaves no trace.
	require.Empty(t, store.records)
}

func TestInvoiceReconcileDependencyFailedMarksExistingRecord(t *testing.T) {
	t.Parallel()

	contacts := reconcilerFunc(func(_ context.Context, sourceID int64) Outcome {
		return Outcome{Reason: ReasonRemoteRejection, SourceID: sourceID, Status: StatusFailed}
	})
	store := newMemStore()
	store.records[100] = MappingRecord{SourceID: 100, Status: StatusSuccess, TargetID: 900}
	source := &fakeBilling{
		customers: map[int64]*billing.Customer{7: testCustomer()},
		invoices:  map[int64]*billing.Invoice{100: testInvoice()},
	}

	outcome := newInvoiceService(t, &fakeGateway{}, contacts, source, store).
		Reconcile(context.Background(), 100)

	require.Equal(t, ReasonDependencyFailed, outcome.Reason)

	record := store.records[100]
	require.Equal(t, StatusFailed, record.Status)
	require.EqualValues(t, 900, record.TargetID)
}

func TestInvoiceReconcileSourceMissing(t *testing.T) {
	t.Parallel()

	contacts := reconcilerFunc(func(_ context.Context, _ int64) Outcome {
		t.Fatal("contact reconciliation must not run for a missing invoice")
		return Outcome{}
	})
	store := newMemStore()
	source := &fakeBilling{invoices: map[int64]*billing.Invoice{}}

	outcome := newInvoiceService(t, &fakeGateway{}, contacts, source, store).
		Reconcile(context.Background(), 404)

	require.Equal(t, StatusFailed, outcome.Status)
	require.Equal(t, ReasonSourceMissing, outcome.Reason)
	require.Empty(t, store.records)
}

func TestInvoiceReconcileRemoteRejection(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		createTransaction: func(_ context.Context, _ *bukku.Transaction) (*bukku.Transaction, error) {
			return nil, &bukku.RemoteError{Message: "The date field is invalid.", StatusCode: 422}
		},
	}
	store := newMemStore()
	source := &fakeBilling{
		customers: map[int64]*billing.Customer{7: testCustomer()},
		invoices:  map[int64]*billing.Invoice{100: testInvoice()},
	}

	outcome := newInvoiceService(t, gateway, succeedingContacts(88), source, store).
		Reconcile(context.Background(), 100)

	require.Equal(t, StatusFailed, outcome.Status)
	require.Equal(t, ReasonRemoteRejection, outcome.Reason)

	record := store.records[100]
	require.Equal(t, StatusFailed, record.Status)
	require.Contains(t, record.ErrorMessage, "date field is invalid")
}
