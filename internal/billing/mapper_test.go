package billing

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gbnetwork/bukkubridge/internal/bukku"
	"github.com/gbnetwork/bukkubridge/internal/config"
)

func TestCustomerToContact(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		customer Customer
		want     *bukku.Contact
	}{
		"company with tax id": {
			customer: Customer{
				CompanyName: "Acme Sdn Bhd",
				Email:       "a@acme.my",
				FirstName:   "Aina",
				ID:          7,
				LastName:    "Rahman",
				TaxID:       "REG123",
			},
			want: &bukku.Contact{
				DefaultCurrencyCode: "MYR",
				Email:               "a@acme.my",
				EntityType:          bukku.EntityTypeMalaysianCompany,
				LegalName:           "Acme Sdn Bhd",
				RegNo:               "REG123",
				Types:               []string{bukku.ContactTypeCustomer},
			},
		},
		"company without tax id has no reg no": {
			customer: Customer{
				CompanyName: "Acme Sdn Bhd",
				Email:       "a@acme.my",
			},
			want: &bukku.Contact{
				DefaultCurrencyCode: "MYR",
				Email:               "a@acme.my",
				EntityType:          bukku.EntityTypeMalaysianCompany,
				LegalName:           "Acme Sdn Bhd",
				Types:               []string{bukku.ContactTypeCustomer},
			},
		},
		"individual uses first and last name": {
			customer: Customer{
				Email:     "aina@example.my",
				FirstName: "Aina",
				LastName:  "Rahman",
				Phone:     "+60123456789",
				TaxID:     "IGNORED",
			},
			want: &bukku.Contact{
				DefaultCurrencyCode: "MYR",
				Email:               "aina@example.my",
				EntityType:          bukku.EntityTypeMalaysianIndividual,
				LegalName:           "Aina Rahman",
				Phone:               "+60123456789",
				Types:               []string{bukku.ContactTypeCustomer},
			},
		},
		"address parts joined in order": {
			customer: Customer{
				Address1:  "12 Jalan Ampang",
				City:      "Kuala Lumpur",
				Country:   "Malaysia",
				Email:     "aina@example.my",
				FirstName: "Aina",
				LastName:  "Rahman",
				Postcode:  "50450",
				State:     "WP Kuala Lumpur",
			},
			want: &bukku.Contact{
				Address:             "12 Jalan Ampang, Kuala Lumpur, WP Kuala Lumpur, 50450, Malaysia",
				DefaultCurrencyCode: "MYR",
				Email:               "aina@example.my",
				EntityType:          bukku.EntityTypeMalaysianIndividual,
				LegalName:           "Aina Rahman",
				Types:               []string{bukku.ContactTypeCustomer},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, tc.customer.ToContact())
		})
	}
}

func TestProductSKU(t *testing.T) {
	t.Parallel()

	product := Product{ID: 42}

	sku := product.SKU()
	require.Equal(t, "BILL-42", sku)

	// Deterministic: the same product always yields the same SKU.
	require.Equal(t, sku, product.SKU())
}

func TestProductToItem(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		product Product
		want    *bukku.Item
	}{
		"active product": {
			product: Product{
				Description:  "Shared hosting, 10GB",
				ID:           42,
				MonthlyPrice: decimal.RequireFromString("49.90"),
				Name:         "Web Hosting Basic",
			},
			want: &bukku.Item{
				CurrencyCode: "MYR",
				Description:  "Shared hosting, 10GB",
				IsActive:     true,
				Name:         "Web Hosting Basic",
				Notes:        "Imported from billing - Web Hosting Basic",
				SKU:          "BILL-42",
				TaxRate:      decimal.Zero,
				Type:         bukku.ItemTypeService,
				UnitPrice:    decimal.RequireFromString("49.90"),
			},
		},
		"hidden product is inactive": {
			product: Product{
				Hidden:       true,
				ID:           7,
				MonthlyPrice: decimal.RequireFromString("10"),
				Name:         "Legacy Plan",
			},
			want: &bukku.Item{
				CurrencyCode: "MYR",
				IsActive:     false,
				Name:         "Legacy Plan",
				Notes:        "Imported from billing - Legacy Plan",
				SKU:          "BILL-7",
				TaxRate:      decimal.Zero,
				Type:         bukku.ItemTypeService,
				UnitPrice:    decimal.RequireFromString("10"),
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, tc.product.ToItem())
		})
	}
}

func testInvoiceDefaults() config.InvoiceDefaults {
	return config.InvoiceDefaults{
		AccountCode:        "5000-00",
		AccountID:          20,
		AccountName:        "Sales",
		ClassificationCode: "008",
		ClassificationName: "e-Commerce - e-Invoice to buyer / purchaser",
		TaxCode:            "SV8",
		TaxCodeID:          22,
		TermID:             3,
		TermName:           "NET30",
		UnitID:             3,
		UnitLabel:          "yearly",
	}
}

func TestInvoiceToTransaction(t *testing.T) {
	t.Parallel()

	invoice := Invoice{
		CustomerID: 7,
		Date:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		ID:         100,
		Items: []InvoiceItem{
			{
				Description: "Web Hosting Basic (annual)",
				ID:          501,
				InvoiceID:   100,
				Quantity:    decimal.RequireFromString("3"),
				UnitPrice:   decimal.RequireFromString("33.335"),
			},
			{
				Description: "Domain renewal",
				ID:          502,
				InvoiceID:   100,
				Quantity:    decimal.RequireFromString("1"),
				UnitPrice:   decimal.RequireFromString("45.00"),
			},
		},
		Number: "INV-1001",
		Status: "Unpaid",
		// Deliberately wrong: the mapper must recompute from the lines.
		Total: decimal.RequireFromString("999.99"),
	}

	txn := invoice.ToTransaction(88, "Acme Sdn Bhd", testInvoiceDefaults())

	// Each line amount rounds to 2 decimal places before summing.
	require.Len(t, txn.FormItems, 2)
	require.True(t, txn.FormItems[0].Amount.Equal(decimal.RequireFromString("100.01")),
		"got %s", txn.FormItems[0].Amount)
	require.True(t, txn.FormItems[1].Amount.Equal(decimal.RequireFromString("45.00")),
		"got %s", txn.FormItems[1].Amount)

	// The transaction total is the sum of the rounded line amounts,
	// never the stored invoice total.
	require.True(t, txn.Amount.Equal(decimal.RequireFromString("145.01")),
		"got %s", txn.Amount)
	require.True(t, txn.Balance.Equal(txn.Amount))

	require.Equal(t, "Acme Sdn Bhd", txn.BillingParty)
	require.EqualValues(t, 88, txn.ContactID)
	require.Equal(t, "MYR", txn.CurrencyCode)
	require.Equal(t, "2026-02-01", txn.Date)
	require.True(t, txn.ExchangeRate.Equal(decimal.NewFromInt(1)))
	require.Equal(t, "NORMAL", txn.MyInvoisAction)
	require.Equal(t, "INV-1001", txn.Number)
	require.Equal(t, "credit", txn.PaymentMode)
	require.Equal(t, "Billing invoice #INV-1001", txn.Remarks)
	require.Equal(t, bukku.TransactionStatusReady, txn.Status)
	require.Equal(t, "exclusive", txn.TaxMode)
	require.Equal(t, "sale_invoice", txn.Type)

	first := txn.FormItems[0]
	require.Equal(t, "5000-00", first.AccountCode)
	require.EqualValues(t, 20, first.AccountID)
	require.Equal(t, "Sales", first.AccountName)
	require.Equal(t, "008", first.ClassificationCode)
	require.Equal(t, "Web Hosting Basic (annual)", first.Description)
	require.Equal(t, 1, first.Line)
	require.Equal(t, "BILL-501", first.ProductSKU)
	require.EqualValues(t, 3, first.ProductUnitID)
	require.Equal(t, "yearly", first.ProductUnitLabel)
	require.Equal(t, "SV8", first.TaxCode)
	require.EqualValues(t, 22, first.TaxCodeID)
	require.Equal(t, 2, txn.FormItems[1].Line)

	require.Len(t, txn.TermItems, 1)
	term := txn.TermItems[0]
	require.True(t, term.Amount.Equal(txn.Amount))
	require.True(t, term.Balance.Equal(txn.Amount))
	require.Equal(t, "2026-03-03", term.Date)
	require.Equal(t, "100%", term.PaymentDue)
	require.EqualValues(t, 3, term.TermID)
	require.Equal(t, "NET30", term.TermName)
}

func TestInvoiceToTransactionLineKeysUnique(t *testing.T) {
	t.Parallel()

	invoice := Invoice{
		DueDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Items: []InvoiceItem{
			{ID: 1, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
			{ID: 2, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
			{ID: 3, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
		Number: "INV-1002",
	}

	txn := invoice.ToTransaction(1, "Someone", testInvoiceDefaults())

	seen := make(map[string]bool)
	for _, item := range txn.FormItems {
		require.NotEmpty(t, item.Key)
		require.False(t, seen[item.Key], "duplicate line key %q", item.Key)
		seen[item.Key] = true

		// Keys embed the line number for readability.
		require.True(t, strings.HasPrefix(item.Key, "1-") ||
			strings.HasPrefix(item.Key, "2-") ||
			strings.HasPrefix(item.Key, "3-"))
	}
}

func TestTransactionStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		source string
		want   bukku.TransactionStatus
	}{
		"unpaid":          {source: "Unpaid", want: bukku.TransactionStatusReady},
		"paid":            {source: "Paid", want: bukku.TransactionStatusPaid},
		"cancelled":       {source: "Cancelled", want: bukku.TransactionStatusVoid},
		"refunded":        {source: "Refunded", want: bukku.TransactionStatusVoid},
		"collections":     {source: "Collections", want: bukku.TransactionStatusReady},
		"payment pending": {source: "Payment Pending", want: bukku.TransactionStatusReady},
		"unmapped status": {source: "Disputed", want: bukku.TransactionStatusReady},
		"empty status":    {source: "", want: bukku.TransactionStatusReady},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, transactionStatus(tc.source))
		})
	}
}

func TestCustomerDisplayName(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		customer Customer
		want     string
	}{
		"company name wins": {
			customer: Customer{CompanyName: "Acme Sdn Bhd", FirstName: "Aina", LastName: "Rahman"},
			want:     "Acme Sdn Bhd",
		},
		"individual full name": {
			customer: Customer{FirstName: "Aina", LastName: "Rahman"},
			want:     "Aina Rahman",
		},
		"empty customer is a bare space": {
			customer: Customer{},
			want:     " ",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, tc.customer.DisplayName())
		})
	}
}
