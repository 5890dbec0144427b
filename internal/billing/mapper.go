package billing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gbnetwork/bukkubridge/internal/bukku"
	"github.com/gbnetwork/bukkubridge/internal/config"
)

// skuPrefix prefixes every synthesized SKU so catalog items synced
// from billing are recognisable on the Bukku side.
const skuPrefix = "BILL-"

// defaultCurrencyCode is the currency applied to all synced records.
const defaultCurrencyCode = "MYR"

// transactionStatusBySource maps billing invoice statuses to Bukku
// transaction statuses. Unmapped statuses fall back to "ready".
var transactionStatusBySource = map[string]bukku.TransactionStatus{
	"Unpaid":          bukku.TransactionStatusReady,
	"Paid":            bukku.TransactionStatusPaid,
	"Cancelled":       bukku.TransactionStatusVoid,
	"Refunded":        bukku.TransactionStatusVoid,
	"Collections":     bukku.TransactionStatusReady,
	"Payment Pending": bukku.TransactionStatusReady,
}

// ToContact converts a billing customer to its Bukku contact
// representation. Customers with a company name become Malaysian
// companies (with the registration number when a tax ID is present);
// everyone else becomes a Malaysian individual.
func (c *Customer) ToContact() *bukku.Contact {
	contact := &bukku.Contact{
		Address:             c.FormatAddress(),
		DefaultCurrencyCode: defaultCurrencyCode,
		Email:               c.Email,
		EntityType:          bukku.EntityTypeMalaysianIndividual,
		LegalName:           c.FirstName + " " + c.LastName,
		Phone:               c.Phone,
		Types:               []string{bukku.ContactTypeCustomer},
	}

	if c.CompanyName != "" {
		contact.EntityType = bukku.EntityTypeMalaysianCompany
		contact.LegalName = c.CompanyName
		if c.TaxID != "" {
			contact.RegNo = c.TaxID
		}
	}

	return contact
}

// FormatAddress joins the customer's address parts into a single line:
// street lines, then "city, state, postcode", then country.
func (c *Customer) FormatAddress() string {
	var parts []string

	if c.Address1 != "" {
		parts = append(parts, c.Address1)
	}
	if c.Address2 != "" {
		parts = append(parts, c.Address2)
	}

	var locality []string
	if c.City != "" {
		locality = append(locality, c.City)
	}
	if c.State != "" {
		locality = append(locality, c.State)
	}
	if c.Postcode != "" {
		locality = append(locality, c.Postcode)
	}
	if len(locality) > 0 {
		parts = append(parts, strings.Join(locality, ", "))
	}

	if c.Country != "" {
		parts = append(parts, c.Country)
	}

	return strings.Join(parts, ", ")
}

// SKU returns the deterministic SKU synthesized for the product, stable
// across runs so repeated syncs match the same Bukku item.
func (p *Product) SKU() string {
	return fmt.Sprintf("%s%d", skuPrefix, p.ID)
}

// ToItem converts a billing product to its Bukku catalog item
// representation.
func (p *Product) ToItem() *bukku.Item {
	return &bukku.Item{
		CurrencyCode: defaultCurrencyCode,
		Description:  p.Description,
		IsActive:     !p.Hidden,
		Name:         p.Name,
		Notes:        fmt.Sprintf("Imported from billing - %s", p.Name),
		SKU:          p.SKU(),
		TaxRate:      decimal.Zero,
		Type:         bukku.ItemTypeService,
		UnitPrice:    p.MonthlyPrice,
	}
}

// ToTransaction converts a billing invoice to its Bukku sales invoice
// representation. Line amounts and the invoice total are recomputed
// from quantities and unit prices on every call; the stored invoice
// total is never trusted.
func (inv *Invoice) ToTransaction(
	contactID int64,
	billingParty string,
	defaults config.InvoiceDefaults,
) *bukku.Transaction {
	formItems := make([]bukku.FormItem, 0, len(inv.Items))
	total := decimal.Zero

	for i, item := range inv.Items {
		line := i + 1
		amount := item.Quantity.Mul(item.UnitPrice).Round(2)
		total = total.Add(amount)

		formItems = append(formItems, bukku.FormItem{
			AccountCode:        defaults.AccountCode,
			AccountID:          defaults.AccountID,
			AccountName:        defaults.AccountName,
			Amount:             amount,
			ClassificationCode: defaults.ClassificationCode,
			ClassificationName: defaults.ClassificationName,
			Description:        item.Description,
			DiscountAmount:     decimal.Zero,
			Key:                lineKey(line),
			Line:               line,
			NetAmount:          amount,
			ProductBinLocation: defaults.BinLocation,
			ProductName:        item.Description,
			ProductSKU:         fmt.Sprintf("%s%d", skuPrefix, item.ID),
			ProductUnitID:      defaults.UnitID,
			ProductUnitLabel:   defaults.UnitLabel,
			Quantity:           item.Quantity,
			TaxAmount:          decimal.Zero,
			TaxCode:            defaults.TaxCode,
			TaxCodeID:          defaults.TaxCodeID,
			UnitPrice:          item.UnitPrice,
		})
	}

	termItems := []bukku.TermItem{{
		Amount:     total,
		Balance:    total,
		Date:       inv.DueDate.Format("2006-01-02"),
		Key:        lineKey(1),
		PaymentDue: "100%",
		TermID:     defaults.TermID,
		TermName:   defaults.TermName,
	}}

	return &bukku.Transaction{
		Amount:         total,
		Balance:        total,
		BillingParty:   billingParty,
		ContactID:      contactID,
		CurrencyCode:   defaultCurrencyCode,
		Date:           inv.Date.Format("2006-01-02"),
		ExchangeRate:   decimal.NewFromInt(1),
		FormItems:      formItems,
		MyInvoisAction: "NORMAL",
		Number:         inv.Number,
		PaymentMode:    "credit",
		Remarks:        fmt.Sprintf("Billing invoice #%s", inv.Number),
		Status:         transactionStatus(inv.Status),
		TaxMode:        "exclusive",
		TermItems:      termItems,
		Type:           "sale_invoice",
	}
}

// lineKey generates an opaque key for a transaction line, unique for
// the lifetime of the payload. The monotonic line number is combined
// with a random UUID so two lines can never collide.
func lineKey(line int) string {
	return fmt.Sprintf("%d-%s", line, uuid.NewString())
}

// transactionStatus maps a billing invoice status to a Bukku
// transaction status, defaulting to "ready" for unmapped values.
func transactionStatus(source string) bukku.TransactionStatus {
	if status, ok := transactionStatusBySource[source]; ok {
		return status
	}
	return bukku.TransactionStatusReady
}
