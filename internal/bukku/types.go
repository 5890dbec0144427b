// Package bukku provides a client for the Bukku accounting API.
package bukku

import "github.com/shopspring/decimal"

// EntityType represents the legal entity classification of a contact.
type EntityType string

const (
	// EntityTypeMalaysianCompany is a Malaysian registered business.
	EntityTypeMalaysianCompany EntityType = "MALAYSIAN_COMPANY"

	// EntityTypeMalaysianIndividual is a Malaysian private individual.
	EntityTypeMalaysianIndividual EntityType = "MALAYSIAN_INDIVIDUAL"
)

// ItemType represents the type of a catalog item.
type ItemType string

const (
	// ItemTypeService is a non-stocked service item.
	ItemTypeService ItemType = "SERVICE"
)

// TransactionStatus represents the status of a sales transaction.
type TransactionStatus string

const (
	// TransactionStatusDraft is a transaction that has not been finalised.
	TransactionStatusDraft TransactionStatus = "draft"

	// TransactionStatusPaid is a fully settled transaction.
	TransactionStatusPaid TransactionStatus = "paid"

	// TransactionStatusReady is a finalised transaction awaiting payment.
	TransactionStatusReady TransactionStatus = "ready"

	// TransactionStatusVoid is a cancelled transaction.
	TransactionStatusVoid TransactionStatus = "void"
)

// ContactTypeCustomer marks a contact as a customer.
const ContactTypeCustomer = "customer"

// Contact represents a contact in Bukku.
type Contact struct {
	// Address is the contact's full mailing address.
	Address string `json:"address,omitempty"`

	// DefaultCurrencyCode is the contact's default transaction currency.
	DefaultCurrencyCode string `json:"default_currency_code"`

	// Email is the contact's email address.
	Email string `json:"email"`

	// EntityType is the legal entity classification.
	EntityType EntityType `json:"entity_type"`

	// ID is the unique contact identifier.
	ID int64 `json:"id,omitempty"`

	// LegalName is the registered name of the contact.
	LegalName string `json:"legal_name"`

	// OtherName is an alternative or trading name.
	OtherName string `json:"other_name,omitempty"`

	// Phone is the contact's phone number.
	Phone string `json:"phone,omitempty"`

	// RegNo is the business registration number.
	RegNo string `json:"reg_no,omitempty"`

	// Types classifies the contact (customer, supplier, etc.).
	Types []string `json:"types"`
}

// Item represents a catalog item in Bukku.
type Item struct {
	// CurrencyCode is the pricing currency.
	CurrencyCode string `json:"currency_code"`

	// Description is the item description.
	Description string `json:"description,omitempty"`

	// ID is the unique item identifier.
	ID int64 `json:"id,omitempty"`

	// IsActive indicates whether the item can be sold.
	IsActive bool `json:"is_active"`

	// Name is the item name.
	Name string `json:"name"`

	// Notes contains free-form internal notes.
	Notes string `json:"notes,omitempty"`

	// SKU is the stock-keeping unit code.
	SKU string `json:"sku"`

	// TaxRate is the default tax rate percentage.
	TaxRate decimal.Decimal `json:"tax_rate"`

	// Type is the item type (e.g. SERVICE).
	Type ItemType `json:"type"`

	// UnitPrice is the default selling price per unit.
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// FormItem represents a single line on a sales transaction.
type FormItem struct {
	// AccountCode is the ledger account code.
	AccountCode string `json:"account_code"`

	// AccountID is the ledger account identifier.
	AccountID int64 `json:"account_id"`

	// AccountName is the ledger account name.
	AccountName string `json:"account_name"`

	// Amount is the line amount (quantity times unit price).
	Amount decimal.Decimal `json:"amount"`

	// ClassificationCode is the MyInvois classification code.
	ClassificationCode string `json:"classification_code"`

	// ClassificationName is the MyInvois classification description.
	ClassificationName string `json:"classification_name"`

	// Description is the line description.
	Description string `json:"description"`

	// Discount is the discount expression, if any.
	Discount *string `json:"discount"`

	// DiscountAmount is the monetary discount applied to the line.
	DiscountAmount decimal.Decimal `json:"discount_amount"`

	// Key is an opaque identifier unique within the transaction,
	// used by Bukku to track line edits across updates.
	Key string `json:"key"`

	// Line is the 1-based line number.
	Line int `json:"line"`

	// NetAmount is the line amount after discount.
	NetAmount decimal.Decimal `json:"net_amount"`

	// ProductBinLocation is the warehouse bin location.
	ProductBinLocation string `json:"product_bin_location,omitempty"`

	// ProductID is the Bukku item identifier, if the line maps to one.
	ProductID *int64 `json:"product_id"`

	// ProductName is the item name shown on the line.
	ProductName string `json:"product_name,omitempty"`

	// ProductSKU is the item SKU shown on the line.
	ProductSKU string `json:"product_sku,omitempty"`

	// ProductUnitID is the unit-of-measure identifier.
	ProductUnitID int64 `json:"product_unit_id"`

	// ProductUnitLabel is the unit-of-measure label.
	ProductUnitLabel string `json:"product_unit_label"`

	// Quantity is the number of units.
	Quantity decimal.Decimal `json:"quantity"`

	// TaxAmount is the tax applied to the line.
	TaxAmount decimal.Decimal `json:"tax_amount"`

	// TaxCode is the tax code label (e.g. SV8).
	TaxCode string `json:"tax_code"`

	// TaxCodeID is the tax code identifier.
	TaxCodeID int64 `json:"tax_code_id"`

	// UnitPrice is the price per unit.
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// TermItem represents a payment term line on a sales transaction.
type TermItem struct {
	// Amount is the amount due under this term.
	Amount decimal.Decimal `json:"amount"`

	// Balance is the outstanding balance under this term.
	Balance decimal.Decimal `json:"balance"`

	// Date is the due date in YYYY-MM-DD format.
	Date string `json:"date"`

	// Key is an opaque identifier unique within the transaction.
	Key string `json:"key"`

	// PaymentDue is the portion due, e.g. "100%".
	PaymentDue string `json:"payment_due"`

	// TermID is the payment term identifier.
	TermID int64 `json:"term_id"`

	// TermName is the payment term name (e.g. NET30).
	TermName string `json:"term_name"`
}

// Transaction represents a sales invoice in Bukku.
type Transaction struct {
	// Amount is the transaction total.
	Amount decimal.Decimal `json:"amount"`

	// Balance is the outstanding balance.
	Balance decimal.Decimal `json:"balance"`

	// BillingParty is the display name of the billed contact.
	BillingParty string `json:"billing_party"`

	// ContactID links the transaction to a Bukku contact.
	ContactID int64 `json:"contact_id"`

	// CurrencyCode is the transaction currency.
	CurrencyCode string `json:"currency_code"`

	// Date is the transaction date in YYYY-MM-DD format.
	Date string `json:"date"`

	// ExchangeRate is the currency exchange rate.
	ExchangeRate decimal.Decimal `json:"exchange_rate"`

	// FormItems are the transaction lines.
	FormItems []FormItem `json:"form_items"`

	// ID is the unique transaction identifier.
	ID int64 `json:"id,omitempty"`

	// MyInvoisAction controls e-invoice submission behaviour.
	MyInvoisAction string `json:"myinvois_action"`

	// Number is the transaction number. Supplied on create so the
	// transaction stays matchable by the originating invoice number.
	Number string `json:"number,omitempty"`

	// PaymentMode is the payment mode (e.g. credit).
	PaymentMode string `json:"payment_mode"`

	// Remarks contains remarks shown on the transaction.
	Remarks string `json:"remarks,omitempty"`

	// Status is the transaction status.
	Status TransactionStatus `json:"status"`

	// TaxMode indicates whether prices are tax inclusive or exclusive.
	TaxMode string `json:"tax_mode"`

	// TermItems are the payment terms.
	TermItems []TermItem `json:"term_items"`

	// Type is the transaction type (e.g. sale_invoice).
	Type string `json:"type"`
}

// contactListResponse represents the paginated contact list response.
type contactListResponse struct {
	// Data contains the matching contacts.
	Data []Contact `json:"data"`

	// Paging contains pagination state.
	Paging paging `json:"paging"`
}

// itemListResponse represents the paginated item list response.
type itemListResponse struct {
	// Data contains the matching items.
	Data []Item `json:"data"`

	// Paging contains pagination state.
	Paging paging `json:"paging"`
}

// transactionListResponse represents the paginated transaction list response.
type transactionListResponse struct {
	// Data contains the matching transactions.
	Data []Transaction `json:"data"`

	// Paging contains pagination state.
	Paging paging `json:"paging"`
}

// transactionResponse wraps a single transaction in create/update responses.
type transactionResponse struct {
	// Transaction is the created or updated transaction.
	Transaction Transaction `json:"transaction"`
}

// paging represents pagination metadata on list responses.
type paging struct {
	// CurrentPage is the 1-based page number.
	CurrentPage int `json:"current_page"`

	// LastPage is the final page number.
	LastPage int `json:"last_page"`

	// PerPage is the page size.
	PerPage int `json:"per_page"`

	// Total is the total number of records.
	Total int `json:"total"`
}

// errorResponse represents an error body returned by the API.
type errorResponse struct {
	// Message is the human-readable error message.
	Message string `json:"message"`
}
