// Package billing provides read-only access to the billing system's
// customer, product, and invoice records, and their mapping to Bukku
// payloads.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a customer record in the billing database.
type Customer struct {
	// Address1 is the first street address line.
	Address1 string `gorm:"column:address1"`

	// Address2 is the second street address line.
	Address2 string `gorm:"column:address2"`

	// City is the city name.
	City string `gorm:"column:city"`

	// CompanyName is the company name, empty for individuals.
	CompanyName string `gorm:"column:company_name"`

	// Country is the country name or code.
	Country string `gorm:"column:country"`

	// Email is the customer's email address.
	Email string `gorm:"column:email"`

	// FirstName is the customer's first name.
	FirstName string `gorm:"column:first_name"`

	// ID is the billing-system customer identifier.
	ID int64 `gorm:"column:id;primaryKey"`

	// LastName is the customer's last name.
	LastName string `gorm:"column:last_name"`

	// Phone is the customer's phone number.
	Phone string `gorm:"column:phone_number"`

	// Postcode is the postal code.
	Postcode string `gorm:"column:postcode"`

	// State is the state or province.
	State string `gorm:"column:state"`

	// TaxID is the company tax/registration identifier, if supplied.
	TaxID string `gorm:"column:tax_id"`
}

// TableName returns the customers table name.
func (Customer) TableName() string { return "customers" }

// Product represents a product record in the billing database.
type Product struct {
	// Description is the product description.
	Description string `gorm:"column:description"`

	// Hidden indicates the product is retired from sale.
	Hidden bool `gorm:"column:hidden"`

	// ID is the billing-system product identifier.
	ID int64 `gorm:"column:id;primaryKey"`

	// MonthlyPrice is the monthly recurring price.
	MonthlyPrice decimal.Decimal `gorm:"column:monthly_price"`

	// Name is the product name.
	Name string `gorm:"column:name"`

	// Type is the billing-system product type.
	Type string `gorm:"column:type"`
}

// TableName returns the products table name.
func (Product) TableName() string { return "products" }

// Invoice represents an invoice record in the billing database.
type Invoice struct {
	// CustomerID is the owning customer's identifier.
	CustomerID int64 `gorm:"column:customer_id"`

	// Date is the invoice date.
	Date time.Time `gorm:"column:date"`

	// DueDate is the payment due date.
	DueDate time.Time `gorm:"column:due_date"`

	// ID is the billing-system invoice identifier.
	ID int64 `gorm:"column:id;primaryKey"`

	// Items are the invoice line items.
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	// Number is the human-readable invoice number.
	Number string `gorm:"column:number"`

	// Status is the billing-system invoice status (e.g. Unpaid, Paid).
	Status string `gorm:"column:status"`

	// Total is the invoice total as stored by the billing system.
	// The sync recomputes totals from line items and never trusts this.
	Total decimal.Decimal `gorm:"column:total"`
}

// TableName returns the invoices table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem represents a single line item on a billing invoice.
type InvoiceItem struct {
	// Description is the line description.
	Description string `gorm:"column:description"`

	// ID is the billing-system line item identifier.
	ID int64 `gorm:"column:id;primaryKey"`

	// InvoiceID is the owning invoice's identifier.
	InvoiceID int64 `gorm:"column:invoice_id"`

	// Quantity is the number of units billed.
	Quantity decimal.Decimal `gorm:"column:quantity"`

	// UnitPrice is the price per unit.
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
}

// TableName returns the invoice items table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// DisplayName returns the name used to represent the customer on
// documents: the company name when present, else "first last".
func (c *Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.FirstName + " " + c.LastName
}
