// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// EnvBillingDatabaseDSN is the MySQL DSN for the billing database.
	EnvBillingDatabaseDSN = "BILLING_DB_DSN"

	// EnvBukkuAPIBaseURL is the base URL for the Bukku API.
	EnvBukkuAPIBaseURL = "BUKKU_API_BASE_URL"

	// EnvBukkuAPIToken is a Bukku API token supplied directly (local runs).
	EnvBukkuAPIToken = "BUKKU_API_TOKEN"

	// EnvBukkuTokenSecretARN is the Secrets Manager ARN storing the API token.
	EnvBukkuTokenSecretARN = "BUKKU_API_TOKEN_SECRET_ARN"

	// EnvContactsTableName is the DynamoDB table for contact mappings.
	EnvContactsTableName = "DYNAMODB_CONTACTS_TABLE"

	// EnvDryRun enables dry-run mode (no writes to Bukku).
	EnvDryRun = "DRY_RUN"

	// EnvInvoiceAccountCode is the ledger account code for invoice lines.
	EnvInvoiceAccountCode = "INVOICE_ACCOUNT_CODE"

	// EnvInvoiceAccountID is the ledger account ID for invoice lines.
	EnvInvoiceAccountID = "INVOICE_ACCOUNT_ID"

	// EnvInvoiceAccountName is the ledger account name for invoice lines.
	EnvInvoiceAccountName = "INVOICE_ACCOUNT_NAME"

	// EnvInvoiceBinLocation is the warehouse bin location for invoice lines.
	EnvInvoiceBinLocation = "INVOICE_BIN_LOCATION"

	// EnvInvoiceClassificationCode is the MyInvois classification code.
	EnvInvoiceClassificationCode = "INVOICE_CLASSIFICATION_CODE"

	// EnvInvoiceClassificationName is the MyInvois classification description.
	EnvInvoiceClassificationName = "INVOICE_CLASSIFICATION_NAME"

	// EnvInvoiceTaxCode is the tax code label for invoice lines.
	EnvInvoiceTaxCode = "INVOICE_TAX_CODE"

	// EnvInvoiceTaxCodeID is the tax code ID for invoice lines.
	EnvInvoiceTaxCodeID = "INVOICE_TAX_CODE_ID"

	// EnvInvoiceTermID is the payment term ID applied to invoices.
	EnvInvoiceTermID = "INVOICE_TERM_ID"

	// EnvInvoiceTermName is the payment term name applied to invoices.
	EnvInvoiceTermName = "INVOICE_TERM_NAME"

	// EnvInvoiceUnitID is the unit-of-measure ID for invoice lines.
	EnvInvoiceUnitID = "INVOICE_UNIT_ID"

	// EnvInvoiceUnitLabel is the unit-of-measure label for invoice lines.
	EnvInvoiceUnitLabel = "INVOICE_UNIT_LABEL"

	// EnvInvoicesTableName is the DynamoDB table for invoice mappings.
	EnvInvoicesTableName = "DYNAMODB_INVOICES_TABLE"

	// EnvProductsTableName is the DynamoDB table for product mappings.
	EnvProductsTableName = "DYNAMODB_PRODUCTS_TABLE"

	// EnvSSMParameterPrefix is the SSM parameter prefix for sync cursors.
	EnvSSMParameterPrefix = "SSM_PARAMETER_PREFIX"
)

// Billing holds billing database configuration.
type Billing struct {
	// DatabaseDSN is the MySQL DSN for the billing database.
	DatabaseDSN string
}

// Bukku holds Bukku API configuration.
type Bukku struct {
	// APIBaseURL is the base URL for API requests.
	APIBaseURL string

	// APIToken is a token supplied directly via the environment,
	// used for local runs instead of Secrets Manager.
	APIToken string

	// TokenSecretARN is the Secrets Manager ARN storing the API token.
	TokenSecretARN string
}

// DynamoDB holds AWS DynamoDB configuration, one mapping table per
// entity kind.
type DynamoDB struct {
	// ContactsTable is the table tracking contact mappings.
	ContactsTable string

	// InvoicesTable is the table tracking invoice mappings.
	InvoicesTable string

	// ProductsTable is the table tracking product mappings.
	ProductsTable string
}

// InvoiceDefaults holds ledger, tax, and term values applied to every
// invoice line sent to Bukku. These are company bookkeeping choices,
// not derivable from billing data.
type InvoiceDefaults struct {
	// AccountCode is the sales ledger account code.
	AccountCode string

	// AccountID is the sales ledger account ID.
	AccountID int64

	// AccountName is the sales ledger account name.
	AccountName string

	// BinLocation is the warehouse bin location (optional).
	BinLocation string

	// ClassificationCode is the MyInvois classification code.
	ClassificationCode string

	// ClassificationName is the MyInvois classification description.
	ClassificationName string

	// TaxCode is the tax code label.
	TaxCode string

	// TaxCodeID is the tax code ID.
	TaxCodeID int64

	// TermID is the payment term ID.
	TermID int64

	// TermName is the payment term name.
	TermName string

	// UnitID is the unit-of-measure ID.
	UnitID int64

	// UnitLabel is the unit-of-measure label.
	UnitLabel string
}

// SSM holds AWS Systems Manager Parameter Store configuration.
type SSM struct {
	// ParameterPrefix is the prefix under which per-entity sync
	// cursors are stored.
	ParameterPrefix string
}

// Settings holds all configuration for the application.
type Settings struct {
	// Billing contains billing database settings.
	Billing Billing

	// Bukku contains Bukku API settings.
	Bukku Bukku

	// DryRun indicates whether to skip writes to Bukku.
	DryRun bool

	// DynamoDB contains AWS DynamoDB settings.
	DynamoDB DynamoDB

	// InvoiceDefaults contains bookkeeping values applied to invoices.
	InvoiceDefaults InvoiceDefaults

	// SSM contains AWS Systems Manager Parameter Store settings.
	SSM SSM
}

func (s *Settings) validate() error {
	var errs []error

	if s.Billing.DatabaseDSN == "" {
		errs = append(errs, requiredError(EnvBillingDatabaseDSN))
	}
	if s.Bukku.APIToken == "" && s.Bukku.TokenSecretARN == "" {
		errs = append(errs, fmt.Errorf("one of %s or %s is required",
			EnvBukkuAPIToken, EnvBukkuTokenSecretARN))
	}
	if s.DynamoDB.ContactsTable == "" {
		errs = append(errs, requiredError(EnvContactsTableName))
	}
	if s.DynamoDB.InvoicesTable == "" {
		errs = append(errs, requiredError(EnvInvoicesTableName))
	}
	if s.DynamoDB.ProductsTable == "" {
		errs = append(errs, requiredError(EnvProductsTableName))
	}
	if s.SSM.ParameterPrefix == "" {
		errs = append(errs, requiredError(EnvSSMParameterPrefix))
	}

	return errors.Join(errs...)
}

// Load reads configuration from environment variables.
func Load() (*Settings, error) {
	accountID, err := envInt64OrDefault(EnvInvoiceAccountID, 20)
	if err != nil {
		return nil, err
	}
	taxCodeID, err := envInt64OrDefault(EnvInvoiceTaxCodeID, 22)
	if err != nil {
		return nil, err
	}
	termID, err := envInt64OrDefault(EnvInvoiceTermID, 3)
	if err != nil {
		return nil, err
	}
	unitID, err := envInt64OrDefault(EnvInvoiceUnitID, 3)
	if err != nil {
		return nil, err
	}

	cfg := &Settings{
		Billing: Billing{
			DatabaseDSN: strings.TrimSpace(os.Getenv(EnvBillingDatabaseDSN)),
		},
		Bukku: Bukku{
			APIBaseURL:     envOrDefault(EnvBukkuAPIBaseURL, "https://api.bukku.my"),
			APIToken:       strings.TrimSpace(os.Getenv(EnvBukkuAPIToken)),
			TokenSecretARN: strings.TrimSpace(os.Getenv(EnvBukkuTokenSecretARN)),
		},
		DryRun: envBool(EnvDryRun),
		DynamoDB: DynamoDB{
			ContactsTable: strings.TrimSpace(os.Getenv(EnvContactsTableName)),
			InvoicesTable: strings.TrimSpace(os.Getenv(EnvInvoicesTableName)),
			ProductsTable: strings.TrimSpace(os.Getenv(EnvProductsTableName)),
		},
		InvoiceDefaults: InvoiceDefaults{
			AccountCode:        envOrDefault(EnvInvoiceAccountCode, "5000-00"),
			AccountID:          accountID,
			AccountName:        envOrDefault(EnvInvoiceAccountName, "Sales"),
			BinLocation:        strings.TrimSpace(os.Getenv(EnvInvoiceBinLocation)),
			ClassificationCode: envOrDefault(EnvInvoiceClassificationCode, "008"),
			ClassificationName: envOrDefault(EnvInvoiceClassificationName, "e-Commerce - e-Invoice to buyer / purchaser"),
			TaxCode:            envOrDefault(EnvInvoiceTaxCode, "SV8"),
			TaxCodeID:          taxCodeID,
			TermID:             termID,
			TermName:           envOrDefault(EnvInvoiceTermName, "NET30"),
			UnitID:             unitID,
			UnitLabel:          envOrDefault(EnvInvoiceUnitLabel, "yearly"),
		},
		SSM: SSM{
			ParameterPrefix: strings.TrimSpace(os.Getenv(EnvSSMParameterPrefix)),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envBool(key string) bool {
	value := strings.TrimSpace(os.Getenv(key))
	b, _ := strconv.ParseBool(value)
	return b
}

func envInt64OrDefault(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func envOrDefault(key string, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func requiredError(envVar string) error {
	return fmt.Errorf("%s is required", envVar)
}
