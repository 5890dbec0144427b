// Package main provides the entry point for the bukkubridge sync job.
// It runs as an AWS Lambda handler in production and as a plain process
// locally, reading a .env file when one is present.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/gbnetwork/bukkubridge/internal/billing"
	"github.com/gbnetwork/bukkubridge/internal/bukku"
	"github.com/gbnetwork/bukkubridge/internal/config"
	"github.com/gbnetwork/bukkubridge/internal/storage"
	"github.com/gbnetwork/bukkubridge/internal/sync"
)

// defaultInvoiceWindowMonths bounds the first invoice sync when no
// cursor has been recorded yet.
const defaultInvoiceWindowMonths = 3

const (
	kindContacts = "contacts"
	kindInvoices = "invoices"
	kindProducts = "products"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(handler)
		return
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	if err := handler(context.Background()); err != nil {
		slog.Error("sync failed", "error", err)
		os.Exit(1)
	}
}

func handler(ctx context.Context) error {
	start := time.Now()
	slog.InfoContext(ctx, "starting sync")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}

	if err := app.run(ctx, start); err != nil {
		return err
	}

	slog.InfoContext(ctx, "sync complete", "duration", time.Since(start).String())
	return nil
}

// application holds the wired services for one sync run.
type application struct {
	contacts *sync.ContactService
	invoices *sync.InvoiceService
	products *sync.ProductService
	source   *billing.Repository
	state    *storage.StateStore
}

// buildApplication wires configuration into the repositories, stores,
// and reconciliation services.
func buildApplication(ctx context.Context, cfg *config.Settings) (*application, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	tokens, err := tokenProvider(awsCfg, cfg)
	if err != nil {
		return nil, err
	}

	client, err := bukku.NewClient(tokens, bukku.WithBaseURL(cfg.Bukku.APIBaseURL))
	if err != nil {
		return nil, fmt.Errorf("creating Bukku client: %w", err)
	}

	var gateway sync.Gateway = client
	if cfg.DryRun {
		slog.Info("dry-run mode enabled, writes to Bukku will be skipped")
		gateway = sync.NewDryRunGateway(gateway, slog.Default())
	}

	db, err := gorm.Open(mysql.Open(cfg.Billing.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to billing database: %w", err)
	}

	source, err := billing.NewRepository(db)
	if err != nil {
		return nil, fmt.Errorf("creating billing repository: %w", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)

	contactStore, err := storage.NewMappingStore(dynamoClient, cfg.DynamoDB.ContactsTable)
	if err != nil {
		return nil, fmt.Errorf("creating contact mapping store: %w", err)
	}
	productStore, err := storage.NewMappingStore(dynamoClient, cfg.DynamoDB.ProductsTable)
	if err != nil {
		return nil, fmt.Errorf("creating product mapping store: %w", err)
	}
	invoiceStore, err := storage.NewMappingStore(dynamoClient, cfg.DynamoDB.InvoicesTable)
	if err != nil {
		return nil, fmt.Errorf("creating invoice mapping store: %w", err)
	}

	state, err := storage.NewStateStore(ssm.NewFromConfig(awsCfg), cfg.SSM.ParameterPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating state store: %w", err)
	}

	contacts, err := sync.NewContactService(sync.ContactConfig{
		Gateway: gateway,
		Logger:  slog.Default(),
		Source:  source,
		Store:   contactStore,
	})
	if err != nil {
		return nil, fmt.Errorf("creating contact service: %w", err)
	}

	products, err := sync.NewProductService(sync.ProductConfig{
		Gateway: gateway,
		Logger:  slog.Default(),
		Source:  source,
		Store:   productStore,
	})
	if err != nil {
		return nil, fmt.Errorf("creating product service: %w", err)
	}

	invoices, err := sync.NewInvoiceService(sync.InvoiceConfig{
		Contacts: contacts,
		Defaults: cfg.InvoiceDefaults,
		Gateway:  gateway,
		Logger:   slog.Default(),
		Source:   source,
		Store:    invoiceStore,
	})
	if err != nil {
		return nil, fmt.Errorf("creating invoice service: %w", err)
	}

	return &application{
		contacts: contacts,
		invoices: invoices,
		products: products,
		source:   source,
		state:    state,
	}, nil
}

// tokenProvider prefers a directly supplied API token over Secrets
// Manager, so local runs do not need AWS credentials for the token.
func tokenProvider(awsCfg aws.Config, cfg *config.Settings) (bukku.TokenProvider, error) {
	if cfg.Bukku.APIToken != "" {
		return storage.StaticToken(cfg.Bukku.APIToken), nil
	}

	tokens, err := storage.NewTokenStore(secretsmanager.NewFromConfig(awsCfg), cfg.Bukku.TokenSecretARN)
	if err != nil {
		return nil, fmt.Errorf("creating token store: %w", err)
	}
	return tokens, nil
}

// run executes the three reconciliation batches in dependency order:
// contacts and products first, invoices last.
func (a *application) run(ctx context.Context, start time.Time) error {
	contactIDs, err := a.source.CustomerIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing customers: %w", err)
	}
	contactSummary := sync.NewRunner(a.contacts, slog.Default()).Run(ctx, contactIDs)
	a.logSummary(ctx, kindContacts, contactSummary)
	a.recordCursor(ctx, kindContacts, start, contactSummary)

	productIDs, err := a.source.ProductIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing products: %w", err)
	}
	productSummary := sync.NewRunner(a.products, slog.Default()).Run(ctx, productIDs)
	a.logSummary(ctx, kindProducts, productSummary)
	a.recordCursor(ctx, kindProducts, start, productSummary)

	since, err := a.state.LastSyncTime(ctx, kindInvoices)
	if err != nil {
		return fmt.Errorf("loading invoice cursor: %w", err)
	}
	if since.IsZero() {
		since = start.AddDate(0, -defaultInvoiceWindowMonths, 0)
	}

	invoiceIDs, err := a.source.InvoiceIDsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("listing invoices: %w", err)
	}
	invoiceSummary := sync.NewRunner(a.invoices, slog.Default()).Run(ctx, invoiceIDs)
	a.logSummary(ctx, kindInvoices, invoiceSummary)
	a.recordCursor(ctx, kindInvoices, start, invoiceSummary)

	return nil
}

// logSummary reports the outcome counts for one batch.
func (a *application) logSummary(ctx context.Context, kind string, summary sync.Summary) {
	slog.InfoContext(ctx, "batch complete",
		"kind", kind,
		"total", summary.Total,
		"success", summary.Success,
		"failed", summary.Failed)
}

// recordCursor advances the sync cursor for a kind after a clean batch.
// A batch with failures leaves the cursor alone so failed records are
// retried on the next run.
func (a *application) recordCursor(ctx context.Context, kind string, start time.Time, summary sync.Summary) {
	if summary.Failed > 0 {
		return
	}
	if err := a.state.SetLastSyncTime(ctx, kind, start); err != nil {
		slog.ErrorContext(ctx, "recording sync cursor", "kind", kind, "error", err)
	}
}
