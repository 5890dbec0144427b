// Package storage provides persistence implementations for the sync service.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/gbnetwork/bukkubridge/internal/sync"
)

// DynamoDBAPI defines the DynamoDB operations used by the mapping store.
type DynamoDBAPI interface {
	// GetItem retrieves an item from DynamoDB.
	GetItem(
		ctx context.Context,
		params *dynamodb.GetItemInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)

	// Scan retrieves all items from a DynamoDB table.
	Scan(
		ctx context.Context,
		params *dynamodb.ScanInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.ScanOutput, error)

	// UpdateItem creates or updates an item in DynamoDB.
	UpdateItem(
		ctx context.Context,
		params *dynamodb.UpdateItemInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.UpdateItemOutput, error)
}

// MappingStore persists sync mapping records in a DynamoDB table keyed
// on source_id. One store instance serves one entity kind.
type MappingStore struct {
	// client is the DynamoDB API client.
	client DynamoDBAPI

	// tableName is the name of the DynamoDB table.
	tableName string
}

// NewMappingStore creates a new DynamoDB-backed mapping store.
func NewMappingStore(client DynamoDBAPI, tableName string) (*MappingStore, error) {
	if client == nil {
		return nil, errors.New("dynamodb client is required")
	}
	if tableName == "" {
		return nil, errors.New("table name is required")
	}

	return &MappingStore{
		client:    client,
		tableName: tableName,
	}, nil
}

// Get returns the mapping record for a source ID, or nil if none exists.
func (s *MappingStore) Get(ctx context.Context, sourceID int64) (*sync.MappingRecord, error) {
	output, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"source_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(sourceID, 10)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting item from DynamoDB: %w", err)
	}

	if output.Item == nil {
		return nil, nil
	}

	record, err := parseMappingRecord(output.Item)
	if err != nil {
		return nil, fmt.Errorf("parsing item: %w", err)
	}

	return &record, nil
}

// List returns all mapping records in the table.
func (s *MappingStore) List(ctx context.Context) ([]sync.MappingRecord, error) {
	var records []sync.MappingRecord
	var startKey map[string]types.AttributeValue

	for {
		output, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning DynamoDB: %w", err)
		}

		for _, item := range output.Items {
			record, err := parseMappingRecord(item)
			if err != nil {
				return nil, fmt.Errorf("parsing item: %w", err)
			}
			records = append(records, record)
		}

		if output.LastEvaluatedKey == nil {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	return records, nil
}

// Upsert creates or updates the mapping record keyed on its source ID.
// A zero TargetID leaves any previously stored target ID untouched, so
// a failed attempt never erases the link from an earlier success. A
// successful record clears any stored error message.
func (s *MappingStore) Upsert(ctx context.Context, record sync.MappingRecord) error {
	if record.SourceID == 0 {
		return errors.New("source ID is required")
	}

	sets := []string{"#status = :status"}
	values := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: string(record.Status)},
	}
	names := map[string]string{
		"#status": "status",
	}

	if record.TargetID != 0 {
		sets = append(sets, "target_id = :target_id")
		values[":target_id"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.TargetID, 10)}
	}
	if record.DisplayName != "" {
		sets = append(sets, "display_name = :display_name")
		values[":display_name"] = &types.AttributeValueMemberS{Value: record.DisplayName}
	}
	if record.Email != "" {
		sets = append(sets, "email = :email")
		values[":email"] = &types.AttributeValueMemberS{Value: record.Email}
	}
	if !record.Price.IsZero() {
		sets = append(sets, "price = :price")
		values[":price"] = &types.AttributeValueMemberN{Value: record.Price.String()}
	}
	if !record.LastSyncedAt.IsZero() {
		sets = append(sets, "last_synced_at = :last_synced_at")
		values[":last_synced_at"] = &types.AttributeValueMemberS{Value: record.LastSyncedAt.Format(time.RFC3339)}
	}

	expression := "SET " + strings.Join(sets, ", ")
	if record.ErrorMessage != "" {
		expression += ", error_message = :error_message"
		values[":error_message"] = &types.AttributeValueMemberS{Value: record.ErrorMessage}
	} else {
		expression += " REMOVE error_message"
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"source_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(record.SourceID, 10)},
		},
		UpdateExpression:          aws.String(expression),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("updating item in DynamoDB: %w", err)
	}

	return nil
}

func parseMappingRecord(item map[string]types.AttributeValue) (sync.MappingRecord, error) {
	record := sync.MappingRecord{}

	if v, ok := item["source_id"].(*types.AttributeValueMemberN); ok {
		id, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return record, fmt.Errorf("parsing source_id: %w", err)
		}
		record.SourceID = id
	}
	if v, ok := item["target_id"].(*types.AttributeValueMemberN); ok {
		id, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return record, fmt.Errorf("parsing target_id: %w", err)
		}
		record.TargetID = id
	}
	if v, ok := item["status"].(*types.AttributeValueMemberS); ok {
		record.Status = sync.SyncStatus(v.Value)
	}
	if v, ok := item["display_name"].(*types.AttributeValueMemberS); ok {
		record.DisplayName = v.Value
	}
	if v, ok := item["email"].(*types.AttributeValueMemberS); ok {
		record.Email = v.Value
	}
	if v, ok := item["price"].(*types.AttributeValueMemberN); ok {
		price, err := decimal.NewFromString(v.Value)
		if err != nil {
			return record, fmt.Errorf("parsing price: %w", err)
		}
		record.Price = price
	}
	if v, ok := item["error_message"].(*types.AttributeValueMemberS); ok {
		record.ErrorMessage = v.Value
	}
	if v, ok := item["last_synced_at"].(*types.AttributeValueMemberS); ok {
		t, err := time.Parse(time.RFC3339, v.Value)
		if err != nil {
			return record, fmt.Errorf("parsing last_synced_at: %w", err)
		}
		record.LastSyncedAt = t
	}

	return record, nil
}
