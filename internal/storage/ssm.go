package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// SSMAPI defines the SSM operations used by the state store.
type SSMAPI interface {
	// GetParameter retrieves a parameter from SSM.
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)

	// PutParameter stores a parameter in SSM.
	PutParameter(
		ctx context.Context,
		params *ssm.PutParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.PutParameterOutput, error)
}

// StateStore manages sync cursors in AWS SSM Parameter Store. Each
// entity kind keeps its own last-sync timestamp under a shared prefix.
type StateStore struct {
	// client is the SSM API client.
	client SSMAPI

	// prefix is the parameter name prefix, without a trailing slash.
	prefix string
}

// NewStateStore creates a new SSM-backed state store.
func NewStateStore(client SSMAPI, prefix string) (*StateStore, error) {
	if client == nil {
		return nil, errors.New("ssm client is required")
	}
	if prefix == "" {
		return nil, errors.New("parameter prefix is required")
	}

	return &StateStore{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
	}, nil
}

// parameterName returns the SSM parameter name for an entity kind's
// sync cursor, e.g. "/bukkubridge/invoices/last-sync-time".
func (s *StateStore) parameterName(kind string) string {
	return s.prefix + "/" + kind + "/last-sync-time"
}

// LastSyncTime returns the timestamp of the last successful sync for an
// entity kind. A missing parameter yields the zero time.
func (s *StateStore) LastSyncTime(ctx context.Context, kind string) (time.Time, error) {
	output, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(s.parameterName(kind)),
	})
	if err != nil {
		var notFoundErr *types.ParameterNotFound
		if errors.As(err, &notFoundErr) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("getting parameter from SSM: %w", err)
	}

	if output.Parameter == nil || output.Parameter.Value == nil {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, *output.Parameter.Value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time from parameter: %w", err)
	}

	return t, nil
}

// SetLastSyncTime updates the last sync timestamp for an entity kind.
func (s *StateStore) SetLastSyncTime(ctx context.Context, kind string, t time.Time) error {
	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(s.parameterName(kind)),
		Overwrite: aws.Bool(true),
		Type:      types.ParameterTypeString,
		Value:     aws.String(t.Format(time.RFC3339)),
	})
	if err != nil {
		return fmt.Errorf("putting parameter to SSM: %w", err)
	}

	return nil
}
