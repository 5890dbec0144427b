package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI defines the Secrets Manager operations used by the
// token store.
type SecretsManagerAPI interface {
	// GetSecretValue retrieves a secret value.
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// TokenStore provides the Bukku API token from AWS Secrets Manager.
type TokenStore struct {
	// client is the Secrets Manager API client.
	client SecretsManagerAPI

	// secretARN is the ARN of the secret storing the API token.
	secretARN string
}

// NewTokenStore creates a new Secrets Manager-backed token store.
func NewTokenStore(client SecretsManagerAPI, secretARN string) (*TokenStore, error) {
	if client == nil {
		return nil, errors.New("secrets manager client is required")
	}
	if secretARN == "" {
		return nil, errors.New("secret ARN is required")
	}

	return &TokenStore{
		client:    client,
		secretARN: secretARN,
	}, nil
}

// APIToken returns the current API token from Secrets Manager.
func (t *TokenStore) APIToken(ctx context.Context) (string, error) {
	output, err := t.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(t.secretARN),
	})
	if err != nil {
		return "", fmt.Errorf("getting secret from Secrets Manager: %w", err)
	}

	if output.SecretString == nil {
		return "", errors.New("secret has no string value")
	}

	return strings.TrimSpace(*output.SecretString), nil
}

// StaticToken is a fixed API token, used when the token is supplied
// directly through configuration.
type StaticToken string

// APIToken returns the token itself.
func (t StaticToken) APIToken(_ context.Context) (string, error) {
	if t == "" {
		return "", errors.New("api token is empty")
	}
	return string(t), nil
}
