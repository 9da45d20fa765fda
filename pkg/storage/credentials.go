package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

// CredentialStore encodes integration credentials as JSON blobs in a SecretStore.
type CredentialStore struct {
	secrets SecretStore
}

func NewCredentialStore(secrets SecretStore) *CredentialStore {
	return &CredentialStore{secrets: secrets}
}

// Save replaces the credentials stored under key.
func (c *CredentialStore) Save(ctx context.Context, key string, creds integrations.Credentials) error {
	if key == "" {
		return fmt.Errorf("credentials key is required")
	}
	if creds.Custom == nil {
		creds.Custom = map[string]string{}
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := c.secrets.SetSecret(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// Load returns the credentials stored under key, or ErrCredentialsNotFound.
func (c *CredentialStore) Load(ctx context.Context, key string) (*integrations.Credentials, error) {
	data, err := c.secrets.GetSecret(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	var creds integrations.Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	if creds.Custom == nil {
		creds.Custom = map[string]string{}
	}
	return &creds, nil
}

// Delete removes the credentials stored under key.
func (c *CredentialStore) Delete(ctx context.Context, key string) error {
	if err := c.secrets.DeleteSecret(ctx, key); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
