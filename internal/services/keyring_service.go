package services

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringServiceName = "sidesearch"

// KeyringService stores API keys in the operating system's credential
// store. Secrets never travel through the settings blobs and are never
// logged.
type KeyringService struct{}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) StoreAPIKey(account, apiKey string) error {
	if account == "" {
		return errors.New("account is required")
	}
	if apiKey == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(keyringServiceName, account, apiKey)
}

// GetAPIKey returns the stored key, or "" when the account has none.
func (s *KeyringService) GetAPIKey(account string) (string, error) {
	if account == "" {
		return "", errors.New("account is required")
	}
	secret, err := keyring.Get(keyringServiceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

func (s *KeyringService) DeleteAPIKey(account string) error {
	if account == "" {
		return errors.New("account is required")
	}
	err := keyring.Delete(keyringServiceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// HasAPIKey reports whether a non-empty key exists for the account.
func (s *KeyringService) HasAPIKey(account string) bool {
	secret, err := s.GetAPIKey(account)
	return err == nil && secret != ""
}
