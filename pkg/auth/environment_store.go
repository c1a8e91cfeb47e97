package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables
// This is primarily for drop-in use in CI and containers
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	email := firstEnv("XSCRAPER_EMAIL", "TW_EMAIL")
	username := firstEnv("XSCRAPER_USERNAME", "TW_USERNAME", "TWITTER_USERNAME")
	password := firstEnv("XSCRAPER_PASSWORD", "TW_PASSWORD", "TWITTER_PASSWORD")

	if password == "" || (email == "" && username == "") {
		return nil, ErrCredentialsNotFound
	}

	// Environment variables don't carry an account name, so we use
	// "default" or the provided one
	if name == "" {
		name = "default"
	}

	return &Account{
		Name:     name,
		Username: username,
		Email:    email,
		Password: password,
		LastUsed: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}

// firstEnv returns the first non-empty value among the named variables
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
