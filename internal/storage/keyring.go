package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "b3uf-backoffice"

// KeyringStore persists the session in the OS keychain/credential manager
type KeyringStore struct {
	service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

func (k *KeyringStore) Load() (Record, error) {
	token, err := keyring.Get(k.service, TokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		return Record{}, ErrNotFound
	}

	user, err := keyring.Get(k.service, UserKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return Record{}, fmt.Errorf("failed to load user: %w", err)
	}

	return Record{Token: token, User: user}, nil
}

// Save writes both entries. If the user entry cannot be written the token
// is removed again so the keychain never holds only half a session.
func (k *KeyringStore) Save(rec Record) error {
	if err := keyring.Set(k.service, TokenKey, rec.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := keyring.Set(k.service, UserKey, rec.User); err != nil {
		_ = keyring.Delete(k.service, TokenKey)
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear() error {
	var errs []error
	for _, key := range []string{TokenKey, UserKey} {
		if err := keyring.Delete(k.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
