// Package vault stores the provider API key in the OS keyring, falling
// back to a private file when no keyring is available.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/99designs/keyring"
)

// APIKeyName is the vault key for the completion provider credential
const APIKeyName = "openai_api_key"

// ErrNotFound is returned by Get for unknown keys
var ErrNotFound = errors.New("secret not found in vault")

// Vault handles credential storage
type Vault struct {
	ring         keyring.Keyring
	fallbackPath string
	mu           sync.RWMutex
}

// New opens the OS keyring for service. When it cannot be opened secrets
// are kept in <dataDir>/secrets.json with 0600 permissions.
func New(service, dataDir string) (*Vault, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
	})
	if err != nil {
		ring = nil
	}
	return NewWithKeyring(ring, dataDir)
}

// NewWithKeyring uses ring, which may be nil, in front of the fallback file
func NewWithKeyring(ring keyring.Keyring, dataDir string) (*Vault, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}
	return &Vault{
		ring:         ring,
		fallbackPath: filepath.Join(dataDir, "secrets.json"),
	}, nil
}

// Set stores a secret
func (v *Vault) Set(key, value string) error {
	if v.ring != nil {
		err := v.ring.Set(keyring.Item{
			Key:   key,
			Label: "lingo " + key,
			Data:  []byte(value),
		})
		if err == nil {
			return nil
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	secrets := v.readFallback()
	secrets[key] = value
	return v.writeFallback(secrets)
}

// Get retrieves a secret
func (v *Vault) Get(key string) (string, error) {
	if v.ring != nil {
		if item, err := v.ring.Get(key); err == nil {
			return string(item.Data), nil
		}
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if val, ok := v.readFallback()[key]; ok {
		return val, nil
	}
	return "", ErrNotFound
}

// Delete removes a secret from both the keyring and the fallback file
func (v *Vault) Delete(key string) error {
	if v.ring != nil {
		if err := v.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("failed to remove %s from keyring: %w", key, err)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	secrets := v.readFallback()
	if _, ok := secrets[key]; !ok {
		return nil
	}
	delete(secrets, key)
	return v.writeFallback(secrets)
}

func (v *Vault) readFallback() map[string]string {
	secrets := make(map[string]string)
	if data, err := os.ReadFile(v.fallbackPath); err == nil {
		json.Unmarshal(data, &secrets)
	}
	return secrets
}

func (v *Vault) writeFallback(secrets map[string]string) error {
	data, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling secrets: %w", err)
	}
	return os.WriteFile(v.fallbackPath, data, 0600)
}
