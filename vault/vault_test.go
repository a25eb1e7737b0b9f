package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
)

func TestVault_FallbackFile(t *testing.T) {
	dir := t.TempDir()
	v, err := NewWithKeyring(nil, dir)
	if err != nil {
		t.Fatalf("NewWithKeyring failed: %v", err)
	}

	if _, err := v.Get(APIKeyName); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := v.Set(APIKeyName, "sk-test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := v.Get(APIKeyName)
	if err != nil || got != "sk-test" {
		t.Fatalf("expected sk-test, got %q (%v)", got, err)
	}

	info, err := os.Stat(filepath.Join(dir, "secrets.json"))
	if err != nil {
		t.Fatalf("expected fallback file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	if err := v.Delete(APIKeyName); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := v.Get(APIKeyName); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected key to be deleted, got %v", err)
	}
}

func TestVault_PrefersKeyring(t *testing.T) {
	dir := t.TempDir()
	ring := keyring.NewArrayKeyring(nil)
	v, err := NewWithKeyring(ring, dir)
	if err != nil {
		t.Fatalf("NewWithKeyring failed: %v", err)
	}

	if err := v.Set(APIKeyName, "sk-ring"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if item, err := ring.Get(APIKeyName); err != nil || string(item.Data) != "sk-ring" {
		t.Fatalf("expected secret in keyring, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "secrets.json")); !os.IsNotExist(err) {
		t.Fatalf("fallback file should not be written when the keyring works")
	}

	if err := v.Delete(APIKeyName); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := v.Get(APIKeyName); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected key to be deleted, got %v", err)
	}
}
