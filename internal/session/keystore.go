// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/fintrack-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// nonceSize is the AES-GCM nonce size (96 bits).
	nonceSize = 12
	// keySize is the AES-256 key size.
	keySize = 32
	// saltSize is the per-seal key-derivation salt size.
	saltSize = 16
	// secretSize is the size of the machine-local secret.
	secretSize = 32
	// kdfIterations is the PBKDF2-SHA-256 iteration count. The secret is
	// already high-entropy random bytes, so a modest count is enough; the
	// derivation exists to bind each sealed file to its own salt.
	kdfIterations = 4096

	tokenFile  = "token.bin"
	secretFile = "token.key"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoToken indicates no token has been persisted.
	ErrNoToken = errors.New("no stored token")
	// ErrUnsealFailed indicates the stored token could not be decrypted
	// (wrong key or tampered file).
	ErrUnsealFailed = errors.New("token unseal failed: authentication tag mismatch")
)

// =============================================================================
// KEYSTORE
// =============================================================================

// Keystore persists the API token sealed with AES-256-GCM. The sealing key
// is derived from a random machine-local secret, so the token file is
// useless when copied to another machine without its sibling key file.
//
// File layout under dir (both 0600):
//
//	token.key  machine-local secret (random bytes)
//	token.bin  salt || nonce || ciphertext || tag
type Keystore struct {
	dir string
}

// NewKeystore creates a keystore rooted at dir. The directory is created
// lazily on first Save.
func NewKeystore(dir string) *Keystore {
	return &Keystore{dir: dir}
}

// Save seals the token and writes it to disk.
// RELIABILITY: atomic write with fsync prevents a torn token file on crash.
func (k *Keystore) Save(token string) error {
	if token == "" {
		return errors.New("refusing to store empty token")
	}

	secret, err := k.loadOrCreateSecret()
	if err != nil {
		return err
	}
	defer zeroBytes(secret)

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newCipher(secret, salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := make([]byte, 0, saltSize+nonceSize+len(token)+gcm.Overhead())
	sealed = append(sealed, salt...)
	sealed = append(sealed, nonce...)
	sealed = gcm.Seal(sealed, nonce, []byte(token), nil)

	if err := util.AtomicWriteFile(filepath.Join(k.dir, tokenFile), sealed, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads and unseals the persisted token. Returns ErrNoToken when
// nothing is stored.
func (k *Keystore) Load() (string, error) {
	sealed, err := os.ReadFile(filepath.Join(k.dir, tokenFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	if len(sealed) < saltSize+nonceSize {
		return "", ErrUnsealFailed
	}

	secret, err := os.ReadFile(filepath.Join(k.dir, secretFile))
	if err != nil {
		if os.IsNotExist(err) {
			// Token file without its key file: unrecoverable.
			return "", ErrUnsealFailed
		}
		return "", fmt.Errorf("failed to read key file: %w", err)
	}
	defer zeroBytes(secret)

	salt := sealed[:saltSize]
	nonce := sealed[saltSize : saltSize+nonceSize]
	ciphertext := sealed[saltSize+nonceSize:]

	gcm, err := newCipher(secret, salt)
	if err != nil {
		return "", err
	}

	token, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrUnsealFailed
	}
	return string(token), nil
}

// Delete removes the persisted token. Removing an absent token is not an
// error. The machine-local secret is kept for the next login.
func (k *Keystore) Delete() error {
	if err := os.Remove(filepath.Join(k.dir, tokenFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Exists reports whether a token is persisted.
func (k *Keystore) Exists() bool {
	_, err := os.Stat(filepath.Join(k.dir, tokenFile))
	return err == nil
}

// =============================================================================
// HELPERS
// =============================================================================

// loadOrCreateSecret returns the machine-local secret, generating it on
// first use.
func (k *Keystore) loadOrCreateSecret() ([]byte, error) {
	path := filepath.Join(k.dir, secretFile)
	secret, err := os.ReadFile(path)
	if err == nil {
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	if err := os.MkdirAll(k.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}
	secret = make([]byte, secretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	if err := util.AtomicWriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return secret, nil
}

// newCipher derives the sealing key from the secret and salt and returns a
// ready AES-256-GCM AEAD.
func newCipher(secret, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(secret, salt, kdfIterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return gcm, nil
}

// zeroBytes zeros sensitive byte slices.
// SECURITY: limits key material exposure in crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
