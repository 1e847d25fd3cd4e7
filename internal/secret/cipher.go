// Package secret implements the at-rest protection scheme for provider
// API keys: AES-256-GCM with a per-seal random nonce, encoded as a
// colon-delimited hex triple "nonce:tag:ciphertext". Values that do not
// match that shape are treated as legacy plaintext on read, which keeps
// pre-encryption rows readable without a migration.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	app_errors "lumen-ai/backend/internal/errors"
)

const (
	keySize         = 32 // AES-256
	fingerprintSize = 16 // hex chars
)

// Cipher seals and opens credential strings under a process-wide key.
// It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a hex-encoded 32-byte key. An empty key is a
// hard error when requirePersistentKey is set; otherwise a random
// process-lifetime key is generated and a degraded-mode warning is
// logged, since anything sealed under it is unreadable after a restart.
func New(hexKey string, requirePersistentKey bool) (*Cipher, error) {
	var key []byte
	switch {
	case hexKey != "":
		var err error
		key, err = hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
		}
		if len(key) != keySize {
			return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(key))
		}
	case requirePersistentKey:
		return nil, fmt.Errorf("ENCRYPTION_KEY is not set but a persistent key is required")
	default:
		key = make([]byte, keySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("could not generate ephemeral encryption key: %w", err)
		}
		slog.Warn("ENCRYPTION_KEY not set, using an ephemeral key; sealed credentials will not survive a restart")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not initialize GCM: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext and returns the at-rest token. A fresh random
// nonce is drawn on every call; reusing a nonce under a fixed key would
// void the GCM guarantees entirely. Seal never degrades to returning
// the plaintext: any failure is reported to the caller.
func (c *Cipher) Seal(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	// GCM appends the tag to the ciphertext; split it back out so the
	// stored token keeps the historical nonce:tag:ciphertext layout.
	tagStart := len(sealed) - c.aead.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	), nil
}

// Open recovers the plaintext from a stored value. Legacy values that
// do not parse as a sealed token pass through unchanged. A value that
// does parse but fails authentication is reported as ErrCredentialCorrupt,
// never silently treated as absent or returned as-is.
func (c *Cipher) Open(stored string) (string, error) {
	tok := parseToken(stored)
	if tok.legacy {
		return tok.plaintext, nil
	}
	if len(tok.nonce) != c.aead.NonceSize() {
		return "", fmt.Errorf("%w: unexpected nonce length %d", app_errors.ErrCredentialCorrupt, len(tok.nonce))
	}

	sealed := append(append([]byte{}, tok.ciphertext...), tok.tag...)
	plaintext, err := c.aead.Open(nil, tok.nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", app_errors.ErrCredentialCorrupt)
	}
	return string(plaintext), nil
}

// Fingerprint returns a short one-way digest of a credential, suitable
// for equality checks and display without exposing the secret.
func Fingerprint(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])[:fingerprintSize]
}

// token is the tagged parse result of a stored credential value:
// either a legacy plaintext or a sealed nonce/tag/ciphertext triple.
type token struct {
	legacy     bool
	plaintext  string
	nonce      []byte
	tag        []byte
	ciphertext []byte
}

// parseToken classifies a stored value. Only a string of exactly three
// colon-separated hex fields counts as sealed; everything else is a
// legacy plaintext. An empty ciphertext field is legal (the empty
// string seals to zero ciphertext bytes plus a tag).
func parseToken(s string) token {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return token{legacy: true, plaintext: s}
	}
	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) == 0 {
		return token{legacy: true, plaintext: s}
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) == 0 {
		return token{legacy: true, plaintext: s}
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return token{legacy: true, plaintext: s}
	}
	return token{nonce: nonce, tag: tag, ciphertext: ciphertext}
}
