package encryption

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20Service encrypts storage values with ChaCha20-Poly1305. It
// produces the same base64(nonce || ciphertext) framing as Service, so
// the two are interchangeable behind Encryptor; only the cipher
// differs. Prefer it on devices without AES hardware acceleration.
type ChaCha20Service struct {
	aead cipher.AEAD
}

// NewChaCha20 creates a ChaCha20-Poly1305 encryptor. The key passes
// through the same SHA-256 derivation as the AES service.
func NewChaCha20(key string) (*ChaCha20Service, error) {
	aead, err := chacha20poly1305.New(deriveKey(key))
	if err != nil {
		return nil, fmt.Errorf("create chacha20: %w", err)
	}

	return &ChaCha20Service{aead: aead}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
func (s *ChaCha20Service) Encrypt(plaintext string) (string, error) {
	return sealString(s.aead, plaintext)
}

// Decrypt opens a value produced by Encrypt.
func (s *ChaCha20Service) Decrypt(ciphertext string) (string, error) {
	return openString(s.aead, ciphertext)
}
