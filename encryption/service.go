package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// Service encrypts storage values with AES-256-GCM. Every value is
// sealed on its own, so one corrupted record fails decryption without
// taking the rest of the store with it.
type Service struct {
	gcm cipher.AEAD
}

// NewService creates an AES-256-GCM encryptor. The key may be any
// passphrase; it is hashed with SHA-256 into the 32-byte AES key, a
// given passphrase therefore always opens the store it wrote.
func NewService(key string) (*Service, error) {
	block, err := aes.NewCipher(deriveKey(key))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &Service{gcm: gcm}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
func (s *Service) Encrypt(plaintext string) (string, error) {
	return sealString(s.gcm, plaintext)
}

// Decrypt opens a value produced by Encrypt.
func (s *Service) Decrypt(ciphertext string) (string, error) {
	return openString(s.gcm, ciphertext)
}

// deriveKey hashes an arbitrary passphrase into the 32 bytes both
// supported ciphers want.
func deriveKey(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

func sealString(aead cipher.AEAD, plaintext string) (string, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func openString(aead cipher.AEAD, ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	nonceSize := aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	plaintext, err := aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}

	return string(plaintext), nil
}
