package storage

import (
	"context"

	"github.com/faithfulcoronel/stewardtrack-sub004/encryption"
	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
)

// encryptedAdapter decorates an Adapter so that values are encrypted
// at rest. Keys stay in plaintext: namespace filtering and enumeration
// must keep working against the backend's key listing.
type encryptedAdapter struct {
	inner Adapter
	enc   encryption.Encryptor
}

// WithEncryption wraps an adapter with value encryption. Everything
// written through the returned adapter is encrypted; everything read
// is decrypted. Values written before encryption was enabled fail to
// decrypt and surface as errors rather than garbage.
func WithEncryption(inner Adapter, enc encryption.Encryptor) Adapter {
	return &encryptedAdapter{inner: inner, enc: enc}
}

func (e *encryptedAdapter) SetItem(ctx context.Context, key, value string) error {
	sealed, err := e.enc.Encrypt(value)
	if err != nil {
		return apperrors.EncryptionFailed(err)
	}
	return e.inner.SetItem(ctx, key, sealed)
}

func (e *encryptedAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := e.inner.GetItem(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	value, err := e.enc.Decrypt(sealed)
	if err != nil {
		return "", false, apperrors.EncryptionFailed(err)
	}
	return value, true, nil
}

func (e *encryptedAdapter) RemoveItem(ctx context.Context, key string) error {
	return e.inner.RemoveItem(ctx, key)
}

func (e *encryptedAdapter) Keys(ctx context.Context) ([]string, error) {
	return e.inner.Keys(ctx)
}

func (e *encryptedAdapter) Clear(ctx context.Context) error {
	return e.inner.Clear(ctx)
}

func (e *encryptedAdapter) Close() error {
	return e.inner.Close()
}
