// Package encryption provides authenticated encryption for values held
// in bridge storage.
//
// Passphrases are hashed with SHA-256 into cipher keys, so hosts hand
// over whatever secret they manage and the same passphrase always opens
// the store it wrote. Two AEAD ciphers are available: AES-256-GCM
// (default) and ChaCha20-Poly1305 for devices without AES hardware
// acceleration. The storage package wraps any adapter with an
// Encryptor to keep cached records opaque at rest.
//
// WithPreviousKeys keeps records readable across a passphrase
// rotation: retired passphrases still decrypt, new writes seal under
// the current one.
//
// # Usage
//
//	enc, err := encryption.New("my-secret-passphrase")
//	ciphertext, err := enc.Encrypt(plaintext)
//	plaintext, err := enc.Decrypt(ciphertext)
package encryption
