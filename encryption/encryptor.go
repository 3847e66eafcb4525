package encryption

// Encryptor is the cipher surface the storage layer writes through.
// Implementations seal and open individual string values; framing and
// key derivation are shared, so ciphertexts are portable between
// stores using the same algorithm and passphrase.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Algorithm names a supported cipher. The storage config carries these
// values verbatim.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM (default, widely supported).
	AlgorithmAESGCM Algorithm = "aes-256-gcm"

	// AlgorithmChaCha20 is ChaCha20-Poly1305 (fast on CPUs without AES-NI).
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Option configures the encryption service.
type Option func(*options)

type options struct {
	algorithm Algorithm
	previous  []string
}

// WithAlgorithm selects the cipher (default: AES-256-GCM).
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// WithPreviousKeys supplies passphrases retired by rotation. Values
// sealed under any of them still open; new values seal under the
// current passphrase only, so records migrate as they are rewritten.
func WithPreviousKeys(keys ...string) Option {
	return func(o *options) { o.previous = append(o.previous, keys...) }
}

// New creates an Encryptor for the given passphrase. The default
// cipher is AES-256-GCM; pass WithAlgorithm(AlgorithmChaCha20) for
// ChaCha20-Poly1305. With WithPreviousKeys the result also decrypts
// values sealed under earlier passphrases.
func New(key string, opts ...Option) (Encryptor, error) {
	o := &options{algorithm: AlgorithmAESGCM}
	for _, opt := range opts {
		opt(o)
	}

	current, err := newCipher(o.algorithm, key)
	if err != nil {
		return nil, err
	}
	if len(o.previous) == 0 {
		return current, nil
	}

	ring := &keyring{current: current}
	for _, k := range o.previous {
		enc, err := newCipher(o.algorithm, k)
		if err != nil {
			return nil, err
		}
		ring.retired = append(ring.retired, enc)
	}
	return ring, nil
}

func newCipher(alg Algorithm, key string) (Encryptor, error) {
	switch alg {
	case AlgorithmChaCha20:
		return NewChaCha20(key)
	default:
		return NewService(key)
	}
}

// keyring seals with the current passphrase and opens with any known
// one, so rotating the passphrase does not orphan records written
// before the rotation.
type keyring struct {
	current Encryptor
	retired []Encryptor
}

func (r *keyring) Encrypt(plaintext string) (string, error) {
	return r.current.Encrypt(plaintext)
}

// Decrypt tries the current passphrase first, then retired ones in the
// order given. When nothing opens the value, the current key's error
// is returned.
func (r *keyring) Decrypt(ciphertext string) (string, error) {
	plaintext, err := r.current.Decrypt(ciphertext)
	if err == nil {
		return plaintext, nil
	}
	for _, enc := range r.retired {
		if p, rErr := enc.Decrypt(ciphertext); rErr == nil {
			return p, nil
		}
	}
	return "", err
}
