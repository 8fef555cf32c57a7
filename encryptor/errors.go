package encryptor

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned for cipher suites that cannot be used.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrInvalidKey is returned for key material that cannot be used.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidIV is returned when the IV does not match the suite's IV length.
	ErrInvalidIV = errors.New("invalid iv")
	// ErrEncryptionFailed is returned when the cipher rejects the plaintext.
	ErrEncryptionFailed = errors.New("encryption failed")
	// ErrDecryptionFailed is returned when ciphertext cannot be decoded or decrypted.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrDecode is returned for text that is not valid in the configured Output.
	ErrDecode = errors.New("malformed encoded input")
)
