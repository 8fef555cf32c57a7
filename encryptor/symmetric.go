package encryptor

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"slices"

	"golang.org/x/crypto/chacha20poly1305"
)

type SymmetricConfig struct {
	Suite CipherSuite
	// Key is used as-is and must match the suite's key length.
	Key []byte
	// IV must match the suite's IV length. AEAD suites also accept an empty
	// IV, in which case a random nonce is generated and prefixed to every
	// ciphertext.
	IV     []byte
	Output Output
}

// Symmetric encrypts with a shared secret key.
type Symmetric struct {
	suite  CipherSuite
	spec   suiteSpec
	key    []byte
	iv     []byte
	output Output
}

// NewSymmetric validates the suite name. Key and IV lengths are checked on
// every Encrypt and Decrypt call.
func NewSymmetric(cfg SymmetricConfig) (*Symmetric, error) {
	suite, err := ParseCipherSuite(string(cfg.Suite))
	if err != nil {
		return nil, err
	}
	spec, err := suite.spec()
	if err != nil {
		return nil, err
	}
	return &Symmetric{
		suite:  suite,
		spec:   spec,
		key:    slices.Clone(cfg.Key),
		iv:     slices.Clone(cfg.IV),
		output: cfg.Output.orDefault(),
	}, nil
}

func (s *Symmetric) Suite() CipherSuite {
	return s.suite
}

func (s *Symmetric) Encrypt(plaintext []byte) (string, error) {
	if s.spec.keyLen == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s.suite)
	}
	ciphertext, err := s.seal(plaintext)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrEncryptionFailed, s.suite, err)
	}
	return s.output.Encode(ciphertext), nil
}

func (s *Symmetric) Decrypt(ciphertext string) ([]byte, error) {
	if s.spec.keyLen == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s.suite)
	}
	data, err := decodeCiphertext(s.output, ciphertext)
	if err != nil {
		return nil, err
	}
	plaintext, err := s.open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecryptionFailed, s.suite, err)
	}
	return plaintext, nil
}

func (s *Symmetric) seal(plaintext []byte) ([]byte, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	switch s.spec.mode {
	case modeCBC:
		block, err := s.block()
		if err != nil {
			return nil, err
		}
		if err := s.checkIV(); err != nil {
			return nil, err
		}
		padded := pkcs7Pad(plaintext, block.BlockSize())
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, s.iv).CryptBlocks(out, padded)
		return out, nil
	case modeCTR:
		block, err := s.block()
		if err != nil {
			return nil, err
		}
		if err := s.checkIV(); err != nil {
			return nil, err
		}
		out := make([]byte, len(plaintext))
		cipher.NewCTR(block, s.iv).XORKeyStream(out, plaintext)
		return out, nil
	default:
		aead, err := s.aead()
		if err != nil {
			return nil, err
		}
		if len(s.iv) == 0 {
			nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
			if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
				return nil, fmt.Errorf("failed to generate nonce: %w", err)
			}
			return aead.Seal(nonce, nonce, plaintext, nil), nil
		}
		if err := s.checkIV(); err != nil {
			return nil, err
		}
		return aead.Seal(nil, s.iv, plaintext, nil), nil
	}
}

func (s *Symmetric) open(data []byte) ([]byte, error) {
	if err := s.checkKey(); err != nil {
		return nil, err
	}

	switch s.spec.mode {
	case modeCBC:
		block, err := s.block()
		if err != nil {
			return nil, err
		}
		if err := s.checkIV(); err != nil {
			return nil, err
		}
		if len(data) == 0 || len(data)%block.BlockSize() != 0 {
			return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(data))
		}
		out := make([]byte, len(data))
		cipher.NewCBCDecrypter(block, s.iv).CryptBlocks(out, data)
		return pkcs7Unpad(out, block.BlockSize())
	case modeCTR:
		block, err := s.block()
		if err != nil {
			return nil, err
		}
		if err := s.checkIV(); err != nil {
			return nil, err
		}
		out := make([]byte, len(data))
		cipher.NewCTR(block, s.iv).XORKeyStream(out, data)
		return out, nil
	default:
		aead, err := s.aead()
		if err != nil {
			return nil, err
		}
		nonce := s.iv
		if len(nonce) == 0 {
			if len(data) < aead.NonceSize()+aead.Overhead() {
				return nil, errors.New("ciphertext too short")
			}
			nonce, data = data[:aead.NonceSize()], data[aead.NonceSize():]
		} else if err := s.checkIV(); err != nil {
			return nil, err
		}
		return aead.Open(nil, nonce, data, nil)
	}
}

func (s *Symmetric) checkKey() error {
	if len(s.key) != s.spec.keyLen {
		return fmt.Errorf("%w: %s requires %d bytes, got %d", ErrInvalidKey, s.suite, s.spec.keyLen, len(s.key))
	}
	return nil
}

func (s *Symmetric) checkIV() error {
	if len(s.iv) != s.spec.ivLen {
		return fmt.Errorf("%w: %s requires %d bytes, got %d", ErrInvalidIV, s.suite, s.spec.ivLen, len(s.iv))
	}
	return nil
}

func (s *Symmetric) block() (cipher.Block, error) {
	switch s.spec.family {
	case familyAES:
		return aes.NewCipher(s.key)
	case familyTripleDES:
		return des.NewTripleDESCipher(s.key)
	default:
		return nil, fmt.Errorf("%w: %s has no block cipher", ErrUnsupportedAlgorithm, s.suite)
	}
}

func (s *Symmetric) aead() (cipher.AEAD, error) {
	switch s.spec.mode {
	case modeGCM:
		block, err := s.block()
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case modeChaCha20Poly1305:
		return chacha20poly1305.New(s.key)
	case modeXChaCha20Poly1305:
		return chacha20poly1305.NewX(s.key)
	default:
		return nil, fmt.Errorf("%w: %s is not an AEAD suite", ErrUnsupportedAlgorithm, s.suite)
	}
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(slices.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

var errBadPadding = errors.New("bad padding")

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errBadPadding
		}
	}
	return data[:len(data)-n], nil
}
