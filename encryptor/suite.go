package encryptor

import (
	"crypto/aes"
	"crypto/des"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherSuite names a symmetric algorithm and mode, e.g. "aes-128-cbc".
type CipherSuite string

const (
	AES128CBC         CipherSuite = "aes-128-cbc"
	AES192CBC         CipherSuite = "aes-192-cbc"
	AES256CBC         CipherSuite = "aes-256-cbc"
	AES128CTR         CipherSuite = "aes-128-ctr"
	AES192CTR         CipherSuite = "aes-192-ctr"
	AES256CTR         CipherSuite = "aes-256-ctr"
	AES128GCM         CipherSuite = "aes-128-gcm"
	AES192GCM         CipherSuite = "aes-192-gcm"
	AES256GCM         CipherSuite = "aes-256-gcm"
	ChaCha20Poly1305  CipherSuite = "chacha20-poly1305"
	XChaCha20Poly1305 CipherSuite = "xchacha20-poly1305"
	DESEDE3CBC        CipherSuite = "des-ede3-cbc"

	// Ciphertext stealing variants are recognised names without a usable
	// key size, they never pass validation.
	AES128CBCCTS CipherSuite = "aes-128-cbc-cts"
	AES192CBCCTS CipherSuite = "aes-192-cbc-cts"
	AES256CBCCTS CipherSuite = "aes-256-cbc-cts"
)

type mode int

const (
	modeCBC mode = iota + 1
	modeCTR
	modeGCM
	modeChaCha20Poly1305
	modeXChaCha20Poly1305
)

type blockFamily int

const (
	familyNone blockFamily = iota
	familyAES
	familyTripleDES
)

type suiteSpec struct {
	family blockFamily
	mode   mode
	// keyLen is zero for suites the table lists but cannot size a key for.
	keyLen int
	ivLen  int
}

var suites = map[CipherSuite]suiteSpec{
	AES128CBC:         {family: familyAES, mode: modeCBC, keyLen: 16, ivLen: aes.BlockSize},
	AES192CBC:         {family: familyAES, mode: modeCBC, keyLen: 24, ivLen: aes.BlockSize},
	AES256CBC:         {family: familyAES, mode: modeCBC, keyLen: 32, ivLen: aes.BlockSize},
	AES128CTR:         {family: familyAES, mode: modeCTR, keyLen: 16, ivLen: aes.BlockSize},
	AES192CTR:         {family: familyAES, mode: modeCTR, keyLen: 24, ivLen: aes.BlockSize},
	AES256CTR:         {family: familyAES, mode: modeCTR, keyLen: 32, ivLen: aes.BlockSize},
	AES128GCM:         {family: familyAES, mode: modeGCM, keyLen: 16, ivLen: 12},
	AES192GCM:         {family: familyAES, mode: modeGCM, keyLen: 24, ivLen: 12},
	AES256GCM:         {family: familyAES, mode: modeGCM, keyLen: 32, ivLen: 12},
	ChaCha20Poly1305:  {mode: modeChaCha20Poly1305, keyLen: chacha20poly1305.KeySize, ivLen: chacha20poly1305.NonceSize},
	XChaCha20Poly1305: {mode: modeXChaCha20Poly1305, keyLen: chacha20poly1305.KeySize, ivLen: chacha20poly1305.NonceSizeX},
	DESEDE3CBC:        {family: familyTripleDES, mode: modeCBC, keyLen: 24, ivLen: des.BlockSize},

	AES128CBCCTS: {family: familyAES},
	AES192CBCCTS: {family: familyAES},
	AES256CBCCTS: {family: familyAES},
}

// ParseCipherSuite resolves a suite name case-insensitively and checks that
// it is usable.
func ParseCipherSuite(name string) (CipherSuite, error) {
	suite := CipherSuite(strings.ToLower(strings.TrimSpace(name)))
	if _, err := suite.spec(); err != nil {
		return "", err
	}
	return suite, nil
}

// Validate reports whether the suite is listed and has a known key length.
func (s CipherSuite) Validate() error {
	_, err := s.spec()
	return err
}

func (s CipherSuite) spec() (suiteSpec, error) {
	spec, ok := suites[CipherSuite(strings.ToLower(string(s)))]
	if !ok || spec.keyLen == 0 {
		return suiteSpec{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, s)
	}
	return spec, nil
}

// KeyLength returns the key size in bytes.
func (s CipherSuite) KeyLength() (int, error) {
	spec, err := s.spec()
	if err != nil {
		return 0, err
	}
	return spec.keyLen, nil
}

// IVLength returns the IV (or nonce) size in bytes.
func (s CipherSuite) IVLength() (int, error) {
	spec, err := s.spec()
	if err != nil {
		return 0, err
	}
	return spec.ivLen, nil
}

// AEAD reports whether the suite authenticates its ciphertext.
func (s CipherSuite) AEAD() bool {
	spec, err := s.spec()
	if err != nil {
		return false
	}
	return spec.mode == modeGCM || spec.mode == modeChaCha20Poly1305 || spec.mode == modeXChaCha20Poly1305
}

// SupportedSuites lists every suite that passes validation, sorted by name.
func SupportedSuites() []CipherSuite {
	rv := make([]CipherSuite, 0, len(suites))
	for suite, spec := range suites {
		if spec.keyLen > 0 {
			rv = append(rv, suite)
		}
	}
	slices.Sort(rv)
	return rv
}

// FlexKey truncates key to the suite's key length. Shorter keys are returned
// unchanged.
func FlexKey(suite CipherSuite, key []byte) ([]byte, error) {
	n, err := suite.KeyLength()
	if err != nil {
		return nil, err
	}
	return truncate(key, n), nil
}

// FlexIV truncates iv to the suite's IV length. Shorter IVs are returned
// unchanged.
func FlexIV(suite CipherSuite, iv []byte) ([]byte, error) {
	n, err := suite.IVLength()
	if err != nil {
		return nil, err
	}
	return truncate(iv, n), nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return slices.Clone(b)
	}
	return slices.Clone(b[:n])
}
