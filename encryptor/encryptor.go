package encryptor

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Encryptor encrypts bytes into encoded text and back.
type Encryptor interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

var (
	_ Encryptor = (*Symmetric)(nil)
	_ Encryptor = (*Asymmetric)(nil)
)

// Output selects the textual representation of ciphertext. The zero value
// is base64; any other unknown value is raw.
type Output string

const (
	OutputRaw    Output = "raw"
	OutputBase64 Output = "base64"
	OutputHex    Output = "hex"
)

// ParseOutput maps a configured name to an Output. The empty name selects
// base64, any unknown name selects raw.
func ParseOutput(name string) Output {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(OutputBase64):
		return OutputBase64
	case string(OutputHex):
		return OutputHex
	default:
		return OutputRaw
	}
}

func (o Output) orDefault() Output {
	if o == "" {
		return OutputBase64
	}
	return o
}

func (o Output) Encode(data []byte) string {
	switch o.orDefault() {
	case OutputBase64:
		return base64.StdEncoding.EncodeToString(data)
	case OutputHex:
		return hex.EncodeToString(data)
	default:
		return string(data)
	}
}

func (o Output) Decode(text string) ([]byte, error) {
	switch o.orDefault() {
	case OutputBase64:
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: base64: %w", ErrDecode, err)
		}
		return data, nil
	case OutputHex:
		data, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: hex: %w", ErrDecode, err)
		}
		return data, nil
	default:
		return []byte(text), nil
	}
}

func (o Output) String() string {
	return string(o.orDefault())
}

// decodeCiphertext runs the Output decode step of a decrypt call.
func decodeCiphertext(o Output, text string) ([]byte, error) {
	data, err := o.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	return data, nil
}
