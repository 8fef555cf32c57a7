package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zarvd/tokencipher/authtoken"
	"github.com/zarvd/tokencipher/encryptor"
)

const (
	KindSymmetric  = "symmetric"
	KindAsymmetric = "asymmetric"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Cipher CipherConfig `mapstructure:"cipher"`
	Token  TokenConfig  `mapstructure:"token"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CipherConfig struct {
	Kind string `mapstructure:"kind"`

	Suite string `mapstructure:"suite"`
	Key   string `mapstructure:"key"`
	IV    string `mapstructure:"iv"`
	// KeyEncoding applies to both Key and IV: raw, base64 or hex.
	KeyEncoding string `mapstructure:"key_encoding"`

	// PEM keys, inline or from files. Files take precedence.
	PublicKey      string `mapstructure:"public_key"`
	PrivateKey     string `mapstructure:"private_key"`
	PublicKeyFile  string `mapstructure:"public_key_file"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
	Padding        string `mapstructure:"padding"`

	Output string `mapstructure:"output"`
}

type TokenConfig struct {
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
	// NotBeforeOffset shifts the nbf claim relative to the time the issuer
	// is built. Expiry counts from nbf.
	NotBeforeOffset time.Duration `mapstructure:"not_before_offset"`
	Validity        time.Duration `mapstructure:"validity"`
	Format          string        `mapstructure:"format"`
}

func (c *Config) Validate() error {
	return errors.Join(c.Log.Validate(), c.Cipher.Validate(), c.Token.Validate())
}

func (c *LogConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Format)
	}
	return nil
}

func (c *CipherConfig) Validate() error {
	switch strings.ToLower(c.Kind) {
	case KindSymmetric:
		if _, err := encryptor.ParseCipherSuite(c.Suite); err != nil {
			return fmt.Errorf("cipher.suite: %w", err)
		}
		if c.Key == "" {
			return errors.New("cipher.key: required for symmetric ciphers")
		}
		if _, err := parseKeyEncoding(c.KeyEncoding); err != nil {
			return err
		}
	case KindAsymmetric:
		if c.PublicKey == "" && c.PublicKeyFile == "" {
			return errors.New("cipher.public_key: required for asymmetric ciphers")
		}
		if c.PrivateKey == "" && c.PrivateKeyFile == "" {
			return errors.New("cipher.private_key: required for asymmetric ciphers")
		}
		if _, err := encryptor.ParsePadding(c.Padding); err != nil {
			return fmt.Errorf("cipher.padding: %w", err)
		}
	default:
		return fmt.Errorf("cipher.kind: must be %q or %q, got %q", KindSymmetric, KindAsymmetric, c.Kind)
	}
	return nil
}

func (c *TokenConfig) Validate() error {
	if c.Validity <= 0 {
		return fmt.Errorf("token.validity: must be positive, got %s", c.Validity)
	}
	if _, err := authtoken.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("token.format: %w", err)
	}
	return nil
}

func parseKeyEncoding(name string) (encryptor.Output, error) {
	switch encryptor.Output(strings.ToLower(strings.TrimSpace(name))) {
	case "", encryptor.OutputRaw:
		return encryptor.OutputRaw, nil
	case encryptor.OutputBase64:
		return encryptor.OutputBase64, nil
	case encryptor.OutputHex:
		return encryptor.OutputHex, nil
	default:
		return "", fmt.Errorf("cipher.key_encoding: unknown encoding %q", name)
	}
}
