package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zarvd/tokencipher/encryptor"
	"github.com/zarvd/tokencipher/internal/config"
)

var errTokenExpired = errors.New("token expired")

type EncryptCmd struct {
	Text string `arg:"" optional:"" help:"Plaintext, read from stdin if omitted"`
}

func (cmd *EncryptCmd) Run(cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	enc, err := cfg.Cipher.Encryptor()
	if err != nil {
		return fmt.Errorf("failed to build encryptor: %w", err)
	}
	plaintext, err := argOrStdin(cmd.Text, stdin)
	if err != nil {
		return err
	}
	ciphertext, err := enc.Encrypt([]byte(plaintext))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, ciphertext)
	return err
}

type DecryptCmd struct {
	Text string `arg:"" optional:"" help:"Ciphertext, read from stdin if omitted"`
}

func (cmd *DecryptCmd) Run(cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	enc, err := cfg.Cipher.Encryptor()
	if err != nil {
		return fmt.Errorf("failed to build encryptor: %w", err)
	}
	ciphertext, err := argOrStdin(cmd.Text, stdin)
	if err != nil {
		return err
	}
	plaintext, err := enc.Decrypt(trimCiphertext(cfg, ciphertext))
	if err != nil {
		return err
	}
	_, err = stdout.Write(plaintext)
	return err
}

type IssueCmd struct {
	ID       string        `help:"Token id, a random UUID if omitted"`
	Validity time.Duration `help:"Token validity, token.validity if omitted"`
}

func (cmd *IssueCmd) Run(cfg *config.Config, logger *zap.Logger, stdout io.Writer) error {
	enc, err := cfg.Cipher.Encryptor()
	if err != nil {
		return fmt.Errorf("failed to build encryptor: %w", err)
	}
	issuer, err := cfg.Token.NewIssuer(logger, enc, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build issuer: %w", err)
	}

	id := cmd.ID
	if id == "" {
		id = uuid.NewString()
	}
	validity := cmd.Validity
	if validity == 0 {
		validity = cfg.Token.Validity
	}

	token, err := issuer.IssueFor(id, validity)
	if err != nil {
		return err
	}
	logger.Info("issued token", zap.String("id", id), zap.Duration("validity", validity))
	_, err = fmt.Fprintln(stdout, token)
	return err
}

type VerifyCmd struct {
	Token string `arg:"" optional:"" help:"Token, read from stdin if omitted"`
}

func (cmd *VerifyCmd) Run(cfg *config.Config, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	enc, err := cfg.Cipher.Encryptor()
	if err != nil {
		return fmt.Errorf("failed to build encryptor: %w", err)
	}
	issuer, err := cfg.Token.NewIssuer(logger, enc, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build issuer: %w", err)
	}
	token, err := argOrStdin(cmd.Token, stdin)
	if err != nil {
		return err
	}

	env, ok, err := issuer.Verify(trimCiphertext(cfg, token))
	if err != nil {
		return err
	}
	if !ok {
		logger.Warn("token expired")
		return errTokenExpired
	}

	out := json.NewEncoder(stdout)
	out.SetIndent("", "  ")
	return out.Encode(env)
}

type SuitesCmd struct{}

func (cmd *SuitesCmd) Run(stdout io.Writer) error {
	for _, suite := range encryptor.SupportedSuites() {
		keyLen, _ := suite.KeyLength()
		ivLen, _ := suite.IVLength()
		if _, err := fmt.Fprintf(stdout, "%-20s key=%d iv=%d aead=%t\n", suite, keyLen, ivLen, suite.AEAD()); err != nil {
			return err
		}
	}
	return nil
}

// trimCiphertext strips the line ending EncryptCmd and IssueCmd append. Raw
// ciphertext may itself start or end with whitespace, so only the single
// trailing newline is removed from it.
func trimCiphertext(cfg *config.Config, text string) string {
	if encryptor.ParseOutput(cfg.Cipher.Output) == encryptor.OutputRaw {
		return strings.TrimSuffix(text, "\n")
	}
	return strings.TrimSpace(text)
}

func argOrStdin(arg string, stdin io.Reader) (string, error) {
	if arg != "" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
