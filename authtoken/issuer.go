package authtoken

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zarvd/tokencipher/encryptor"
)

// DefaultValidity is the validity Issue gives a token.
const DefaultValidity = time.Hour

// ErrMalformedToken is returned when a token decrypts to something that is
// not an envelope.
var ErrMalformedToken = errors.New("malformed token")

type Option func(*Issuer)

// WithSerializer replaces the default JSON serializer.
func WithSerializer(s Serializer) Option {
	return func(i *Issuer) {
		i.serializer = s
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// Issuer issues encrypted tokens carrying a copy of its claims and verifies
// them. It holds no mutable state and is safe for concurrent use when its
// Encryptor is.
type Issuer struct {
	logger     *zap.Logger
	enc        encryptor.Encryptor
	serializer Serializer
	claims     Claims
	now        func() time.Time
}

func NewIssuer(logger *zap.Logger, enc encryptor.Encryptor, claims Claims, opts ...Option) *Issuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	i := &Issuer{
		logger:     logger,
		enc:        enc,
		serializer: JSON{},
		claims:     claims,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Claims returns the claims template copied into every issued envelope.
func (i *Issuer) Claims() Claims {
	return i.claims
}

// Issue issues a token valid for DefaultValidity.
func (i *Issuer) Issue(id string) (string, error) {
	return i.IssueFor(id, DefaultValidity)
}

// IssueFor issues a token valid for validity, truncated to whole seconds and
// counted from the claims' NotBefore.
func (i *Issuer) IssueFor(id string, validity time.Duration) (string, error) {
	return i.IssueWithClaims(id, validity, i.claims)
}

// IssueWithClaims issues a token carrying claims instead of the template.
func (i *Issuer) IssueWithClaims(id string, validity time.Duration, claims Claims) (string, error) {
	logger := i.logger.With(zap.String("method", "Issue"))

	env := &Envelope{
		ID:      id,
		Expire:  int64(validity / time.Second),
		Payload: claims,
	}
	data, err := i.serializer.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to serialize envelope: %w", err)
	}
	token, err := i.enc.Encrypt(data)
	if err != nil {
		logger.Error("failed to encrypt envelope", zap.Error(err))
		return "", fmt.Errorf("failed to encrypt envelope: %w", err)
	}

	logger.Debug("issued token",
		zap.String("id", env.ID),
		zap.Int64("expire", env.Expire),
		zap.Time("expires-at", env.ExpiresAt()),
	)
	return token, nil
}

// Verify decrypts token and checks its validity window. A token that
// decrypts to a well-formed but expired envelope yields (nil, false, nil).
// Decryption and decoding failures are returned as errors.
func (i *Issuer) Verify(token string) (*Envelope, bool, error) {
	logger := i.logger.With(zap.String("method", "Verify"))

	data, err := i.enc.Decrypt(token)
	if err != nil {
		logger.Debug("failed to decrypt token", zap.Error(err))
		return nil, false, fmt.Errorf("failed to decrypt token: %w", err)
	}

	var env Envelope
	if err := i.serializer.Unmarshal(data, &env); err != nil {
		logger.Debug("failed to deserialize envelope", zap.Error(err))
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	if !env.ValidAt(i.now()) {
		logger.Debug("token expired",
			zap.String("id", env.ID),
			zap.Time("expired-at", env.ExpiresAt()),
		)
		return nil, false, nil
	}
	return &env, true, nil
}
