package authtoken

import (
	"fmt"
	"time"
)

// Claims describes who issued a token and for whom. Times are unix seconds.
type Claims struct {
	Issuer    string `json:"iss" yaml:"iss"`
	Audience  string `json:"aud" yaml:"aud"`
	IssuedAt  int64  `json:"iat" yaml:"iat"`
	NotBefore int64  `json:"nbf" yaml:"nbf"`
}

// NewClaims returns claims issued and valid from now.
func NewClaims(issuer, audience string, now time.Time) Claims {
	return Claims{
		Issuer:    issuer,
		Audience:  audience,
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
	}
}

// Envelope is the record carried inside a token.
type Envelope struct {
	ID string `json:"id" yaml:"id"`
	// Expire is the validity in seconds, counted from Payload.NotBefore.
	Expire  int64  `json:"expire" yaml:"expire"`
	Payload Claims `json:"payload" yaml:"payload"`
}

// ExpiresAt returns the first instant at which the envelope is expired.
func (e *Envelope) ExpiresAt() time.Time {
	return time.Unix(e.Payload.NotBefore+e.Expire, 0)
}

// ValidAt reports whether now is strictly before ExpiresAt.
func (e *Envelope) ValidAt(now time.Time) bool {
	return now.Unix() < e.Payload.NotBefore+e.Expire
}

// wireEnvelope is the decoding shape of Envelope; nil fields were absent.
type wireEnvelope struct {
	ID      *string     `json:"id" yaml:"id"`
	Expire  *int64      `json:"expire" yaml:"expire"`
	Payload *wireClaims `json:"payload" yaml:"payload"`
}

type wireClaims struct {
	Issuer    *string `json:"iss" yaml:"iss"`
	Audience  *string `json:"aud" yaml:"aud"`
	IssuedAt  *int64  `json:"iat" yaml:"iat"`
	NotBefore *int64  `json:"nbf" yaml:"nbf"`
}

// envelope copies w into env, failing on the first missing field.
func (w *wireEnvelope) envelope(env *Envelope) error {
	switch {
	case w.ID == nil:
		return missingField("id")
	case w.Expire == nil:
		return missingField("expire")
	case w.Payload == nil:
		return missingField("payload")
	}
	p := w.Payload
	switch {
	case p.Issuer == nil:
		return missingField("payload.iss")
	case p.Audience == nil:
		return missingField("payload.aud")
	case p.IssuedAt == nil:
		return missingField("payload.iat")
	case p.NotBefore == nil:
		return missingField("payload.nbf")
	}

	*env = Envelope{
		ID:     *w.ID,
		Expire: *w.Expire,
		Payload: Claims{
			Issuer:    *p.Issuer,
			Audience:  *p.Audience,
			IssuedAt:  *p.IssuedAt,
			NotBefore: *p.NotBefore,
		},
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}
