package authtoken

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serializer converts envelopes to and from bytes. Unmarshal(Marshal(e))
// must reproduce e exactly, and Unmarshal rejects envelopes with missing fields.
type Serializer interface {
	Marshal(env *Envelope) ([]byte, error)
	Unmarshal(data []byte, env *Envelope) error
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the serializer for a format name, JSON if empty.
func ParseFormat(name string) (Serializer, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return JSON{}, nil
	case FormatYAML, "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown serializer format %q", name)
	}
}

type JSON struct{}

func (JSON) Marshal(env *Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func (JSON) Unmarshal(data []byte, env *Envelope) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var w wireEnvelope
	if err := dec.Decode(&w); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after envelope")
	}
	return w.envelope(env)
}

type YAML struct{}

func (YAML) Marshal(env *Envelope) ([]byte, error) {
	return yaml.Marshal(env)
}

func (YAML) Unmarshal(data []byte, env *Envelope) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var w wireEnvelope
	if err := dec.Decode(&w); err != nil {
		return err
	}
	return w.envelope(env)
}
