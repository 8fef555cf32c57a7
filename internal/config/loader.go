package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zarvd/tokencipher/authtoken"
	"github.com/zarvd/tokencipher/encryptor"
)

const EnvPrefix = "TOKENCIPHER"

// Load reads configuration from path, or from tokencipher.{yaml,json,toml}
// in the working directory or /etc/tokencipher/ when path is empty, and
// applies TOKENCIPHER_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can override it.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cipher.kind", KindSymmetric)
	v.SetDefault("cipher.suite", string(encryptor.AES256CBC))
	v.SetDefault("cipher.key", "")
	v.SetDefault("cipher.iv", "")
	v.SetDefault("cipher.key_encoding", string(encryptor.OutputRaw))
	v.SetDefault("cipher.public_key", "")
	v.SetDefault("cipher.private_key", "")
	v.SetDefault("cipher.public_key_file", "")
	v.SetDefault("cipher.private_key_file", "")
	v.SetDefault("cipher.padding", string(encryptor.PaddingPKCS1v15))
	v.SetDefault("cipher.output", string(encryptor.OutputBase64))
	v.SetDefault("token.issuer", "")
	v.SetDefault("token.audience", "")
	v.SetDefault("token.not_before_offset", "0s")
	v.SetDefault("token.validity", authtoken.DefaultValidity.String())
	v.SetDefault("token.format", string(authtoken.FormatJSON))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tokencipher")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tokencipher/")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
