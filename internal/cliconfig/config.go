package cliconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/bft-labs/docship/pkg/client"
	"github.com/bft-labs/docship/pkg/secret"
)

// Config holds CLI configuration for docship.
type Config struct {
	URL       string
	Key       string
	Secret    secret.String
	UserAgent string

	LogLevel string
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel: zerolog.InfoLevel.String(),
		Debounce: 200 * time.Millisecond,
	}
}

// Validate checks the configuration for errors and normalizes the URL.
func (c *Config) Validate() error {
	c.URL = strings.TrimRight(c.URL, "/")

	var result *multierror.Error
	if err := c.Settings().Validate(); err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			result = multierror.Append(result, merr.Errors...)
		} else {
			result = multierror.Append(result, err)
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("log level: %w", err))
	}
	if c.Debounce <= 0 {
		result = multierror.Append(result, errors.New("debounce must be positive"))
	}
	return result.ErrorOrNil()
}

// Settings converts the configuration to client settings.
func (c Config) Settings() client.Settings {
	return client.Settings{
		URL:    c.URL,
		Key:    c.Key,
		Secret: c.Secret,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setSecret wraps value in a secret if not empty and flag not changed.
func (s *configSetter) setSecret(flag, value string, dst *secret.String) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = secret.New(value)
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
