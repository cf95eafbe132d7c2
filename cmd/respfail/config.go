package main

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sindrilabs/respfail/pkg/httpclient"
)

// Configuration defaults.
const (
	DefaultRequestTimeoutSeconds = 30
	DefaultLogLevel              = "info"
	DefaultMethod                = "GET"
)

// Config holds the settings for one fetch.
type Config struct {
	URL                   string   `validate:"required,http_url"`
	Method                string   `validate:"oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`
	Headers               []string `validate:"dive,contains=:"`
	MaxBodySize           int64
	RequestTimeoutSeconds int    `validate:"gt=0"`
	LogLevel              string `validate:"oneof=debug info warn error"`
	JSON                  bool
}

func defaultConfig() Config {
	return Config{
		Method:                DefaultMethod,
		MaxBodySize:           httpclient.DefaultMaxBodySize,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
		LogLevel:              DefaultLogLevel,
	}
}

var validate = validator.New()

// Validate the Config
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// HeaderMap splits the "Key: value" header flags. Later values win.
func (c *Config) HeaderMap() map[string]string {
	headers := make(map[string]string, len(c.Headers))
	for _, h := range c.Headers {
		key, value, _ := strings.Cut(h, ":")
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}
