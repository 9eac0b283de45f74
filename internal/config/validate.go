package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("blog_api_url", c.BlogAPIURL, apiURL),
		criterio.Run("auth_api_url", c.AuthAPIURL, apiURL),
		c.validateTimings(),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func (c *Config) validateTimings() error {
	var errs criterio.FieldErrorsBuilder
	if err := positive(c.RequestTimeout); err != nil {
		errs = errs.Append("request_timeout", err)
	}
	if err := nonNegative(c.Toast.DefaultLifetime); err != nil {
		errs = errs.Append("toast.default_lifetime", err)
	}
	if err := nonNegative(c.Toast.ErrorLifetime); err != nil {
		errs = errs.Append("toast.error_lifetime", err)
	}
	if err := atLeastOne(c.Toast.MaxVisible); err != nil {
		errs = errs.Append("toast.max_visible", err)
	}
	return errs.ToError()
}

func apiURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL, got %q", s)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", s)
	}
	return nil
}

func positive(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("cannot be negative")
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return fmt.Errorf("cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
