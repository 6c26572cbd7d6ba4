package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/htls/htls/internal/utils"
)

const (
	DefaultOutputDir = "."
	DefaultTimeout   = 30 * time.Second
)

// Config carries the per-invocation settings of the tool. Read-only after
// Validate.
type Config struct {
	BaseURL   string
	OutputDir string
	Timeout   time.Duration
	NoColor   bool
	KeepLine  bool
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base url required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: base url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: base url %q: scheme must be http or https", c.BaseURL)
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	resolved, err := utils.ResolvePath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("config: output dir %q: %w", c.OutputDir, err)
	}
	c.OutputDir = resolved

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	return nil
}
