package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cfg := &Config{BaseURL: "http://mirror.test/pub/"}
	require.NoError(t, cfg.Validate())

	assert.NotEmpty(t, cfg.OutputDir)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestValidateRejectsBadURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"ftp scheme", "ftp://mirror.test/"},
		{"no scheme", "mirror.test/pub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BaseURL: tt.url}
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateKeepsExplicitSettings(t *testing.T) {
	cfg := &Config{
		BaseURL:   "https://mirror.test/",
		OutputDir: "/tmp/out",
		Timeout:   5 * time.Second,
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
