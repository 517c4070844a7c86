package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "trace level", mutate: func(c *Config) { c.Logging.Level = "trace" }},
		{name: "csv format", mutate: func(c *Config) { c.Output.Format = "csv" }},
		{name: "empty level", mutate: func(c *Config) { c.Logging.Level = "" }, wantErr: true},
		{name: "unknown format", mutate: func(c *Config) { c.Output.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
