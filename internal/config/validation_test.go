package config_test

import (
	"errors"
	"testing"

	"pagesift/internal/config"

	"github.com/stretchr/testify/assert"
)

func validConfig() config.Config {
	return config.Config{
		DBHost:       "localhost",
		DBUser:       "user",
		DBName:       "db",
		IndexPath:    "data/index/vectors.json",
		MetaPath:     "data/index/meta.json",
		ChunkSize:    800,
		ChunkOverlap: 120,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:    "Valid Config",
			mutate:  func(c *config.Config) {},
			wantErr: false,
		},
		{
			name:    "Missing DBHost",
			mutate:  func(c *config.Config) { c.DBHost = "" },
			wantErr: true,
		},
		{
			name:    "Missing DBUser",
			mutate:  func(c *config.Config) { c.DBUser = "" },
			wantErr: true,
		},
		{
			name:    "Missing DBName",
			mutate:  func(c *config.Config) { c.DBName = "" },
			wantErr: true,
		},
		{
			name:    "Missing IndexPath",
			mutate:  func(c *config.Config) { c.IndexPath = "" },
			wantErr: true,
		},
		{
			name:    "Missing MetaPath",
			mutate:  func(c *config.Config) { c.MetaPath = "" },
			wantErr: true,
		},
		{
			name:    "Zero ChunkSize",
			mutate:  func(c *config.Config) { c.ChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "Overlap Equal To Size",
			mutate:  func(c *config.Config) { c.ChunkOverlap = c.ChunkSize },
			wantErr: true,
		},
		{
			name:    "Negative Overlap",
			mutate:  func(c *config.Config) { c.ChunkOverlap = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, config.ErrMissingRequired))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
