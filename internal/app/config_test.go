package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "yaml state", mutate: func(c *Config) { c.StateFile = "state.yml" }},
		{name: "json logs", mutate: func(c *Config) { c.LogFormat = "json" }},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: `LogLevel must be one of [debug info warn error], got "loud"`,
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: `LogFormat must be one of [text json], got "xml"`,
		},
		{
			name:    "missing state file",
			mutate:  func(c *Config) { c.StateFile = "" },
			wantErr: "StateFile is required",
		},
		{
			name:    "unsupported state extension",
			mutate:  func(c *Config) { c.StateFile = "state.json" },
			wantErr: `StateFile must end in .hcl, .yaml or .yml, got "state.json"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	ctx := context.Background()

	t.Run("overrides only present attributes", func(t *testing.T) {
		// --- Arrange ---
		file := filepath.Join(t.TempDir(), "spigot.hcl")
		src := `
log_level  = "debug"
state_file = "net.yaml"
seed       = 99
`
		require.NoError(t, os.WriteFile(file, []byte(src), 0o600))

		// --- Act ---
		cfg, err := LoadConfigFile(ctx, file, DefaultConfig(), false)

		// --- Assert ---
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "net.yaml", cfg.StateFile)
		assert.Equal(t, uint64(99), cfg.Seed)
		assert.Empty(t, cfg.MetricsFile)
	})

	t.Run("missing file allowed", func(t *testing.T) {
		cfg, err := LoadConfigFile(ctx, filepath.Join(t.TempDir(), "none.hcl"), DefaultConfig(), true)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file required", func(t *testing.T) {
		_, err := LoadConfigFile(ctx, filepath.Join(t.TempDir(), "none.hcl"), DefaultConfig(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error accessing config file")
	})

	t.Run("unknown attribute", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "spigot.hcl")
		require.NoError(t, os.WriteFile(file, []byte("workers = 3\n"), 0o600))
		_, err := LoadConfigFile(ctx, file, DefaultConfig(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode HCL file")
	})

	t.Run("syntax error", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "spigot.hcl")
		require.NoError(t, os.WriteFile(file, []byte("log_level = \n"), 0o600))
		_, err := LoadConfigFile(ctx, file, DefaultConfig(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse HCL file")
	})
}

func TestNewConfigValidator(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = newConfigValidator() })

	cfg := DefaultConfig()
	require.NoError(t, v.Struct(cfg))

	cfg.StateFile = "state.json"
	var verrs validator.ValidationErrors
	require.ErrorAs(t, v.Struct(cfg), &verrs)
	assert.Equal(t, "statefile", verrs[0].Tag())
}
