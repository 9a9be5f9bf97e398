package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults when no path is given", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, "Microsoft.NET.Sdk.Web", cfg.Rules.SDK.Web)
		assert.Equal(t, "Microsoft.NET.Sdk", cfg.Rules.SDK.Normal)
		assert.Equal(t, `**\*.cs`, cfg.Rules.Wildcards.Compile)
		assert.Equal(t, ".bak", cfg.Output.BackupSuffix)
		assert.True(t, cfg.Output.AtomicWrite)
	})

	t.Run("Should keep defaults for keys the file omits", func(t *testing.T) {
		path := writeConfig(t, `
versions:
  successor: 1.0.0-rc3
`)
		// versions is nested under rules; a top-level key is ignored
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultSuccessorVersionTag, cfg.Rules.Versions.Successor)

		path = writeConfig(t, `
rules:
  versions:
    successor: 1.0.0-rc3
output:
  atomic_write: false
  indent: 4
log_level: DEBUG
`)
		cfg, err = Load(path)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0-rc3", cfg.Rules.Versions.Successor)
		assert.Equal(t, DefaultLegacyVersionTag, cfg.Rules.Versions.Legacy)
		assert.Equal(t, DefaultWebSDK, cfg.Rules.SDK.Web)
		assert.False(t, cfg.Output.AtomicWrite)
		assert.Equal(t, 4, cfg.Output.Indent)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("Should restore blanked backup suffix and log level", func(t *testing.T) {
		path := writeConfig(t, `
output:
  backup_suffix: ""
log_level: ""
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultBackupSuffix, cfg.Output.BackupSuffix)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		_, err := Load(writeConfig(t, "rules: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Should reject invalid rules", func(t *testing.T) {
		testCases := []struct {
			name    string
			content string
			field   string
		}{
			{"same sdk twice", "rules:\n  sdk:\n    web: Microsoft.NET.Sdk\n", "Config.Rules.SDK.Web"},
			{"blank import", "rules:\n  imports:\n    common_props: \"\"\n", "Config.Rules.Imports.CommonProps"},
			{"successor equals legacy", "rules:\n  versions:\n    successor: 1.0.0-msbuild1-final\n", "Config.Rules.Versions.Successor"},
			{"indent too deep", "output:\n  indent: 12\n", "Config.Output.Indent"},
			{"unknown level", "log_level: verbose\n", "Config.LogLevel"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Load(writeConfig(t, tc.content))
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid configuration")
				assert.Contains(t, err.Error(), tc.field)
			})
		}
	})
}

func TestFromEnvironment(t *testing.T) {
	t.Run("Should load the file named by the environment", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, writeConfig(t, "rules:\n  sdk:\n    web: Contoso.Sdk.Web\n"))
		t.Setenv(LogLevelEnvVar, "")

		cfg, err := FromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, "Contoso.Sdk.Web", cfg.Rules.SDK.Web)
	})

	t.Run("Should override the log level", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		t.Setenv(LogLevelEnvVar, " Warn ")

		cfg, err := FromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("Should reject an unknown log level override", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		t.Setenv(LogLevelEnvVar, "chatty")

		_, err := FromEnvironment()
		require.Error(t, err)
		assert.Contains(t, err.Error(), LogLevelEnvVar)
	})
}
