// =============================================================================
// csproj-migrator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the migration configuration. The
// configuration holds every well-known literal the migration steps match on
// (SDK identifiers, legacy import paths, wildcard patterns, version tags),
// plus output and logging settings.
//
// CONFIGURATION SOURCES:
//   1. Built-in defaults (Default), matching the msbuild1 -> msbuild2 migration
//   2. An optional YAML file named by $CSPROJ_MIGRATOR_CONFIG
//   3. $CSPROJ_MIGRATOR_LOG_LEVEL, which overrides log_level
//
// A YAML file only needs the keys it changes; everything else keeps its
// default value.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// ENVIRONMENT
// =============================================================================

const (
	// ConfigEnvVar names an optional YAML configuration file.
	ConfigEnvVar = "CSPROJ_MIGRATOR_CONFIG"

	// LogLevelEnvVar overrides the configured log level.
	LogLevelEnvVar = "CSPROJ_MIGRATOR_LOG_LEVEL"
)

// =============================================================================
// DEFAULT RULE VALUES
// =============================================================================

const (
	DefaultWebSDK              = "Microsoft.NET.Sdk.Web"
	DefaultNormalSDK           = "Microsoft.NET.Sdk"
	DefaultCommonPropsImport   = `$(MSBuildExtensionsPath)\$(MSBuildToolsVersion)\Microsoft.Common.props`
	DefaultCSharpTargetsImport = `$(MSBuildToolsPath)\Microsoft.CSharp.targets`
	DefaultCompileWildcard     = `**\*.cs`
	DefaultResourceWildcard    = `**\*.resx`
	DefaultLegacyVersionTag    = "1.0.0-msbuild1-final"
	DefaultSuccessorVersionTag = "1.0.0-msbuild2-final"
	DefaultBackupSuffix        = ".bak"
	DefaultIndent              = 2
	DefaultLogLevel            = "info"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	// Rules are the literals the migration steps look for.
	Rules Rules `yaml:"rules"`

	// Output controls how the migrated project file is written.
	Output OutputConfig `yaml:"output"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Rules groups the literals each migration step matches on.
type Rules struct {
	SDK       SDKRules      `yaml:"sdk"`
	Imports   ImportRules   `yaml:"imports"`
	Wildcards WildcardRules `yaml:"wildcards"`
	Versions  VersionRules  `yaml:"versions"`
}

// SDKRules names the two SDKs the selector chooses between.
// Identifiers are compared case-insensitively against PackageReference Include values.
type SDKRules struct {
	// Web is chosen whenever a PackageReference to it exists.
	Web string `yaml:"web" validate:"required,nefield=Normal"`

	// Normal is chosen otherwise.
	Normal string `yaml:"normal" validate:"required"`
}

// ImportRules holds the Project values of the legacy root-level imports.
type ImportRules struct {
	CommonProps   string `yaml:"common_props" validate:"required"`
	CSharpTargets string `yaml:"csharp_targets" validate:"required"`
}

// WildcardRules holds the exact Include values of the wildcard items to remove.
type WildcardRules struct {
	Compile          string `yaml:"compile" validate:"required"`
	EmbeddedResource string `yaml:"embedded_resource" validate:"required"`
}

// VersionRules holds the pre-release tag that gets rewritten and its replacement.
type VersionRules struct {
	Legacy    string `yaml:"legacy" validate:"required"`
	Successor string `yaml:"successor" validate:"required,nefield=Legacy"`
}

// OutputConfig controls backup naming and serialization.
type OutputConfig struct {
	// BackupSuffix is appended to the input path to form the backup path.
	// Default: ".bak"
	BackupSuffix string `yaml:"backup_suffix" validate:"required"`

	// Indent is the number of spaces per nesting level in the output.
	// Default: 2
	Indent int `yaml:"indent" validate:"min=0,max=8"`

	// PreserveWhitespace keeps the input's whitespace instead of re-indenting.
	// Removed elements may leave blank lines behind.
	PreserveWhitespace bool `yaml:"preserve_whitespace"`

	// AtomicWrite writes to a sibling temp file and renames it over the input.
	// When false the input is truncated and written in place.
	// Default: true
	AtomicWrite bool `yaml:"atomic_write"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Rules: Rules{
			SDK: SDKRules{
				Web:    DefaultWebSDK,
				Normal: DefaultNormalSDK,
			},
			Imports: ImportRules{
				CommonProps:   DefaultCommonPropsImport,
				CSharpTargets: DefaultCSharpTargetsImport,
			},
			Wildcards: WildcardRules{
				Compile:          DefaultCompileWildcard,
				EmbeddedResource: DefaultResourceWildcard,
			},
			Versions: VersionRules{
				Legacy:    DefaultLegacyVersionTag,
				Successor: DefaultSuccessorVersionTag,
			},
		},
		Output: OutputConfig{
			BackupSuffix: DefaultBackupSuffix,
			Indent:       DefaultIndent,
			AtomicWrite:  true,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads the configuration from a YAML file layered over Default.
// An empty path returns the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or fails validation.
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Unmarshalling onto the defaults keeps every key the file omits.
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(config)

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// FromEnvironment loads the file named by ConfigEnvVar (if any) and applies
// the LogLevelEnvVar override.
func FromEnvironment() (*Config, error) {
	config, err := Load(os.Getenv(ConfigEnvVar))
	if err != nil {
		return nil, err
	}

	if level := strings.TrimSpace(os.Getenv(LogLevelEnvVar)); level != "" {
		config.LogLevel = strings.ToLower(level)
		if err := Validate(config); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", LogLevelEnvVar, err)
		}
	}

	return config, nil
}

// applyDefaults fills values a YAML file explicitly blanked out.
func applyDefaults(config *Config) {
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.Output.BackupSuffix == "" {
		config.Output.BackupSuffix = DefaultBackupSuffix
	}
	config.LogLevel = strings.ToLower(config.LogLevel)
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration's struct constraints and reports every
// failing field in one error.
func Validate(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed '%s=%s'", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
