// =============================================================================
// csproj-migrator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - migrator
//   - cmd
//
// =============================================================================

package types

// =============================================================================
// DIAGNOSTIC TYPES
// =============================================================================

// Severity classifies a diagnostic. None of the severities stop the pipeline.
type Severity string

const (
	// SeverityInfo marks a note about a decision the migrator made.
	SeverityInfo Severity = "info"

	// SeverityWarning marks an expected legacy structure that was absent.
	// The step that raised it became a no-op for that structure.
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single human-readable note produced by a migration step.
type Diagnostic struct {
	// Severity indicates whether this is an informational note or a warning.
	Severity Severity

	// Step is the name of the migration step that produced the diagnostic.
	Step string

	// Message is the human-readable text.
	Message string

	// Element optionally identifies the element the diagnostic is about,
	// for example `PackageReference Include="Newtonsoft.Json"`.
	Element string
}
