// =============================================================================
// csproj-migrator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the csproj-migrator CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   csproj-migrator <path to csproj file>
//
// ARCHITECTURE:
//   - cmd/           : Cobra command definition and run orchestration
//   - internal/      : Migration steps, project file I/O, config, logging
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csproj-migrator/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
