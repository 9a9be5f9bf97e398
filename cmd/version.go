// =============================================================================
// csproj-migrator - Version Information
// =============================================================================
//
// The version is printed by the root command's built-in --version flag.
//
// OUTPUT:
//   csproj-migrator
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
)

// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/csproj-migrator/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// versionText renders the --version output.
func versionText() string {
	return fmt.Sprintf("csproj-migrator\nVersion:    %s\nBuild Date: %s\nGo Version: %s\n",
		Version, BuildDate, runtime.Version())
}

// init wires the version into the root command.
func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(versionText())
}
