// =============================================================================
// csproj-migrator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The tool has no
// subcommands: the root command takes the path of the project file to
// migrate as its single positional argument.
//
// COMMAND USAGE:
//   csproj-migrator <path to csproj file>
//
// CONFIGURATION:
//   There are no domain flags. Optional settings come from the environment:
//     CSPROJ_MIGRATOR_CONFIG     Path to a YAML configuration file
//     CSPROJ_MIGRATOR_LOG_LEVEL  debug | info | warn | error
//
// EXIT CODES:
//   0  The file was migrated
//   1  Wrong number of arguments, or a config, parse or I/O error
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// usageLine is printed when the argument count is wrong.
const usageLine = "Usage: csproj-migrator <path to csproj file>"

// errUsage signals a wrong argument count.
var errUsage = errors.New("expected exactly one argument")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "csproj-migrator <path to csproj file>",
	Short: "Migrate an msbuild1-era .csproj to the SDK-style msbuild2 format",
	Long: `csproj-migrator rewrites a single .csproj file in place, migrating it from
the early "msbuild1" preview project format to the RC-refresh SDK-style format.

It removes the default MSBuild namespace, sets Project/@Sdk from the
Microsoft.NET.Sdk(.Web) PackageReference, drops the Microsoft.Common.props and
Microsoft.CSharp.targets imports and the **\*.cs / **\*.resx wildcard
includes, converts <Version> child elements into Version attributes and
upgrades 1.0.0-msbuild1-final versions to 1.0.0-msbuild2-final.

The original file is first copied to <path>.bak. If that backup already
exists the tool stops without touching the project file.`,

	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errUsage
		}
		return nil
	},

	// Errors are reported by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.OutOrStdout(), args[0])
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err and returns the process exit code for it.
func report(w io.Writer, err error) int {
	if errors.Is(err, errUsage) {
		fmt.Fprintln(w, usageLine)
		fmt.Fprintln(w)
		return 1
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
