// =============================================================================
// csproj-migrator - Migrate Run
// =============================================================================
//
// This file orchestrates a single migration run.
//
// PROCESSING PIPELINE:
//   1. Load configuration (defaults, optional YAML file, env overrides)
//   2. Load and parse the project file
//   3. Apply the migration steps in order
//   4. Report diagnostics
//   5. Back up the original and write the migrated file
//   6. Print a summary
//
// Steps 2 and 5 are the only ones that can fail. Step 3 never fails; missing
// legacy structures become warnings.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/ginjaninja78/csproj-migrator/internal/config"
	"github.com/ginjaninja78/csproj-migrator/internal/logger"
	"github.com/ginjaninja78/csproj-migrator/internal/migrator"
	"github.com/ginjaninja78/csproj-migrator/internal/projectfile"
	"github.com/ginjaninja78/csproj-migrator/internal/types"
)

// fileSystem is the file system runs operate on. Tests swap it out.
var fileSystem = afero.NewOsFs()

// runMigrate migrates the project file at path, logging to out.
func runMigrate(out io.Writer, path string) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := config.FromEnvironment()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{Output: out, Level: cfg.LogLevel})
	log.Debug("Loaded configuration", "atomic_write", cfg.Output.AtomicWrite, "indent", cfg.Output.Indent)

	// =========================================================================
	// STEP 2: LOAD PROJECT FILE
	// =========================================================================

	doc, err := projectfile.Load(fileSystem, path)
	if err != nil {
		return err
	}
	log.Debug("Parsed project file", "path", path, "bom", doc.BOM)

	// =========================================================================
	// STEP 3: MIGRATE
	// =========================================================================

	result := migrator.New(cfg.Rules).Run(doc.Tree)

	// =========================================================================
	// STEP 4: REPORT DIAGNOSTICS
	// =========================================================================

	renderDiagnostics(log, result.Diagnostics)

	// =========================================================================
	// STEP 5: BACK UP AND WRITE
	// =========================================================================

	backupPath, err := projectfile.NewPersistor(fileSystem, cfg.Output).Save(doc)
	if err != nil {
		if backupPath != "" {
			log.Error("Project file was not rewritten cleanly; the original is preserved in the backup",
				"backup", backupPath)
		}
		return err
	}

	// =========================================================================
	// STEP 6: SUMMARY
	// =========================================================================

	log.Info("Migrated project file",
		"path", path,
		"backup", backupPath,
		"sdk", result.SDK,
		"removed", result.ElementsRemoved,
		"converted", result.VersionsConverted,
		"upgraded", result.VersionsUpgraded,
		"warnings", len(result.Warnings()),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	return nil
}

// renderDiagnostics writes one log line per diagnostic.
func renderDiagnostics(log logger.Logger, diagnostics []types.Diagnostic) {
	for _, d := range diagnostics {
		keyvals := []any{"step", d.Step}
		if d.Element != "" {
			keyvals = append(keyvals, "element", d.Element)
		}
		switch d.Severity {
		case types.SeverityWarning:
			log.Warn(d.Message, keyvals...)
		default:
			log.Info(d.Message, keyvals...)
		}
	}
}
