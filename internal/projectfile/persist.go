package projectfile

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/ginjaninja78/csproj-migrator/internal/config"
	"github.com/ginjaninja78/csproj-migrator/pkg/utils"
)

// Persistor backs up a project file and writes its migrated form over it.
type Persistor struct {
	files        *utils.FileManager
	backupSuffix string
	atomic       bool
	serialize    SerializeOptions
}

// NewPersistor creates a Persistor on fs using the output settings.
func NewPersistor(fs afero.Fs, out config.OutputConfig) *Persistor {
	return &Persistor{
		files:        utils.NewFileManager(fs),
		backupSuffix: out.BackupSuffix,
		atomic:       out.AtomicWrite,
		serialize: SerializeOptions{
			Indent:             out.Indent,
			PreserveWhitespace: out.PreserveWhitespace,
		},
	}
}

// BackupPath returns where the backup of path is written.
func (p *Persistor) BackupPath(path string) string {
	return path + p.backupSuffix
}

// Save copies the original file to its backup path, then replaces it with the
// serialized document. It returns the backup path.
//
// If the backup cannot be made (including because it already exists) the
// original is not touched. The document is serialized fully in memory before
// the original is opened, so a serialization error also leaves it intact.
// In non-atomic mode a write error can leave the original truncated; the
// backup is then the only good copy and is not restored automatically.
func (p *Persistor) Save(doc *Document) (string, error) {
	backupPath := p.BackupPath(doc.Path)

	mode, err := p.files.FileMode(doc.Path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", doc.Path, err)
	}

	if err := p.files.BackupFile(doc.Path, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up project file: %w", err)
	}

	data, err := doc.Serialize(p.serialize)
	if err != nil {
		return backupPath, err
	}

	if p.atomic {
		err = p.files.WriteFileAtomic(doc.Path, data, mode)
	} else {
		err = p.files.OverwriteFile(doc.Path, data)
	}
	if err != nil {
		return backupPath, fmt.Errorf("failed to write project file: %w", err)
	}

	return backupPath, nil
}
