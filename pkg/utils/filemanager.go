// =============================================================================
// csproj-migrator - File Manager Utility
// =============================================================================
//
// This module provides the file operations the migrator needs around the
// one project file it rewrites:
//   - Exclusive backup copies (never overwrite an existing backup)
//   - Atomic replacement through a uniquely named sibling temp file
//   - In-place truncating writes
//   - Symlink resolution and mode lookup
//
// All operations go through an afero.Fs so they can run against the real
// disk (afero.NewOsFs) or an in-memory file system in tests.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrBackupExists is returned when the backup destination is already present.
var ErrBackupExists = errors.New("backup file already exists")

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the migrator.
type FileManager struct {
	fs afero.Fs
}

// NewFileManager creates a FileManager on fs. A nil fs means the OS file system.
func NewFileManager(fs afero.Fs) *FileManager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileManager{fs: fs}
}

// Fs returns the underlying file system.
func (fm *FileManager) Fs() afero.Fs {
	return fm.fs
}

// =============================================================================
// BACKUP
// =============================================================================

// BackupFile copies src to dst byte for byte, keeping src's permissions.
// dst is created exclusively: if it already exists ErrBackupExists is returned
// and nothing is written.
func (fm *FileManager) BackupFile(src, dst string) error {
	info, err := fm.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	sourceFile, err := fm.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer sourceFile.Close()

	destFile, err := fm.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrBackupExists, dst)
		}
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	// A partial backup must not block the next run.
	discard := func(cause error) error {
		destFile.Close()
		_ = fm.fs.Remove(dst)
		return cause
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return discard(fmt.Errorf("failed to copy %s to %s: %w", src, dst, err))
	}
	if err := destFile.Sync(); err != nil {
		return discard(fmt.Errorf("failed to sync %s: %w", dst, err))
	}
	if err := destFile.Close(); err != nil {
		_ = fm.fs.Remove(dst)
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}

// =============================================================================
// WRITING
// =============================================================================

// TempSiblingPath returns a unique temp file path next to path.
func TempSiblingPath(path string) string {
	return fmt.Sprintf("%s.%s.tmp", path, uuid.New().String())
}

// WriteFileAtomic replaces path with data by writing a sibling temp file and
// renaming it over path. If path is a symlink the link is kept and its final
// target is replaced. The file gets perm before the rename. On any failure
// path is untouched and the temp file is removed.
func (fm *FileManager) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	target, err := fm.ResolveLinks(path)
	if err != nil {
		return err
	}
	tmpPath := TempSiblingPath(target)

	tmp, err := fm.fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	cleanup := func(cause error) error {
		tmp.Close()
		_ = fm.fs.Remove(tmpPath)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = fm.fs.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// The create mode is subject to umask.
	if err := fm.fs.Chmod(tmpPath, perm); err != nil {
		_ = fm.fs.Remove(tmpPath)
		return fmt.Errorf("failed to set mode of temp file: %w", err)
	}

	if err := fm.fs.Rename(tmpPath, target); err != nil {
		_ = fm.fs.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

// OverwriteFile truncates the existing file at path and writes data into it.
// A failure part-way leaves path truncated or partially written.
func (fm *FileManager) OverwriteFile(path string, data []byte) error {
	file, err := fm.fs.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	return file.Close()
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// maxLinkHops bounds symlink chains, matching the Linux ELOOP limit.
const maxLinkHops = 40

// ResolveLinks follows path through any chain of symlinks and returns the
// final target. Paths that are not links, and file systems without link
// support, resolve to themselves.
func (fm *FileManager) ResolveLinks(path string) (string, error) {
	lstater, ok := fm.fs.(afero.Lstater)
	if !ok {
		return path, nil
	}
	reader, ok := fm.fs.(afero.LinkReader)
	if !ok {
		return path, nil
	}

	current := path
	for i := 0; i < maxLinkHops; i++ {
		info, lstatCalled, err := lstater.LstatIfPossible(current)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", current, err)
		}
		if !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return current, nil
		}
		dest, err := reader.ReadlinkIfPossible(current)
		if err != nil {
			return "", fmt.Errorf("failed to read link %s: %w", current, err)
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(current), dest)
		}
		current = dest
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", path)
}

// FileMode returns the permission bits of path.
func (fm *FileManager) FileMode(path string) (os.FileMode, error) {
	info, err := fm.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}
