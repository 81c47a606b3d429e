// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alvazir/jobasha-sub000/internal/config"
	"github.com/alvazir/jobasha-sub000/internal/issue"
	"github.com/alvazir/jobasha-sub000/internal/logging"
	"github.com/alvazir/jobasha-sub000/pkg/platform"

	"github.com/dustin/go-humanize"
)

// Writer stores outputs on disk.
type Writer struct {
	Dir    string
	DryRun bool
	Backup bool
	Logger *logging.Logger
}

// NewWriter creates a Writer from settings.
func NewWriter(s *config.Settings, logger *logging.Logger) *Writer {
	return &Writer{
		Dir:    s.Options.OutputDir,
		DryRun: s.Options.DryRun,
		Backup: !s.Options.NoBackup,
		Logger: logger,
	}
}

// Path returns where out is written.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Write stores out. The data is written to a temporary file next to the
// target and renamed over it, so a failed write leaves the previous output
// and its backup untouched.
func (w *Writer) Write(out *Output) (string, error) {
	path := w.Path(out.Name)
	if w.DryRun {
		w.info("Dry run, not writing", "path", path, "size", humanize.IBytes(uint64(len(out.Data))))
		return path, nil
	}
	if err := w.write(path, out.Data); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("write output plugin").
			WithResource(path).
			WithIssue(issue.OutputWriteFailedId).
			Wrap(err).
			BuildError()
	}
	w.info("Plugin written", "path", path, "lists", len(out.Plugin.Records), "size", humanize.IBytes(uint64(len(out.Data))))
	return path, nil
}

func (w *Writer) write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".jobasha-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	_ = os.Chmod(tmpPath, 0o644)

	if w.Backup {
		if err := backup(path); err != nil {
			_ = os.Remove(tmpPath)
			return err
		}
	}
	if err := replace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// backup moves an existing file at path to path.backup, replacing any
// previous backup.
func backup(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "backup", Path: path, Err: errors.New("is a directory")}
	}
	return replace(path, path+config.BackupSuffix)
}

// replace renames src over dst. Windows refuses to rename onto an existing
// file, so dst is removed first there.
func replace(src, dst string) error {
	if runtime.GOOS == platform.Windows {
		if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return os.Rename(src, dst)
}

func (w *Writer) info(msg string, keyvals ...any) {
	if w.Logger != nil {
		w.Logger.Info(msg, keyvals...)
	}
}
