package sitecustom

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Logger receives progress messages. *slog.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Editor inserts, detects and removes the managed block in customization scripts.
// It performs no locking: concurrent writers to the same file race and the last
// write wins.
type Editor struct {
	fs  afero.Fs
	log Logger
}

// NewEditor creates an Editor. A nil fs uses the OS filesystem and a nil log
// discards all messages.
func NewEditor(fsys afero.Fs, log Logger) *Editor {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Editor{fs: fsys, log: log}
}

// HasManagedBlock reports whether the file at path contains the start marker.
// A missing file has no block.
func (e *Editor) HasManagedBlock(path string) (bool, error) {
	content, ok, err := e.read(path)
	if err != nil || !ok {
		return false, err
	}
	return strings.Contains(content, StartMarker), nil
}

// RemoveManagedBlock cuts the managed block out of the file at path. If nothing
// else is left the file is deleted. A file without a block is left untouched.
func (e *Editor) RemoveManagedBlock(path string) error {
	e.log.Info("removing automatic activation", "path", path)

	content, ok, err := e.read(path)
	if err != nil {
		return err
	}
	if !ok || !strings.Contains(content, StartMarker) {
		e.log.Info("no installation found", "path", path)
		return nil
	}

	remaining, err := cutBlock(content)
	if err != nil {
		e.log.Warn("managed block is damaged, leaving file untouched", "path", path, "error", err)
		return fmt.Errorf("%s: %w", path, err)
	}

	if strings.TrimSpace(remaining) == "" {
		e.log.Info("module is now empty, removing file", "path", path)
		if err := e.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		return nil
	}
	return e.write(path, remaining)
}

// InsertManagedBlock appends the block for presetName to the file at path,
// creating the file and its parent directories when missing. An existing block
// is kept unless force is set, in which case it is replaced.
func (e *Editor) InsertManagedBlock(path, presetName string, force bool) error {
	block, err := RenderBlock(presetName)
	if err != nil {
		return err
	}

	if info, err := e.fs.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidArgument, path)
	}

	e.log.Info("installing automatic activation", "path", path, "preset", presetName)
	installed, err := e.HasManagedBlock(path)
	if err != nil {
		return err
	}
	if installed {
		if !force {
			e.log.Info("already installed, aborting install", "path", path)
			return nil
		}
		e.log.Warn("already installed but force is set, overwriting", "path", path)
		if err := e.RemoveManagedBlock(path); err != nil {
			return err
		}
	}

	var b strings.Builder
	existing, ok, err := e.read(path)
	if err != nil {
		return err
	}
	if ok {
		b.WriteString(existing)
		b.WriteString("\n")
	}
	b.WriteString(block)

	if err := e.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := e.write(path, b.String()); err != nil {
		return err
	}
	e.log.Info("automatic activation written successfully", "path", path)
	return nil
}

// cutBlock removes the first start..end marker range from content. The newline
// that InsertManagedBlock puts in front of the block is removed with it when
// the block is the last thing in the file.
func cutBlock(content string) (string, error) {
	start := strings.Index(content, StartMarker)
	if start == -1 {
		return "", fmt.Errorf("%w: start marker %q not found", ErrCorruptState, StartMarker)
	}
	n := strings.Index(content[start:], EndMarker)
	if n == -1 {
		return "", fmt.Errorf("%w: end marker %q not found after start marker",
			ErrCorruptState, strings.TrimSuffix(EndMarker, "\n"))
	}
	end := start + n + len(EndMarker)

	head, tail := content[:start], content[end:]
	if tail == "" {
		head = strings.TrimSuffix(head, "\n")
	}
	return head + tail, nil
}

// read returns the content of the regular file at path. Missing paths and
// directories read as absent.
func (e *Editor) read(path string) (string, bool, error) {
	info, err := e.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return "", false, nil
	}
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), true, nil
}

// maxLinkHops bounds symlink resolution.
const maxLinkHops = 40

// resolveLinks follows symlinks at path so writes land on the link target.
// Filesystems without link support return path unchanged. The final target
// does not need to exist.
func (e *Editor) resolveLinks(path string) (string, error) {
	lst, ok := e.fs.(afero.Lstater)
	if !ok {
		return path, nil
	}
	rd, ok := e.fs.(afero.LinkReader)
	if !ok {
		return path, nil
	}
	for range maxLinkHops {
		info, _, err := lst.LstatIfPossible(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}
		target, err := rd.ReadlinkIfPossible(path)
		if err != nil {
			return "", fmt.Errorf("reading link %s: %w", path, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}
	return "", fmt.Errorf("resolving %s: too many levels of symbolic links", path)
}

// write replaces path atomically: temp file in the same directory, fsync, rename.
// Symlinks are followed so the link itself survives.
func (e *Editor) write(path, content string) error {
	path, err := e.resolveLinks(path)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := e.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(e.fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = e.fs.Remove(tmpPath)
	}

	if _, err := tmp.WriteString(content); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = e.fs.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := e.fs.Chmod(tmpPath, mode); err != nil {
		_ = e.fs.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := e.fs.Rename(tmpPath, path); err != nil {
		_ = e.fs.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists on the editor's filesystem.
func (e *Editor) Exists(path string) (bool, error) {
	ok, err := afero.Exists(e.fs, path)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return ok, nil
}
