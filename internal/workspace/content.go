package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"unicode/utf8"
)

// isNotExist also treats a path that runs through a regular file (ENOTDIR)
// as missing, so "file.txt/child" reports not-found instead of an internal
// error.
func isNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR)
}

// ReadFile reads a single file and classifies it as text or binary. Files
// larger than the configured cap are rejected before any bytes are loaded.
func (ws *Workspace) ReadFile(rel string) (*FileContent, error) {
	abs, err := ws.Resolve(rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", rel, ErrIsDirectory)
	}
	if info.Size() > ws.maxFileSize {
		return nil, fmt.Errorf("%s (%d bytes): %w", rel, info.Size(), ErrTooLarge)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	fc := &FileContent{
		Name:      info.Name(),
		Path:      ws.Rel(abs),
		Extension: extension(info.Name()),
		Size:      info.Size(),
		Modified:  info.ModTime(),
	}
	if isBinary(data) {
		fc.IsBinary = true
		fc.Type = "binary"
	} else {
		text := string(data)
		fc.Content = &text
		fc.Type = "text"
	}
	return fc, nil
}

// isBinary reports whether data fails the text heuristic: the bytes must
// decode as UTF-8 and contain no control characters outside the whitespace
// range (tab, LF, VT, FF, CR are allowed). Deliberately not a MIME sniffer;
// edge-case encodings misclassifying is accepted behavior.
func isBinary(data []byte) bool {
	if !utf8.Valid(data) {
		return true
	}
	for _, r := range string(data) {
		if r <= 0x08 || (r >= 0x0E && r <= 0x1F) || (r >= 0x7F && r <= 0x9F) {
			return true
		}
	}
	return false
}

// WriteFile overwrites (or creates) a file with the given text, creating any
// missing parent directories. There is no concurrency check: the last write
// to complete wins.
func (ws *Workspace) WriteFile(rel, content string) (*EntryInfo, error) {
	abs, err := ws.Resolve(rel)
	if err != nil {
		return nil, err
	}

	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		return nil, fmt.Errorf("%s: %w", rel, ErrIsDirectory)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, fmt.Errorf("create parents for %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", rel, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	return newEntryInfo(ws.Rel(abs), info), nil
}

// CreateFile creates a new file exclusively: if the target already exists the
// operation fails with ErrExists and the existing content is untouched.
// Missing parent directories are created.
func (ws *Workspace) CreateFile(rel, content string) (*EntryInfo, error) {
	abs, err := ws.Resolve(rel)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, fmt.Errorf("create parents for %s: %w", rel, err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%s: %w", rel, ErrExists)
		}
		return nil, fmt.Errorf("create %s: %w", rel, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", rel, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	return newEntryInfo(ws.Rel(abs), info), nil
}

// CreateFolder creates a directory (and missing parents). The target itself
// must not already exist.
func (ws *Workspace) CreateFolder(rel string) (*EntryInfo, error) {
	abs, err := ws.Resolve(rel)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(abs); statErr == nil {
		return nil, fmt.Errorf("%s: %w", rel, ErrExists)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create folder %s: %w", rel, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	return newEntryInfo(ws.Rel(abs), info), nil
}

// Delete removes the target entry. Directories are removed recursively and
// unconditionally; files are removed singly. Returns "folder" or "file" for
// caller messaging.
func (ws *Workspace) Delete(rel string) (string, error) {
	abs, err := ws.Resolve(rel)
	if err != nil {
		return "", err
	}
	if abs == ws.root {
		return "", fmt.Errorf("refusing to delete workspace root: %w", ErrInvalidName)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if isNotExist(err) {
			return "", fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return "", fmt.Errorf("stat %s: %w", rel, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(abs); err != nil {
			return "", fmt.Errorf("delete folder %s: %w", rel, err)
		}
		return "folder", nil
	}
	if err := os.Remove(abs); err != nil {
		return "", fmt.Errorf("delete %s: %w", rel, err)
	}
	return "file", nil
}

// Stat returns metadata for a single entry.
func (ws *Workspace) Stat(rel string) (*EntryInfo, bool, error) {
	abs, err := ws.Resolve(rel)
	if err != nil {
		return nil, false, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if isNotExist(err) {
			return nil, false, fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return nil, false, fmt.Errorf("stat %s: %w", rel, err)
	}
	return newEntryInfo(ws.Rel(abs), info), info.IsDir(), nil
}
