// Package workspace implements the sandboxed workspace file tree: path
// confinement against the workspace root, recursive tree listing, and file
// content operations with text/binary classification.
//
// Every operation re-reads disk state; nothing is cached between calls and no
// locking is performed. Concurrent writes to the same path race at the
// filesystem level and the last write wins.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMaxFileSize is the read size cap when none is configured.
const DefaultMaxFileSize = 10 << 20 // 10 MiB

// Workspace owns a single directory tree. The root is canonicalized once at
// construction and acts as the trust boundary for all client-supplied paths.
type Workspace struct {
	root        string
	maxFileSize int64
}

// New creates a workspace rooted at dir, creating the directory if absent.
func New(dir string, maxFileSize int64) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat root %s: %w", abs, err)
		}
		if mkErr := os.MkdirAll(abs, 0755); mkErr != nil {
			return nil, fmt.Errorf("create root %s: %w", abs, mkErr)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}

	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Workspace{root: abs, maxFileSize: maxFileSize}, nil
}

// Root returns the canonicalized absolute workspace root.
func (ws *Workspace) Root() string { return ws.root }

// MaxFileSize returns the read size cap in bytes.
func (ws *Workspace) MaxFileSize() int64 { return ws.maxFileSize }
