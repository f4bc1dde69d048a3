package workspace

import (
	"os"
	"path"
	"strings"
	"time"
)

// TreeNode is one filesystem entry in a tree listing. Nodes are built fresh on
// every request and never mutated after construction.
type TreeNode struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"` // workspace-relative, forward slashes
	IsDirectory bool        `json:"isDirectory"`
	Size        int64       `json:"size"` // 0 for directories
	Modified    time.Time   `json:"modified"`
	Extension   string      `json:"extension,omitempty"`
	Children    []*TreeNode `json:"children,omitempty"`
}

// FileContent is a read file's payload and text/binary classification.
// Content is omitted for binary files.
type FileContent struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Extension string    `json:"extension,omitempty"`
	Size      int64     `json:"size"`
	Modified  time.Time `json:"modified"`
	Content   *string   `json:"content,omitempty"`
	IsBinary  bool      `json:"isBinary"`
	Type      string    `json:"type"` // "text" or "binary"
}

// EntryInfo is the metadata returned by mutating operations.
type EntryInfo struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// extension returns the lowercased file extension without the leading dot,
// or "" when there is none.
func extension(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	return strings.ToLower(ext)
}

func newEntryInfo(rel string, info os.FileInfo) *EntryInfo {
	return &EntryInfo{
		Name:     info.Name(),
		Path:     rel,
		Size:     info.Size(),
		Modified: info.ModTime(),
	}
}
