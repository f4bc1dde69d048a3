package workspace

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/workdeck/workdeck/internal/logging"
)

// maxTreeDepth bounds the recursive walk. Pathological structures (symlink
// cycles, absurd nesting) degrade to empty children past this depth instead
// of recursing forever.
const maxTreeDepth = 32

// ListTree materializes the full tree under rel. Each node is stat'ed at
// listing time; the walk suspends once per subdirectory and holds nothing
// across requests.
//
// Directories sort before files, ties broken by ascending name. Subtrees that
// cannot be read (permissions, race-deleted) degrade to empty children rather
// than failing the listing.
func (ws *Workspace) ListTree(rel string) ([]*TreeNode, error) {
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
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", rel, ErrNotDirectory)
	}

	return ws.listDir(abs, ws.Rel(abs), 0), nil
}

func (ws *Workspace) listDir(abs, rel string, depth int) []*TreeNode {
	if depth >= maxTreeDepth {
		logging.Warn("tree depth cap reached, subtree truncated",
			zap.String("path", rel), zap.Int("depth", depth))
		return []*TreeNode{}
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		logging.Warn("unreadable directory degraded to empty subtree",
			zap.String("path", rel), zap.Error(err))
		return []*TreeNode{}
	}

	nodes := make([]*TreeNode, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and stat.
			continue
		}

		childRel := path.Join(rel, entry.Name())
		node := &TreeNode{
			Name:        entry.Name(),
			Path:        childRel,
			IsDirectory: entry.IsDir(),
			Modified:    info.ModTime(),
		}
		if entry.IsDir() {
			node.Children = ws.listDir(filepath.Join(abs, entry.Name()), childRel, depth+1)
		} else {
			node.Size = info.Size()
			node.Extension = extension(entry.Name())
		}
		nodes = append(nodes, node)
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDirectory != nodes[j].IsDirectory {
			return nodes[i].IsDirectory
		}
		return nodes[i].Name < nodes[j].Name
	})
	return nodes
}

// CountNodes counts all nodes in a listed tree.
func CountNodes(nodes []*TreeNode) int {
	count := 0
	for _, n := range nodes {
		count++
		count += CountNodes(n.Children)
	}
	return count
}
