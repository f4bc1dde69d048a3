// Package project manages top-level workspace folders: the "projects" shown
// as folder cards by the web client. All paths go through the workspace path
// resolver before any filesystem call.
package project

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/workdeck/workdeck/internal/workspace"
)

// Folder is the card-level view of one top-level workspace folder.
type Folder struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Entries  int       `json:"entries"`
}

// Project is a folder plus its fully materialized tree.
type Project struct {
	Name     string                `json:"name"`
	Path     string                `json:"path"`
	Created  time.Time             `json:"created"`
	Modified time.Time             `json:"modified"`
	Tree     []*workspace.TreeNode `json:"tree"`
}

// Service implements project operations on top of a workspace.
type Service struct {
	ws *workspace.Workspace
}

// NewService creates a project service.
func NewService(ws *workspace.Workspace) *Service {
	return &Service{ws: ws}
}

// List returns all top-level workspace folders, sorted by name. Non-directory
// entries at the top level are not projects and are skipped.
func (s *Service) List() ([]*Folder, error) {
	entries, err := os.ReadDir(s.ws.Root())
	if err != nil {
		return nil, fmt.Errorf("list workspace: %w", err)
	}

	folders := make([]*Folder, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		folders = append(folders, &Folder{
			Name:     entry.Name(),
			Path:     entry.Name(),
			Created:  info.ModTime(), // creation time is not portably available
			Modified: info.ModTime(),
			Entries:  countEntries(s.ws, entry.Name()),
		})
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

func countEntries(ws *workspace.Workspace, name string) int {
	abs, err := ws.Resolve(name)
	if err != nil {
		return 0
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return 0
	}
	return len(entries)
}

// Create sanitizes the name, creates the folder, and optionally writes the
// project scaffold. Scaffolding is a post-create step: a failure there leaves
// the created folder in place.
func (s *Service) Create(rawName string, scaffold bool) (*Folder, error) {
	name, err := SanitizeName(rawName)
	if err != nil {
		return nil, err
	}

	info, err := s.ws.CreateFolder(name)
	if err != nil {
		return nil, err
	}

	if scaffold {
		if err := s.writeScaffold(name); err != nil {
			return nil, fmt.Errorf("scaffold %s: %w", name, err)
		}
	}

	return &Folder{
		Name:     name,
		Path:     info.Path,
		Created:  info.Modified,
		Modified: info.Modified,
		Entries:  countEntries(s.ws, name),
	}, nil
}

// Get returns a project's metadata and full tree.
func (s *Service) Get(name string) (*Project, error) {
	info, isDir, err := s.ws.Stat(name)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return nil, fmt.Errorf("%s: %w", name, workspace.ErrNotDirectory)
	}

	tree, err := s.ws.ListTree(name)
	if err != nil {
		return nil, err
	}

	return &Project{
		Name:     info.Name,
		Path:     info.Path,
		Created:  info.Modified,
		Modified: info.Modified,
		Tree:     tree,
	}, nil
}

// Delete removes a project folder recursively. Deleting a top-level file
// through this operation is refused.
func (s *Service) Delete(name string) error {
	_, isDir, err := s.ws.Stat(name)
	if err != nil {
		return err
	}
	if !isDir {
		return fmt.Errorf("%s: %w", name, workspace.ErrNotDirectory)
	}

	_, err = s.ws.Delete(name)
	return err
}
