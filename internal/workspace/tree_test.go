package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestListTreeOrdering(t *testing.T) {
	ws := newTestWorkspace(t)
	mustWrite(t, ws.Root(), "b.txt", "b")
	mustWrite(t, ws.Root(), "a.txt", "a")
	if err := os.Mkdir(filepath.Join(ws.Root(), "A"), 0755); err != nil {
		t.Fatal(err)
	}

	nodes, err := ws.ListTree("")
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}

	want := []string{"A", "a.txt", "b.txt"}
	if len(nodes) != len(want) {
		t.Fatalf("got %d entries, want %d", len(nodes), len(want))
	}
	for i, name := range want {
		if nodes[i].Name != name {
			t.Errorf("entry %d = %q, want %q", i, nodes[i].Name, name)
		}
	}
	if !nodes[0].IsDirectory {
		t.Error("expected A to be a directory")
	}
}

func TestListTreeRecursion(t *testing.T) {
	ws := newTestWorkspace(t)
	mustWrite(t, ws.Root(), "proj/src/main.go", "package main")
	mustWrite(t, ws.Root(), "proj/README.md", "# hi")

	nodes, err := ws.ListTree("proj")
	if err != nil {
		t.Fatalf("ListTree(proj): %v", err)
	}

	if len(nodes) != 2 {
		t.Fatalf("got %d entries, want 2", len(nodes))
	}
	// src dir first, then README.md
	if nodes[0].Name != "src" || !nodes[0].IsDirectory {
		t.Fatalf("expected src dir first, got %+v", nodes[0])
	}
	if nodes[0].Path != "proj/src" {
		t.Errorf("src path = %q, want proj/src", nodes[0].Path)
	}
	if len(nodes[0].Children) != 1 || nodes[0].Children[0].Path != "proj/src/main.go" {
		t.Errorf("unexpected src children: %+v", nodes[0].Children)
	}
	if nodes[0].Children[0].Extension != "go" {
		t.Errorf("extension = %q, want go", nodes[0].Children[0].Extension)
	}
	if nodes[1].Name != "README.md" || nodes[1].Size != int64(len("# hi")) {
		t.Errorf("unexpected file entry: %+v", nodes[1])
	}
}

func TestListTreeDirectorySize(t *testing.T) {
	ws := newTestWorkspace(t)
	mustWrite(t, ws.Root(), "dir/file.txt", "content")

	nodes, err := ws.ListTree("")
	if err != nil {
		t.Fatal(err)
	}
	if nodes[0].Size != 0 {
		t.Errorf("directory size = %d, want 0", nodes[0].Size)
	}
	if nodes[0].Extension != "" {
		t.Errorf("directory extension = %q, want empty", nodes[0].Extension)
	}
}

func TestListTreeMissing(t *testing.T) {
	ws := newTestWorkspace(t)
	if _, err := ws.ListTree("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListTreeOnFile(t *testing.T) {
	ws := newTestWorkspace(t)
	mustWrite(t, ws.Root(), "f.txt", "x")
	if _, err := ws.ListTree("f.txt"); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("err = %v, want ErrNotDirectory", err)
	}
}

func TestListTreeEscape(t *testing.T) {
	ws := newTestWorkspace(t)
	if _, err := ws.ListTree("../outside"); !errors.Is(err, ErrPathEscape) {
		t.Errorf("err = %v, want ErrPathEscape", err)
	}
}

func TestListTreeUnreadableDegrades(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}
	ws := newTestWorkspace(t)
	mustWrite(t, ws.Root(), "locked/secret.txt", "x")
	locked := filepath.Join(ws.Root(), "locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	nodes, err := ws.ListTree("")
	if err != nil {
		t.Fatalf("ListTree should not fail on unreadable subtree: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Name != "locked" {
		t.Fatalf("unexpected entries: %+v", nodes)
	}
	if len(nodes[0].Children) != 0 {
		t.Errorf("unreadable dir should have empty children, got %d", len(nodes[0].Children))
	}
}

func TestListTreeDepthCap(t *testing.T) {
	ws := newTestWorkspace(t)

	// A directory chain deeper than the walk will follow.
	deep := ws.Root()
	for i := 0; i < maxTreeDepth+5; i++ {
		deep = filepath.Join(deep, "d")
	}
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatal(err)
	}

	nodes, err := ws.ListTree("")
	if err != nil {
		t.Fatalf("ListTree should not fail on a too-deep tree: %v", err)
	}

	// The listing truncates at the cap: exactly maxTreeDepth levels come
	// back, and the deepest node has empty children even though more
	// directories exist on disk.
	levels := 0
	for cur := nodes; len(cur) > 0; cur = cur[0].Children {
		if len(cur) != 1 || cur[0].Name != "d" || !cur[0].IsDirectory {
			t.Fatalf("unexpected entries at level %d: %+v", levels, cur)
		}
		levels++
	}
	if levels != maxTreeDepth {
		t.Errorf("listed %d levels, want %d", levels, maxTreeDepth)
	}
}

func TestCountNodes(t *testing.T) {
	ws := newTestWorkspace(t)
	mustWrite(t, ws.Root(), "a/b/c.txt", "x")
	mustWrite(t, ws.Root(), "d.txt", "y")

	nodes, err := ws.ListTree("")
	if err != nil {
		t.Fatal(err)
	}
	// a, a/b, a/b/c.txt, d.txt
	if got := CountNodes(nodes); got != 4 {
		t.Errorf("CountNodes = %d, want 4", got)
	}
}
