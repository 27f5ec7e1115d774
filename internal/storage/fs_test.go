package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempWorkspace(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempWorkspace(t)
	content := []byte("## Today's Tasks\n1. **Write**\n")
	if err := s.Write("state.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("state.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempWorkspace(t)
	if err := s.Write("runs/state_20261014_090000.md", []byte("snap")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("runs/state_20261014_090000.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "snap" {
		t.Errorf("content = %q", got)
	}
}

func TestReadMissingIsNotExist(t *testing.T) {
	s := tempWorkspace(t)
	_, err := s.Read("state.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestExists(t *testing.T) {
	s := tempWorkspace(t)
	ok, err := s.Exists("state.md")
	if err != nil || ok {
		t.Fatalf("Exists before write = %v, %v", ok, err)
	}
	_ = s.Write("state.md", []byte("x"))
	ok, err = s.Exists("state.md")
	if err != nil || !ok {
		t.Errorf("Exists after write = %v, %v", ok, err)
	}
}

func TestList(t *testing.T) {
	s := tempWorkspace(t)
	_ = s.Write("runs/b.md", []byte("b"))
	_ = s.Write("runs/a.md", []byte("a"))
	_ = s.Write("runs/readme.txt", []byte("not md"))
	_ = s.Write("state.md", []byte("s"))

	items, err := s.List("runs")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Path != "runs/a.md" || items[1].Path != "runs/b.md" {
		t.Errorf("paths = %s, %s", items[0].Path, items[1].Path)
	}
	if items[0].Checksum == "" {
		t.Error("checksum should be set")
	}
}

func TestListMissingDir(t *testing.T) {
	s := tempWorkspace(t)
	items, err := s.List("summaries")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempWorkspace(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTemp(t *testing.T) {
	s := tempWorkspace(t)
	_ = s.Write("state.md", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("state.md", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("state.md")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".braindump-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "braindump-test-*")
	_ = f.Close()
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
