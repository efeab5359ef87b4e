package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestManager(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir, ".html", false)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if manager.WrittenCount() != 0 {
		t.Error("Expected initial written count to be 0")
	}

	if manager.IsRendered("trip.html") {
		t.Error("Expected IsRendered to return false for non-existent file")
	}

	path, err := manager.Save(strings.NewReader("<p>gallery</p>"), "trip.html")
	if err != nil {
		t.Fatalf("Failed to save output: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "trip.html")
	if path != expectedPath {
		t.Errorf("Expected path %s, got %s", expectedPath, path)
	}

	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if string(content) != "<p>gallery</p>" {
		t.Errorf("Unexpected content %q", content)
	}

	if _, err := os.Stat(expectedPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be removed")
	}

	if !manager.IsRendered("trip.html") {
		t.Error("Expected IsRendered to return true for written file")
	}

	if manager.WrittenCount() != 1 {
		t.Errorf("Expected written count 1, got %d", manager.WrittenCount())
	}
}

func TestManagerRefusesExisting(t *testing.T) {
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "index.html")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(tempDir, ".html", false)
	if err != nil {
		t.Fatal(err)
	}

	_, err = manager.Save(strings.NewReader("new"), "index.html")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("Expected ErrExists, got %v", err)
	}

	content, _ := os.ReadFile(existing)
	if string(content) != "old" {
		t.Error("Existing file was modified")
	}
}

func TestManagerOverwrite(t *testing.T) {
	tempDir := t.TempDir()
	existing := filepath.Join(tempDir, "index.html")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(tempDir, ".html", true)
	if err != nil {
		t.Fatal(err)
	}

	if manager.IsRendered("index.html") {
		t.Error("Expected IsRendered to be false when overwriting")
	}

	if _, err := manager.Save(strings.NewReader("new"), "index.html"); err != nil {
		t.Fatalf("Failed to overwrite: %v", err)
	}

	content, _ := os.ReadFile(existing)
	if string(content) != "new" {
		t.Errorf("Expected new content, got %q", content)
	}
}

func TestOutputName(t *testing.T) {
	manager, err := NewManager(t.TempDir(), ".html", false)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"posts/trip.md":   "trip.html",
		"index.html":      "index.html",
		"/abs/path/notes": "notes.html",
		"archive.2024.md": "archive.2024.html",
	}
	for input, want := range tests {
		if got := manager.OutputName(input); got != want {
			t.Errorf("OutputName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	manager, err := NewManager(dir, ".html", false)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Error("Expected output directory to be created")
	}
	if manager.OutputDir() != dir {
		t.Errorf("Expected output dir %s, got %s", dir, manager.OutputDir())
	}
}

func TestConcurrentSaves(t *testing.T) {
	manager, err := NewManager(t.TempDir(), ".html", false)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := manager.OutputName(filepath.Join("in", string(rune('a'+i))+".md"))
			if _, err := manager.Save(strings.NewReader("x"), name); err != nil {
				t.Errorf("Failed to save %s: %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	if manager.WrittenCount() != 10 {
		t.Errorf("Expected 10 outputs, got %d", manager.WrittenCount())
	}
}
