package state

import (
	"os"
	"path/filepath"
	"testing"
)

var testAllowed = []string{"quickstart-done", "version", "mainwindow"}

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state")
}

func writeState(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNew_MissingFile(t *testing.T) {
	c, err := New(statePath(t), testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	sections := c.Sections()
	if len(sections) != 2 || sections[0] != "general" || sections[1] != "geometry" {
		t.Errorf("Sections() = %v, want [general geometry]", sections)
	}
}

func TestNew_MalformedFile(t *testing.T) {
	path := statePath(t)
	writeState(t, path, "[general]\nthis line has no delimiter\n")

	if _, err := New(path, testAllowed); err == nil {
		t.Error("New() should fail on a malformed file")
	}
}

func TestSave_Empty(t *testing.T) {
	path := statePath(t)
	c, err := New(path, testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := c.Save(); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[general]\n\n[geometry]\n\n"
	if string(data) != want {
		t.Errorf("saved file = %q, want %q", data, want)
	}
}

func TestNew_DropsUnknownKeys(t *testing.T) {
	path := statePath(t)
	writeState(t, path, "[general]\nfooled = true\n")

	c, err := New(path, testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, ok := c.Get("general", "fooled"); ok {
		t.Error("unknown key should be dropped at load")
	}

	if err := c.Save(); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	data, _ := os.ReadFile(path)
	want := "[general]\n\n[geometry]\n\n"
	if string(data) != want {
		t.Errorf("saved file = %q, want %q", data, want)
	}
}

func TestRoundTrip(t *testing.T) {
	path := statePath(t)
	writeState(t, path, "[general]\nquickstart-done = 1\n\n[geometry]\nmainwindow = 100x200\n")

	c, err := New(path, testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if got, ok := c.Get("general", "quickstart-done"); !ok || got != "1" {
		t.Errorf("Get(general, quickstart-done) = %q, %v", got, ok)
	}
	if got, ok := c.Get("geometry", "mainwindow"); !ok || got != "100x200" {
		t.Errorf("Get(geometry, mainwindow) = %q, %v", got, ok)
	}

	if err := c.Save(); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	data, _ := os.ReadFile(path)
	want := "[general]\nquickstart-done = 1\n\n[geometry]\nmainwindow = 100x200\n\n"
	if string(data) != want {
		t.Errorf("saved file = %q, want %q", data, want)
	}
}

func TestSetAndSave(t *testing.T) {
	path := statePath(t)
	c, err := New(path, testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	c.Set("general", "version", "1.2.3")
	if err := c.Save(); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	data, _ := os.ReadFile(path)
	want := "[general]\nversion = 1.2.3\n\n[geometry]\n\n"
	if string(data) != want {
		t.Errorf("saved file = %q, want %q", data, want)
	}
}

func TestSet_NewSection(t *testing.T) {
	path := statePath(t)
	c, err := New(path, testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	c.Set("inspector", "mainwindow", "50x50")
	if err := c.Save(); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	data, _ := os.ReadFile(path)
	want := "[general]\n\n[geometry]\n\n[inspector]\nmainwindow = 50x50\n\n"
	if string(data) != want {
		t.Errorf("saved file = %q, want %q", data, want)
	}
}

func TestDelete(t *testing.T) {
	c, err := New(statePath(t), testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	c.Set("general", "version", "1.0")
	c.Delete("general", "version")
	if _, ok := c.Get("general", "version"); ok {
		t.Error("key should be gone after Delete")
	}

	// Deleting a missing key or section is a no-op.
	c.Delete("general", "version")
	c.Delete("nosuchsection", "key")
}

func TestNew_SectionlessKeysGoToGeneral(t *testing.T) {
	path := statePath(t)
	writeState(t, path, "quickstart-done = 1\n")

	c, err := New(path, testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if got, ok := c.Get("general", "quickstart-done"); !ok || got != "1" {
		t.Errorf("Get(general, quickstart-done) = %q, %v, want 1", got, ok)
	}
}

func TestSet_Overwrite(t *testing.T) {
	path := statePath(t)
	c, err := New(path, testAllowed)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	c.Set("general", "version", "1.0")
	c.Set("general", "version", "2.0")
	if err := c.Save(); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	data, _ := os.ReadFile(path)
	want := "[general]\nversion = 2.0\n\n[geometry]\n\n"
	if string(data) != want {
		t.Errorf("saved file = %q, want %q", data, want)
	}
}
