package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-pinball/internal/physics"
)

func TestEmbeddedTables(t *testing.T) {
	src, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded() failed: %v", err)
	}
	if n := src.NumberOfLevels(); n != 3 {
		t.Fatalf("NumberOfLevels() = %d, want 3", n)
	}

	wantNames := []string{"Classic", "Fast Lane", "Drift"}
	for i, want := range wantNames {
		level := i + 1
		if got := src.Name(level); got != want {
			t.Errorf("Name(%d) = %q, want %q", level, got, want)
		}
		layout, err := src.Layout(level)
		if err != nil {
			t.Fatalf("Layout(%d) failed: %v", level, err)
		}
		if err := physics.New().Load(layout); err != nil {
			t.Errorf("level %d does not load into the engine: %v", level, err)
		}
	}

	for level, want := range map[int]float64{1: 1.0, 2: 1.3, 3: 0.8} {
		l, _ := src.Layout(level)
		if got := l.TargetTimeRatio(); got != want {
			t.Errorf("level %d targetTimeRatio = %v, want %v", level, got, want)
		}
	}
}

func TestLayoutOutOfRange(t *testing.T) {
	src, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	for _, level := range []int{0, -1, 4} {
		if _, err := src.Layout(level); err == nil {
			t.Errorf("Layout(%d) should fail", level)
		}
		if src.Name(level) != "" {
			t.Errorf("Name(%d) should be empty", level)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.yml", "width: 10\nheight: 10\n")
	write("a.json", `{"name": "First", "width": 5, "height": 5, "bumpers": [{"x": 1, "y": 2}]}`)
	write("notes.txt", "ignored")

	src, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() failed: %v", err)
	}
	if src.NumberOfLevels() != 2 {
		t.Fatalf("NumberOfLevels() = %d, want 2", src.NumberOfLevels())
	}
	if src.Name(1) != "First" || src.Name(2) != "b" {
		t.Errorf("names = %q, %q", src.Name(1), src.Name(2))
	}
	l, _ := src.Layout(1)
	if bumpers := l.List("bumpers"); len(bumpers) != 1 || bumpers[0].Float("y", 0) != 2 {
		t.Errorf("nested list not normalized: %v", l["bumpers"])
	}
}

func TestLoadDirErrors(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Error("expected error for empty dir")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("width: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Error("expected validation error")
	}
}

func TestNormalizeNonStringKeys(t *testing.T) {
	l, err := Decode([]byte("width: 4\nheight: 4\nlabels:\n  1: one\n"))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if l.Map("labels").String("1", "") != "one" {
		t.Errorf("labels = %#v", l["labels"])
	}
}
