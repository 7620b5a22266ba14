package pkgindex_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jxoesneon/ferrotex/internal/pkgindex"
)

func TestScanExtractsCommandsAndEnvironments(t *testing.T) {
	dir := t.TempDir()
	styDir := filepath.Join(dir, "tex", "latex", "mypkg")
	if err := os.MkdirAll(styDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
\newcommand{\foo}{bar}
\renewcommand*{\baz}[1]{qux}
\newenvironment{myenv}{start}{end}
\newenvironment{starenv*}{start}{end}
`
	if err := os.WriteFile(filepath.Join(styDir, "mypkg.sty"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := pkgindex.Scan(filepath.Join(dir, "tex", "latex"))
	meta, ok := idx.Packages["mypkg"]
	if !ok {
		t.Fatalf("expected package 'mypkg' in index, got %+v", idx.Packages)
	}
	if !contains(meta.Commands, "foo") || !contains(meta.Commands, "baz") {
		t.Fatalf("expected commands foo and baz, got %v", meta.Commands)
	}
	if !contains(meta.Environments, "myenv") || !contains(meta.Environments, "starenv*") {
		t.Fatalf("expected environments myenv and starenv*, got %v", meta.Environments)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	idx := pkgindex.NewIndex()
	idx.Packages["amsmath"] = pkgindex.Metadata{Commands: []string{"frac"}, Environments: []string{"align"}}

	path := filepath.Join(t.TempDir(), "nested", "packages.json")
	if err := pkgindex.Save(path, idx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := pkgindex.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Packages["amsmath"].Commands[0] != "frac" {
		t.Fatalf("unexpected loaded content: %+v", loaded.Packages)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
