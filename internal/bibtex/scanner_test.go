package bibtex_test

import (
	"testing"

	"github.com/jxoesneon/ferrotex/internal/bibtex"
)

func TestScanBasicEntry(t *testing.T) {
	src := `@Article{knuth1984, title = {Literate Programming}, year = 1984}`
	entries := bibtex.Scan([]byte(src))
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(entries), entries)
	}
	if entries[0].Type != "article" || entries[0].Key != "knuth1984" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestScanMultipleEntries(t *testing.T) {
	src := `@book{a, x = 1}
@inproceedings{b, y = {nested {braces} ok}}`
	entries := bibtex.Scan([]byte(src))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Key != "a" || entries[1].Key != "b" {
		t.Fatalf("unexpected keys: %+v", entries)
	}
}

func TestScanDropsUnclosedEntry(t *testing.T) {
	src := `@article{broken, title = {no closing brace`
	entries := bibtex.Scan([]byte(src))
	if len(entries) != 0 {
		t.Fatalf("expected unclosed entry to be dropped, got %+v", entries)
	}
}

func TestScanSkipsGarbageBeforeAt(t *testing.T) {
	src := "% a comment\n@misc{m, note = {x}}"
	entries := bibtex.Scan([]byte(src))
	if len(entries) != 1 || entries[0].Key != "m" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func FuzzScanNeverPanics(f *testing.F) {
	f.Add(`@article{a, x = {y}}`)
	f.Add(`@{}`)
	f.Add(`@@@{{{`)
	f.Fuzz(func(t *testing.T, s string) {
		bibtex.Scan([]byte(s))
	})
}
