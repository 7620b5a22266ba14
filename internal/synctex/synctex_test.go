package synctex_test

import (
	"strings"
	"testing"

	"github.com/jxoesneon/ferrotex/internal/synctex"
)

func fixtureIndex() *synctex.Index {
	return &synctex.Index{
		Version: "1",
		Files:   map[uint32]string{1: "main.tex"},
		Boxes: []synctex.Box{
			{
				Tag: 1, Line: 10, Page: 1,
				X: 100.0 * 65536.0, Y: 200.0 * 65536.0,
				Width: 50.0 * 65536.0, Height: 10.0 * 65536.0,
			},
		},
	}
}

func TestForwardSearch(t *testing.T) {
	idx := fixtureIndex()
	r, ok := idx.ForwardSearch("main.tex", 9)
	if !ok {
		t.Fatal("expected a match")
	}
	if r.Page != 1 || r.X != 100.0 || r.Y != 200.0 {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestInverseSearch(t *testing.T) {
	idx := fixtureIndex()
	r, ok := idx.InverseSearch(1, 125.0, 195.0)
	if !ok {
		t.Fatal("expected a match")
	}
	if r.Line != 9 {
		t.Fatalf("expected line 9, got %d", r.Line)
	}
	if !strings.Contains(r.File, "main.tex") {
		t.Fatalf("expected file to contain main.tex, got %q", r.File)
	}
}

func TestInverseSearchOutOfBox(t *testing.T) {
	idx := fixtureIndex()
	if _, ok := idx.InverseSearch(1, 200.0, 300.0); ok {
		t.Fatal("expected no match outside the box")
	}
}

func TestParseSyncTexText(t *testing.T) {
	text := "SyncTeX Version:1\n" +
		"Input:1:main.tex\n" +
		"{1\n" +
		"[1,10,1:100,200,50,10,5\n" +
		"}1\n"
	idx, err := synctex.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if idx.Version != "1" {
		t.Fatalf("expected version 1, got %q", idx.Version)
	}
	if idx.Files[1] != "main.tex" {
		t.Fatalf("expected file tag 1 -> main.tex, got %q", idx.Files[1])
	}
	if len(idx.Boxes) != 1 || idx.Boxes[0].Line != 10 {
		t.Fatalf("unexpected boxes: %+v", idx.Boxes)
	}
}

func TestParseIgnoresMalformedLines(t *testing.T) {
	text := "garbage\n[notanumber\nSyncTeX Version:2\n"
	idx, err := synctex.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if idx.Version != "2" {
		t.Fatalf("expected version 2, got %q", idx.Version)
	}
	if len(idx.Boxes) != 0 {
		t.Fatalf("expected no boxes from malformed input, got %+v", idx.Boxes)
	}
}
