// Package synctex reads SyncTeX synchronization data (the .synctex /
// .synctex.gz file engines write next to a compiled PDF) and resolves
// forward search (source position -> PDF coordinate) and inverse
// search (PDF coordinate -> source position), per spec.md §4.6.
package synctex

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// unitsPerPoint is the SyncTeX fixed-point scale: coordinates in the
// file are stored as 1/65536 of a point.
const unitsPerPoint = 65536.0

// Box is one positioned record from the SyncTeX file: a glyph, rule,
// or box placed at (X, Y) with the given extent, tied back to a
// source file tag and line.
type Box struct {
	Tag    uint32
	Line   uint32
	Page   uint32
	X, Y   float64
	Width  float64
	Height float64
}

// Index is a parsed SyncTeX file: the tag-to-source-file table plus
// every positioned box, ready for forward/inverse search.
type Index struct {
	Version string
	Files   map[uint32]string
	Boxes   []Box
}

// ForwardResult is where a source position maps to in the PDF.
type ForwardResult struct {
	Page uint32
	X, Y float64
}

// InverseResult is where a PDF coordinate maps to in the source.
type InverseResult struct {
	File string
	Line uint32
}

// Load locates and parses the SyncTeX data for pdfPath, preferring
// the gzip-compressed form (`<name>.synctex.gz`) and falling back to
// the plain form (`<name>.synctex`), matching how latexmk/tectonic
// name their output.
func Load(pdfPath string) (*Index, error) {
	gzPath := swapExt(pdfPath, ".synctex.gz")
	if _, err := os.Stat(gzPath); err == nil {
		return loadFile(gzPath, true)
	}
	plainPath := swapExt(pdfPath, ".synctex")
	if _, err := os.Stat(plainPath); err == nil {
		return loadFile(plainPath, false)
	}
	return nil, os.ErrNotExist
}

func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func loadFile(path string, gzipped bool) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return Parse(r)
}

// Parse reads SyncTeX text format records from r. Unrecognized or
// malformed lines are skipped rather than treated as fatal, since the
// format has engine-specific extensions this parser does not need to
// understand for search purposes.
func Parse(r io.Reader) (*Index, error) {
	idx := &Index{Files: make(map[uint32]string)}
	var currentPage uint32

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "SyncTeX Version:"):
			idx.Version = strings.TrimSpace(strings.TrimPrefix(line, "SyncTeX Version:"))
		case strings.HasPrefix(line, "Input:"):
			rest := strings.TrimPrefix(line, "Input:")
			parts := strings.SplitN(rest, ":", 2)
			if len(parts) == 2 {
				if tag, err := strconv.ParseUint(parts[0], 10, 32); err == nil {
					idx.Files[uint32(tag)] = parts[1]
				}
			}
		case line[0] == '{':
			if n, err := strconv.ParseUint(strings.TrimSpace(line[1:]), 10, 32); err == nil {
				currentPage = uint32(n)
			}
		case isBoxRecord(line[0]):
			if b, ok := parseBox(line[1:], currentPage); ok {
				idx.Boxes = append(idx.Boxes, b)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

func isBoxRecord(c byte) bool {
	switch c {
	case '[', '(', 'v', 'h', 'x', 'g':
		return true
	}
	return false
}

// parseBox decodes "tag,line:x,y,w,h[,...]" into a Box. Extra trailing
// fields (depth, etc.) are ignored.
func parseBox(content string, page uint32) (Box, bool) {
	parts := strings.SplitN(content, ":", 2)
	if len(parts) != 2 {
		return Box{}, false
	}
	left := strings.Split(parts[0], ",")
	right := strings.Split(parts[1], ",")
	if len(left) < 2 || len(right) < 4 {
		return Box{}, false
	}
	tag, _ := strconv.ParseUint(left[0], 10, 32)
	line, _ := strconv.ParseUint(left[1], 10, 32)
	x, _ := strconv.ParseFloat(right[0], 64)
	y, _ := strconv.ParseFloat(right[1], 64)
	w, _ := strconv.ParseFloat(right[2], 64)
	h, _ := strconv.ParseFloat(right[3], 64)
	return Box{Tag: uint32(tag), Line: uint32(line), Page: page, X: x, Y: y, Width: w, Height: h}, true
}

// ForwardSearch finds where texPath:line renders in the PDF: the
// first box on or after the given line belonging to a file whose
// indexed path matches texPath by suffix (SyncTeX paths are often
// relative to the build directory, texPath is usually absolute or
// workspace-relative, so neither side is assumed canonical).
func (idx *Index) ForwardSearch(texPath string, line uint32) (ForwardResult, bool) {
	tag, ok := idx.tagFor(texPath)
	if !ok {
		return ForwardResult{}, false
	}
	for _, b := range idx.Boxes {
		if b.Tag == tag && b.Line >= line+1 {
			return ForwardResult{Page: b.Page, X: b.X / unitsPerPoint, Y: b.Y / unitsPerPoint}, true
		}
	}
	return ForwardResult{}, false
}

func (idx *Index) tagFor(texPath string) (uint32, bool) {
	for tag, p := range idx.Files {
		if pathSuffixMatch(p, texPath) {
			return tag, true
		}
	}
	return 0, false
}

func pathSuffixMatch(a, b string) bool {
	a = filepath.ToSlash(a)
	b = filepath.ToSlash(b)
	return strings.HasSuffix(a, b) || strings.HasSuffix(b, a)
}

// InverseSearch finds the source file and line under PDF coordinate
// (x, y) in points on the given page, preferring the smallest
// (most specific) containing box when several overlap.
func (idx *Index) InverseSearch(page uint32, x, y float64) (InverseResult, bool) {
	targetX := x * unitsPerPoint
	targetY := y * unitsPerPoint

	var best *Box
	minArea := float64(-1)
	for i := range idx.Boxes {
		b := &idx.Boxes[i]
		if b.Page != page {
			continue
		}
		if targetX < b.X || targetX > b.X+b.Width {
			continue
		}
		if targetY < b.Y-b.Height || targetY > b.Y {
			continue
		}
		area := b.Width * b.Height
		if minArea < 0 || area < minArea {
			minArea = area
			best = b
		}
	}
	if best == nil {
		return InverseResult{}, false
	}
	path, ok := idx.Files[best.Tag]
	if !ok {
		return InverseResult{}, false
	}
	line := best.Line
	if line > 0 {
		line--
	}
	return InverseResult{File: path, Line: line}, true
}
