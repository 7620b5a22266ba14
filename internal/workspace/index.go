package workspace

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/jxoesneon/ferrotex/internal/token"
)

// Index holds one Snapshot per open URI. Updates replace a document's
// Snapshot atomically; global queries (QuerySymbols, ValidateLabels,
// DetectCycles) read a point-in-time view assembled from whatever
// snapshots are present, without holding a lock across the whole
// operation.
type Index struct {
	docs sync.Map // string uri -> *Snapshot
}

// New creates an empty Index.
func New() *Index {
	return &Index{}
}

// Update parses text and atomically replaces the snapshot for uri.
func (idx *Index) Update(uri, text string, version int32) *Snapshot {
	snap := buildSnapshot(uri, text, version)
	idx.docs.Store(uri, snap)
	return snap
}

// Remove drops the snapshot for uri, e.g. on textDocument/didClose.
func (idx *Index) Remove(uri string) {
	idx.docs.Delete(uri)
}

// Get returns the current snapshot for uri, if any.
func (idx *Index) Get(uri string) (*Snapshot, bool) {
	v, ok := idx.docs.Load(uri)
	if !ok {
		return nil, false
	}
	return v.(*Snapshot), true
}

// each calls fn for every snapshot currently in the index.
func (idx *Index) each(fn func(*Snapshot)) {
	idx.docs.Range(func(_, v any) bool {
		fn(v.(*Snapshot))
		return true
	})
}

// QuerySymbols returns every symbol across every document whose name
// starts with prefix.
func (idx *Index) QuerySymbols(prefix string) []Symbol {
	var out []Symbol
	idx.each(func(s *Snapshot) {
		for _, sym := range s.Symbols {
			if strings.HasPrefix(sym.Name, prefix) {
				out = append(out, sym)
			}
		}
	})
	return out
}

// LabelDiagnostic is an undefined- or duplicate-label finding.
type LabelDiagnostic struct {
	URI     string
	Range   token.Range
	Message string
}

// ValidateLabels enumerates every \ref{...}-family use across every
// document and flags keys with no \label{...} definition anywhere in
// the workspace, plus keys defined more than once.
func (idx *Index) ValidateLabels() []LabelDiagnostic {
	defCount := make(map[string]int)
	idx.each(func(s *Snapshot) {
		for _, d := range s.LabelDefs {
			defCount[d.Key]++
		}
	})

	var diags []LabelDiagnostic
	idx.each(func(s *Snapshot) {
		for _, use := range s.LabelUses {
			if defCount[use.Key] == 0 {
				diags = append(diags, LabelDiagnostic{
					URI:     s.URI,
					Range:   use.Range,
					Message: fmt.Sprintf("Undefined label `%s`", use.Key),
				})
			}
		}
		for _, def := range s.LabelDefs {
			if defCount[def.Key] > 1 {
				diags = append(diags, LabelDiagnostic{
					URI:     s.URI,
					Range:   def.Range,
					Message: fmt.Sprintf("Duplicate label `%s`", def.Key),
				})
			}
		}
	})
	return diags
}

// edge is one resolved include: the target URI, the byte range of the
// whole \input{...}/\include{...} command in the source document, and
// the raw path text.
type edge struct {
	target string
	rng    token.Range
	raw    string
}

// resolveInclude joins a raw \input/\include path against the
// including document's URI, the way a browser resolves a relative
// link against its page URL. This mirrors Rust's Url::join, which the
// original workspace.rs relies on for the same purpose.
func resolveInclude(baseURI, rawPath string) (string, bool) {
	base, err := url.Parse(baseURI)
	if err != nil {
		return "", false
	}
	path := rawPath
	if !strings.HasSuffix(path, ".tex") && !strings.Contains(path, ".") {
		path += ".tex"
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}

// CycleDiagnostic reports an include cycle detected at the point it
// closes back on an ancestor.
type CycleDiagnostic struct {
	URI     string
	Range   token.Range
	Message string
}

// DetectCycles builds a snapshot graph of uri -> resolved includes and
// runs one DFS per start vertex, following
// ferrotexd/src/workspace.rs::check_cycle_dfs exactly: a gray
// path-stack per DFS run, and a fresh `visited` set per start vertex,
// so every vertex gets its own complete traversal rather than being
// short-circuited by an earlier run that happened to visit it first.
func (idx *Index) DetectCycles() []CycleDiagnostic {
	graph := make(map[string][]edge)
	idx.each(func(s *Snapshot) {
		var edges []edge
		for _, inc := range s.Includes {
			if target, ok := resolveInclude(s.URI, inc.Path); ok {
				edges = append(edges, edge{target: target, rng: inc.Range, raw: inc.Path})
			}
		}
		graph[s.URI] = edges
	})

	var nodes []string
	for uri := range graph {
		nodes = append(nodes, uri)
	}

	var found []CycleDiagnostic
	for _, start := range nodes {
		visited := make(map[string]bool)
		detectCycleDFS(start, graph, visited, nil, &found)
	}

	return dedupCycles(found)
}

func detectCycleDFS(current string, graph map[string][]edge, visited map[string]bool, pathStack []string, out *[]CycleDiagnostic) {
	pathStack = append(pathStack, current)
	visited[current] = true

	for _, e := range graph[current] {
		if contains(pathStack, e.target) {
			*out = append(*out, CycleDiagnostic{
				URI:     current,
				Range:   e.rng,
				Message: fmt.Sprintf("Cycle detected: '%s' includes ancestor %s", e.raw, e.target),
			})
		} else if !visited[e.target] {
			detectCycleDFS(e.target, graph, visited, pathStack, out)
		}
	}
}

func contains(stack []string, target string) bool {
	for _, s := range stack {
		if s == target {
			return true
		}
	}
	return false
}

func dedupCycles(cycles []CycleDiagnostic) []CycleDiagnostic {
	type key struct {
		uri string
		rng token.Range
		msg string
	}
	seen := make(map[key]bool)
	var out []CycleDiagnostic
	for _, c := range cycles {
		k := key{c.URI, c.Range, c.Message}
		if !seen[k] {
			seen[k] = true
			out = append(out, c)
		}
	}
	return out
}
