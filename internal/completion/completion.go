// Package completion implements textDocument/completion, per spec.md
// §4.9: a static seed list merged with package-index-derived items, no
// context analysis.
package completion

import "github.com/jxoesneon/ferrotex/internal/pkgindex"

// Kind distinguishes a completion item's syntactic category, mirroring
// the LSP CompletionItemKind values the dispatcher maps these onto
// (Function for commands, Module for environments).
type Kind uint8

const (
	KindCommand Kind = iota
	KindEnvironment
)

// Item is one completion candidate.
type Item struct {
	Label string
	Kind  Kind
	// Detail names the originating package, empty for static seeds.
	Detail string
}

// seedCommands is the static command seed list.
var seedCommands = []string{
	"section", "subsection", "subsubsection", "label", "ref", "eqref",
	"pageref", "cite", "citep", "citet", "input", "include",
	"bibliography", "addbibresource", "documentclass", "usepackage",
	"newcommand", "renewcommand", "newenvironment", "left", "right",
	"frac", "textbf", "textit", "emph", "item", "footnote", "caption",
}

// seedEnvironments is the static environment seed list.
var seedEnvironments = []string{
	"document", "equation", "align", "figure", "table", "itemize",
	"enumerate", "matrix", "pmatrix", "bmatrix", "tikzpicture",
}

// Seeds returns the static completion items, independent of any
// package index.
func Seeds() []Item {
	items := make([]Item, 0, len(seedCommands)+len(seedEnvironments))
	for _, c := range seedCommands {
		items = append(items, Item{Label: c, Kind: KindCommand})
	}
	for _, e := range seedEnvironments {
		items = append(items, Item{Label: e, Kind: KindEnvironment})
	}
	return items
}

// FromIndex derives completion items from a scanned package index: one
// item per discovered \newcommand/\newenvironment, per spec.md §4.9.
func FromIndex(idx *pkgindex.Index) []Item {
	if idx == nil {
		return nil
	}
	var items []Item
	for pkg, meta := range idx.Packages {
		for _, cmd := range meta.Commands {
			items = append(items, Item{Label: cmd, Kind: KindCommand, Detail: pkg})
		}
		for _, env := range meta.Environments {
			items = append(items, Item{Label: env, Kind: KindEnvironment, Detail: pkg})
		}
	}
	return items
}

// Merge unions the static seeds with package-index-derived items. The
// provider does no context analysis or deduplication beyond this
// union, matching spec.md §4.9.
func Merge(idx *pkgindex.Index) []Item {
	return append(Seeds(), FromIndex(idx)...)
}
