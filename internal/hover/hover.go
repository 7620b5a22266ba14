// Package hover computes textDocument/hover content from a document's
// CST, per spec.md §4.8.
package hover

import (
	"fmt"
	"strings"

	"github.com/jxoesneon/ferrotex/internal/cst"
	"github.com/jxoesneon/ferrotex/internal/token"
)

// Info is a hover result: the plain-text content and the byte range it
// applies to.
type Info struct {
	Contents string
	Range    token.Range
}

// commandDocs is a static seed of tooltips for well-known commands,
// ported from spec.md §4.8's "static description" requirement.
var commandDocs = map[string]string{
	"section":         "\\section{title} — starts a new section.",
	"subsection":      "\\subsection{title} — starts a new subsection.",
	"subsubsection":   "\\subsubsection{title} — starts a new subsubsection.",
	"label":           "\\label{key} — defines a cross-reference target.",
	"ref":             "\\ref{key} — references a \\label by key.",
	"eqref":           "\\eqref{key} — references an equation label, wrapped in parentheses.",
	"pageref":         "\\pageref{key} — references the page number of a \\label.",
	"cite":            "\\cite{key,...} — cites one or more bibliography entries.",
	"citep":           "\\citep{key,...} — parenthetical citation (natbib/biblatex).",
	"citet":           "\\citet{key,...} — textual citation (natbib/biblatex).",
	"input":           "\\input{file} — inlines another .tex file verbatim.",
	"include":         "\\include{file} — includes another .tex file on its own page.",
	"bibliography":    "\\bibliography{file,...} — declares BibTeX source files.",
	"addbibresource":  "\\addbibresource{file} — declares a biblatex resource file.",
	"begin":           "\\begin{name} — opens an environment.",
	"end":             "\\end{name} — closes an environment.",
	"documentclass":   "\\documentclass[options]{class} — declares the document class.",
	"usepackage":      "\\usepackage[options]{name} — loads a package.",
	"newcommand":      "\\newcommand{\\name}[nargs]{def} — defines a new macro.",
	"renewcommand":    "\\renewcommand{\\name}[nargs]{def} — redefines an existing macro.",
	"newenvironment":  "\\newenvironment{name}{begin}{end} — defines a new environment.",
	"left":            "\\left<delim> — opens a delimiter pair sized to its contents; must be matched by \\right.",
	"right":           "\\right<delim> — closes a delimiter pair opened by \\left.",
	"frac":            "\\frac{num}{den} — a two-argument fraction.",
	"textbf":          "\\textbf{text} — bold text.",
	"textit":          "\\textit{text} — italic text.",
	"emph":            "\\emph{text} — emphasized text.",
}

// environmentDocs describes well-known environments.
var environmentDocs = map[string]string{
	"document":    "The top-level environment wrapping the document body.",
	"equation":    "A single numbered displayed equation.",
	"align":       "A block of aligned, numbered equations (amsmath).",
	"figure":      "A floating figure.",
	"table":       "A floating table.",
	"itemize":     "A bulleted list.",
	"enumerate":   "A numbered list.",
	"matrix":      "An unbracketed matrix (amsmath).",
	"pmatrix":     "A matrix delimited by parentheses (amsmath).",
	"bmatrix":     "A matrix delimited by square brackets (amsmath).",
	"tikzpicture": "A TikZ drawing.",
}

// Compute locates the node at offset and, walking up its ancestors,
// returns the first hover this node/ancestor chain has something to
// say about. It returns ok=false for unknown commands/environments and
// plain text, matching spec.md's "unknown commands/environments return
// nothing."
func Compute(tree *cst.Tree, offset int, bibKeys map[string]bool) (Info, bool) {
	id := tree.FindAtOffset(offset)
	for _, anc := range tree.Ancestors(id) {
		n := tree.Node(anc)
		switch n.Kind {
		case cst.KindCitation:
			return Info{Contents: citationHover(n.Name, bibKeys), Range: n.Range}, true
		case cst.KindEnvironment:
			if info, ok := environmentHover(tree, n, offset); ok {
				return info, true
			}
		}
	}

	n := tree.Node(id)
	if n.IsLeaf() && n.Token.Kind == token.Command {
		name := strings.TrimPrefix(string(n.Token.Text), "\\")
		if doc, ok := commandDocs[name]; ok {
			return Info{Contents: doc, Range: n.Range}, true
		}
	}
	return Info{}, false
}

func citationHover(raw string, bibKeys map[string]bool) string {
	var b strings.Builder
	for i, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		if bibKeys[key] {
			fmt.Fprintf(&b, "%s — defined", key)
		} else {
			fmt.Fprintf(&b, "%s — undefined", key)
		}
	}
	return b.String()
}

func environmentHover(tree *cst.Tree, n *cst.Node, offset int) (Info, bool) {
	if doc, ok := environmentDocs[n.Name]; !ok {
		return Info{}, false
	} else if onMarkerOrName(tree, n, offset) {
		return Info{Contents: fmt.Sprintf("%s\n\n%s", n.Name, doc), Range: n.Range}, true
	}
	return Info{}, false
}

// onMarkerOrName reports whether offset sits over a \begin/\end
// command token or the environment name argument, per spec.md §4.8's
// exact trigger condition (hovering the body itself is not enough).
func onMarkerOrName(tree *cst.Tree, n *cst.Node, offset int) bool {
	found := false
	for _, c := range n.Children {
		child := tree.Node(c)
		if !child.Range.Contains(offset) && offset != child.Range.End {
			continue
		}
		if child.IsLeaf() && child.Token.Kind == token.Command {
			found = true
		}
		if child.Kind == cst.KindGroup && child.Range.Contains(offset) {
			found = true
		}
	}
	return found
}
