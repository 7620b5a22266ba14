package cst

import (
	"strings"

	"github.com/jxoesneon/ferrotex/internal/invariant"
	"github.com/jxoesneon/ferrotex/internal/token"
)

// frame is a partially-built branch node, accumulated while its
// matching evClose has not yet been seen.
type frame struct {
	kind     Kind
	children []NodeID
}

// build materializes a flat event log (as produced by parser.element
// et al.) into a concrete arena. This is the second half of the
// teacher's two-phase event-stream-then-tree approach.
func build(src []byte, toks []token.Token, events []event, errs []SyntaxError) *Tree {
	t := &Tree{Source: src, Errors: errs}
	// Reserve arena slot 0 up front so NodeID values assigned while
	// building children never collide with the eventual root id.
	t.Nodes = append(t.Nodes, Node{})

	var stack []frame

	for _, ev := range events {
		switch ev.kind {
		case evOpen:
			stack = append(stack, frame{kind: ev.nodeKind})
		case evToken:
			tk := toks[ev.tokenIdx]
			leafID := NodeID(len(t.Nodes))
			t.Nodes = append(t.Nodes, Node{Kind: KindLeaf, Range: tk.Range, Token: tk, Parent: NoParent})
			top := len(stack) - 1
			invariant.Invariant(top >= 0, "token event outside any open node")
			stack[top].children = append(stack[top].children, leafID)
		case evClose:
			top := len(stack) - 1
			invariant.Invariant(top >= 0, "close event with no matching open")
			fr := stack[top]
			stack = stack[:top]

			var id NodeID
			if top == 0 {
				id = NodeID(0) // root always occupies slot 0
				t.Nodes[0] = Node{Kind: fr.kind, Parent: NoParent, Children: fr.children}
			} else {
				id = NodeID(len(t.Nodes))
				t.Nodes = append(t.Nodes, Node{Kind: fr.kind, Parent: NoParent, Children: fr.children})
			}

			rng := childRange(t, fr.children, id)
			t.Nodes[id].Range = rng
			for _, c := range fr.children {
				t.Nodes[c].Parent = id
			}

			if top == 0 {
				continue // root has no parent frame to attach to
			}
			newTop := len(stack) - 1
			stack[newTop].children = append(stack[newTop].children, id)
		}
	}

	invariant.Postcondition(len(t.Nodes) >= 1, "arena must contain at least the root")
	resolveNames(t, 0)
	return t
}

// childRange derives a node's byte range from its first and last
// child, per spec.md §3's invariant that ranges are always derivable
// from descendants. A childless branch (can only happen for a
// completely empty Root) spans an empty range at offset 0.
func childRange(t *Tree, children []NodeID, id NodeID) token.Range {
	if len(children) == 0 {
		return token.Range{}
	}
	first := t.Nodes[children[0]].Range
	last := t.Nodes[children[len(children)-1]].Range
	return token.Range{Start: first.Start, End: last.End}
}

// resolveNames walks the freshly built tree once, filling in Node.Name
// for kinds whose single most useful query is "what argument did this
// command take" (environment name, include path, label/citation
// key(s)). This avoids re-walking the tree on every hover/workspace
// update.
func resolveNames(t *Tree, id NodeID) {
	n := t.Node(id)
	switch n.Kind {
	case KindEnvironment, KindSection, KindInclude, KindLabelDefinition,
		KindLabelReference, KindCitation, KindBibliography:
		n.Name = firstGroupInnerText(t, id)
	}
	for _, c := range n.Children {
		resolveNames(t, c)
	}
}

// firstGroupInnerText returns the trimmed text inside the first
// KindGroup child of id, with the delimiting braces stripped.
func firstGroupInnerText(t *Tree, id NodeID) string {
	for _, c := range t.Node(id).Children {
		if t.Node(c).Kind == KindGroup {
			raw := string(t.Text(c))
			trimmed := strings.TrimSpace(raw)
			trimmed = strings.TrimPrefix(trimmed, "{")
			trimmed = strings.TrimSuffix(trimmed, "}")
			return strings.TrimSpace(trimmed)
		}
	}
	return ""
}
