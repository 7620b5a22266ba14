// Package cst builds a lossless concrete syntax tree for TeX source.
//
// The tree is represented as a flat arena ([]Node) addressed by index
// rather than as a pointer-linked tree: nodes never own source bytes,
// only byte ranges into the original buffer, and children are listed
// by NodeID. This mirrors the teacher's event-stream parser
// (runtime/parser/{parser,tree}.go), whose Open/Close/Token events are
// materialized here into a concrete arena instead of staying as a flat
// event log, since downstream consumers (workspace index, hover, math
// checker) want direct tree navigation.
package cst

import "github.com/jxoesneon/ferrotex/internal/token"

// Kind identifies the syntactic category of an arena node.
type Kind uint8

const (
	// KindLeaf wraps a single lexer token verbatim (including trivia:
	// whitespace, comments, and unrecognized text/command tokens).
	KindLeaf Kind = iota
	// KindRoot is the single top-level node; its text equals the source.
	KindRoot
	// KindGroup is a '{ ... }' delimited group.
	KindGroup
	// KindEnvironment is a \begin{name} ... \end{name} block.
	KindEnvironment
	// KindSection is a \section{...} (and \subsection, etc.) command.
	KindSection
	// KindInclude is an \input{...} or \include{...} command.
	KindInclude
	// KindLabelDefinition is a \label{...} command.
	KindLabelDefinition
	// KindLabelReference is a \ref{...} (or \eqref, \pageref) command.
	KindLabelReference
	// KindCitation is a \cite{...} (or \citep, \citet) command.
	KindCitation
	// KindBibliography is a \bibliography{...} or \addbibresource{...}.
	KindBibliography
	// KindError wraps a stray token recovered from a syntax error
	// (e.g. an unmatched '}').
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindRoot:
		return "Root"
	case KindGroup:
		return "Group"
	case KindEnvironment:
		return "Environment"
	case KindSection:
		return "Section"
	case KindInclude:
		return "Include"
	case KindLabelDefinition:
		return "LabelDefinition"
	case KindLabelReference:
		return "LabelReference"
	case KindCitation:
		return "Citation"
	case KindBibliography:
		return "Bibliography"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// NodeID indexes into Tree.Nodes. The root is always NodeID 0.
type NodeID int32

// NoParent marks a node with no parent (only the root).
const NoParent NodeID = -1

// Node is one arena entry: either a leaf wrapping a token, or a branch
// with an ordered list of children (which may themselves be leaves or
// branches).
type Node struct {
	Kind     Kind
	Range    token.Range
	Parent   NodeID
	Children []NodeID // empty for leaves
	Token    token.Token
	// Name holds the environment/section/include/label/citation
	// argument text when cheaply known at construction time (e.g. the
	// environment name), avoiding a re-walk for common queries. Empty
	// when not applicable.
	Name string
}

// IsLeaf reports whether n wraps a single token rather than children.
func (n Node) IsLeaf() bool { return n.Kind == KindLeaf }

// SyntaxError is a recoverable parse error with a byte range.
type SyntaxError struct {
	Message string
	Range   token.Range
}

// Tree is a complete parse result: the arena, the original source, and
// any recovered syntax errors.
type Tree struct {
	Source []byte
	Nodes  []Node
	Errors []SyntaxError
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.Nodes[0] }

// Node returns the node at id.
func (t *Tree) Node(id NodeID) *Node { return &t.Nodes[id] }

// Text returns the exact source slice spanned by the node at id.
func (t *Tree) Text(id NodeID) []byte {
	n := t.Node(id)
	return t.Source[n.Range.Start:n.Range.End]
}

// Walk performs a preorder traversal starting at id, calling visit for
// every node (including id itself). If visit returns false, children
// of that node are skipped but the traversal continues with siblings.
func (t *Tree) Walk(id NodeID, visit func(NodeID) bool) {
	if !visit(id) {
		return
	}
	n := t.Node(id)
	for _, c := range n.Children {
		t.Walk(c, visit)
	}
}

// FindAtOffset returns the most specific (deepest) node whose range
// contains offset, preferring the non-whitespace side when offset sits
// exactly between two adjacent tokens.
func (t *Tree) FindAtOffset(offset int) NodeID {
	best := NodeID(0)
	t.Walk(0, func(id NodeID) bool {
		n := t.Node(id)
		if offset < n.Range.Start || offset > n.Range.End {
			return false
		}
		if n.IsLeaf() && n.Token.Kind.String() == "Whitespace" && n.Range.Start == offset {
			// Prefer a following non-whitespace leaf at the same offset;
			// don't treat this whitespace leaf as the best match unless
			// nothing deeper claims it.
			return true
		}
		best = id
		return true
	})
	return best
}

// Ancestors returns the chain of node ids from id up to (and
// including) the root, id first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var chain []NodeID
	for id != NoParent {
		chain = append(chain, id)
		id = t.Node(id).Parent
	}
	return chain
}
