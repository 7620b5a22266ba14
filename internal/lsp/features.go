package lsp

import (
	"context"
	"net/url"
	"os"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/jxoesneon/ferrotex/internal/bibtex"
	"github.com/jxoesneon/ferrotex/internal/completion"
	"github.com/jxoesneon/ferrotex/internal/format"
	"github.com/jxoesneon/ferrotex/internal/hover"
	"github.com/jxoesneon/ferrotex/internal/semtok"
	"github.com/jxoesneon/ferrotex/internal/workspace"
)

func (s *server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	snap, ok := s.index.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	offset := toOffset(snap.Text, params.Position)
	info, ok := hover.Compute(snap.Tree, offset, bibKeysFor(snap.URI, snap.Bibliography))
	if !ok {
		return nil, nil
	}
	r := toRange(snap.Lines, info.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.PlainText, Value: info.Contents},
		Range:    &r,
	}, nil
}

// bibKeysFor reads and key-scans every .bib file a document declares,
// so hover can report whether a \cite key is actually defined. Scan
// failures (missing file, unreadable) leave that file's keys absent
// rather than erroring, matching the bib parser's best-effort contract.
func bibKeysFor(docURI string, refs []workspace.IncludeRef) map[string]bool {
	keys := make(map[string]bool)
	for _, ref := range refs {
		path, ok := resolveSiblingPath(docURI, ref.Path)
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, e := range bibtex.Scan(data) {
			keys[e.Key] = true
		}
	}
	return keys
}

func resolveSiblingPath(docURI, rawPath string) (string, bool) {
	base, err := url.Parse(docURI)
	if err != nil {
		return "", false
	}
	path := rawPath
	if !strings.HasSuffix(path, ".bib") {
		path += ".bib"
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	return strings.TrimPrefix(resolved.String(), "file://"), true
}

func (s *server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	items := completion.Merge(s.pkgIndex)
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		out = append(out, protocol.CompletionItem{
			Label:  it.Label,
			Kind:   completionItemKind(it.Kind),
			Detail: it.Detail,
		})
	}
	return &protocol.CompletionList{IsIncomplete: false, Items: out}, nil
}

func completionItemKind(k completion.Kind) protocol.CompletionItemKind {
	switch k {
	case completion.KindEnvironment:
		return protocol.CompletionItemKindModule
	default:
		return protocol.CompletionItemKindFunction
	}
}

func (s *server) DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	snap, ok := s.index.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	out := make([]protocol.DocumentSymbol, 0, len(snap.Symbols))
	for _, sym := range snap.Symbols {
		r := toRange(snap.Lines, sym.Range)
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           protocol.SymbolKindString,
			Range:          r,
			SelectionRange: r,
		})
	}
	return out, nil
}

func (s *server) Formatting(ctx context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	snap, ok := s.index.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	edits := format.FormatWithIndent(snap.Text, s.cfg.IndentWidth)
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		line := uint32(e.Line)
		out = append(out, protocol.TextEdit{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: 0},
				End:   protocol.Position{Line: line, Character: uint32(e.OldWidth)},
			},
			NewText: e.NewIndent,
		})
	}
	return out, nil
}

func (s *server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	snap, ok := s.index.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	tokens := semtok.Encode(snap.Tree, semtok.LineStarts([]byte(snap.Text)))
	data := make([]uint32, 0, len(tokens)*5)
	for _, t := range tokens {
		data = append(data, uint32(t.DeltaLine), uint32(t.DeltaStartChar), uint32(t.Length), uint32(t.TokenType), 0)
	}
	return &protocol.SemanticTokens{Data: data}, nil
}
