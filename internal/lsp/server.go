// Package lsp implements the FerroTeX language server dispatcher, per
// spec.md §4.7: lifecycle and feature handlers wired to the CST,
// workspace index, math checker, and the hover/completion/format/
// semantic-token providers.
//
// Grounded on bufbuild/buf's buflsp package (other_examples): a
// `server` type embeds the protocol.Server interface itself so that
// only the methods this dispatcher actually implements need bodies —
// every other LSP method inherits a nil-interface call, which this
// server never issues since initialize only advertises the
// capabilities below.
package lsp

import (
	"context"
	"log/slog"
	"path/filepath"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/jxoesneon/ferrotex/internal/collab"
	"github.com/jxoesneon/ferrotex/internal/config"
	"github.com/jxoesneon/ferrotex/internal/pkgindex"
	"github.com/jxoesneon/ferrotex/internal/workspace"
)

// server is the protocol.Server implementation. Unimplemented methods
// fall through to the embedded nil interface.
type server struct {
	protocol.Server

	client  protocol.Client
	conn    jsonrpc2.Conn
	logger  *slog.Logger
	index   *workspace.Index
	rootURI string
	cfg     config.Config

	pkgIndex *pkgindex.Index
	pkgMgr   *collab.PackageManager
	buildEng collab.BuildEngine

	watcher *logWatcher
}

// NewServer wires a server around an established jsonrpc2 connection.
func NewServer(conn jsonrpc2.Conn, client protocol.Client, logger *slog.Logger) protocol.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &server{
		conn:     conn,
		client:   client,
		logger:   logger,
		index:    workspace.New(),
		buildEng: collab.NewLatexmkEngine(),
	}
}

func (s *server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.rootURI = string(params.RootURI)
	s.cfg = config.FromInitializeOptions(s.rootURI, params.InitializationOptions)
	s.pkgMgr = collab.DetectPackageManager(ctx, collab.ExecRunner{})
	if s.cfg.BuildEngine == "tectonic" {
		s.buildEng = collab.NewTectonicEngine()
	}

	go s.loadOrScanPackageIndex(context.WithoutCancel(ctx))

	return &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{Name: "ferrotex-lsp"},
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncKindFull,
			HoverProvider:    true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"\\"},
			},
			DocumentFormattingProvider: true,
			DocumentSymbolProvider:     true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes: []string{"macro", "keyword", "string", "comment"},
				},
				Full: true,
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{
					"ferrotex.internal.build",
					"ferrotex.synctex_forward",
					"ferrotex.synctex_inverse",
					"ferrotex.installPackage",
				},
			},
		},
	}, nil
}

// loadOrScanPackageIndex is the one-shot background task initialize
// launches: try the on-disk cache first, fall back to a full
// distribution scan, per spec.md §4.7/§4.9.
func (s *server) loadOrScanPackageIndex(ctx context.Context) {
	var path string
	if s.cfg.CacheDir != "" {
		path = filepath.Join(s.cfg.CacheDir, "packages.json")
	} else {
		var err error
		path, err = pkgindex.CachePath()
		if err != nil {
			path = ""
		}
	}
	if path != "" {
		if idx, err := pkgindex.Load(path); err == nil {
			s.setPkgIndex(idx)
			return
		}
	}
	root, ok := pkgindex.FindTexRoot()
	if !ok {
		s.logger.Warn("no TeX distribution found; completion will use static seeds only")
		return
	}
	idx := pkgindex.Scan(root)
	s.setPkgIndex(idx)
	if path != "" {
		if err := pkgindex.Save(path, idx); err != nil {
			s.logger.Warn("failed to persist package index cache", "error", err)
		}
	}
}

func (s *server) setPkgIndex(idx *pkgindex.Index) {
	s.pkgIndex = idx
}

func (s *server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	if s.rootURI == "" {
		return nil
	}
	w, err := newLogWatcher(s.rootURI, func(texURI string) {
		s.publishDiagnostics(context.WithoutCancel(context.Background()), texURI)
	})
	if err != nil {
		s.logger.Warn("failed to start .log watcher", "error", err)
		return nil
	}
	s.watcher = w
	go w.run()
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.close()
	}
	return nil
}

func (s *server) Exit(ctx context.Context) error {
	return s.conn.Close()
}

func (s *server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.index.Update(uri, params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, uri)
	return nil
}

func (s *server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	uri := string(params.TextDocument.URI)
	// Full sync only (capabilities advertise TextDocumentSyncKindFull):
	// the last change event carries the entire document text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	version := params.TextDocument.Version
	snap := s.index.Update(uri, text, version)

	go func() {
		ctx := context.WithoutCancel(ctx)
		s.publishDiagnosticsIfCurrent(ctx, uri, snap.Version)
	}()
	return nil
}

func (s *server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.index.Remove(string(params.TextDocument.URI))
	return nil
}

// publishDiagnosticsIfCurrent discards stale validation results: if the
// document has moved on to a newer version by the time validation
// finishes, this result is dropped rather than published, per spec.md
// §4.7's "pending validation from stale versions may be discarded."
func (s *server) publishDiagnosticsIfCurrent(ctx context.Context, uri string, version int32) {
	snap, ok := s.index.Get(uri)
	if !ok || snap.Version != version {
		return
	}
	s.publishDiagnostics(ctx, uri)
}

func (s *server) publishDiagnostics(ctx context.Context, uri string) {
	diags := validate(s.index, uri)
	if s.client == nil {
		return
	}
	if err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: diags,
	}); err != nil {
		s.logger.Warn("failed to publish diagnostics", "uri", uri, "error", err)
	}
}

func (s *server) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	return s.dispatchCommand(ctx, params)
}
