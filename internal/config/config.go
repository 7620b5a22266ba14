// Package config holds the settings the FerroTeX language server
// resolves at startup, the way the teacher's execution context
// (runtime/execution/context.Ctx) carries resolved CLI/environment
// state through the rest of the program rather than re-reading flags
// or environment variables at each use site.
//
// The server takes no config file of its own: everything here is
// populated from LSP initialize params (rootUri and
// initializationOptions). The cmd/ferrotex CLI does not use this
// package; its subcommands read their own flags.
package config

import (
	"encoding/json"
)

// DefaultIndentWidth is the formatter's indent step, per spec.md
// §4.10, when no override arrives via initializationOptions.
const DefaultIndentWidth = 4

// Config is the resolved, immutable settings snapshot threaded
// through the dispatcher after startup.
type Config struct {
	// RootPath is the workspace root, from initialize's rootUri.
	RootPath string

	// CacheDir overrides the directory the package index cache
	// (packages.json) is stored in; empty means use
	// pkgindex.CachePath's platform default.
	CacheDir string

	// IndentWidth is the formatter's spaces-per-level.
	IndentWidth int

	// BuildEngine names the preferred collab.BuildEngine ("latexmk",
	// "tectonic"); empty means the dispatcher's default.
	BuildEngine string
}

// Default returns a Config with every field at its zero-config
// default.
func Default() Config {
	return Config{IndentWidth: DefaultIndentWidth}
}

// initializationOptions mirrors the subset of LSP initialize's
// initializationOptions payload FerroTeX understands; unknown fields
// are ignored, matching the teacher's general tolerance for unknown
// decorator arguments.
type initializationOptions struct {
	CacheDir    string `json:"cacheDir"`
	IndentWidth int    `json:"indentWidth"`
	BuildEngine string `json:"buildEngine"`
}

// FromInitializeOptions overlays fields present in raw (the
// initialize request's initializationOptions, or nil if the client
// sent none) onto Default(). raw may be a json.RawMessage, a decoded
// map[string]interface{}, or nil — go.lsp.dev/protocol delivers this
// field as `interface{}`, already unmarshaled by the jsonrpc2 layer.
// Malformed or absent options leave the defaults untouched.
func FromInitializeOptions(rootPath string, raw interface{}) Config {
	cfg := Default()
	cfg.RootPath = rootPath
	if raw == nil {
		return cfg
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return cfg
	}
	var opts initializationOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return cfg
	}
	cfg.CacheDir = opts.CacheDir
	cfg.BuildEngine = opts.BuildEngine
	if opts.IndentWidth > 0 {
		cfg.IndentWidth = opts.IndentWidth
	}
	return cfg
}
