package collab

import (
	"context"
	"fmt"
)

// Request is what the dispatcher asks a BuildEngine to do: compile
// mainFile, producing its PDF (and, incidentally, the .log/.synctex
// siblings the rest of the system reads).
type Request struct {
	MainFile string
	WorkDir  string
}

// Success is a completed build's output path.
type Success struct {
	OutputPath string
}

// Failure carries whatever the engine printed, for the caller to run
// through the log parser.
type Failure struct {
	Log string
}

func (f Failure) Error() string { return "build failed: " + truncate(f.Log, 200) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// BuildEngine is the named external collaborator spec.md §1 calls
// "the shell-out build adapters (latexmk/tectonic)". Build returns a
// Failure error (never a bare string) on nonzero exit, so callers can
// type-assert it to recover the log text for diagnostics.
type BuildEngine interface {
	Build(ctx context.Context, req Request) (Success, error)
	Name() string
}

// LatexmkEngine shells out to `latexmk -pdf`.
type LatexmkEngine struct {
	Runner Runner
}

func NewLatexmkEngine() *LatexmkEngine {
	return &LatexmkEngine{Runner: ExecRunner{}}
}

func (e *LatexmkEngine) Build(ctx context.Context, req Request) (Success, error) {
	stdout, stderr, err := e.Runner.Run(ctx, "latexmk", "-pdf", "-interaction=nonstopmode", "-output-directory="+req.WorkDir, req.MainFile)
	if err != nil {
		return Success{}, Failure{Log: string(stdout) + string(stderr)}
	}
	return Success{OutputPath: outputPDFPath(req)}, nil
}

func (e *LatexmkEngine) Name() string { return "latexmk" }

// TectonicEngine shells out to `tectonic`.
type TectonicEngine struct {
	Runner Runner
}

func NewTectonicEngine() *TectonicEngine {
	return &TectonicEngine{Runner: ExecRunner{}}
}

func (e *TectonicEngine) Build(ctx context.Context, req Request) (Success, error) {
	stdout, stderr, err := e.Runner.Run(ctx, "tectonic", "--outdir", req.WorkDir, req.MainFile)
	if err != nil {
		return Success{}, Failure{Log: string(stdout) + string(stderr)}
	}
	return Success{OutputPath: outputPDFPath(req)}, nil
}

func (e *TectonicEngine) Name() string { return "tectonic" }

func outputPDFPath(req Request) string {
	return fmt.Sprintf("%s/%s.pdf", req.WorkDir, stemOf(req.MainFile))
}

func stemOf(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '/', '\\':
			base = path[i+1:]
			i = -1
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
