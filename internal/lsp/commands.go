package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/jxoesneon/ferrotex/internal/collab"
	"github.com/jxoesneon/ferrotex/internal/synctex"
)

// dispatchCommand implements workspace/executeCommand for the four
// ferrotex.* commands spec.md §6 names.
func (s *server) dispatchCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	switch params.Command {
	case "ferrotex.internal.build":
		return s.cmdBuild(ctx, params.Arguments)
	case "ferrotex.synctex_forward":
		return s.cmdSyncTexForward(params.Arguments)
	case "ferrotex.synctex_inverse":
		return s.cmdSyncTexInverse(params.Arguments)
	case "ferrotex.installPackage":
		return s.cmdInstallPackage(ctx, params.Arguments)
	default:
		return nil, fmt.Errorf("unknown command: %s", params.Command)
	}
}

type buildArgs struct {
	MainFile string `json:"mainFile"`
	WorkDir  string `json:"workDir"`
}

func (s *server) cmdBuild(ctx context.Context, raw []json.RawMessage) (interface{}, error) {
	var args buildArgs
	if err := decodeArg(raw, &args); err != nil {
		return nil, err
	}
	return s.buildEng.Build(ctx, collab.Request{MainFile: args.MainFile, WorkDir: args.WorkDir})
}

type synctexForwardArgs struct {
	PDFPath string `json:"pdfPath"`
	TexPath string `json:"texPath"`
	Line    uint32 `json:"line"`
}

func (s *server) cmdSyncTexForward(raw []json.RawMessage) (interface{}, error) {
	var args synctexForwardArgs
	if err := decodeArg(raw, &args); err != nil {
		return nil, err
	}
	idx, err := synctex.Load(args.PDFPath)
	if err != nil {
		return nil, err
	}
	result, ok := idx.ForwardSearch(args.TexPath, args.Line)
	if !ok {
		return nil, fmt.Errorf("no forward-search match for %s:%d", args.TexPath, args.Line)
	}
	return result, nil
}

type synctexInverseArgs struct {
	PDFPath string  `json:"pdfPath"`
	Page    uint32  `json:"page"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

func (s *server) cmdSyncTexInverse(raw []json.RawMessage) (interface{}, error) {
	var args synctexInverseArgs
	if err := decodeArg(raw, &args); err != nil {
		return nil, err
	}
	idx, err := synctex.Load(args.PDFPath)
	if err != nil {
		return nil, err
	}
	result, ok := idx.InverseSearch(args.Page, args.X, args.Y)
	if !ok {
		return nil, fmt.Errorf("no inverse-search match at page %d (%.2f, %.2f)", args.Page, args.X, args.Y)
	}
	return result, nil
}

type installPackageArgs struct {
	Package string `json:"package"`
}

func (s *server) cmdInstallPackage(ctx context.Context, raw []json.RawMessage) (interface{}, error) {
	var args installPackageArgs
	if err := decodeArg(raw, &args); err != nil {
		return nil, err
	}
	if s.pkgMgr == nil {
		return nil, fmt.Errorf("no package manager detected")
	}
	return s.pkgMgr.Backend.Install(ctx, args.Package)
}

func decodeArg(raw []json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing command arguments")
	}
	if err := json.Unmarshal(raw[0], dst); err != nil {
		return fmt.Errorf("invalid command arguments: %w", err)
	}
	return nil
}
