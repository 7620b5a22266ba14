package collab_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jxoesneon/ferrotex/internal/collab"
)

// mockRunner is the Go counterpart of ferrotex-core's
// MockCommandExecutor: a Runner that returns canned output instead of
// shelling out, keyed by the command name invoked.
type mockRunner struct {
	responses map[string]mockResponse
}

type mockResponse struct {
	stdout, stderr string
	err            error
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r, ok := m.responses[name]
	if !ok {
		return nil, nil, errors.New("mockRunner: no response configured for " + name)
	}
	return []byte(r.stdout), []byte(r.stderr), r.err
}

func TestLatexmkEngineBuildSuccess(t *testing.T) {
	runner := &mockRunner{responses: map[string]mockResponse{
		"latexmk": {stdout: "Latexmk: All targets are up-to-date"},
	}}
	e := &collab.LatexmkEngine{Runner: runner}
	success, err := e.Build(context.Background(), collab.Request{MainFile: "main.tex", WorkDir: "/tmp/build"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if success.OutputPath != "/tmp/build/main.pdf" {
		t.Fatalf("unexpected output path: %s", success.OutputPath)
	}
}

func TestLatexmkEngineBuildFailure(t *testing.T) {
	runner := &mockRunner{responses: map[string]mockResponse{
		"latexmk": {stdout: "! Undefined control sequence.", err: errors.New("exit status 1")},
	}}
	e := &collab.LatexmkEngine{Runner: runner}
	_, err := e.Build(context.Background(), collab.Request{MainFile: "main.tex", WorkDir: "/tmp/build"})
	if err == nil {
		t.Fatal("expected an error")
	}
	var failure collab.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected a collab.Failure, got %T", err)
	}
}

func TestTlmgrBackendInstallAlreadyPresent(t *testing.T) {
	runner := &mockRunner{responses: map[string]mockResponse{
		"tlmgr": {stdout: "package amsmath already installed"},
	}}
	b := &collab.TlmgrBackend{Runner: runner}
	status, err := b.Install(context.Background(), "amsmath")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if status.State != collab.InstallAlreadyPresent {
		t.Fatalf("expected InstallAlreadyPresent, got %v", status.State)
	}
}

func TestTlmgrBackendInstallNew(t *testing.T) {
	runner := &mockRunner{responses: map[string]mockResponse{
		"tlmgr": {stdout: "running install for amsmath"},
	}}
	b := &collab.TlmgrBackend{Runner: runner}
	status, err := b.Install(context.Background(), "amsmath")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if status.State != collab.InstallInstalled {
		t.Fatalf("expected InstallInstalled, got %v", status.State)
	}
}

func TestSearchFindsKnownPackage(t *testing.T) {
	b := &collab.TlmgrBackend{}
	found, url := b.Search("hyperref")
	if !found || url == "" {
		t.Fatalf("expected hyperref to resolve to a CTAN url, got found=%v url=%s", found, url)
	}
}

func TestSearchUnknownPackage(t *testing.T) {
	b := &collab.TlmgrBackend{}
	found, _ := b.Search("totally-made-up-package-xyz")
	if found {
		t.Fatal("expected unknown package to not be found")
	}
}

func TestNoOpBackendAlwaysUnavailable(t *testing.T) {
	var b collab.NoOpBackend
	status, err := b.Install(context.Background(), "amsmath")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if status.State != collab.InstallUnavailable {
		t.Fatalf("expected InstallUnavailable, got %v", status.State)
	}
}

func TestDetectPackageManagerPrefersTlmgr(t *testing.T) {
	runner := &mockRunner{responses: map[string]mockResponse{
		"command": {stdout: "/usr/bin/tlmgr"},
	}}
	pm := collab.DetectPackageManager(context.Background(), runner)
	if pm.Backend.Name() != "tlmgr" {
		t.Fatalf("expected tlmgr, got %s", pm.Backend.Name())
	}
}

func TestDetectPackageManagerFallsBackToNoOp(t *testing.T) {
	runner := &mockRunner{responses: map[string]mockResponse{
		"command": {err: errors.New("not found")},
	}}
	pm := collab.DetectPackageManager(context.Background(), runner)
	if pm.Backend.Name() != "none" {
		t.Fatalf("expected none, got %s", pm.Backend.Name())
	}
}

func TestHintForKnownCommand(t *testing.T) {
	pkg, ok := collab.HintForCommand("includegraphics")
	if !ok || pkg != "graphicx" {
		t.Fatalf("expected graphicx, got %s (%v)", pkg, ok)
	}
}

func TestHintForUnknownCommand(t *testing.T) {
	if _, ok := collab.HintForCommand("notarealcommand"); ok {
		t.Fatal("expected no hint for an unknown command")
	}
}
