package collab

import (
	"context"
	"strings"
)

// InstallState mirrors ferrotex-core/src/package_manager/mod.rs's
// InstallState: what a backend reports after attempting to resolve a
// missing package.
type InstallState int

const (
	InstallUnknown InstallState = iota
	InstallInstalled
	InstallAlreadyPresent
	InstallUnavailable
)

// InstallStatus is a backend's answer to Install: the state reached,
// plus whatever diagnostic text it has (backend stdout/stderr, or a
// CTAN link when no backend could act).
type InstallStatus struct {
	State   InstallState
	Message string
}

// PackageBackend is the named external collaborator spec.md §1 calls
// the "package backends (tlmgr/miktex)". Search does a best-effort
// local lookup; it never shells out, since neither tlmgr nor MiKTeX
// offers a fast non-interactive search the editor can call on every
// keystroke.
type PackageBackend interface {
	Name() string
	Install(ctx context.Context, pkg string) (InstallStatus, error)
	Search(pkg string) (found bool, ctanURL string)
}

// TlmgrBackend installs packages via TeX Live's tlmgr.
type TlmgrBackend struct {
	Runner Runner
}

func NewTlmgrBackend() *TlmgrBackend {
	return &TlmgrBackend{Runner: ExecRunner{}}
}

func (b *TlmgrBackend) Name() string { return "tlmgr" }

func (b *TlmgrBackend) Install(ctx context.Context, pkg string) (InstallStatus, error) {
	stdout, stderr, err := b.Runner.Run(ctx, "tlmgr", "install", pkg)
	out := string(stdout) + string(stderr)
	if err != nil {
		return InstallStatus{State: InstallUnavailable, Message: out}, err
	}
	if strings.Contains(out, "already installed") {
		return InstallStatus{State: InstallAlreadyPresent, Message: out}, nil
	}
	return InstallStatus{State: InstallInstalled, Message: out}, nil
}

func (b *TlmgrBackend) Search(pkg string) (bool, string) {
	return lookupCTAN(pkg)
}

// MiktexBackend installs packages via MiKTeX's mpm console.
type MiktexBackend struct {
	Runner Runner
}

func NewMiktexBackend() *MiktexBackend {
	return &MiktexBackend{Runner: ExecRunner{}}
}

func (b *MiktexBackend) Name() string { return "miktex" }

func (b *MiktexBackend) Install(ctx context.Context, pkg string) (InstallStatus, error) {
	stdout, stderr, err := b.Runner.Run(ctx, "mpm", "--install="+pkg)
	out := string(stdout) + string(stderr)
	if err != nil {
		return InstallStatus{State: InstallUnavailable, Message: out}, err
	}
	return InstallStatus{State: InstallInstalled, Message: out}, nil
}

func (b *MiktexBackend) Search(pkg string) (bool, string) {
	return lookupCTAN(pkg)
}

// NoOpBackend is used when neither tlmgr nor miktex is on PATH: it
// reports every install as unavailable but still serves CTAN links so
// the editor can point the user at a manual download.
type NoOpBackend struct{}

func (NoOpBackend) Name() string { return "none" }

func (NoOpBackend) Install(ctx context.Context, pkg string) (InstallStatus, error) {
	_, url := lookupCTAN(pkg)
	return InstallStatus{State: InstallUnavailable, Message: url}, nil
}

func (NoOpBackend) Search(pkg string) (bool, string) {
	return lookupCTAN(pkg)
}

// ctanDB is a small static table of well-known package CTAN pages,
// ported from ferrotex-core's ctan_db lookup table. It is intentionally
// not exhaustive: an editor feature that needs full CTAN coverage
// should query the network, which this offline table deliberately
// does not do.
var ctanDB = map[string]string{
	"amsmath":     "https://ctan.org/pkg/amsmath",
	"amssymb":     "https://ctan.org/pkg/amssymb",
	"graphicx":    "https://ctan.org/pkg/graphicx",
	"hyperref":    "https://ctan.org/pkg/hyperref",
	"geometry":    "https://ctan.org/pkg/geometry",
	"biblatex":    "https://ctan.org/pkg/biblatex",
	"tikz":        "https://ctan.org/pkg/pgf",
	"booktabs":    "https://ctan.org/pkg/booktabs",
	"xcolor":      "https://ctan.org/pkg/xcolor",
	"listings":    "https://ctan.org/pkg/listings",
	"fontspec":    "https://ctan.org/pkg/fontspec",
	"babel":       "https://ctan.org/pkg/babel",
	"siunitx":     "https://ctan.org/pkg/siunitx",
	"cleveref":    "https://ctan.org/pkg/cleveref",
	"subcaption":  "https://ctan.org/pkg/subcaption",
	"natbib":      "https://ctan.org/pkg/natbib",
	"enumitem":    "https://ctan.org/pkg/enumitem",
	"algorithm2e": "https://ctan.org/pkg/algorithm2e",
}

func lookupCTAN(pkg string) (bool, string) {
	url, ok := ctanDB[pkg]
	return ok, url
}

// PackageManager auto-detects an available PackageBackend the way
// ferrotex-core/src/package_manager/mod.rs::PackageManager::detect
// does: prefer tlmgr, fall back to miktex, otherwise NoOpBackend.
type PackageManager struct {
	Backend PackageBackend
}

// DetectPackageManager picks a backend using which(pkg) probes via the
// given Runner (a plain "command -v" invocation, portable across the
// shells this runs under).
func DetectPackageManager(ctx context.Context, runner Runner) *PackageManager {
	if onPath(ctx, runner, "tlmgr") {
		return &PackageManager{Backend: &TlmgrBackend{Runner: runner}}
	}
	if onPath(ctx, runner, "mpm") {
		return &PackageManager{Backend: &MiktexBackend{Runner: runner}}
	}
	return &PackageManager{Backend: NoOpBackend{}}
}

func onPath(ctx context.Context, runner Runner, name string) bool {
	_, _, err := runner.Run(ctx, "command", "-v", name)
	return err == nil
}
