// Package collab holds the named external collaborators spec.md §1
// calls out: build engines (latexmk/tectonic) and package backends
// (tlmgr/miktex). These are minimal shims sufficient to exercise the
// interfaces end-to-end; they are not a build system.
package collab

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes an external command and returns its stdout, its
// stderr (as separate buffers) and any error, the way
// ferrotex-core/src/package_manager/mod.rs::CommandExecutor lets Rust
// tests inject a fake process. Ported here as an interface so
// LatexmkEngine/TlmgrBackend/etc. can be tested without actually
// shelling out.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs real subprocesses via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
