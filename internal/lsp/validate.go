package lsp

import (
	"fmt"
	"os"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/jxoesneon/ferrotex/internal/cst"
	"github.com/jxoesneon/ferrotex/internal/logevents"
	"github.com/jxoesneon/ferrotex/internal/mathcheck"
	"github.com/jxoesneon/ferrotex/internal/token"
	"github.com/jxoesneon/ferrotex/internal/workspace"
)

// validate runs the pipeline spec.md §4.7 names for one URI: parse
// (already done by workspace.Update) → syntax-error diagnostics → math
// checks → workspace label and include-cycle validation → sibling .log
// parse → combined array. Citation keys are not validated here: an
// undefined \cite key produces no diagnostic. It re-derives
// workspace-wide diagnostics (labels, cycles) on every call since
// those depend on the whole index, not just this one snapshot.
func validate(idx *workspace.Index, docURI string) []protocol.Diagnostic {
	snap, ok := idx.Get(docURI)
	if !ok {
		return nil
	}

	var diags []protocol.Diagnostic

	for _, e := range snap.Tree.Errors {
		diags = append(diags, protocol.Diagnostic{
			Range:    toRange(snap.Lines, e.Range),
			Severity: protocol.DiagnosticSeverityError,
			Source:   "ferrotex",
			Message:  e.Message,
		})
	}

	for _, d := range mathcheck.CheckDelimiters(snap.Text) {
		diags = append(diags, protocol.Diagnostic{
			Range:    toRange(snap.Lines, token.Range{Start: d.Offset, End: d.Offset + 1}),
			Severity: protocol.DiagnosticSeverityWarning,
			Source:   "ferrotex-math",
			Message:  d.Message,
		})
	}

	diags = append(diags, checkMatrixShapes(snap)...)

	for _, d := range idx.ValidateLabels() {
		if d.URI != docURI {
			continue
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    toRange(snap.Lines, d.Range),
			Severity: severityForLabel(d.Message),
			Source:   "ferrotex-workspace",
			Message:  d.Message,
		})
	}

	for _, d := range idx.DetectCycles() {
		if d.URI != docURI {
			continue
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    toRange(snap.Lines, d.Range),
			Severity: protocol.DiagnosticSeverityError,
			Source:   "ferrotex-workspace",
			Message:  d.Message,
		})
	}

	if logPath, ok := siblingLogPath(docURI); ok {
		diags = append(diags, logDiagnostics(snap, logPath)...)
	}

	return diags
}

// checkMatrixShapes walks every matrix-like Environment node and
// reports an ERROR diagnostic for ones whose rows don't agree on
// column count, per spec.md §7's "ERROR for matrix shape Invalid"
// rule.
func checkMatrixShapes(snap *workspace.Snapshot) []protocol.Diagnostic {
	var diags []protocol.Diagnostic
	snap.Tree.Walk(0, func(id cst.NodeID) bool {
		n := snap.Tree.Node(id)
		if n.Kind != cst.KindEnvironment || !strings.Contains(n.Name, "matrix") {
			return true
		}
		shape := mathcheck.InferMatrixShape(snap.Tree, id)
		if shape.Invalid == "" {
			return true
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    toRange(snap.Lines, n.Range),
			Severity: protocol.DiagnosticSeverityError,
			Source:   "ferrotex-math",
			Message:  shape.Invalid,
		})
		return true
	})
	return diags
}

func severityForLabel(message string) protocol.DiagnosticSeverity {
	if strings.HasPrefix(message, "Undefined") {
		return protocol.DiagnosticSeverityError
	}
	return protocol.DiagnosticSeverityWarning
}

// siblingLogPath maps a file:// document URI to its sibling .log path,
// as produced by running the build engine against the same main file.
func siblingLogPath(docURI string) (string, bool) {
	path := uri.URI(docURI).Filename()
	if !strings.HasSuffix(path, ".tex") {
		return "", false
	}
	return strings.TrimSuffix(path, ".tex") + ".log", true
}

// logDiagnostics parses a sibling .log file and translates warnings
// and errors into diagnostics against the current document's line
// index. Every error and warning event is republished against the .tex
// URI that owns the log, including events the log attributes to an
// included file; the log's file nesting is not consulted.
func logDiagnostics(snap *workspace.Snapshot, logPath string) []protocol.Diagnostic {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil
	}
	events := logevents.Parse(data)
	var diags []protocol.Diagnostic
	for _, e := range events {
		sev, ok := severityForLogEvent(e.Kind)
		if !ok {
			continue
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    lineRangeForLog(snap, e),
			Severity: sev,
			Source:   "ferrotex-log",
			Message:  logMessage(e),
		})
	}
	return diags
}

func severityForLogEvent(kind logevents.Kind) (protocol.DiagnosticSeverity, bool) {
	switch kind {
	case logevents.KindErrorStart, logevents.KindErrorLineRef, logevents.KindErrorContextLine:
		return protocol.DiagnosticSeverityError, true
	case logevents.KindWarning:
		return protocol.DiagnosticSeverityWarning, true
	default:
		return 0, false
	}
}

// lineRangeForLog has no byte offsets to work with (log events carry
// their own span into the log text, not the .tex source); it
// conservatively anchors every log-derived diagnostic at line 0 of the
// document, since the sole purpose is to surface the message, not to
// underline precise source.
func lineRangeForLog(snap *workspace.Snapshot, e logevents.Event) protocol.Range {
	_ = snap
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 1},
	}
}

func logMessage(e logevents.Event) string {
	if e.Data.Message != "" {
		return e.Data.Message
	}
	if e.Data.Path != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Data.Path)
	}
	return fmt.Sprintf("%v", e.Kind)
}
