package collab

// commandHints maps a handful of common LaTeX commands/environments to
// the package that defines them, per spec.md §1's "static command→
// package hint table". Used to suggest an \usepackage when an unknown
// control sequence's likely origin is known without a full pkgindex
// scan.
var commandHints = map[string]string{
	"includegraphics": "graphicx",
	"href":            "hyperref",
	"url":             "hyperref",
	"textcolor":       "xcolor",
	"color":           "xcolor",
	"SI":              "siunitx",
	"si":              "siunitx",
	"num":             "siunitx",
	"toprule":         "booktabs",
	"midrule":         "booktabs",
	"bottomrule":      "booktabs",
	"cref":            "cleveref",
	"Cref":            "cleveref",
	"parencite":       "biblatex",
	"textcite":        "biblatex",
	"tikzpicture":     "tikz",
	"align":           "amsmath",
	"pmatrix":         "amsmath",
	"bmatrix":         "amsmath",
}

// HintForCommand returns the package that most plausibly defines cmd,
// if any of the static hints recognize it.
func HintForCommand(cmd string) (string, bool) {
	pkg, ok := commandHints[cmd]
	return pkg, ok
}
