// Command ferrotex is the FerroTeX companion CLI: log parsing and
// SyncTeX search outside of an editor session, plus maintenance of
// the package-name completion index. Recovered from
// ferrotex-cli/src/main.rs and ferrotexd/src/main.rs per SPEC_FULL.md
// §2, built the same way the teacher composes cmd/devcmd: a cobra
// root command with one subcommand per operation.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jxoesneon/ferrotex/internal/logevents"
	"github.com/jxoesneon/ferrotex/internal/pkgindex"
	"github.com/jxoesneon/ferrotex/internal/synctex"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ferrotex",
		Short: "FerroTeX companion CLI: log parsing, SyncTeX search, package index",
	}
	root.AddCommand(newParseCmd(), newSyncTexCmd(), newIndexCmd())
	return root
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <log-file>",
		Short: "Parse a LaTeX engine log file into structured JSON events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading log file: %w", err)
			}
			events := logevents.Parse(data)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		},
	}
}

func newSyncTexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synctex",
		Short: "Forward/inverse search against a compiled PDF's SyncTeX data",
	}
	cmd.AddCommand(newSyncTexForwardCmd(), newSyncTexInverseCmd())
	return cmd
}

func newSyncTexForwardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forward <pdf> <tex-file> <line>",
		Short: "Map a source line to a PDF page/coordinate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[2], err)
			}
			idx, err := synctex.Load(args[0])
			if err != nil {
				return err
			}
			result, ok := idx.ForwardSearch(args[1], uint32(line))
			if !ok {
				return fmt.Errorf("no forward-search match for %s:%d", args[1], line)
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
		},
	}
}

func newSyncTexInverseCmd() *cobra.Command {
	var page uint32
	var x, y float64
	c := &cobra.Command{
		Use:   "inverse <pdf>",
		Short: "Map a PDF page/coordinate to a source file/line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := synctex.Load(args[0])
			if err != nil {
				return err
			}
			result, ok := idx.InverseSearch(page, x, y)
			if !ok {
				return fmt.Errorf("no inverse-search match at page %d (%.2f, %.2f)", page, x, y)
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
		},
	}
	c.Flags().Uint32Var(&page, "page", 1, "PDF page number")
	c.Flags().Float64Var(&x, "x", 0, "PDF x coordinate, in points")
	c.Flags().Float64Var(&y, "y", 0, "PDF y coordinate, in points")
	return c
}

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Maintain the package-name completion index",
	}
	cmd.AddCommand(newIndexBuildCmd())
	return cmd
}

func newIndexBuildCmd() *cobra.Command {
	var root string
	c := &cobra.Command{
		Use:   "build",
		Short: "Scan a TeX distribution and persist a completion index cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				found, ok := pkgindex.FindTexRoot()
				if !ok {
					return fmt.Errorf("no TeX distribution found; pass --root explicitly")
				}
				root = found
			}
			idx := pkgindex.Scan(root)
			path, err := pkgindex.CachePath()
			if err != nil {
				return fmt.Errorf("resolving cache path: %w", err)
			}
			if err := pkgindex.Save(path, idx); err != nil {
				return fmt.Errorf("saving package index: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %s, wrote index to %s\n", root, path)
			return nil
		},
	}
	c.Flags().StringVar(&root, "root", "", "TeX distribution root (auto-detected if omitted)")
	return c
}
