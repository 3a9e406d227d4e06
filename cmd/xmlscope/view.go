package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xmlscope/internal/friendly"
	"xmlscope/internal/report"
	"xmlscope/internal/source"
	"xmlscope/internal/xmlcheck"
)

var viewCmd = &cobra.Command{
	Use:   "view [flags] <file>",
	Short: "Show the collections, entries and fields of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func init() {
	viewCmd.Flags().String("format", "text", "output format (text|json|yaml)")
	viewCmd.Flags().String("collection", "", "only show this collection")
}

func runView(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	only, _ := cmd.Flags().GetString("collection")

	doc, _, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	v, err := report.NewDocumentView(args[0], doc, only)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "text":
		report.ViewText(out, v, g.color)
		return nil
	case "json":
		return report.ViewJSON(out, v)
	case "yaml":
		return report.ViewYAML(out, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

var errNoView = errors.New("no friendly view")

// loadDocument reads path and builds its friendly view. When the build fails
// the first reported problem explains why.
func loadDocument(path string) (*friendly.Document, source.FileFlags, error) {
	text, flags, err := source.ReadText(path)
	if err != nil {
		return nil, 0, err
	}
	doc, ok := friendly.TryBuild(text)
	if !ok {
		if problems := xmlcheck.Problems(text); len(problems) > 0 && problems[0].IsError() {
			return nil, 0, fmt.Errorf("%s: %w: %s", path, errNoView, problems[0])
		}
		return nil, 0, fmt.Errorf("%s: %w", path, errNoView)
	}
	return doc, flags, nil
}
