package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xmlscope/internal/friendly"
	"xmlscope/internal/report"
	"xmlscope/internal/source"
	"xmlscope/internal/trace"
)

var setCmd = &cobra.Command{
	Use:   "set [flags] <file> <collection> <entry-key> <field> <value>",
	Short: "Change one field of an entry",
	Long: `Set writes value into a field of the entry identified by collection title,
entry key and occurrence. The updated document is printed unless --write or
--diff is given.`,
	Args: cobra.ExactArgs(5),
	RunE: runSet,
}

var dupCmd = &cobra.Command{
	Use:   "dup [flags] <file> <collection> <entry-key>",
	Short: "Duplicate an entry next to the original or at the end of its parent",
	Args:  cobra.ExactArgs(3),
	RunE:  runDup,
}

func init() {
	for _, c := range []*cobra.Command{setCmd, dupCmd} {
		c.Flags().Int("occurrence", 1, "which entry to use when several share the key")
		c.Flags().Bool("write", false, "write the result back to the file")
		c.Flags().Bool("diff", false, "print a unified diff instead of the document")
	}
	dupCmd.Flags().Bool("append", false, "append the copy after the parent's last child")
}

type editTarget struct {
	path   string
	before string
	flags  source.FileFlags
	doc    *friendly.Document
	entry  *friendly.Entry
}

func findEntry(cmd *cobra.Command, path, collection, key string) (*editTarget, error) {
	occurrence, _ := cmd.Flags().GetInt("occurrence")
	if occurrence < 1 {
		return nil, fmt.Errorf("--occurrence must be at least 1")
	}
	doc, flags, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	c, ok := doc.Collection(collection)
	if !ok {
		return nil, fmt.Errorf("%s: no collection %q", path, collection)
	}
	entry, ok := c.Find(key, occurrence)
	if !ok {
		return nil, fmt.Errorf("%s: collection %q has no entry %q (occurrence %d)", path, c.Title, key, occurrence)
	}
	// the serialized tree is the baseline so diffs show only the edit
	return &editTarget{path: path, before: doc.String(), flags: flags, doc: doc, entry: entry}, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	span, _ := trace.StartSpan(cmd.Context(), trace.ScopeCommand, "set")
	defer span.End("")

	t, err := findEntry(cmd, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if err := t.entry.TrySetField(args[3], args[4]); err != nil {
		return fmt.Errorf("%s: %w", t.path, err)
	}
	if err := finishEdit(cmd, g, t); err != nil {
		return err
	}
	g.status(cmd, "set %s on %s#%d", args[3], t.entry.Key, t.entry.Occurrence)
	return nil
}

func runDup(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	appendCopy, _ := cmd.Flags().GetBool("append")
	span, _ := trace.StartSpan(cmd.Context(), trace.ScopeCommand, "dup")
	defer span.End("")

	t, err := findEntry(cmd, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	clone, err := t.doc.TryDuplicateEntry(t.entry, !appendCopy)
	if err != nil {
		return fmt.Errorf("%s: %w", t.path, err)
	}
	if err := finishEdit(cmd, g, t); err != nil {
		return err
	}
	g.status(cmd, "duplicated %s as %s#%d", t.entry.Key, clone.Key, clone.Occurrence)
	return nil
}

func finishEdit(cmd *cobra.Command, g globalOptions, t *editTarget) error {
	write, _ := cmd.Flags().GetBool("write")
	showDiff, _ := cmd.Flags().GetBool("diff")
	after := t.doc.String()
	out := cmd.OutOrStdout()

	if showDiff {
		report.WriteDiff(out, source.BaseName(t.path), t.before, after, g.color)
	}
	if write {
		return writeDocument(t.path, after, t.flags)
	}
	if !showDiff {
		fmt.Fprint(out, after)
	}
	return nil
}

// writeDocument replaces path with text, restoring a stripped BOM and keeping
// the file mode.
func writeDocument(path, text string, flags source.FileFlags) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	data := []byte(text)
	if flags&source.FileHadBOM != 0 {
		data = append([]byte("\xef\xbb\xbf"), data...)
	}
	if err := os.WriteFile(path, data, st.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
