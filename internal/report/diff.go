package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 3

type diffLine struct {
	op   byte // ' ', '-', '+'
	text string
}

// UnifiedDiff renders a line-based unified diff of before and after. Equal
// inputs produce "".
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	lines := diffLines(before, after)

	var changes []int
	for i, l := range lines {
		if l.op != ' ' {
			changes = append(changes, i)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)

	oldPos := make([]int, len(lines)+1)
	newPos := make([]int, len(lines)+1)
	for i, l := range lines {
		oldPos[i+1], newPos[i+1] = oldPos[i], newPos[i]
		if l.op != '+' {
			oldPos[i+1]++
		}
		if l.op != '-' {
			newPos[i+1]++
		}
	}

	for g := 0; g < len(changes); {
		first := changes[g]
		last := first
		for g++; g < len(changes) && changes[g]-last <= 2*diffContext; g++ {
			last = changes[g]
		}
		start := max(0, first-diffContext)
		end := min(len(lines), last+diffContext+1)

		oldCount := oldPos[end] - oldPos[start]
		newCount := newPos[end] - newPos[start]
		fmt.Fprintf(&b, "@@ -%s +%s @@\n", hunkRange(oldPos[start], oldCount), hunkRange(newPos[start], newCount))
		for _, l := range lines[start:end] {
			b.WriteByte(l.op)
			if strings.HasSuffix(l.text, "\n") {
				b.WriteString(l.text)
			} else {
				b.WriteString(l.text)
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return b.String()
}

func hunkRange(pos, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", pos)
	}
	if count == 1 {
		return fmt.Sprintf("%d", pos+1)
	}
	return fmt.Sprintf("%d,%d", pos+1, count)
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []diffLine
	for _, d := range diffs {
		var op byte
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = ' '
		case diffmatchpatch.DiffDelete:
			op = '-'
		case diffmatchpatch.DiffInsert:
			op = '+'
		}
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l != "" {
				out = append(out, diffLine{op: op, text: l})
			}
		}
	}
	return out
}

// WriteDiff writes the diff of before and after, if any.
func WriteDiff(w io.Writer, path, before, after string, color bool) {
	d := UnifiedDiff(path, before, after)
	if d == "" {
		return
	}
	if !color {
		fmt.Fprint(w, d)
		return
	}
	pal := newPalette(true)
	for _, line := range strings.SplitAfter(d, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(w, pal.path.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(w, pal.hunk.Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(w, pal.added.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(w, pal.removed.Sprint(line))
		default:
			fmt.Fprint(w, line)
		}
	}
}
