package report

import "github.com/fatih/color"

// palette holds the colors of one render. Each color is forced on or off so
// output does not depend on whether the process writes to a terminal.
type palette struct {
	err, warn, info, code, gutter, caret, path, added, removed, hunk *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan),
		code:    color.New(color.Faint),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		path:    color.New(color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.path, p.added, p.removed, p.hunk} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
