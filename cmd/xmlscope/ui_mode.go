package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode is the value of search --ui.
type progressMode uint8

const (
	progressAuto progressMode = iota
	progressOn
	progressOff
)

var progressModes = map[string]progressMode{"": progressAuto, "auto": progressAuto, "on": progressOn, "off": progressOff}

func parseProgressMode(value string) (progressMode, error) {
	if m, ok := progressModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return progressAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// minProgressFiles is the smallest file set auto mode shows progress for.
const minProgressFiles = 2

// progressRequest describes a search about to run.
type progressRequest struct {
	mode  progressMode
	quiet bool
	json  bool
	files int
	tty   bool // stderr, where the progress view draws, is a terminal
}

// wantProgress decides whether the search progress view runs. An empty file
// set never shows it; auto mode also needs a terminal, a human-readable
// format, a non-quiet run and at least minProgressFiles files.
func wantProgress(r progressRequest) bool {
	switch {
	case r.files == 0:
		return false
	case r.mode == progressOn:
		return true
	case r.mode == progressOff:
		return false
	}
	return r.tty && !r.quiet && !r.json && r.files >= minProgressFiles
}

func stderrIsTerminal() bool { return isTerminal(os.Stderr) }
