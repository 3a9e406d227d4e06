package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a level name, in any case, to a Level.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// finest is the finest scope a level lets through.
func (l Level) finest() Scope {
	switch l {
	case LevelPhase:
		return ScopePass
	case LevelDetail:
		return ScopeFile
	case LevelDebug:
		return ScopeEntry
	}
	return 0
}

// ShouldEmit reports whether spans and points of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return scope != 0 && scope <= l.finest()
}

// allows decides for a concrete event. Errors pass every level but off.
func (l Level) allows(ev *Event) bool {
	switch ev.Kind {
	case KindError:
		return l > LevelOff
	case KindHeartbeat:
		return l >= LevelPhase
	}
	return l.ShouldEmit(ev.Scope)
}
