package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindError
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindError:     "error",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope indicates the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeCommand covers one CLI command.
	ScopeCommand Scope = iota + 1
	// ScopePass covers a pass over a file set (check, raw search, field search).
	ScopePass
	// ScopeFile covers the work done for one file.
	ScopeFile
	// ScopeEntry covers collections and entries inside a file.
	ScopeEntry
)

var scopeNames = [...]string{
	ScopeCommand: "command",
	ScopePass:    "pass",
	ScopeFile:    "file",
	ScopeEntry:   "entry",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key/value annotation. Attributes keep the order they were added.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the storing tracer
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // "check", "search.fields", "read"
	Path     string // file the event concerns, if any
	Detail   string
	Attrs    []Attr
}

// Attr returns the value stored under key.
func (ev *Event) Attr(key string) (string, bool) {
	for _, a := range ev.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
