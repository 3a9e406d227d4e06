package diag

// Severity defines the importance of a problem.
type Severity uint8

const (
	// SevInfo is for informational problems.
	SevInfo Severity = iota
	// SevWarning marks lint findings: well-formed but suspicious content.
	SevWarning
	// SevError marks well-formedness failures.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// MarshalText renders the severity in lower case for JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(severityLabel(s)), nil
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	default:
		return "unknown"
	}
}
