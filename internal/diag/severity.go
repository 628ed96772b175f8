package diag

import "fmt"

// Severity orders findings: anything at SevError fails the document.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// Fails reports whether a finding of this severity makes success false.
func (s Severity) Fails() bool { return s >= SevError }
