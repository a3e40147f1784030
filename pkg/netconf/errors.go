package netconf

import "fmt"

// FormatError indicates a resolv.conf line that could not be parsed.
// Parsing aborts on the first such line; no partial document is produced.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("resolv.conf line %d: %s", e.Line, e.Reason)
}

// LimitError indicates an addition that would break one of the
// resolv.conf ceilings. The document is unchanged when it is returned.
type LimitError struct {
	Value string
	Limit int
	What  string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("adding %q would exceed the maximum of %d %s", e.Value, e.Limit, e.What)
}
