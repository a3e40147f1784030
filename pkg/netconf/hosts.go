package netconf

import "strings"

// hostsLine is the closed set of line variants in a hosts file.
type hostsLine interface {
	isHostsLine()
}

// hostsBlank is a line with no non-whitespace content, kept verbatim.
type hostsBlank struct {
	raw string
}

// hostsComment is a line whose first non-whitespace character is '#',
// kept verbatim.
type hostsComment struct {
	raw string
}

// hostsEntry is a mapping line: IP, canonical hostname and aliases,
// plus the trailing comment starting at its '#'.
type hostsEntry struct {
	fields []string
	tail   string
}

func (hostsBlank) isHostsLine()   {}
func (hostsComment) isHostsLine() {}
func (hostsEntry) isHostsLine()   {}

// HostsFile edits hosts(5)-formatted text while preserving every line
// the caller did not ask to change. Comments, blank lines and line
// order survive a parse/edit/render cycle; entry fields are re-emitted
// tab-separated regardless of the original separator.
//
// A HostsFile is not safe for concurrent use.
type HostsFile struct {
	text  string
	lines []hostsLine
	ready bool
}

// NewHostsFile creates a document from raw file text. An empty string
// is a valid, empty document. Parsing happens on first access.
func NewHostsFile(text string) *HostsFile {
	return &HostsFile{text: text}
}

func (h *HostsFile) parse() {
	if h.ready {
		return
	}
	for _, raw := range splitLines(h.text) {
		stripped := strings.TrimSpace(raw)
		if stripped == "" {
			h.lines = append(h.lines, hostsBlank{raw: raw})
			continue
		}
		head, tail := chopComment(stripped, "#")
		if strings.TrimSpace(head) == "" {
			h.lines = append(h.lines, hostsComment{raw: raw})
			continue
		}
		h.lines = append(h.lines, hostsEntry{
			fields: strings.Fields(head),
			tail:   tail,
		})
	}
	h.ready = true
}

// Entries returns hostname+alias field lists of every entry for ip, in
// file order. An IP without entries yields an empty result, not an error.
func (h *HostsFile) Entries(ip string) [][]string {
	h.parse()
	var found [][]string
	for _, ln := range h.lines {
		if e, ok := ln.(hostsEntry); ok && len(e.fields) > 0 && e.fields[0] == ip {
			found = append(found, e.fields[1:])
		}
	}
	return found
}

// RemoveEntries drops every entry line for ip. Blank and comment lines
// are untouched; removing a missing IP is a no-op.
func (h *HostsFile) RemoveEntries(ip string) {
	h.parse()
	kept := h.lines[:0]
	for _, ln := range h.lines {
		if e, ok := ln.(hostsEntry); ok {
			if len(e.fields) == 0 || e.fields[0] == ip {
				continue
			}
		}
		kept = append(kept, ln)
	}
	h.lines = kept
}

// AddEntry appends a new entry line. Existing entries for the same IP
// are left alone; hosts files legitimately carry several lines per IP.
func (h *HostsFile) AddEntry(ip, canonical string, aliases ...string) {
	h.parse()
	fields := append([]string{ip, canonical}, aliases...)
	h.lines = append(h.lines, hostsEntry{fields: fields})
}

// Render serializes the current state back to file text. Blank and
// comment lines come out verbatim; entry fields are joined with tabs
// and followed by their original trailing comment.
func (h *HostsFile) Render() string {
	h.parse()
	var b strings.Builder
	for _, ln := range h.lines {
		switch ln := ln.(type) {
		case hostsBlank:
			b.WriteString(ln.raw)
		case hostsComment:
			b.WriteString(ln.raw)
		case hostsEntry:
			b.WriteString(strings.Join(ln.fields, "\t"))
			b.WriteString(ln.tail)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String implements fmt.Stringer.
func (h *HostsFile) String() string {
	return h.Render()
}
