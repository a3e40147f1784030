package netconf

import (
	"fmt"
	"strings"
)

const (
	// MaxNameservers is the resolver's hard ceiling on nameserver lines.
	MaxNameservers = 3
	// MaxSearchDomains is the ceiling on entries in the search list.
	MaxSearchDomains = 6
	// MaxSearchChars is the ceiling on the space-joined search list.
	MaxSearchChars = 256
)

// resolvLine is the closed set of line variants in a resolv.conf file.
type resolvLine interface {
	isResolvLine()
}

type resolvBlank struct{}

// resolvComment is a line carrying only a comment, kept verbatim.
type resolvComment struct {
	raw string
}

// resolvOption is a directive line: keyword, the literal value text up
// to any comment, and the trailing comment starting at its introducer.
type resolvOption struct {
	key   string
	value string
	tail  string
}

func (resolvBlank) isResolvLine()   {}
func (resolvComment) isResolvLine() {}
func (resolvOption) isResolvLine()  {}

// resolvKeywords is the closed vocabulary of resolv.conf directives.
// Anything else fails the parse.
var resolvKeywords = map[string]bool{
	"nameserver": true,
	"domain":     true,
	"search":     true,
	"sortlist":   true,
	"options":    true,
}

// ResolvConf edits resolv.conf(5)-formatted text while preserving every
// line the caller did not ask to change. Both '#' and ';' introduce
// comments, inline or whole-line.
//
// A ResolvConf is not safe for concurrent use.
type ResolvConf struct {
	text  string
	lines []resolvLine
	ready bool
	err   error
}

// NewResolvConf creates a document from raw file text. An empty string
// is a valid, empty document. Parsing happens on first access; a parse
// failure is sticky and reported by every subsequent operation.
func NewResolvConf(text string) *ResolvConf {
	return &ResolvConf{text: text}
}

func (r *ResolvConf) parse() error {
	if r.ready {
		return r.err
	}
	r.ready = true
	var lines []resolvLine
	for i, raw := range splitLines(r.text) {
		if strings.TrimSpace(raw) == "" {
			lines = append(lines, resolvBlank{})
			continue
		}
		head, tail := chopComment(raw, "#;")
		if strings.TrimSpace(head) == "" {
			lines = append(lines, resolvComment{raw: raw})
			continue
		}
		key, value, err := splitDirective(head)
		if err != nil {
			r.err = &FormatError{Line: i + 1, Reason: err.Error()}
			return r.err
		}
		if !resolvKeywords[key] {
			r.err = &FormatError{Line: i + 1, Reason: fmt.Sprintf("unexpected option %q", key)}
			return r.err
		}
		lines = append(lines, resolvOption{key: key, value: value, tail: tail})
	}
	r.lines = lines
	return nil
}

// splitDirective cuts a directive line into keyword and value at the
// first whitespace run. The value keeps its internal spacing.
func splitDirective(head string) (key, value string, err error) {
	s := strings.TrimLeft(head, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return "", "", fmt.Errorf("incorrectly formatted line %q", strings.TrimSpace(head))
	}
	key = s[:i]
	value = strings.TrimLeft(s[i:], " \t")
	if value == "" {
		return "", "", fmt.Errorf("option %q has no value", key)
	}
	return key, value, nil
}

func (r *ResolvConf) values(key string) []string {
	var found []string
	for _, ln := range r.lines {
		if o, ok := ln.(resolvOption); ok && o.key == key {
			found = append(found, o.value)
		}
	}
	return found
}

func (r *ResolvConf) removeOption(key string) {
	kept := r.lines[:0]
	for _, ln := range r.lines {
		if o, ok := ln.(resolvOption); ok && o.key == key {
			continue
		}
		kept = append(kept, ln)
	}
	r.lines = kept
}

func (r *ResolvConf) appendOption(key, value string) {
	r.lines = append(r.lines, resolvOption{key: key, value: value})
}

// Nameservers returns the value of every nameserver line, in file order.
func (r *ResolvConf) Nameservers() ([]string, error) {
	if err := r.parse(); err != nil {
		return nil, err
	}
	return r.values("nameserver"), nil
}

// LocalDomain returns the value of the first domain line. The boolean
// is false when the file has no domain line.
func (r *ResolvConf) LocalDomain() (string, bool, error) {
	if err := r.parse(); err != nil {
		return "", false, err
	}
	if domains := r.values("domain"); len(domains) > 0 {
		return domains[0], true, nil
	}
	return "", false, nil
}

// SetLocalDomain replaces every domain line with a single new one at
// the end of the file.
func (r *ResolvConf) SetLocalDomain(domain string) error {
	if err := r.parse(); err != nil {
		return err
	}
	r.removeOption("domain")
	r.appendOption("domain", domain)
	return nil
}

// SearchDomains returns the search list: the values of all search
// lines, split on whitespace and flattened, in file order.
func (r *ResolvConf) SearchDomains() ([]string, error) {
	if err := r.parse(); err != nil {
		return nil, err
	}
	var flat []string
	for _, value := range r.values("search") {
		flat = append(flat, strings.Fields(value)...)
	}
	return flat, nil
}

// AddNameserver adds ns to the nameserver list and returns the updated
// list. A nameserver already on the list is a no-op, not an error.
// Adding a fourth nameserver fails with a *LimitError and leaves the
// document unchanged. The surviving nameserver lines are re-appended in
// their original relative order, the new one last; their inline
// comments do not survive the rewrite.
func (r *ResolvConf) AddNameserver(ns string) ([]string, error) {
	current, err := r.Nameservers()
	if err != nil {
		return nil, err
	}
	updated := uniq(append(current, ns))
	if len(updated) == len(current) {
		return current, nil
	}
	if len(current) >= MaxNameservers {
		return nil, &LimitError{Value: ns, Limit: MaxNameservers, What: "name servers"}
	}
	r.removeOption("nameserver")
	for _, n := range updated {
		r.appendOption("nameserver", n)
	}
	return updated, nil
}

// AddSearchDomain adds domain to the search list and returns the
// updated list. A domain already on the list is a no-op. The add fails
// with a *LimitError, leaving the document unchanged, when the list
// would grow past MaxSearchDomains entries or the space-joined list
// would grow past MaxSearchChars characters. All search lines are
// replaced by a single combined line at the end of the file.
func (r *ResolvConf) AddSearchDomain(domain string) ([]string, error) {
	current, err := r.SearchDomains()
	if err != nil {
		return nil, err
	}
	updated := uniq(append(current, domain))
	if len(updated) == len(current) {
		return current, nil
	}
	if len(current) >= MaxSearchDomains {
		return nil, &LimitError{Value: domain, Limit: MaxSearchDomains, What: "search domains"}
	}
	joined := strings.Join(updated, " ")
	if len(joined) > MaxSearchChars {
		return nil, &LimitError{Value: domain, Limit: MaxSearchChars, What: "search list characters"}
	}
	r.removeOption("search")
	r.appendOption("search", joined)
	return updated, nil
}

// Render serializes the current state back to file text. Comment lines
// come out verbatim and directive lines as "keyword value" followed by
// their original trailing comment.
func (r *ResolvConf) Render() (string, error) {
	if err := r.parse(); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, ln := range r.lines {
		switch ln := ln.(type) {
		case resolvBlank:
		case resolvComment:
			b.WriteString(ln.raw)
		case resolvOption:
			b.WriteString(ln.key)
			b.WriteByte(' ')
			b.WriteString(ln.value)
			b.WriteString(ln.tail)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// uniq removes duplicates while preserving first-occurrence order.
func uniq(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
