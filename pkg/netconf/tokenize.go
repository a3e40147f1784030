package netconf

import "strings"

// chopComment splits a line at the leftmost occurrence of any comment
// character. The tail starts at the comment character itself, so joining
// head and tail reproduces the input. A line without a comment character
// comes back whole with an empty tail.
func chopComment(line, commentChars string) (head, tail string) {
	i := strings.IndexAny(line, commentChars)
	if i < 0 {
		return line, ""
	}
	return line[:i], line[i:]
}

// splitLines breaks text into physical lines without the trailing
// newline of each, matching how the documents count lines for
// diagnostics. A trailing newline does not produce a phantom empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
