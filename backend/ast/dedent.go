package ast

import "strings"

// splitLinesKeepEnds splits s into lines, each retaining its trailing
// newline (the last line excepted if s does not end in one), matching
// Python's str.splitlines(keepends=True).
func splitLinesKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// dedent removes the longest common leading whitespace shared by every
// non-blank line, mirroring Python's textwrap.dedent. Blank or
// whitespace-only lines are normalized to empty.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	var prefix string
	have := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ws := leadingWhitespace(line)
		if !have {
			prefix = ws
			have = true
			continue
		}
		prefix = commonPrefix(prefix, ws)
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
