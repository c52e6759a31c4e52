package report

import "strings"

// minPrefixLen is the shortest trimmed prefix worth stripping.
const minPrefixLen = 3

// CommonPrefix returns the longest prefix shared by every name that ends on
// a word boundary, is at least three characters long once trimmed, and
// leaves something of every name. It returns "" when fewer than two names
// are given or no such prefix exists.
func CommonPrefix(names []string) string {
	if len(names) < 2 {
		return ""
	}

	prefix := names[0]
	for _, name := range names[1:] {
		for !strings.HasPrefix(name, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	if !endsAtBoundary(prefix, names) {
		prefix = prefix[:strings.LastIndex(prefix, " ")+1]
	}

	trimmed := strings.TrimSpace(prefix)
	if len(trimmed) < minPrefixLen {
		return ""
	}
	for _, name := range names {
		if strings.TrimSpace(name) == trimmed {
			return ""
		}
	}
	return trimmed
}

func endsAtBoundary(prefix string, names []string) bool {
	if strings.HasSuffix(prefix, " ") {
		return true
	}
	for _, name := range names {
		if len(name) > len(prefix) && name[len(prefix)] != ' ' {
			return false
		}
	}
	return true
}

// StripCommonPrefix removes the CommonPrefix from every name. The input is
// not modified.
func StripCommonPrefix(names []string) []string {
	out := make([]string, len(names))
	prefix := CommonPrefix(names)
	for i, name := range names {
		if prefix == "" {
			out[i] = name
			continue
		}
		out[i] = strings.TrimSpace(strings.TrimPrefix(name, prefix))
	}
	return out
}
