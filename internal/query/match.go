package query

import "strings"

// Match reports whether a normalized candidate satisfies a normalized
// pattern. Patterns without '*' require whole-string equality. A '*'
// matches zero or more characters: the pattern splits into literal
// segments that must appear in the candidate in order, anchored at the
// start unless the pattern begins with '*' and anchored at the end unless
// it ends with '*'.
func Match(pattern, candidate string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == candidate
	}

	segments := strings.Split(pattern, "*")

	// Leading literal anchors the start.
	if first := segments[0]; first != "" {
		if !strings.HasPrefix(candidate, first) {
			return false
		}
		candidate = candidate[len(first):]
	}
	segments = segments[1:]

	if len(segments) == 0 {
		return candidate == ""
	}

	// Trailing literal anchors the end.
	if last := segments[len(segments)-1]; last != "" {
		if !strings.HasSuffix(candidate, last) {
			return false
		}
		candidate = candidate[:len(candidate)-len(last)]
	}
	segments = segments[:len(segments)-1]

	// Middle literals must appear in order; greedy leftmost consumption
	// is sufficient since segments are plain strings.
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		i := strings.Index(candidate, seg)
		if i < 0 {
			return false
		}
		candidate = candidate[i+len(seg):]
	}
	return true
}

// Literal returns the pattern with all wildcards removed. A candidate equal
// to the literal is considered an exact match even when the pattern carries
// wildcards; the engine ranks such notes ahead of wildcard-only matches.
func Literal(pattern string) string {
	return strings.ReplaceAll(pattern, "*", "")
}

// HasWildcard reports whether the pattern contains a '*' wildcard.
func HasWildcard(pattern string) bool {
	return strings.Contains(pattern, "*")
}
