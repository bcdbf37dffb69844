package discover

import "strings"

// Regex renders the exclusion set as one CMake regular expression matching
// workspace-relative paths, for use with list(FILTER ... EXCLUDE REGEX ...).
// The result is an unquoted regex; callers quote it for CMake.
func (e *Exclusions) Regex() string {
	if e == nil || len(e.entries) == 0 {
		return ""
	}
	alts := make([]string, 0, len(e.entries))
	for _, x := range e.entries {
		if x.anchored {
			alts = append(alts, "^"+globToRegex(x.pattern)+"(/|$)")
		} else {
			alts = append(alts, "(^|/)"+globToRegex(x.pattern)+"(/|$)")
		}
	}
	return strings.Join(alts, "|")
}

// globToRegex translates doublestar glob syntax into the regex dialect CMake
// understands (no quantifier braces, no non-greedy forms).
func globToRegex(glob string) string {
	var sb strings.Builder
	inAlt := 0
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				i++
				// "**/" also matches zero directories
				if i+1 < len(glob) && glob[i+1] == '/' {
					i++
					sb.WriteString("(.*/)?")
				} else {
					sb.WriteString(".*")
				}
				continue
			}
			sb.WriteString("[^/]*")
		case '?':
			sb.WriteString("[^/]")
		case '[':
			j := i + 1
			sb.WriteByte('[')
			if j < len(glob) && (glob[j] == '!' || glob[j] == '^') {
				sb.WriteByte('^')
				j++
			}
			for ; j < len(glob) && glob[j] != ']'; j++ {
				if glob[j] == '\\' && j+1 < len(glob) {
					j++
				}
				sb.WriteByte(glob[j])
			}
			sb.WriteByte(']')
			i = j
		case '{':
			inAlt++
			sb.WriteByte('(')
		case '}':
			if inAlt > 0 {
				inAlt--
				sb.WriteByte(')')
			} else {
				sb.WriteString(`\}`)
			}
		case ',':
			if inAlt > 0 {
				sb.WriteByte('|')
			} else {
				sb.WriteByte(',')
			}
		case '\\':
			if i+1 < len(glob) {
				i++
				writeLiteral(&sb, glob[i])
			}
		default:
			writeLiteral(&sb, c)
		}
	}
	return sb.String()
}

func writeLiteral(sb *strings.Builder, c byte) {
	if strings.IndexByte(`.+*?()|^$[]{}\`, c) >= 0 {
		sb.WriteByte('\\')
	}
	sb.WriteByte(c)
}
