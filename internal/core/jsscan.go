package core

import "strings"

var closingBracket = map[byte]byte{'{': '}', '(': ')', '[': ']'}

// skipLiteral returns the index just past the string, template literal or
// comment starting at i, or i when none starts there.
func skipLiteral(code string, i int) int {
	switch {
	case strings.HasPrefix(code[i:], "//"):
		if n := strings.IndexByte(code[i:], '\n'); n >= 0 {
			return i + n + 1
		}
		return len(code)
	case strings.HasPrefix(code[i:], "/*"):
		if n := strings.Index(code[i+2:], "*/"); n >= 0 {
			return i + 2 + n + 2
		}
		return len(code)
	}

	switch q := code[i]; q {
	case '\'', '"':
		for j := i + 1; j < len(code); j++ {
			switch code[j] {
			case '\\':
				j++
			case q:
				return j + 1
			case '\n':
				return j
			}
		}
		return len(code)
	case '`':
		for j := i + 1; j < len(code); j++ {
			switch {
			case code[j] == '\\':
				j++
			case code[j] == '`':
				return j + 1
			case code[j] == '$' && j+1 < len(code) && code[j+1] == '{':
				end := matchingBracket(code, j+1)
				if end < 0 {
					return len(code)
				}
				j = end
			}
		}
		return len(code)
	}
	return i
}

// matchingBracket returns the index of the bracket that closes the one at
// open, or -1 when it is never closed. Strings and comments are skipped.
func matchingBracket(code string, open int) int {
	var stack []byte
	for i := open; i < len(code); {
		if j := skipLiteral(code, i); j != i {
			i = j
			continue
		}
		c := code[i]
		if cl, ok := closingBracket[c]; ok {
			stack = append(stack, cl)
		} else if len(stack) > 0 && c == stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// isIdentByte counts '.' so member accesses such as this.constructor( are not
// taken for keywords.
func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func skipSpace(code string, i int) int {
	for i < len(code) && strings.IndexByte(" \t\r\n", code[i]) >= 0 {
		i++
	}
	return i
}

// callAt reports whether code[i:] starts a call of the keyword name, returning
// the index of its opening parenthesis.
func callAt(code string, i int, name string) (int, bool) {
	if !strings.HasPrefix(code[i:], name) || (i > 0 && isIdentByte(code[i-1])) {
		return 0, false
	}
	k := skipSpace(code, i+len(name))
	if k < len(code) && code[k] == '(' {
		return k, true
	}
	return 0, false
}

// findConstructor locates the constructor among the top-level members of a
// class body and returns the positions of its body braces.
func findConstructor(members string) (open, end int, ok bool) {
	depth := 0
	for i := 0; i < len(members); {
		if j := skipLiteral(members, i); j != i {
			i = j
			continue
		}
		switch c := members[i]; c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		default:
			if depth != 0 {
				break
			}
			paren, found := callAt(members, i, "constructor")
			if !found {
				break
			}
			params := matchingBracket(members, paren)
			if params < 0 {
				return 0, 0, false
			}
			b := skipSpace(members, params+1)
			if b >= len(members) || members[b] != '{' {
				return 0, 0, false
			}
			if e := matchingBracket(members, b); e >= 0 {
				return b, e, true
			}
			return 0, 0, false
		}
		i++
	}
	return 0, 0, false
}

// removeSuperCall drops the first super(...) call, with its semicolon.
func removeSuperCall(body string) string {
	for i := 0; i < len(body); {
		if j := skipLiteral(body, i); j != i {
			i = j
			continue
		}
		if paren, ok := callAt(body, i, "super"); ok {
			end := matchingBracket(body, paren)
			if end < 0 {
				return body
			}
			end++
			if k := skipSpace(body, end); k < len(body) && body[k] == ';' {
				end = k + 1
			}
			return body[:i] + body[end:]
		}
		i++
	}
	return body
}
