package rawjson

// StripJSON returns the first balanced JSON object in body, dropping any
// JSONP callback wrapper or trailing junk. Braces inside string literals are
// ignored.
func StripJSON(body []byte) ([]byte, error) {
	start := -1
	for i, c := range body {
		if c == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoJSON
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(body); i++ {
		c := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return body[start : i+1], nil
			}
		}
	}
	return nil, ErrNoJSON
}
