package logward

import (
	"fmt"
	"strings"
)

// FormattingError reports a message template that references a key missing
// from the call-site fields. It indicates a programming error at the call
// site and is returned synchronously from the logging call.
type FormattingError struct {
	Template string
	Key      string
}

func (e *FormattingError) Error() string {
	return fmt.Sprintf("message template %q references missing key %q", e.Template, e.Key)
}

// FormatMessage renders a brace-style template against the given fields.
//
// Placeholders take the form {name}, where name is a plain identifier.
// Literal braces are escaped as {{ and }}. Every field consumed by at least
// one placeholder is excluded from the returned extras; all other fields are
// returned verbatim, in their original order and with their original value
// types. A placeholder with no matching field yields a *FormattingError.
//
// An opening brace that does not start a valid placeholder is treated as
// literal text.
func FormatMessage(template string, fields []Field) (string, []Field, error) {
	if !strings.ContainsRune(template, '{') && !strings.ContainsRune(template, '}') {
		return template, append([]Field(nil), fields...), nil
	}

	var (
		sb       strings.Builder
		consumed map[string]struct{}
	)
	sb.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]

		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				sb.WriteByte('{')
				i += 2
				continue
			}
			name, end := scanPlaceholder(template, i+1)
			if name == "" {
				sb.WriteByte('{')
				i++
				continue
			}
			value, ok := lookupField(fields, name)
			if !ok {
				return "", nil, &FormattingError{Template: template, Key: name}
			}
			fmt.Fprint(&sb, value)
			if consumed == nil {
				consumed = make(map[string]struct{})
			}
			consumed[name] = struct{}{}
			i = end + 1

		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				sb.WriteByte('}')
				i += 2
				continue
			}
			sb.WriteByte('}')
			i++

		default:
			sb.WriteByte(c)
			i++
		}
	}

	if len(consumed) == 0 {
		return sb.String(), append([]Field(nil), fields...), nil
	}

	extras := make([]Field, 0, len(fields))
	for _, f := range fields {
		if _, ok := consumed[f.Key]; !ok {
			extras = append(extras, f)
		}
	}
	return sb.String(), extras, nil
}

// scanPlaceholder reads an identifier starting at start and returns it with
// the index of the closing brace. An empty name means no valid placeholder
// begins at start.
func scanPlaceholder(template string, start int) (string, int) {
	i := start
	for i < len(template) && isIdentChar(template[i], i == start) {
		i++
	}
	if i == start || i >= len(template) || template[i] != '}' {
		return "", 0
	}
	return template[start:i], i
}

func isIdentChar(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}

func lookupField(fields []Field, key string) (any, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}
