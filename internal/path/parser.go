// internal/path/parser.go
package path

import (
	"strconv"
	"strings"
)

// Parse creates a Path from its canonical text form.
func Parse(raw string) (Path, error) {
	if raw == Delimiter {
		return Root(), nil
	}
	rest, ok := strings.CutPrefix(raw, Delimiter)
	if !ok || raw == "" {
		return nil, ErrMissingStartDelim
	}

	parts := strings.Split(rest, Delimiter)
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		// Only canonical digits: no sign, no leading zeros.
		if part == "" || part[0] < '0' || part[0] > '9' || (len(part) > 1 && part[0] == '0') {
			return nil, &InvalidNumberError{Input: part}
		}
		index, err := strconv.Atoi(part)
		if err != nil {
			return nil, &InvalidNumberError{Input: part}
		}
		p = append(p, index)
	}
	return p, nil
}

// MustParse is like Parse but panics on malformed input. Intended for literals.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic("path: MustParse(" + strconv.Quote(raw) + "): " + err.Error())
	}
	return p
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
