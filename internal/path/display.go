// internal/path/display.go
package path

import (
	"strconv"
	"strings"
)

// String renders the canonical text form accepted by Parse.
func (p Path) String() string {
	if len(p) == 0 {
		return Delimiter
	}
	var sb strings.Builder
	for _, index := range p {
		sb.WriteString(Delimiter)
		sb.WriteString(strconv.Itoa(index))
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
