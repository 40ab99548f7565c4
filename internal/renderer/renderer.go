package renderer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/jsonenv/internal/errors"
	"github.com/mcncl/jsonenv/internal/models"
)

// MaxDepth is the deepest container nesting Render accepts, counted from the
// root of the rendered document.
const MaxDepth = 64

const indent = "  "

const hexDigits = "0123456789abcdef"

// Render writes v as JSON text. Compact output contains no whitespace outside
// strings; pretty output puts each member on its own line, indented two spaces
// per level.
//
// Rendering fails only when a number is NaN or infinite (errors.ErrInvalidNumber)
// or when containers nest deeper than MaxDepth (errors.ErrDepthExceeded).
func Render(v models.Value, pretty bool) (string, error) {
	w := &writer{pretty: pretty}
	if err := w.value(v, 0); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

type pathElem struct {
	key   string
	index int
	isKey bool
}

type writer struct {
	b      strings.Builder
	pretty bool
	path   []pathElem
}

func (w *writer) value(v models.Value, depth int) error {
	// Value is closed over the six variants and pointers to them.
	switch t := deref(v).(type) {
	case nil, models.Null:
		w.b.WriteString("null")
	case models.Bool:
		if t {
			w.b.WriteString("true")
		} else {
			w.b.WriteString("false")
		}
	case models.Number:
		s, ok := formatNumber(t)
		if !ok {
			return errors.NewRenderError(fmt.Sprintf("number at %s", w.pathString()), errors.ErrInvalidNumber)
		}
		w.b.WriteString(s)
	case models.String:
		writeString(&w.b, string(t))
	case models.Array:
		return w.array(t, depth)
	case models.Object:
		return w.object(t, depth)
	}
	return nil
}

// deref resolves a pointer variant to the value it points at. Nil pointers render as null.
func deref(v models.Value) models.Value {
	switch t := v.(type) {
	case *models.Null:
		if t != nil {
			return *t
		}
	case *models.Bool:
		if t != nil {
			return *t
		}
	case *models.Number:
		if t != nil {
			return *t
		}
	case *models.String:
		if t != nil {
			return *t
		}
	case *models.Array:
		if t != nil {
			return *t
		}
	case *models.Object:
		if t != nil {
			return *t
		}
	default:
		return v
	}
	return nil
}

func (w *writer) array(a models.Array, depth int) error {
	if depth >= MaxDepth {
		return w.tooDeep()
	}
	if len(a) == 0 {
		w.b.WriteString("[]")
		return nil
	}
	w.b.WriteByte('[')
	for i, e := range a {
		if i > 0 {
			w.b.WriteByte(',')
		}
		w.newline(depth + 1)
		w.path = append(w.path, pathElem{index: i})
		if err := w.value(e, depth+1); err != nil {
			return err
		}
		w.path = w.path[:len(w.path)-1]
	}
	w.newline(depth)
	w.b.WriteByte(']')
	return nil
}

func (w *writer) object(o models.Object, depth int) error {
	if depth >= MaxDepth {
		return w.tooDeep()
	}
	if len(o) == 0 {
		w.b.WriteString("{}")
		return nil
	}
	w.b.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			w.b.WriteByte(',')
		}
		w.newline(depth + 1)
		writeString(&w.b, m.Key)
		w.b.WriteByte(':')
		if w.pretty {
			w.b.WriteByte(' ')
		}
		w.path = append(w.path, pathElem{key: m.Key, isKey: true})
		if err := w.value(m.Value, depth+1); err != nil {
			return err
		}
		w.path = w.path[:len(w.path)-1]
	}
	w.newline(depth)
	w.b.WriteByte('}')
	return nil
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.b.WriteString(indent)
	}
}

func (w *writer) tooDeep() error {
	return errors.NewRenderError(
		fmt.Sprintf("nesting deeper than %d at %s", MaxDepth, w.pathString()),
		errors.ErrDepthExceeded,
	)
}

// pathString formats the current position as a JSONPath-like expression.
func (w *writer) pathString() string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, p := range w.path {
		if p.isKey {
			sb.WriteByte('.')
			sb.WriteString(p.key)
			continue
		}
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(p.index))
		sb.WriteByte(']')
	}
	return sb.String()
}

// formatNumber returns the canonical text of n, or false if n is not finite.
func formatNumber(n models.Number) (string, bool) {
	switch n.Kind() {
	case models.IntKind:
		return strconv.FormatInt(n.Int64(), 10), true
	case models.UintKind:
		return strconv.FormatUint(n.Uint64(), 10), true
	}
	if !n.IsFinite() {
		return "", false
	}
	return formatFloat(n.Float64()), true
}

// formatFloat uses plain decimal notation for 1e-6 <= |f| < 1e21 and exponent
// notation otherwise, always with the shortest digits that round-trip.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// e-07 -> e-7
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}

// writeString writes s as a quoted JSON string. Quotes, backslashes and
// U+0000-U+001F are escaped; all other code points are written as UTF-8.
// Bytes that are not valid UTF-8 become U+FFFD.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			b.WriteString(s[start:i])
			switch c {
			case '"', '\\':
				b.WriteByte('\\')
				b.WriteByte(c)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(s[start:i])
			b.WriteString("\uFFFD")
			i++
			start = i
			continue
		}
		i += size
	}
	b.WriteString(s[start:])
	b.WriteByte('"')
}
