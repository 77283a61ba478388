package xlogpub

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/willibrandon/mtlog/parser"
)

// TimeLayout is the default timestamp layout: local time with a numeric zone.
const TimeLayout = "2006-01-02T15:04:05-0700"

// MissingMarker is appended to the slot name of a parameter the event lacks.
const MissingMarker = ":MISSING"

// FormatTime renders t with TimeLayout. The zero time renders as "-".
func FormatTime(t time.Time) string {
	return formatTimeLayout(t, TimeLayout)
}

func formatTimeLayout(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	if layout == "" {
		layout = TimeLayout
	}
	return t.Local().Format(layout)
}

// FormatEvent renders the event's template with its parameters.
func FormatEvent(e Event) string {
	return FormatTemplate(e.Template, e.Params)
}

// FormatTemplate substitutes {name} slots in tmpl with the matching params.
//
//   - "{{" and "}}" render a literal brace.
//   - "{name!r}" renders the quoted form of the value.
//   - "{name:spec}" applies a format spec: [[fill]align][0][width][.precision][type]
//     with align one of '<', '>', '^' and type one of d, x, X, f, e, g, s.
//   - "{name,width}" pads to width, right-aligned; a negative width left-aligns.
//   - A slot with no matching parameter renders as "{name:MISSING}".
//   - An unclosed '{' is copied as text.
func FormatTemplate(tmpl string, params []Field) string {
	if strings.IndexByte(tmpl, '{') < 0 && strings.IndexByte(tmpl, '}') < 0 {
		return tmpl
	}
	buf := getBuf()
	defer putBuf(buf)
	appendTemplate(buf, tmpl, params)
	return buf.String()
}

func appendTemplate(buf *buffer, tmpl string, params []Field) {
	if strings.IndexByte(tmpl, '{') < 0 && strings.IndexByte(tmpl, '}') < 0 {
		buf.writeString(tmpl)
		return
	}
	mt, err := parser.Parse(tmpl)
	if err != nil {
		buf.writeString(tmpl)
		return
	}
	for _, tok := range mt.Tokens {
		switch t := tok.(type) {
		case *parser.TextToken:
			buf.writeString(t.Text)
		case *parser.PropertyToken:
			appendSlot(buf, newSlot(t), params)
		}
	}
}

// slot is a parsed {name!conv:spec} placeholder.
type slot struct {
	raw   string
	name  string
	repr  bool
	spec  string
	align int
}

// newSlot reads a property token. Names that are not plain identifiers
// ("why!r", "req.id") come back unsplit, so the conversion and spec are cut
// off here.
func newSlot(t *parser.PropertyToken) slot {
	s := slot{raw: t.PropertyName, name: t.PropertyName, spec: t.Format, align: t.Alignment}
	if t.Format != "" || t.Alignment != 0 {
		return s
	}
	name := t.PropertyName
	if k := strings.IndexByte(name, ':'); k >= 0 {
		s.spec = strings.TrimSpace(name[k+1:])
		name = name[:k]
	}
	if k := strings.IndexByte(name, '!'); k >= 0 {
		s.repr = strings.TrimSpace(name[k+1:]) == "r"
		name = name[:k]
	}
	s.name = strings.TrimSpace(name)
	return s
}

func appendSlot(buf *buffer, s slot, params []Field) {
	if s.name == "" {
		buf.writeByte('{')
		buf.writeString(s.raw)
		buf.writeByte('}')
		return
	}
	f, ok := lookup(params, s.name)
	if !ok {
		buf.writeByte('{')
		buf.writeString(s.name)
		buf.writeString(MissingMarker)
		buf.writeByte('}')
		return
	}
	if s.spec == "" && s.align == 0 {
		appendValue(buf, f, s.repr)
		return
	}
	appendFormatted(buf, f, s)
}

// formatSpec is the parsed form of [[fill]align][0][width][.precision][type].
type formatSpec struct {
	fill      byte
	align     byte
	width     int
	precision int
	verb      byte
}

func parseFormatSpec(spec string) formatSpec {
	fs := formatSpec{fill: ' ', precision: -1}
	i := 0
	isAlign := func(c byte) bool { return c == '<' || c == '>' || c == '^' }
	switch {
	case len(spec) >= 2 && isAlign(spec[1]):
		fs.fill, fs.align = spec[0], spec[1]
		i = 2
	case len(spec) >= 1 && isAlign(spec[0]):
		fs.align = spec[0]
		i = 1
	}
	if i < len(spec) && spec[i] == '0' {
		if fs.align == 0 {
			fs.fill, fs.align = '0', '>'
		}
		i++
	}
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		fs.width = fs.width*10 + int(spec[i]-'0')
		i++
	}
	if i < len(spec) && spec[i] == '.' {
		i++
		fs.precision = 0
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			fs.precision = fs.precision*10 + int(spec[i]-'0')
			i++
		}
	}
	if i < len(spec) {
		fs.verb = spec[i]
	}
	return fs
}

func appendFormatted(buf *buffer, f *Field, s slot) {
	fs := parseFormatSpec(s.spec)
	if s.align != 0 && fs.width == 0 {
		fs.width = s.align
		fs.align = '>'
		if s.align < 0 {
			fs.width = -s.align
			fs.align = '<'
		}
	}
	start := len(buf.b)
	switch {
	case fs.verb == 'x' || fs.verb == 'X':
		appendBase16(buf, f, fs.verb == 'X')
	case (fs.verb == 'f' || fs.verb == 'e' || fs.verb == 'g' || fs.precision >= 0) && isNumeric(f):
		verb := fs.verb
		if verb == 0 || verb == 'd' {
			verb = 'f'
		}
		buf.b = strconv.AppendFloat(buf.b, numericValue(f), verb, fs.precision, 64)
	default:
		appendValue(buf, f, s.repr)
		if fs.precision >= 0 && (f.Kind == KindString || fs.verb == 's') {
			if n := utf8.RuneCount(buf.b[start:]); n > fs.precision {
				cut := start
				for k := 0; k < fs.precision; k++ {
					_, size := utf8.DecodeRune(buf.b[cut:])
					cut += size
				}
				buf.b = buf.b[:cut]
			}
		}
	}
	pad(buf, start, fs, isNumeric(f))
}

func isNumeric(f *Field) bool {
	return f.Kind == KindInt64 || f.Kind == KindUint64 || f.Kind == KindFloat64
}

func numericValue(f *Field) float64 {
	switch f.Kind {
	case KindInt64:
		return float64(f.Int64)
	case KindUint64:
		return float64(f.Uint64)
	}
	return f.Float64
}

func appendBase16(buf *buffer, f *Field, upper bool) {
	start := len(buf.b)
	switch f.Kind {
	case KindInt64:
		buf.b = strconv.AppendInt(buf.b, f.Int64, 16)
	case KindUint64:
		buf.b = strconv.AppendUint(buf.b, f.Uint64, 16)
	default:
		appendValue(buf, f, false)
		return
	}
	if upper {
		for k := start; k < len(buf.b); k++ {
			if c := buf.b[k]; c >= 'a' && c <= 'f' {
				buf.b[k] = c - 'a' + 'A'
			}
		}
	}
}

// pad widens buf.b[start:] to fs.width runes. Numbers default to the right,
// everything else to the left.
func pad(buf *buffer, start int, fs formatSpec, numeric bool) {
	n := utf8.RuneCount(buf.b[start:])
	if n >= fs.width {
		return
	}
	align := fs.align
	if align == 0 {
		align = '<'
		if numeric {
			align = '>'
		}
	}
	missing := fs.width - n
	left := 0
	switch align {
	case '>':
		left = missing
	case '^':
		left = missing / 2
	}
	right := missing - left
	value := append([]byte(nil), buf.b[start:]...)
	buf.b = buf.b[:start]
	if fs.fill == '0' && numeric && len(value) > 0 && value[0] == '-' {
		buf.writeByte('-')
		value = value[1:]
	}
	for k := 0; k < left; k++ {
		buf.writeByte(fs.fill)
	}
	buf.writeBytes(value)
	for k := 0; k < right; k++ {
		buf.writeByte(fs.fill)
	}
}

func appendValue(buf *buffer, f *Field, repr bool) {
	switch f.Kind {
	case KindString:
		appendString(buf, f.Str, repr)
	case KindInt64:
		buf.b = strconv.AppendInt(buf.b, f.Int64, 10)
	case KindUint64:
		buf.b = strconv.AppendUint(buf.b, f.Uint64, 10)
	case KindFloat64:
		appendFloat64(buf, f.Float64)
	case KindBool:
		buf.b = strconv.AppendBool(buf.b, f.Bool)
	case KindDuration:
		buf.writeString(f.Dur.String())
	case KindTime:
		buf.b = f.Time.AppendFormat(buf.b, time.RFC3339Nano)
	case KindError:
		if f.Err == nil {
			buf.writeString("<nil>")
			return
		}
		appendString(buf, f.Err.Error(), repr)
	case KindBytes:
		buf.writeString("len:")
		buf.b = strconv.AppendInt(buf.b, int64(len(f.Bytes)), 10)
	case KindAny:
		appendAny(buf, f.Any, repr)
	default:
		buf.writeString("<nil>")
	}
}

func appendString(buf *buffer, s string, repr bool) {
	if repr {
		buf.b = strconv.AppendQuote(buf.b, s)
		return
	}
	buf.writeString(s)
}

func appendFloat64(buf *buffer, f float64) {
	switch {
	case math.IsNaN(f):
		buf.writeString("NaN")
	case math.IsInf(f, 1):
		buf.writeString("+Inf")
	case math.IsInf(f, -1):
		buf.writeString("-Inf")
	default:
		buf.b = strconv.AppendFloat(buf.b, f, 'g', -1, 64)
	}
}

func appendAny(buf *buffer, v any, repr bool) {
	switch vv := v.(type) {
	case nil:
		buf.writeString("<nil>")
	case string:
		appendString(buf, vv, repr)
	case fmt.Stringer:
		appendString(buf, vv.String(), repr)
	case error:
		appendString(buf, vv.Error(), repr)
	default:
		if repr {
			buf.b = fmt.Appendf(buf.b, "%#v", vv)
			return
		}
		buf.b = fmt.Appendf(buf.b, "%v", vv)
	}
}
