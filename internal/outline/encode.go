package outline

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"
)

// Style selects how records are serialized.
type Style string

const (
	// StylePython matches Python's json.dumps defaults byte for byte:
	// ", " and ": " separators, non-ASCII escaped as \uXXXX.
	StylePython Style = "python"

	// StyleCompact is encoding/json's compact form.
	StyleCompact Style = "compact"

	// StylePretty is encoding/json indented by two spaces.
	StylePretty Style = "pretty"
)

// Styles lists every supported output style.
var Styles = []Style{StylePython, StyleCompact, StylePretty}

// Encoder writes one newline-terminated record per call.
type Encoder struct {
	w     io.Writer
	style Style
}

// NewEncoder returns an Encoder writing to w in the given style.
func NewEncoder(w io.Writer, style Style) *Encoder {
	return &Encoder{w: w, style: style}
}

// EncodeResult writes an outline record.
func (e *Encoder) EncodeResult(r *Result) error {
	if r == nil {
		r = newResult()
	}
	if e.style == StylePython {
		return e.write(appendPyResult(nil, r))
	}
	return e.encodeJSON(r)
}

// EncodeError writes an error record for err.
func (e *Encoder) EncodeError(err error) error {
	record := NewErrorRecord(err)
	if e.style == StylePython {
		buf := []byte(`{"error": `)
		buf = appendPyString(buf, record.Error)
		return e.write(append(buf, '}'))
	}
	return e.encodeJSON(record)
}

func (e *Encoder) write(buf []byte) error {
	_, err := e.w.Write(append(buf, '\n'))
	return err
}

func (e *Encoder) encodeJSON(v any) error {
	enc := json.NewEncoder(e.w)
	enc.SetEscapeHTML(false)
	switch e.style {
	case StyleCompact:
	case StylePretty:
		enc.SetIndent("", "  ")
	default:
		return fmt.Errorf("unknown output style %q", e.style)
	}
	return enc.Encode(v)
}

func appendPyResult(buf []byte, r *Result) []byte {
	buf = append(buf, `{"functions": [`...)
	for i, fn := range r.Functions {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, `{"name": `...)
		buf = appendPyString(buf, fn.Name)
		buf = append(buf, `, "params": [`...)
		for j, p := range fn.Params {
			if j > 0 {
				buf = append(buf, ", "...)
			}
			buf = appendPyString(buf, p)
		}
		buf = append(buf, `], "start": `...)
		buf = strconv.AppendInt(buf, int64(fn.StartLine), 10)
		buf = append(buf, `, "end": `...)
		buf = strconv.AppendInt(buf, int64(fn.EndLine), 10)
		buf = append(buf, '}')
	}

	buf = append(buf, `], "classes": [`...)
	for i, cls := range r.Classes {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, `{"name": `...)
		buf = appendPyString(buf, cls.Name)
		buf = append(buf, `, "start": `...)
		buf = strconv.AppendInt(buf, int64(cls.StartLine), 10)
		buf = append(buf, `, "end": `...)
		buf = strconv.AppendInt(buf, int64(cls.EndLine), 10)
		buf = append(buf, '}')
	}
	return append(buf, "]}"...)
}

// appendPyString quotes s the way json.dumps does with ensure_ascii=True.
func appendPyString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			buf = append(buf, `\"`...)
		case '\\':
			buf = append(buf, `\\`...)
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\t':
			buf = append(buf, `\t`...)
		case '\b':
			buf = append(buf, `\b`...)
		case '\f':
			buf = append(buf, `\f`...)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf = append(buf, byte(r))
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				buf = appendUnicodeEscape(buf, hi)
				buf = appendUnicodeEscape(buf, lo)
			default:
				buf = appendUnicodeEscape(buf, r)
			}
		}
	}
	return append(buf, '"')
}

func appendUnicodeEscape(buf []byte, r rune) []byte {
	const hex = "0123456789abcdef"
	return append(buf, '\\', 'u', hex[r>>12&0xf], hex[r>>8&0xf], hex[r>>4&0xf], hex[r&0xf])
}
