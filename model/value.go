package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindStructured
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindStructured:
		return "structured"
	case KindRaw:
		return "raw"
	}
	return "unknown"
}

// Value is a decoded call argument. The zero Value is absent.
// Structured values keep their source JSON so key order survives formatting.
type Value struct {
	kind Kind
	text string
	num  float64
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number returns a numeric Value. NaN and infinities are kept as raw tokens
// since they have no JSON form.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Raw(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Value{kind: KindNumber, num: f}
}

// Structured wraps JSON source text. Invalid JSON degrades to a raw token.
func Structured(src string) Value {
	if !json.Valid([]byte(src)) {
		return Raw(src)
	}
	return Value{kind: KindStructured, text: src}
}

func Raw(s string) Value {
	return Value{kind: KindRaw, text: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Text is the plain text form: string content, number literal, JSON source
// or raw token. Absent values have empty text.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString, KindStructured, KindRaw:
		return v.text
	}
	return ""
}

// Pretty is Text with structured values indented by two spaces.
func (v Value) Pretty() string {
	if v.kind != KindStructured {
		return v.Text()
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(v.text), "", "  "); err != nil {
		return v.text
	}
	return buf.String()
}

// Literal renders the value back as call-argument source.
func (v Value) Literal() string {
	if v.kind == KindString {
		return strconv.Quote(v.text)
	}
	return v.Text()
}

func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.text == o.text && v.num == o.num
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindAbsent:
		return []byte("null"), nil
	case KindNumber:
		return []byte(v.Text()), nil
	case KindStructured:
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(v.text)); err != nil {
			return json.Marshal(v.text)
		}
		return buf.Bytes(), nil
	}
	return json.Marshal(v.text)
}
