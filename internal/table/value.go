package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind classifies a single cell.
type Kind int

const (
	Missing Kind = iota
	Number
	Text
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Value is one cell. Raw keeps the source spelling so that coercing a number
// to text reproduces what the user wrote.
type Value struct {
	Kind Kind
	Num  float64
	Raw  string
}

// MissingValue returns an empty missing cell.
func MissingValue() Value { return Value{Kind: Missing} }

// NumberValue builds a numeric cell with a canonical raw form.
func NumberValue(f float64) Value {
	return Value{Kind: Number, Num: f, Raw: FormatNumber(f)}
}

// TextValue builds a text cell.
func TextValue(s string) Value { return Value{Kind: Text, Raw: s} }

// IsMissing reports whether the cell has no value.
func (v Value) IsMissing() bool { return v.Kind == Missing }

// String returns the text representation used when writing CSV.
func (v Value) String() string {
	if v.Kind == Missing {
		return ""
	}
	return v.Raw
}

// Equal compares kind and text form.
func (v Value) Equal(o Value) bool {
	return v.Kind == o.Kind && v.Raw == o.Raw
}

// Key is a compact identity used for hashing rows and counting modes.
// Numbers are keyed on their value, so "1" and "1.0" are the same cell.
func (v Value) Key() string {
	switch v.Kind {
	case Missing:
		return "\x00"
	case Number:
		return "\x01" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return "\x02" + v.Raw
	}
}

// FormatNumber renders f in plain decimal without trailing zeros ("2", "2.5").
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DefaultMissingTokens are the NA markers recognised when none are configured.
var DefaultMissingTokens = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Parser turns raw cell text into typed values.
type Parser struct {
	missing map[string]struct{}
}

// NewParser returns a Parser treating the given tokens (and blank text) as missing.
// A nil slice selects DefaultMissingTokens.
func NewParser(tokens []string) *Parser {
	if tokens == nil {
		tokens = DefaultMissingTokens
	}
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return &Parser{missing: m}
}

// Parse infers the kind of a raw cell.
func (p *Parser) Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return MissingValue()
	}
	if _, ok := p.missing[s]; ok {
		return MissingValue()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Value{Kind: Number, Num: f, Raw: s}
	}
	return Value{Kind: Text, Raw: raw}
}
