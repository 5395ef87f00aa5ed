package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserInfersKinds(t *testing.T) {
	p := NewParser(nil)
	tests := []struct {
		raw  string
		kind Kind
		num  float64
	}{
		{"", Missing, 0},
		{"   ", Missing, 0},
		{"NA", Missing, 0},
		{"null", Missing, 0},
		{"42", Number, 42},
		{" -3.5 ", Number, -3.5},
		{"1e3", Number, 1000},
		{"abc", Text, 0},
		{"Inf", Text, 0},
		{"12%", Text, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := p.Parse(tt.raw)
			assert.Equal(t, tt.kind, v.Kind)
			if tt.kind == Number {
				assert.Equal(t, tt.num, v.Num)
			}
		})
	}
}

func TestParserCustomTokens(t *testing.T) {
	p := NewParser([]string{"?"})
	assert.True(t, p.Parse("?").IsMissing())
	assert.Equal(t, Text, p.Parse("NA").Kind)
}

func TestNumberKeepsRawSpelling(t *testing.T) {
	v := NewParser(nil).Parse("1.50")
	assert.Equal(t, "1.50", v.String())
	assert.Equal(t, "2", NumberValue(2).String())
	assert.Equal(t, "2.5", NumberValue(2.5).String())
}

func TestNewRejectsBadShapes(t *testing.T) {
	_, err := New("t", []Column{{Name: "a"}, {Name: "a"}})
	require.Error(t, err)

	_, err = New("t", []Column{{Name: ""}})
	require.Error(t, err)

	_, err = New("t", []Column{
		{Name: "a", Values: []Value{NumberValue(1)}},
		{Name: "b", Values: nil},
	})
	require.Error(t, err)
}

func TestColumnInfoTypes(t *testing.T) {
	tests := []struct {
		name string
		vals []Value
		want Type
		miss int
	}{
		{"numeric", []Value{NumberValue(1), MissingValue()}, TypeNumeric, 1},
		{"text", []Value{TextValue("a")}, TypeText, 0},
		{"mixed", []Value{NumberValue(1), TextValue("x")}, TypeMixed, 0},
		{"empty", []Value{MissingValue(), MissingValue()}, TypeEmpty, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Column{Name: tt.name, Values: tt.vals}.Info()
			assert.Equal(t, tt.want, info.Type)
			assert.Equal(t, tt.miss, info.Missing)
			assert.Equal(t, len(tt.vals)-tt.miss, info.NonNull)
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tb, err := FromRows("t", []string{"a"}, [][]Value{{NumberValue(1)}})
	require.NoError(t, err)
	cp := tb.Clone()
	cp.Columns[0].Values[0] = TextValue("changed")
	assert.Equal(t, Number, tb.Columns[0].Values[0].Kind)
	assert.False(t, tb.Equal(cp))
}

func TestRowKeyDistinguishesKinds(t *testing.T) {
	tb, err := FromRows("t", []string{"a"}, [][]Value{
		{NumberValue(1)},
		{TextValue("1")},
		{NumberValue(1)},
	})
	require.NoError(t, err)
	assert.NotEqual(t, tb.RowKey(0), tb.RowKey(1))
	assert.Equal(t, tb.RowKey(0), tb.RowKey(2))
}

func TestSelectRowsAndRecords(t *testing.T) {
	tb, err := FromRows("t", []string{"a", "b"}, [][]Value{
		{NumberValue(1), TextValue("x")},
		{NumberValue(2), MissingValue()},
		{NumberValue(3), TextValue("z")},
	})
	require.NoError(t, err)
	sub := tb.SelectRows([]int{2, 0})
	assert.Equal(t, [][]string{{"3", "z"}, {"1", "x"}}, sub.Records())
	assert.Equal(t, 1, tb.MissingCount())
	assert.Equal(t, []string{"a", "b"}, tb.Header())
}

func TestRowKeyComparesNumbersByValue(t *testing.T) {
	p := NewParser(nil)
	tb, err := FromRows("t", []string{"a"}, [][]Value{
		{p.Parse("1")},
		{p.Parse("1.0")},
		{p.Parse("1e0")},
		{p.Parse("1.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, tb.RowKey(0), tb.RowKey(1))
	assert.Equal(t, tb.RowKey(0), tb.RowKey(2))
	assert.NotEqual(t, tb.RowKey(0), tb.RowKey(3))
}
