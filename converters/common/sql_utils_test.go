package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"O'Brien", "'O''Brien'"},
		{"", "''"},
		{"plain", "'plain'"},
		{"''", "''''''"},
		{`back\slash`, `'back\slash'`},
		{"line\nbreak", "'line\nbreak'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteLiteral(tt.in), "QuoteLiteral(%q)", tt.in)
	}
}

func TestTypedLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", "NULL"},
		{"Integer", "42", "42"},
		{"Negative", "-7", "-7"},
		{"Decimal", "3.14", "3.14"},
		{"Exponent", "1e10", "1e10"},
		{"LeadingDot", ".5", ".5"},
		{"OutOfRange", "1e400", "1e400"},
		{"TrailingDot", "1.", "1."},
		{"Signed", "+2.5E-3", "+2.5E-3"},
		{"Infinity", "-Infinity", "-Infinity"},
		{"DigitSeparator", "2023_01", "'2023_01'"},
		{"GroupedThousands", "1_000", "'1_000'"},
		{"HexFloat", "0x1p3", "'0x1p3'"},
		{"SignedHex", "-0X1P-2", "'-0X1P-2'"},
		{"HexInteger", "0xff", "'0xff'"},
		{"LoneDot", ".", "'.'"},
		{"BareExponent", "e5", "'e5'"},
		{"DanglingExponent", "1e", "'1e'"},
		{"True", "true", "true"},
		{"MixedCaseFalse", "FaLsE", "FaLsE"},
		{"Text", "O'Brien", "'O''Brien'"},
		{"NumericPrefix", "12abc", "'12abc'"},
		{"Space", " ", "' '"},
		{"PaddedNumber", " 1", "' 1'"},
		{"Yes", "yes", "'yes'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypedLiteral(tt.in))
		})
	}
}

func TestIsBoolean(t *testing.T) {
	assert.True(t, IsBoolean("TRUE"))
	assert.True(t, IsBoolean("false"))
	assert.False(t, IsBoolean("t"))
	assert.False(t, IsBoolean("falſe"))
	assert.False(t, IsBoolean(""))
}

func TestFormatValues(t *testing.T) {
	record := []string{"1", "O'Brien", "", "true"}

	assert.Equal(t, "(1, 'O''Brien', NULL, true)", FormatValues(record, true))
	assert.Equal(t, "('1', 'O''Brien', '', 'true')", FormatValues(record, false))
	assert.Equal(t, "()", FormatValues(nil, true))
}

func TestFormatColumns(t *testing.T) {
	assert.Equal(t, "(id, name)", FormatColumns([]string{"id", "name"}))
	assert.Equal(t, "(a)", FormatColumns([]string{"a"}))
}

func TestGenInsertClause(t *testing.T) {
	assert.Equal(t, "insert into t (id, name) values", GenInsertClause("t", "(id, name)"))
}
