package common

import (
	"regexp"
	"strings"
)

// decimalFloat is the plain decimal float syntax plus the named special values.
// Go literal extensions such as digit separators and hex mantissas do not match.
var decimalFloat = regexp.MustCompile(`^[+-]?(?:(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?|(?i:inf|infinity|nan))$`)

// NullLiteral is emitted for empty fields in typed mode.
const NullLiteral = "NULL"

// QuoteLiteral renders value as a single-quoted SQL string literal.
// Embedded single quotes are doubled; nothing else is escaped.
func QuoteLiteral(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	writeQuoted(&b, value)
	return b.String()
}

func writeQuoted(b *strings.Builder, value string) {
	b.WriteByte('\'')
	last := 0
	for i := 0; i < len(value); i++ {
		if value[i] == '\'' {
			b.WriteString(value[last : i+1])
			b.WriteByte('\'')
			last = i + 1
		}
	}
	b.WriteString(value[last:])
	b.WriteByte('\'')
}

// TypedLiteral renders value with type inference:
// numbers and booleans verbatim, empty as NULL, anything else quoted.
func TypedLiteral(value string) string {
	switch {
	case IsNumber(value), IsBoolean(value):
		return value
	case value == "":
		return NullLiteral
	default:
		return QuoteLiteral(value)
	}
}

// IsNumber reports whether value is a decimal float literal.
// Values out of float64 range still count, they parse to an infinity.
func IsNumber(value string) bool {
	return value != "" && decimalFloat.MatchString(value)
}

// IsBoolean reports whether value is true or false, ignoring case.
func IsBoolean(value string) bool {
	lower := strings.ToLower(value)
	return lower == "true" || lower == "false"
}

// FormatColumns renders the column clause shared by every insert statement: (a, b, c).
func FormatColumns(names []string) string {
	return "(" + strings.Join(names, ", ") + ")"
}

// FormatValues renders one record as a parenthesised value tuple.
func FormatValues(record []string, typed bool) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, field := range record {
		if i > 0 {
			b.WriteString(", ")
		}
		if typed {
			b.WriteString(TypedLiteral(field))
		} else {
			writeQuoted(&b, field)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// GenInsertClause generates the head of an insert statement, without its value rows.
func GenInsertClause(table, columns string) string {
	return "insert into " + table + " " + columns + " values"
}
