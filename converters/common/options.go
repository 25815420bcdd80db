package common

import (
	"fmt"
	"sort"
	"strings"
)

// AutoDelimiter is the delimiter name that asks the source to sniff the first line.
const AutoDelimiter = "auto"

// AutoDelimiterRune is stored in ConversionConfig.Delimiter when the delimiter must be detected.
const AutoDelimiterRune rune = 0

var delimiters = map[string]rune{
	"comma":     ',',
	"semicolon": ';',
	"tab":       '\t',
	"pipe":      '|',
}

// ParseDelimiter maps a delimiter name (comma, semicolon, tab, pipe, auto) to its rune.
// "auto" maps to AutoDelimiterRune.
func ParseDelimiter(name string) (rune, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == AutoDelimiter {
		return AutoDelimiterRune, nil
	}
	if r, ok := delimiters[name]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("%w: invalid delimiter %q, use one of %s", ErrInvalidConfig, name, strings.Join(DelimiterNames(), ", "))
}

// DelimiterNames returns the accepted delimiter names, sorted.
func DelimiterNames() []string {
	names := make([]string, 0, len(delimiters)+1)
	for name := range delimiters {
		names = append(names, name)
	}
	names = append(names, AutoDelimiter)
	sort.Strings(names)
	return names
}

// DetectDelimiter attempts to detect the delimiter from a raw line of text.
// It checks common delimiters and returns the one that produces the most fields.
// Defaults to comma if line is empty or no clear winner.
func DetectDelimiter(line string) rune {
	if line == "" {
		return ','
	}

	candidates := []rune{',', '\t', ';', '|'}
	maxCount := -1
	winner := ','

	for _, delim := range candidates {
		count := strings.Count(line, string(delim))
		if count > maxCount {
			maxCount = count
			winner = delim
		}
	}

	return winner
}
