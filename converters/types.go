package converters

import (
	"fmt"
	"strings"

	"github.com/darianmavgo/mkinsert/converters/common"
)

// TargetType selects what a conversion writes.
type TargetType string

const (
	TargetSQL TargetType = "sql"
	TargetCSV TargetType = "csv"
)

// StdoutTarget as the output path writes the statements to standard output.
const StdoutTarget = "-"

// ParseTargetType maps a configured target type to a TargetType. Empty means sql.
func ParseTargetType(name string) (TargetType, error) {
	switch TargetType(strings.ToLower(strings.TrimSpace(name))) {
	case "", TargetSQL:
		return TargetSQL, nil
	case TargetCSV:
		return TargetCSV, nil
	}
	return "", fmt.Errorf("%w: invalid target type %q, use sql or csv", common.ErrInvalidConfig, name)
}

// Request represents one conversion of a CSV file.
type Request struct {
	Source     string                  // Path to the CSV source
	Target     string                  // Output path, StdoutTarget for stdout, empty for the default
	TargetType TargetType              // sql or csv
	Config     common.ConversionConfig // Transcoder settings
}
