package insert

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/darianmavgo/mkinsert/converters/common"
)

// TemplateContext is the data available to prefix and suffix templates.
type TemplateContext struct {
	Table string
}

// RenderFile renders the template file at path with ctx.
// Every line of the file, the last one included, is terminated by a single "\n";
// CRLF line endings become LF.
// It reports ok=false without error when path is empty or the file does not exist.
func RenderFile(path string, ctx TemplateContext) (rendered string, ok bool, err error) {
	if path == "" {
		return "", false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: failed to read %s: %w", common.ErrIO, path, err)
	}

	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=error").Parse(normalizeLines(string(content)))
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to parse %s: %w", common.ErrTemplate, path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", false, fmt.Errorf("%w: failed to render %s: %w", common.ErrTemplate, path, err)
	}
	return buf.String(), true, nil
}

// normalizeLines terminates each line of content with "\n", dropping a "\r" before it.
func normalizeLines(content string) string {
	if content == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(content) + 1)
	for _, line := range strings.Split(strings.TrimSuffix(content, "\n"), "\n") {
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteByte('\n')
	}
	return b.String()
}
