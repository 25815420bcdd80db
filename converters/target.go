package converters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/darianmavgo/mkinsert/converters/common"
	"github.com/darianmavgo/mkinsert/converters/insert"
	"github.com/darianmavgo/mkinsert/converters/source"
)

// Target is the output side of a conversion. It has exactly two implementations,
// chosen once per run by NewTarget.
type Target interface {
	Type() TargetType
	write(ctx context.Context, src *source.Source, req Request, opts *ConvertOptions) (insert.Stats, error)
}

// NewTarget returns the target for t.
func NewTarget(t TargetType) (Target, error) {
	switch t {
	case TargetSQL, "":
		return sqlTarget{}, nil
	case TargetCSV:
		return csvTarget{}, nil
	}
	return nil, fmt.Errorf("%w: invalid target type %q", common.ErrInvalidConfig, t)
}

type sqlTarget struct{}

func (sqlTarget) Type() TargetType { return TargetSQL }

func (sqlTarget) write(ctx context.Context, src *source.Source, req Request, opts *ConvertOptions) (stats insert.Stats, err error) {
	out, closeOut, err := openOutput(req.Target, opts.stdout())
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close output: %w", common.ErrIO, cerr)
		}
	}()

	// The detected delimiter replaces "auto" so the logged config matches what was parsed.
	cfg := req.Config
	cfg.Delimiter = src.Delimiter()

	transcoder := insert.New(cfg, insert.WithLogger(opts.logger()))
	return transcoder.Convert(ctx, src, out)
}

// csvTarget writes nothing: the source is already CSV.
type csvTarget struct{}

func (csvTarget) Type() TargetType { return TargetCSV }

func (csvTarget) write(_ context.Context, _ *source.Source, req Request, opts *ConvertOptions) (insert.Stats, error) {
	opts.logger().Info("csv target selected, nothing to write", "source", req.Source)
	return insert.Stats{}, nil
}

// openOutput creates the output file, or returns stdout for StdoutTarget.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == StdoutTarget {
		return stdout, func() error { return nil }, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to create output directory: %w", common.ErrIO, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create output file: %w", common.ErrIO, err)
	}
	return f, f.Close, nil
}

func (o *ConvertOptions) stdout() io.Writer {
	if o == nil || o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o *ConvertOptions) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
