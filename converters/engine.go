package converters

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/darianmavgo/mkinsert/converters/insert"
	"github.com/darianmavgo/mkinsert/converters/source"
)

// ConvertOptions defines the surroundings of a conversion run.
type ConvertOptions struct {
	Stdout io.Writer    // Destination for StdoutTarget, os.Stdout when nil
	Logger *slog.Logger // Progress logger, discarded when nil
}

// Convert opens the CSV source of req and writes it to the requested target.
// An empty table name defaults to the source file stem and an empty target
// to the source path with a .sql extension.
//
// The source is opened before the target is consulted, so a missing source is
// reported as common.ErrNotFound for every target type.
func Convert(ctx context.Context, req Request, opts *ConvertOptions) (insert.Stats, error) {
	req = withDefaults(req)
	logger := opts.logger()

	target, err := NewTarget(req.TargetType)
	if err != nil {
		return insert.Stats{}, err
	}

	src, err := source.Open(req.Source, source.Options{
		Delimiter: req.Config.Delimiter,
		Encoding:  req.Config.Encoding,
	})
	if err != nil {
		return insert.Stats{}, err
	}
	defer src.Close()

	logger.Debug("source opened",
		"source", req.Source,
		"compression", source.DetectCompression(req.Source),
		"delimiter", string(src.Delimiter()),
		"target", req.Target,
		"target_type", target.Type())

	stats, err := target.write(ctx, src, req, opts)
	if err != nil {
		return stats, fmt.Errorf("failed to convert %s: %w", req.Source, err)
	}

	logger.Info("conversion finished",
		"table", req.Config.TableName,
		"rows", stats.Rows,
		"statements", stats.Statements,
		"transactions", stats.Transactions,
		"bytes", stats.Bytes,
		"checksum", fmt.Sprintf("%016x", stats.Checksum))
	return stats, nil
}

func withDefaults(req Request) Request {
	if req.TargetType == "" {
		req.TargetType = TargetSQL
	}
	if req.Target == "" {
		req.Target = source.DefaultTarget(req.Source)
	}
	if req.Config.TableName == "" {
		req.Config.TableName = source.Stem(req.Source)
	}
	return req
}
