// Package insert turns CSV records into batched SQL insert statements.
//
// Rows are grouped into multi-row inserts (ChunkInsert) and statements into
// transaction blocks (Chunk). Output is written strictly sequentially, so a failed
// run leaves whatever was produced up to the failing record.
package insert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/zeebo/xxh3"

	"github.com/darianmavgo/mkinsert/converters/common"
)

const (
	beginTransaction = "begin transaction"
	statementEnd     = ";\n\n"
	reopenChunk      = ";\n\ncommit;\n\nbegin transaction"
	commitEnd        = ";\n\ncommit;"
)

// RecordReader yields CSV records until io.EOF.
type RecordReader interface {
	Read() ([]string, error)
}

// Stats summarises one run.
type Stats struct {
	Rows         int    // data records converted
	Statements   int    // insert statements emitted
	Transactions int    // begin transaction blocks emitted
	Bytes        int64  // bytes written to the output
	Checksum     uint64 // xxh3 of the emitted bytes
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transcoder converts CSV records to SQL insert statements.
type Transcoder struct {
	config common.ConversionConfig
	logger *slog.Logger
}

// New creates a Transcoder for config. The config is copied.
func New(config common.ConversionConfig, opts ...Option) *Transcoder {
	config.Columns = append([]string(nil), config.Columns...)
	t := &Transcoder{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Convert reads every record from records and writes the prefix, the statements and the suffix to w.
func (t *Transcoder) Convert(ctx context.Context, records RecordReader, w io.Writer) (Stats, error) {
	var stats Stats

	fields, err := t.resolveFields(records)
	if err != nil {
		return stats, err
	}
	columns := common.FormatColumns(fields)
	t.logger.Debug("resolved columns", "table", t.config.TableName, "columns", columns)

	hasher := xxh3.New()
	out := &sqlWriter{w: bufio.NewWriter(io.MultiWriter(w, hasher))}
	tmplCtx := TemplateContext{Table: t.config.TableName}

	prefix, ok, err := RenderFile(t.config.Prefix, tmplCtx)
	if err != nil {
		return stats, err
	}
	if ok {
		out.write(prefix)
		out.write("\n")
	}

	if err := t.writeStatements(ctx, records, columns, out, &stats); err != nil {
		out.flush()
		return stats, err
	}

	suffix, ok, err := RenderFile(t.config.Suffix, tmplCtx)
	if err != nil {
		out.flush()
		return stats, err
	}
	if ok {
		out.write(suffix)
		out.write("\n")
	}

	if err := out.flush(); err != nil {
		return stats, err
	}
	stats.Bytes = out.n
	stats.Checksum = hasher.Sum64()
	return stats, nil
}

// resolveFields returns the column names: explicit columns win over the header row.
// The header row is consumed whenever headers are enabled.
func (t *Transcoder) resolveFields(records RecordReader) ([]string, error) {
	var header []string
	if t.config.Headers {
		row, err := records.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		header = append(header, row...)
	}

	if len(t.config.Columns) > 0 {
		return t.config.Columns, nil
	}
	if len(header) == 0 {
		if t.config.Headers {
			return nil, fmt.Errorf("%w: source has no header row", common.ErrNoFieldNames)
		}
		return nil, fmt.Errorf("%w: columns are required when headers are disabled", common.ErrNoFieldNames)
	}
	return header, nil
}

func (t *Transcoder) writeStatements(ctx context.Context, records RecordReader, columns string, out *sqlWriter, stats *Stats) error {
	withTx := t.config.UseTransaction()
	chunk := int(t.config.Chunk)
	chunkInsert := int(t.config.ChunkInsert)
	insertClause := common.GenInsertClause(t.config.TableName, columns)

	separator := ""
	if withTx {
		out.write(beginTransaction)
		stats.Transactions++
		separator = statementEnd
	}

	statementsInChunk := 0
	rowsInStatement := 0

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("conversion interrupted after %d rows: %w", stats.Rows, err)
		}

		record, err := records.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed at row %d: %w", stats.Rows+1, err)
		}

		if rowsInStatement == 0 {
			if chunk > 0 && statementsInChunk == chunk {
				out.write(reopenChunk)
				stats.Transactions++
				statementsInChunk = 0
				t.logger.Debug("transaction chunk closed", "statements", chunk, "rows", stats.Rows)
			}
			out.write(separator)
			out.write(insertClause)
			separator = ""
			statementsInChunk++
			stats.Statements++
		}

		out.write(separator)
		out.write("\n")
		out.write(common.FormatValues(record, t.config.Typed))
		stats.Rows++

		if chunkInsert > 0 {
			rowsInStatement++
			separator = ","
			if rowsInStatement == chunkInsert {
				rowsInStatement = 0
				separator = statementEnd
			}
		} else {
			separator = statementEnd
		}

		if out.err != nil {
			return out.err
		}
	}

	switch {
	case withTx:
		out.write(commitEnd)
	case stats.Statements > 0:
		out.write(";")
	}
	return out.err
}

// sqlWriter keeps the first write error so the statement loop can check once per record.
type sqlWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (s *sqlWriter) write(str string) {
	if s.err != nil || str == "" {
		return
	}
	n, err := s.w.WriteString(str)
	s.n += int64(n)
	if err != nil {
		s.err = fmt.Errorf("%w: failed to write output: %w", common.ErrIO, err)
	}
}

func (s *sqlWriter) flush() error {
	if s.err != nil {
		return s.err
	}
	if err := s.w.Flush(); err != nil {
		s.err = fmt.Errorf("%w: failed to flush output: %w", common.ErrIO, err)
	}
	return s.err
}
