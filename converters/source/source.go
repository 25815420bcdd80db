// Package source opens CSV sources for the transcoder: it classifies missing files,
// undoes compression and text encoding, strips a byte order mark and hands out records.
package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/darianmavgo/mkinsert/converters/common"
)

const sniffSize = 2048

// Options controls how a source is decoded.
type Options struct {
	Delimiter   rune   // common.AutoDelimiterRune sniffs the first line
	Encoding    string // IANA encoding name, empty for UTF-8
	Compression CompressionType
}

// Source reads CSV records strictly forward, once.
type Source struct {
	reader    *csv.Reader
	delimiter rune
	closers   []func() error
}

// Open opens the CSV file at path. Compression is detected from the file extension.
// A missing file is reported as common.ErrNotFound.
func Open(path string, opts Options) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open source: %w", common.ErrIO, err)
	}

	if opts.Compression == CompressionNone {
		opts.Compression = DetectCompression(path)
	}

	src, err := New(file, opts)
	if err != nil {
		file.Close()
		return nil, err
	}
	src.closers = append(src.closers, file.Close)
	return src, nil
}

// New builds a Source over an already opened reader.
func New(r io.Reader, opts Options) (*Source, error) {
	plain, release, err := decompress(r, opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrIO, err)
	}

	decoded, err := decode(plain, opts.Encoding)
	if err != nil {
		release()
		return nil, err
	}

	br := bufio.NewReaderSize(decoded, 65536)

	delimiter := opts.Delimiter
	if delimiter == common.AutoDelimiterRune {
		peekBytes, _ := br.Peek(sniffSize)
		sample := string(peekBytes)
		if idx := strings.IndexAny(sample, "\r\n"); idx != -1 {
			sample = sample[:idx]
		}
		delimiter = common.DetectDelimiter(sample)
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	// Stray quotes inside fields are kept as text. The field count stays fixed per file.
	reader.LazyQuotes = true

	return &Source{
		reader:    reader,
		delimiter: delimiter,
		closers:   []func() error{release},
	}, nil
}

// decode converts the source text to UTF-8 and drops a leading byte order mark.
func decode(r io.Reader, encoding string) (io.Reader, error) {
	var fallback transform.Transformer = transform.Nop
	if encoding != "" && !strings.EqualFold(encoding, "utf-8") && !strings.EqualFold(encoding, "utf8") {
		enc, err := ianaindex.IANA.Encoding(encoding)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("%w: unsupported encoding %q", common.ErrInvalidConfig, encoding)
		}
		fallback = enc.NewDecoder()
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback)), nil
}

// Delimiter returns the delimiter in effect, after detection.
func (s *Source) Delimiter() rune {
	return s.delimiter
}

// Read returns the next record, or io.EOF at the end of the source.
// Decoder rejections are reported as common.ErrMalformedInput, everything else as common.ErrIO.
func (s *Source) Read() ([]string, error) {
	record, err := s.reader.Read()
	if err == nil || err == io.EOF {
		return record, err
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedInput, parseErr)
	}
	return nil, fmt.Errorf("%w: failed to read source: %w", common.ErrIO, err)
}

// Close releases the decoders and the underlying file.
func (s *Source) Close() error {
	var firstErr error
	for _, closer := range s.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// Stem returns the file name without directory, compression suffix and extension.
// It is the default table name for a source.
func Stem(path string) string {
	base := filepath.Base(path)
	if ext := DetectCompression(base).Extension(); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DefaultTarget returns the output path used when none is configured:
// the source path with its extension replaced by .sql.
func DefaultTarget(path string) string {
	return filepath.Join(filepath.Dir(path), Stem(path)+".sql")
}
