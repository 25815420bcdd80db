package source

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType identifies how a source file is compressed.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGZ
	CompressionBZ2
	CompressionXZ
	CompressionZSTD
)

var compressionExt = map[CompressionType]string{
	CompressionGZ:   ".gz",
	CompressionBZ2:  ".bz2",
	CompressionXZ:   ".xz",
	CompressionZSTD: ".zst",
}

// Extension returns the file extension for the compression type, empty for none.
func (c CompressionType) Extension() string {
	return compressionExt[c]
}

func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return "gzip"
	case CompressionBZ2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// DetectCompression detects the compression type from a file path.
func DetectCompression(path string) CompressionType {
	path = strings.ToLower(path)
	for c, ext := range compressionExt {
		if strings.HasSuffix(path, ext) {
			return c
		}
	}
	return CompressionNone
}

// decompress wraps r with a decompression reader. The returned func releases decoder resources.
func decompress(r io.Reader, c CompressionType) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	switch c {
	case CompressionNone:
		return r, noop, nil

	case CompressionGZ:
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case CompressionBZ2:
		return bzip2.NewReader(r), noop, nil

	case CompressionXZ:
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, noop, nil

	case CompressionZSTD:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type: %v", c)
	}
}
