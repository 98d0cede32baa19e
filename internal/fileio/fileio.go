// Package fileio opens metadata input files, transparently unwrapping
// gzip and zstd compressed streams detected by magic bytes.
package fileio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

type reader struct {
	io.Reader
	close func() error
}

func (r *reader) Close() error { return r.close() }

// Open opens path for reading. Build systems commonly ship SBOMs and
// kernel configs compressed; gzip and zstd inputs are decompressed on
// the fly, anything else is passed through untouched.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		return &reader{Reader: gz, close: func() error {
			gz.Close()
			return f.Close()
		}}, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		return &reader{Reader: zr, close: func() error {
			zr.Close()
			return f.Close()
		}}, nil
	default:
		return &reader{Reader: br, close: f.Close}, nil
	}
}
