package reference

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Open opens a reference data file, transparently decompressing it when the
// name ends in .zst
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) != ".zst" {
		return f, nil
	}

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(0))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
	}
	return &zstdFile{ReadCloser: zr.IOReadCloser(), f: f}, nil
}

type zstdFile struct {
	io.ReadCloser
	f *os.File
}

func (z *zstdFile) Close() error {
	z.ReadCloser.Close()
	return z.f.Close()
}
