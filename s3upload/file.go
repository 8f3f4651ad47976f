package s3upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// File is a sized, randomly readable upload source
type File struct {
	Name        string
	Size        int64
	ContentType string

	r      io.ReaderAt
	closer io.Closer
}

// NewFile wraps any io.ReaderAt of known size
func NewFile(name string, r io.ReaderAt, size int64, contentType string) *File {
	if contentType == "" {
		contentType = detectContentType(name)
	}
	return &File{
		Name:        name,
		Size:        size,
		ContentType: contentType,
		r:           r,
	}
}

// NewBytesFile wraps in-memory data
func NewBytesFile(name string, data []byte) *File {
	return NewFile(name, bytes.NewReader(data), int64(len(data)), "")
}

// OpenFile opens a file on disk. The caller must Close it.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	file := NewFile(filepath.Base(path), f, info.Size(), "")
	file.closer = f
	return file, nil
}

// Close releases the underlying file, if any
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// readPart reads size bytes starting at offset
func (f *File) readPart(offset, size int64) ([]byte, error) {
	if offset < 0 || size < 0 || offset+size > f.Size {
		return nil, fmt.Errorf("part [%d, %d) is outside file of %d bytes", offset, offset+size, f.Size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f.r, offset, size), buf); err != nil {
		return nil, fmt.Errorf("failed to read part at offset %d: %w", offset, err)
	}
	return buf, nil
}

func detectContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
