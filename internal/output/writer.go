package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Modes for created output directories and files.
const (
	outputDirPerm  = 0o750
	outputFilePerm = 0o644
)

// Writer persists one rendered CSV document.
type Writer interface {
	// Write persists the rendered bytes.
	Write(data []byte) error
}

// StdoutWriter streams CSV documents to a writer, os.Stdout by default.
type StdoutWriter struct {
	dst io.Writer
}

// NewStdoutWriter returns a writer backed by w, or os.Stdout when w is nil.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	sw := &StdoutWriter{dst: w}
	if sw.dst == nil {
		sw.dst = os.Stdout
	}

	return sw
}

// Write copies data to the stream.
func (sw *StdoutWriter) Write(data []byte) error {
	if _, err := sw.dst.Write(data); err != nil {
		return fmt.Errorf("writing to stream: %w", err)
	}

	return nil
}

// FileWriter persists one CSV document to a path, creating the parent
// directory when missing. An existing file is replaced, with a warning.
type FileWriter struct {
	path   string
	mode   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file mode (0644).
func WithPermissions(mode os.FileMode) FileWriterOption {
	return func(fw *FileWriter) { fw.mode = mode }
}

// WithLogger sets the logger used for overwrite warnings.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) { fw.logger = logger }
}

// NewFileWriter returns a writer for the given file path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{path: path, mode: outputFilePerm, logger: slog.Default()}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write persists data, creating the parent directory on demand.
func (fw *FileWriter) Write(data []byte) error {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, outputDirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if _, err := os.Stat(fw.path); err == nil {
		fw.logger.Warn("replacing existing file", slog.String("path", fw.path))
	}

	if err := os.WriteFile(fw.path, data, fw.mode); err != nil {
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	return nil
}

// Path reports the destination file path.
func (fw *FileWriter) Path() string {
	return fw.path
}
