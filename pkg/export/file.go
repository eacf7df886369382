// Package export serializes assembled models to OBJ and DXF.
//
// Every exporter renders the complete document in memory before it touches
// the destination, so a failing primitive never leaves a partial file behind.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/primforge/pkg/model"
)

// ErrSerializationIO reports a failure to write an export to its destination
var ErrSerializationIO = errors.New("serialization I/O error")

// Format is an export file format
type Format string

const (
	FormatOBJ Format = "obj"
	FormatDXF Format = "dxf"
)

// ParseFormat accepts a format name or a file extension such as ".dxf"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatOBJ:
		return FormatOBJ, nil
	case FormatDXF:
		return FormatDXF, nil
	}
	return "", fmt.Errorf("unsupported export format %q (use obj or dxf)", s)
}

// Extension returns the file extension including the leading dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Options controls a file export
type Options struct {
	Format      Format
	Scale       float64
	ColorPolicy ColorPolicy
	// Materials writes a companion .mtl file next to an OBJ export
	Materials bool
}

// Render produces the document for m without writing it anywhere
func Render(m *model.Model, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatOBJ:
		return RenderOBJ(m, opts.Scale, OBJOptions{})
	case FormatDXF:
		return RenderDXF(m, opts.Scale, opts.ColorPolicy)
	}
	return nil, fmt.Errorf("unsupported export format %q", opts.Format)
}

// Export renders m and writes it to path. OBJ exports with Materials set also
// write <path without extension>.mtl and reference it from the OBJ file.
func Export(path string, m *model.Model, opts Options) error {
	if opts.Format == FormatOBJ && opts.Materials {
		mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
		data, err := RenderOBJ(m, opts.Scale, OBJOptions{MaterialLib: filepath.Base(mtlPath)})
		if err != nil {
			return err
		}
		if err := WriteFile(mtlPath, []byte(ToMTL(m))); err != nil {
			return err
		}
		return WriteFile(path, data)
	}

	data, err := Render(m, opts)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile replaces path with data. The bytes go to a temporary file in the
// same directory first, which is renamed over path once fully written.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file for %s: %w", ErrSerializationIO, path, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %w", ErrSerializationIO, path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %w", ErrSerializationIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %w", ErrSerializationIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename to %s: %w", ErrSerializationIO, path, err)
	}
	return nil
}

// writeAll sends a fully rendered document to w
func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationIO, err)
	}
	return nil
}
