package matchfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Decode reads one document in the given format.
func Decode(r io.Reader, format Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var doc Document
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Document{}, fmt.Errorf("%w: unknown keys %v", ErrDecode, undecoded)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return doc, nil
}

// Load reads the document at path, choosing the format by extension.
func Load(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f, format)
}
