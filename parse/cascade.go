package parse

// File-level access to cascade documents.
//
// Text documents use the .cascade extension and binary ones .cbin; a binary
// file is the raw encoding of the root key with no header. Trees can also be
// exported to and imported from YAML and JSON, with key order kept.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dzjyyds666/cascade/parse/cascade"
	"github.com/dzjyyds666/cascade/pkg"
	"github.com/goccy/go-yaml"
)

type Format string

const (
	FormatText   Format = "text"
	FormatBinary Format = "binary"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

const (
	TextExt   = ".cascade"
	BinaryExt = ".cbin"
)

var ErrUnknownFormat = errors.New("parse: unknown format")

// ParseFormat checks a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatBinary, FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf picks a format from the file extension. Anything unknown is text.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case BinaryExt:
		return FormatBinary
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatText
}

// DocName is the document name of a file: its base name without extension.
func DocName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadFile reads a file of any format into m under its document name.
func LoadFile(m *cascade.Manager, path string) (*cascade.Document, error) {
	name := DocName(path)
	f := FormatOf(path)
	if f == FormatText {
		text, err := pkg.ReadText(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return m.Parse(name, text), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	root, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m.Store(name, root), nil
}

// Decode reads a tree from binary, YAML or JSON data.
func Decode(data []byte, f Format) (*cascade.Key, error) {
	switch f {
	case FormatBinary:
		root := cascade.NewKey("")
		if err := root.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return root, nil
	case FormatYAML, FormatJSON:
		// JSON is a subset of YAML.
		var v any
		if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
			return nil, err
		}
		return FromUntyped(v), nil
	}
	return nil, fmt.Errorf("%w: cannot decode %q", ErrUnknownFormat, f)
}

// Encode writes a tree in the given format. Text is refused for trees that
// would read back different, see cascade.ErrNotRepresentable.
func Encode(root *cascade.Key, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		if err := root.CheckText(); err != nil {
			return nil, err
		}
		return []byte(root.SaveToString()), nil
	case FormatBinary:
		return root.MarshalBinary()
	case FormatYAML:
		return yaml.Marshal(ToUntyped(root))
	case FormatJSON:
		return yaml.MarshalWithOptions(ToUntyped(root), yaml.JSON())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// SaveFile writes root to path in the format its extension names.
func SaveFile(root *cascade.Key, path string) error {
	data, err := Encode(root, FormatOf(path))
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
