// Package archive frames character sheets as files: JSON and YAML documents
// and XLSX workbooks, with legacy sheets normalized on import.
package archive

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/engine"
	"gopkg.in/yaml.v3"
)

// Format names a file framing.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// FilePrefix starts every exported file name.
const FilePrefix = "fichaOnePiece_"

// ParseFormat accepts a format name or file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeFormatUnsupported, "unsupported format "+name, map[string]string{"Format": name})
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the media type of the framing.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// FileName returns the export file name for a character name.
func FileName(name string, format Format) string {
	if strings.TrimSpace(name) == "" {
		name = "Personagem"
	}
	return FilePrefix + unsafeFileChars.ReplaceAllString(name, "_") + "." + format.Extension()
}

// Decode parses a document into a raw record without normalizing it.
func Decode(format Format, data []byte) (map[string]any, error) {
	var doc any
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, malformed(err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, malformed(err)
		}
	case FormatXLSX:
		return decodeWorkbook(data)
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeFormatUnsupported, "unsupported format "+string(format), map[string]string{"Format": string(format)})
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, apperrors.New(apperrors.CodeImportShapeMismatch, "document is not an object")
	}
	return raw, nil
}

// Import decodes, normalizes and settles one character document.
func Import(format Format, data []byte) (character.Character, error) {
	raw, err := Decode(format, data)
	if err != nil {
		return character.Character{}, err
	}
	return FromRaw(raw)
}

// FromRaw normalizes a decoded record and returns the settled character.
func FromRaw(raw map[string]any) (character.Character, error) {
	record, err := Normalize(raw)
	if err != nil {
		return character.Character{}, err
	}
	c, err := character.FromRecord(record)
	if err != nil {
		return character.Character{}, err
	}
	return engine.Settle(c), nil
}

// Export encodes a character in the requested framing.
func Export(format Format, c character.Character) ([]byte, error) {
	switch format {
	case FormatJSON:
		return encodeJSON(c.Record())
	case FormatYAML:
		return encodeYAML(c.Record())
	case FormatXLSX:
		return encodeWorkbook(c)
	}
	return nil, apperrors.WithMetadata(apperrors.CodeFormatUnsupported, "unsupported format "+string(format), map[string]string{"Format": string(format)})
}

func encodeJSON(record map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encodeYAML(record map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(record); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func malformed(err error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeImportMalformed, "malformed document", map[string]string{"Reason": err.Error()}, err)
}
