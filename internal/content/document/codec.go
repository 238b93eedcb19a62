package document

import (
	"fmt"
	"strings"

	"github.com/yungbote/minicms-backend/internal/content"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FormatForPath picks the format from a file extension, defaulting to text.
func FormatForPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yml"), strings.HasSuffix(lower, ".yaml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	default:
		return FormatText
	}
}

// Decode parses raw under format. Parse failures wrap content.ErrMalformedDocument.
func Decode(raw []byte, format Format) (Value, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(raw)
	case FormatJSON:
		return decodeJSON(raw)
	case FormatText:
		return String(string(raw)), nil
	default:
		return Value{}, fmt.Errorf("decode: unknown format %q", format)
	}
}

// Encode renders v under format. For any v returned by Decode,
// Decode(Encode(v)) is Equal to v.
func Encode(v Value, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return encodeYAML(v)
	case FormatJSON:
		return encodeJSON(v)
	case FormatText:
		if !v.IsScalar() {
			return nil, fmt.Errorf("encode text: %s is not a scalar", v.kind)
		}
		return []byte(v.Text()), nil
	default:
		return nil, fmt.Errorf("encode: unknown format %q", format)
	}
}

func malformed(format Format, err error) error {
	return fmt.Errorf("%w: %s: %v", content.ErrMalformedDocument, format, err)
}
