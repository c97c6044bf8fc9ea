// internal/common/tabular/encoding.go
package tabular

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Encoding names reported by Decode.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
	EncodingSJIS    = "shift_jis"
)

// Decode strips any byte order mark and converts data to UTF-8. Input that is
// neither marked nor valid UTF-8 is read as Shift_JIS, the default of Excel
// CSV exports on Japanese systems.
func Decode(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], EncodingUTF8BOM, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		out, err := transformAll(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
		return out, EncodingUTF16LE, err
	case bytes.HasPrefix(data, bomUTF16BE):
		out, err := transformAll(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
		return out, EncodingUTF16BE, err
	case utf8.Valid(data):
		return data, EncodingUTF8, nil
	default:
		out, err := transformAll(japanese.ShiftJIS, data)
		return out, EncodingSJIS, err
	}
}

func transformAll(enc encoding.Encoding, data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	return out, nil
}
