// Package encoding converts between UTF-8 and the single-byte text stored in
// DIF strings (material names, datablocks, dictionary entries).
package encoding

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeString converts Windows-1252 bytes to a UTF-8 string.
// Returns the input unchanged if conversion fails.
func DecodeString(data []byte) string {
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// EncodeString converts a UTF-8 string to Windows-1252 bytes.
// Runes with no Windows-1252 form are replaced with '?'.
func EncodeString(s string) []byte {
	enc := charmap.Windows1252.NewEncoder()
	result, _, err := transform.Bytes(enc, []byte(s))
	if err == nil {
		return result
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

// ToDIF converts a UTF-8 string to the byte string a DIF stores.
func ToDIF(s string) string {
	return string(EncodeString(s))
}

// FromDIF converts a DIF byte string for display.
func FromDIF(s string) string {
	return DecodeString([]byte(s))
}
