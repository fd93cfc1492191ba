package multipart

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// SafeDecode decodes src using the named charset, falling back to latin-1
// when the charset is unknown or the bytes are not valid for it. Latin-1
// maps every byte to a code point, so SafeDecode never fails; structural
// multipart corruption is the only error condition this package reports.
func SafeDecode(src []byte, charset string) string {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return decodeLatin1(src)
	}
	if enc == unicode.UTF8 {
		if utf8.Valid(src) {
			return string(src)
		}
		return decodeLatin1(src)
	}
	decoded, err := enc.NewDecoder().Bytes(src)
	if err != nil {
		return decodeLatin1(src)
	}
	return string(decoded)
}

func decodeLatin1(src []byte) string {
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(src)
	return string(decoded)
}
