package fetch

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText returns b as UTF-8. The older bulletin servers serve Latin-1
// without declaring it, so anything that is not already valid UTF-8 is
// decoded as ISO 8859-1, which cannot fail.
func decodeText(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}
	return decoded
}
