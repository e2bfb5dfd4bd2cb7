// Package encoding turns uploaded text of unknown charset into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

// Charset names reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// decoders for the charsets chardet may report that we know how to read.
var decoders = map[string]xenc.Encoding{
	UTF16LE:      unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:      unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"ISO-8859-1": charmap.Windows1252,
	Windows1252:  charmap.Windows1252,
	ISO88599:     charmap.ISO8859_9,
}

// Detect guesses the charset of the first bytes of a document.
// A byte order mark wins, then valid UTF-8, then chardet's best guess.
// Undecidable input is treated as Windows-1252.
func Detect(head []byte) string {
	for _, b := range boms {
		if bytes.HasPrefix(head, b.prefix) {
			return b.charset
		}
	}

	if validUTF8(head) {
		return UTF8
	}

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if res.Charset == UTF8 {
			return UTF8
		}

		if _, ok := decoders[res.Charset]; ok {
			return res.Charset
		}
	}

	return Windows1252
}

// NewUTF8Reader wraps r so that it yields UTF-8 without a byte order mark.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	charset := Detect(head)
	if charset == UTF8 {
		if bytes.HasPrefix(head, boms[0].prefix) {
			_, _ = br.Discard(len(boms[0].prefix))
		}

		return br, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), nil
}

// validUTF8 tolerates a rune cut in half at the end of the sniffed window.
func validUTF8(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}

	for k := 1; k < utf8.UTFMax && k < len(b); k++ {
		tail := b[len(b)-k:]
		if !utf8.FullRune(tail) && utf8.Valid(b[:len(b)-k]) {
			return true
		}
	}

	return false
}
