package render

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	CharsetISO88591 = "ISO-8859-1"
	CharsetUTF8     = "UTF-8"
)

var ErrUnknownCharset = errors.New("unknown charset")

// Encoder converts the rendered page into the charset the bank page expects.
type Encoder interface {
	Name() string
	Encode(value string) (string, error)
}

type latin1Encoder struct{}

// ISO88591 encodes like the bank's legacy integration: characters outside
// Latin-1 become "?". Bytes that are not valid UTF-8 are taken as Latin-1
// already, which is what a Latin-1 merchant page posts.
func ISO88591() Encoder {
	return latin1Encoder{}
}

func (latin1Encoder) Name() string {
	return CharsetISO88591
}

func (latin1Encoder) Encode(value string) (string, error) {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); {
		r, size := utf8.DecodeRuneInString(value[i:])
		if r == utf8.RuneError && size <= 1 {
			out = append(out, value[i])
			i++
			continue
		}
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
		i += size
	}
	return string(out), nil
}

type utf8Encoder struct{}

func UTF8() Encoder {
	return utf8Encoder{}
}

func (utf8Encoder) Name() string {
	return CharsetUTF8
}

// Encode replaces invalid UTF-8 so the page matches its declared charset.
func (utf8Encoder) Encode(value string) (string, error) {
	return strings.ToValidUTF8(value, "?"), nil
}

// EncoderFor resolves a charset name as found in configuration.
func EncoderFor(charset string) (Encoder, error) {
	switch strings.ToUpper(strings.TrimSpace(charset)) {
	case "", CharsetISO88591, "LATIN1", "ISO8859-1":
		return ISO88591(), nil
	case CharsetUTF8, "UTF8":
		return UTF8(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, charset)
	}
}
