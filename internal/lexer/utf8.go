package lexer

import "github.com/oarkflow/errors"

// decodeRune reads one code point from src starting at i, returning the rune
// and the number of bytes it occupied. It rejects malformed leading bytes,
// malformed continuation bytes, and NUL bytes, mirroring the reference
// decoder's refusal to treat embedded nulls as valid source text.
func decodeRune(src []byte, i int) (rune, int, error) {
	b0 := src[i]
	if b0 == 0 {
		return 0, 0, errors.New("null byte in source")
	}
	switch {
	case b0 < 0x80:
		return rune(b0), 1, nil
	case b0&0xE0 == 0xC0:
		return decodeMulti(src, i, 2, rune(b0&0x1F))
	case b0&0xF0 == 0xE0:
		return decodeMulti(src, i, 3, rune(b0&0x0F))
	case b0&0xF8 == 0xF0:
		return decodeMulti(src, i, 4, rune(b0&0x07))
	default:
		return 0, 0, errors.New("invalid UTF-8 leading byte")
	}
}

func decodeMulti(src []byte, i, width int, lead rune) (rune, int, error) {
	if i+width > len(src) {
		return 0, 0, errors.New("truncated UTF-8 sequence")
	}
	r := lead
	for k := 1; k < width; k++ {
		b := src[i+k]
		if b == 0 {
			return 0, 0, errors.New("null byte in source")
		}
		if b&0xC0 != 0x80 {
			return 0, 0, errors.New("invalid UTF-8 continuation byte")
		}
		r = (r << 6) | rune(b&0x3F)
	}
	return r, width, nil
}

// encodeRune appends r's UTF-8 encoding to dst, using the standard 1-4 byte
// forms. It is the inverse of decodeRune and is used only by tests asserting
// the round-trip property.
func encodeRune(dst []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(dst, byte(r))
	case r < 0x800:
		return append(dst, byte(0xC0|(r>>6)), byte(0x80|(r&0x3F)))
	case r < 0x10000:
		return append(dst, byte(0xE0|(r>>12)), byte(0x80|((r>>6)&0x3F)), byte(0x80|(r&0x3F)))
	default:
		return append(dst, byte(0xF0|(r>>18)), byte(0x80|((r>>12)&0x3F)), byte(0x80|((r>>6)&0x3F)), byte(0x80|(r&0x3F)))
	}
}
