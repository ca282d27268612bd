package lexer

import "testing"

func TestDecodeRuneRoundTrip(t *testing.T) {
	cases := []rune{'a', 'ż', 'λ', '€', '𝔘'}
	for _, r := range cases {
		buf := encodeRune(nil, r)
		got, width, err := decodeRune(buf, 0)
		if err != nil {
			t.Fatalf("decodeRune(%q): %v", r, err)
		}
		if got != r {
			t.Fatalf("round trip mismatch: got %q want %q", got, r)
		}
		if width != len(buf) {
			t.Fatalf("width mismatch: got %d want %d", width, len(buf))
		}
	}
}

func TestDecodeRuneRejectsNUL(t *testing.T) {
	if _, _, err := decodeRune([]byte{0}, 0); err == nil {
		t.Fatal("expected an error decoding a NUL byte")
	}
}

func TestDecodeRuneRejectsMalformedContinuation(t *testing.T) {
	// A two-byte lead followed by a non-continuation byte.
	if _, _, err := decodeRune([]byte{0xC2, 0x20}, 0); err == nil {
		t.Fatal("expected an error for a malformed continuation byte")
	}
}

func TestDecodeRuneRejectsBadLeadByte(t *testing.T) {
	if _, _, err := decodeRune([]byte{0xFF}, 0); err == nil {
		t.Fatal("expected an error for an invalid leading byte")
	}
}
