package lexer

import (
	"testing"

	"github.com/oarkflow/turtlescript/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	lx, err := New([]byte(src))
	if err != nil {
		t.Fatalf("New(%q): %v", src, err)
	}
	var out []token.Kind
	for {
		tok := lx.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func TestSkipsWhitespaceCommentsNewlines(t *testing.T) {
	got := kinds(t, "let x = 1; # a comment\nlet y = 2;")
	want := []token.Kind{
		token.Let, token.Identifier, token.Equals, token.IntLiteral, token.Semicolon,
		token.Let, token.Identifier, token.Equals, token.IntLiteral, token.Semicolon,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %s want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestKeywordsAndIdentifiersDistinguished(t *testing.T) {
	lx, err := New([]byte("if ifx true false"))
	if err != nil {
		t.Fatal(err)
	}
	if tok := lx.Next(); tok.Kind != token.If {
		t.Fatalf("expected If, got %s", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Identifier || tok.Text != "ifx" {
		t.Fatalf("expected Identifier(ifx), got %v", tok)
	}
	if tok := lx.Next(); tok.Kind != token.BoolLiteral || !tok.Bool {
		t.Fatalf("expected BoolLiteral(true), got %v", tok)
	}
	if tok := lx.Next(); tok.Kind != token.BoolLiteral || tok.Bool {
		t.Fatalf("expected BoolLiteral(false), got %v", tok)
	}
}

func TestNumberLiterals(t *testing.T) {
	lx, err := New([]byte("42 3.14 0 0.5"))
	if err != nil {
		t.Fatal(err)
	}
	if tok := lx.Next(); tok.Kind != token.IntLiteral || tok.Int != 42 {
		t.Fatalf("expected IntLiteral(42), got %v", tok)
	}
	if tok := lx.Next(); tok.Kind != token.FloatLiteral || tok.Float != 3.14 {
		t.Fatalf("expected FloatLiteral(3.14), got %v", tok)
	}
	if tok := lx.Next(); tok.Kind != token.IntLiteral || tok.Int != 0 {
		t.Fatalf("expected IntLiteral(0), got %v", tok)
	}
	if tok := lx.Next(); tok.Kind != token.FloatLiteral || tok.Float != 0.5 {
		t.Fatalf("expected FloatLiteral(0.5), got %v", tok)
	}
}

func TestStringEscapes(t *testing.T) {
	lx, err := New([]byte(`"a\nb\"c\\d"`))
	if err != nil {
		t.Fatal(err)
	}
	tok := lx.Next()
	if tok.Kind != token.StringLiteral {
		t.Fatalf("expected StringLiteral, got %s", tok.Kind)
	}
	want := "a\nb\"c\\d"
	if tok.Text != want {
		t.Fatalf("got %q want %q", tok.Text, want)
	}
}

func TestUnterminatedStringErrors(t *testing.T) {
	if _, err := New([]byte(`"unterminated`)); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestNewlineInStringErrors(t *testing.T) {
	if _, err := New([]byte("\"a\nb\"")); err == nil {
		t.Fatal("expected an error for a newline inside a string literal")
	}
}

func TestTwoCharOperatorsPreferredOverOneChar(t *testing.T) {
	got := kinds(t, "== != <= >= += -= *= /= %= ^= ->")
	want := []token.Kind{
		token.CompareEqual, token.CompareNotEqual, token.CompareLessEqual, token.CompareGreaterEqual,
		token.PlusEquals, token.MinusEquals, token.AsteriskEquals, token.SlashEquals,
		token.PercentEquals, token.CaretEquals, token.Arrow, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	lx, err := New([]byte("let zażółć = 1;"))
	if err != nil {
		t.Fatal(err)
	}
	lx.Discard() // 'let'
	tok := lx.Next()
	if tok.Kind != token.Identifier || tok.Text != "zażółć" {
		t.Fatalf("expected Identifier(zażółć), got %v", tok)
	}
}

func TestIllegalByteErrors(t *testing.T) {
	if _, err := New([]byte("let x = 1 @ 2;")); err == nil {
		t.Fatal("expected an error for an illegal character")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, err := New([]byte("a b c"))
	if err != nil {
		t.Fatal(err)
	}
	first := lx.Peek(1)
	second := lx.Peek(2)
	if first.Text != "a" || second.Text != "b" {
		t.Fatalf("unexpected peek results: %v %v", first, second)
	}
	if got := lx.Next(); got.Text != "a" {
		t.Fatalf("Next() after Peek() should still return 'a', got %v", got)
	}
}
