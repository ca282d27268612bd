package token

import "testing"

func TestIsAssignOp(t *testing.T) {
	assignKinds := []Kind{Equals, PlusEquals, MinusEquals, AsteriskEquals, SlashEquals, PercentEquals, CaretEquals}
	for _, k := range assignKinds {
		tok := Token{Kind: k}
		if !tok.IsAssignOp() {
			t.Errorf("%s: expected IsAssignOp() true", k)
		}
	}
	nonAssign := []Kind{CompareEqual, Plus, Identifier, EOF}
	for _, k := range nonAssign {
		tok := Token{Kind: k}
		if tok.IsAssignOp() {
			t.Errorf("%s: expected IsAssignOp() false", k)
		}
	}
}

func TestKeywordsMapsReservedWords(t *testing.T) {
	cases := map[string]Kind{
		"if": If, "else": Else, "while": While, "for": For, "let": Let,
		"break": Break, "continue": Continue, "return": Return, "func": Func,
		"and": And, "or": Or, "not": Not, "true": BoolLiteral, "false": BoolLiteral,
	}
	for word, want := range cases {
		if got := Keywords[word]; got != want {
			t.Errorf("Keywords[%q] = %s, want %s", word, got, want)
		}
	}
	if _, ok := Keywords["notakeyword"]; ok {
		t.Error("expected 'notakeyword' to not be a reserved word")
	}
}

func TestTokenStringFormatsLiterals(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: IntLiteral, Int: 42}, "IntLiteral(42)"},
		{Token{Kind: FloatLiteral, Float: 3.5}, "FloatLiteral(3.5)"},
		{Token{Kind: BoolLiteral, Bool: true}, "BoolLiteral(true)"},
		{Token{Kind: Identifier, Text: "x"}, `Identifier("x")`},
		{Token{Kind: Plus}, "+"},
	}
	for _, c := range cases {
		if got := c.tok.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}
