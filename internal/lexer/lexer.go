// Package lexer turns UTF-8 source bytes into a fully materialized token
// vector, eagerly, the way the reference tokenizer front-loads all lexing
// before the parser ever runs.
package lexer

import (
	"strconv"
	"strings"

	"github.com/oarkflow/errors"

	"github.com/oarkflow/turtlescript/internal/token"
)

// Lexer hands out tokens from a token vector built once at New. next/peek
// silently skip Whitespace/Newline/Comment tokens; discard is next without
// the return value.
type Lexer struct {
	tokens []token.Token
	pos    int // index into tokens of the next token Next() will consider
	line   int // line of the most recently returned (non-skipped) token
}

// New eagerly tokenizes src, returning a lexer errors describe as
// "[Lexer error] Line N: ..." when reported by a caller.
func New(src []byte) (*Lexer, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	return &Lexer{tokens: toks, line: 1}, nil
}

func isSkipped(k token.Kind) bool {
	return k == token.Whitespace || k == token.Newline || k == token.Comment
}

// Next advances past and returns the next non-skipped token, or an EOF token
// once the vector is exhausted.
func (l *Lexer) Next() token.Token {
	for l.pos < len(l.tokens) {
		t := l.tokens[l.pos]
		l.pos++
		if isSkipped(t.Kind) {
			continue
		}
		l.line = t.Line
		return t
	}
	return token.Token{Kind: token.EOF, Line: l.line}
}

// Peek returns the n-th forthcoming non-skipped token (n=1 is the token
// Next() would return) without consuming anything.
func (l *Lexer) Peek(n int) token.Token {
	seen := 0
	for i := l.pos; i < len(l.tokens); i++ {
		t := l.tokens[i]
		if isSkipped(t.Kind) {
			continue
		}
		seen++
		if seen == n {
			return t
		}
	}
	return token.Token{Kind: token.EOF, Line: l.line}
}

// Discard is Next() without returning the token.
func (l *Lexer) Discard() { l.Next() }

// CurrentLine is the line of the most recently returned token.
func (l *Lexer) CurrentLine() int { return l.line }

func isIdentStart(r rune) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	if strings.ContainsRune("ąćęłńóśźżĄĆĘŁŃÓŚŹŻ", r) {
		return true
	}
	if r >= 0x0391 && r <= 0x03C9 {
		return true
	}
	return false
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func tokenize(src []byte) ([]token.Token, error) {
	var toks []token.Token
	line := 1
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			j := i
			for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\r') {
				j++
			}
			toks = append(toks, token.Token{Kind: token.Whitespace, Line: line})
			i = j

		case c == '\n':
			toks = append(toks, token.Token{Kind: token.Newline, Line: line})
			line++
			i++

		case c == '#':
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			toks = append(toks, token.Token{Kind: token.Comment, Line: line})
			i = j

		case c == '"':
			tok, next, err := lexString(src, i, line)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next

		case isDigit(c):
			tok, next := lexNumber(src, i, line)
			toks = append(toks, tok)
			i = next

		default:
			r, _, err := decodeRune(src, i)
			if err != nil {
				return nil, errors.New(errAt(line, err.Error()))
			}
			if isIdentStart(r) {
				tok, next := lexIdentifier(src, i, line)
				toks = append(toks, tok)
				i = next
				continue
			}
			tok, next, err := lexOperator(src, i, line)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		}
	}
	toks = append(toks, token.Token{Kind: token.EOF, Line: line})
	return toks, nil
}

func errAt(line int, msg string) string {
	return "Line " + strconv.Itoa(line) + ": " + msg
}

func lexIdentifier(src []byte, i, line int) (token.Token, int) {
	start := i
	for i < len(src) {
		r, width, err := decodeRune(src, i)
		if err != nil || !isIdentCont(r) {
			break
		}
		i += width
	}
	text := string(src[start:i])
	if kind, ok := token.Keywords[text]; ok {
		if kind == token.BoolLiteral {
			return token.Token{Kind: token.BoolLiteral, Line: line, Bool: text == "true"}, i
		}
		return token.Token{Kind: kind, Line: line, Text: text}, i
	}
	return token.Token{Kind: token.Identifier, Line: line, Text: text}, i
}

func lexNumber(src []byte, i, line int) (token.Token, int) {
	start := i
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	isFloat := false
	if i < len(src) && src[i] == '.' && i+1 < len(src) && isDigit(src[i+1]) {
		isFloat = true
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	text := string(src[start:i])
	if isFloat {
		return token.Token{Kind: token.FloatLiteral, Line: line, Float: parseFloat(text)}, i
	}
	return token.Token{Kind: token.IntLiteral, Line: line, Int: parseInt(text)}, i
}

func parseInt(s string) int64 {
	var v int64
	for _, c := range s {
		v = v*10 + int64(c-'0')
	}
	return v
}

func parseFloat(s string) float64 {
	dot := strings.IndexByte(s, '.')
	intPart := s[:dot]
	fracPart := s[dot+1:]
	v := float64(parseInt(intPart))
	frac := float64(parseInt(fracPart))
	for range fracPart {
		frac /= 10
	}
	return v + frac
}

func lexString(src []byte, i, line int) (token.Token, int, error) {
	startLine := line
	i++ // past opening quote
	var sb strings.Builder
	for {
		if i >= len(src) {
			return token.Token{}, 0, errors.New(errAt(startLine, "unterminated string literal"))
		}
		c := src[i]
		if c == '"' {
			i++
			return token.Token{Kind: token.StringLiteral, Line: startLine, Text: sb.String()}, i, nil
		}
		if c == '\n' {
			return token.Token{}, 0, errors.New(errAt(line, "newline in string literal"))
		}
		if c == '\\' {
			if i+1 >= len(src) {
				return token.Token{}, 0, errors.New(errAt(startLine, "unterminated string literal"))
			}
			switch src[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return token.Token{}, 0, errors.New(errAt(line, "invalid escape sequence in string literal"))
			}
			i += 2
			continue
		}
		r, width, err := decodeRune(src, i)
		if err != nil {
			return token.Token{}, 0, errors.New(errAt(line, err.Error()))
		}
		sb.WriteString(string(r))
		i += width
	}
}

func lexOperator(src []byte, i, line int) (token.Token, int, error) {
	two := ""
	if i+1 < len(src) {
		two = string(src[i : i+2])
	}
	if kind, ok := twoCharOps[two]; ok {
		return token.Token{Kind: kind, Line: line}, i + 2, nil
	}
	one := src[i]
	if kind, ok := oneCharOps[one]; ok {
		return token.Token{Kind: kind, Line: line}, i + 1, nil
	}
	return token.Token{}, 0, errors.New(errAt(line, "unexpected character '"+string(rune(one))+"'"))
}

var twoCharOps = map[string]token.Kind{
	"==": token.CompareEqual,
	"!=": token.CompareNotEqual,
	"<=": token.CompareLessEqual,
	">=": token.CompareGreaterEqual,
	"+=": token.PlusEquals,
	"-=": token.MinusEquals,
	"*=": token.AsteriskEquals,
	"/=": token.SlashEquals,
	"%=": token.PercentEquals,
	"^=": token.CaretEquals,
	"->": token.Arrow,
}

var oneCharOps = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
	';': token.Semicolon,
	':': token.Colon,
	'=': token.Equals,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Asterisk,
	'/': token.Slash,
	'%': token.Percent,
	'^': token.Caret,
	'&': token.Ampersand,
	'\'': token.Apostrophe,
	'<': token.CompareLess,
	'>': token.CompareGreater,
}
