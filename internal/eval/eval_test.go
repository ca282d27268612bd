package eval

import (
	"strings"
	"testing"

	"github.com/oarkflow/turtlescript/internal/parser"
)

func runSource(t *testing.T, src string) (string, error) {
	t.Helper()
	arena, stmts, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	var out strings.Builder
	ev := New(WithStdout(func(s string) { out.WriteString(s) }), WithRandomSeed(1))
	err = ev.Run(arena, stmts)
	return out.String(), err
}

func TestHelloTypeSmoke(t *testing.T) {
	out, err := runSource(t, `
let x = 1;
print("%", typename(x));
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Int" {
		t.Fatalf("got %q, want %q", out, "Int")
	}
}

func TestArithmeticPrecedenceResult(t *testing.T) {
	out, err := runSource(t, `print("%", 1 + 2 * 3 ^ 2);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "19" {
		t.Fatalf("got %q, want %q", out, "19")
	}
}

func TestForLoopSum(t *testing.T) {
	out, err := runSource(t, `
let sum = 0;
for i : 0 -> 5 {
	sum += i;
}
print("%", sum);
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "10" {
		t.Fatalf("got %q, want %q", out, "10")
	}
}

func TestReferenceAndDereference(t *testing.T) {
	out, err := runSource(t, `
let x = 1;
let r = &x;
x = 2;
print("%", ^r);
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "2" {
		t.Fatalf("got %q, want %q", out, "2")
	}
}

func TestDanglingReferenceErrors(t *testing.T) {
	_, err := runSource(t, `
func makeRef() {
	let x = 1;
	return &x;
}
let r = makeRef();
print("%", ^r);
`)
	if err == nil {
		t.Fatal("expected a dangling-reference error once x's scope has been torn down")
	}
}

func TestBreakExitsLoop(t *testing.T) {
	out, err := runSource(t, `
let i = 0;
while true {
	if i == 3 {
		break;
	}
	print("%", i);
	i += 1;
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "012" {
		t.Fatalf("got %q, want %q", out, "012")
	}
}

func TestContinueSkipsRestOfBody(t *testing.T) {
	out, err := runSource(t, `
for i : 0 -> 4 {
	if i == 1 {
		continue;
	}
	print("%", i);
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "023" {
		t.Fatalf("got %q, want %q", out, "023")
	}
}

func TestUserFunctionReturn(t *testing.T) {
	out, err := runSource(t, `
func square(x) {
	return x * x;
}
print("%", square(5));
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "25" {
		t.Fatalf("got %q, want %q", out, "25")
	}
}

func TestFunctionOverloadByArity(t *testing.T) {
	out, err := runSource(t, `
func greet() {
	return "hi";
}
func greet(name) {
	return name;
}
print("%", greet());
print("%", greet("bob"));
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hibob" {
		t.Fatalf("got %q, want %q", out, "hibob")
	}
}

func TestDivisionByZeroErrors(t *testing.T) {
	if _, err := runSource(t, `let x = 1 / 0;`); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestRedeclarationInSameScopeErrors(t *testing.T) {
	if _, err := runSource(t, `
let x = 1;
let x = 2;
`); err == nil {
		t.Fatal("expected a redeclaration error")
	}
}

func TestParentScopeAccessBypassesFunctionBoundary(t *testing.T) {
	out, err := runSource(t, `
let x = 1;
func readX() {
	return 'x;
}
print("%", readX());
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1" {
		t.Fatalf("got %q, want %q", out, "1")
	}
}

func TestNormalLookupDoesNotCrossFunctionBoundary(t *testing.T) {
	_, err := runSource(t, `
let x = 1;
func readX() {
	return x;
}
print("%", readX());
`)
	if err == nil {
		t.Fatal("expected an undefined-variable error: plain lookup must not cross the function boundary")
	}
}

func TestTurtleSquareProducesCanvas(t *testing.T) {
	arena, stmts, err := parser.Parse([]byte(`
init(100, 100);
for i : 0 -> 4 {
	forward(40);
	right(90);
}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ev := New()
	if err := ev.Run(arena, stmts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	c := ev.Canvas()
	if c == nil {
		t.Fatal("expected a canvas after init()")
	}
	if c.Width != 100 || c.Height != 100 {
		t.Fatalf("got %dx%d, want 100x100", c.Width, c.Height)
	}
}
