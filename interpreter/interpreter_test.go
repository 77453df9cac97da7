package interpreter

import (
	"bytes"
	"lumen/ast"
	"lumen/lexer"
	"lumen/parser"
	"lumen/resolver"
	"strings"
	"testing"
)

// runSource drives the whole front end and the tree evaluator, returning
// everything printed and the runtime error, if any.
func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	lex := lexer.New(source)
	tokens, lexErrors := lex.Scan()
	if len(lexErrors) > 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrors)
	}
	p := parser.Make(tokens)
	statements, parseErrors := p.Parse()
	if len(parseErrors) > 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrors)
	}
	res := resolver.Make()
	if errs := res.Resolve(statements); len(errs) > 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}

	var output bytes.Buffer
	interp := Make()
	interp.Output = &output
	interp.AddResolved(res.ResolvedExpressions())
	err := interp.Interpret(statements)
	return output.String(), err
}

func assertOutput(t *testing.T, source string, expectedLines ...string) {
	t.Helper()
	output, err := runSource(t, source)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	expected := strings.Join(expectedLines, "\n")
	if len(expectedLines) > 0 {
		expected += "\n"
	}
	if output != expected {
		t.Errorf("wrong output\nwant:\n%q\ngot:\n%q", expected, output)
	}
}

func TestArithmetic(t *testing.T) {
	assertOutput(t, "print 1 + 2;", "3")
	assertOutput(t, "print 7 / 2;", "3.5")
	assertOutput(t, "print -(1 + 2) * 3;", "-9")
}

func TestStringConcatenation(t *testing.T) {
	assertOutput(t, `print "ab" + "cd";`, "abcd")
	// Either operand being a string coerces the other.
	assertOutput(t, `print "n=" + 3;`, "n=3")
	assertOutput(t, `print 3 + "=n";`, "3=n")
}

func TestBlockScoping(t *testing.T) {
	assertOutput(t, "var a = 1; { var a = 2; print a; } print a;", "2", "1")
}

func TestForLoop(t *testing.T) {
	assertOutput(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0", "1", "2")
}

func TestClosures(t *testing.T) {
	source := `
fun make() {
  var x = 0;
  fun inc() {
    x = x + 1;
    return x;
  }
  return inc;
}
var f = make();
print f();
print f();
print f();
`
	assertOutput(t, source, "1", "2", "3")
}

func TestClosuresAreIndependent(t *testing.T) {
	source := `
fun make() {
  var x = 0;
  fun inc() {
    x = x + 1;
    return x;
  }
  return inc;
}
var f = make();
var g = make();
print f();
print f();
print g();
`
	assertOutput(t, source, "1", "2", "1")
}

func TestZeroIsTruthy(t *testing.T) {
	assertOutput(t, `if (nil or 0) print "t"; else print "f";`, "t")
	assertOutput(t, `if ("") print "t"; else print "f";`, "t")
	assertOutput(t, `if (nil) print "t"; else print "f";`, "f")
	assertOutput(t, `if (false) print "t"; else print "f";`, "f")
}

func TestInstanceFields(t *testing.T) {
	assertOutput(t, "class P {} var p = P(); p.n = 7; print p.n;", "7")
}

func TestInstancePrintsItsClass(t *testing.T) {
	assertOutput(t, "class P {} var p = P(); print p; print P;", "P instance", "P")
}

func TestLogicalOperatorsReturnOperands(t *testing.T) {
	assertOutput(t, `print "a" or "b";`, "a")
	assertOutput(t, `print nil or "b";`, "b")
	assertOutput(t, `print nil and "b";`, "nil")
	assertOutput(t, `print "a" and "b";`, "b")
}

func TestNotOperator(t *testing.T) {
	assertOutput(t, "print !nil;", "true")
	assertOutput(t, "print !!0;", "true")
	assertOutput(t, "print !true;", "false")
}

func TestEquality(t *testing.T) {
	assertOutput(t, "print 1 == 1;", "true")
	assertOutput(t, "print 1 == 2;", "false")
	assertOutput(t, `print "a" == "a";`, "true")
	assertOutput(t, "print nil == nil;", "true")
	assertOutput(t, `print 1 == "1";`, "false")
	assertOutput(t, "print 1 != 2;", "true")
}

func TestCallableEqualityIsIdentity(t *testing.T) {
	assertOutput(t, "fun f() {} var g = f; print f == g;", "true")
	assertOutput(t, "fun f() {} fun g() {} print f == g;", "false")
	assertOutput(t, "class C {} var a = C(); var b = C(); print a == a; print a == b;", "true", "false")
}

func TestWhileWithBreak(t *testing.T) {
	source := `
var i = 0;
while (true) {
  if (i == 2) break;
  print i;
  i = i + 1;
}
print "done";
`
	assertOutput(t, source, "0", "1", "done")
}

func TestWhileWithContinue(t *testing.T) {
	source := `
var i = 0;
while (i < 4) {
  i = i + 1;
  if (i == 2) continue;
  print i;
}
`
	assertOutput(t, source, "1", "3", "4")
}

func TestBreakOnlyExitsInnermostLoop(t *testing.T) {
	source := `
var i = 0;
while (i < 2) {
  var j = 0;
  while (true) {
    if (j == 1) break;
    j = j + 1;
  }
  print i + j;
  i = i + 1;
}
`
	assertOutput(t, source, "1", "2")
}

func TestReturnExitsLoopAndFunction(t *testing.T) {
	source := `
fun first() {
  var i = 0;
  while (true) {
    if (i == 3) return i;
    i = i + 1;
  }
}
print first();
`
	assertOutput(t, source, "3")
}

func TestReturnWithoutValueYieldsNil(t *testing.T) {
	assertOutput(t, "fun f() { return; } print f();", "nil")
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	assertOutput(t, "fun f() { 1 + 1; } print f();", "nil")
}

func TestUninitializedVariableHoldsNil(t *testing.T) {
	assertOutput(t, "var a; print a;", "nil")
}

func TestRecursion(t *testing.T) {
	source := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	assertOutput(t, source, "55")
}

func TestShadowingResolvesToDeclarationScope(t *testing.T) {
	// The closure captures the outer binding; the later shadowing block
	// must not change what it sees.
	source := `
var a = "outer";
{
  fun show() { print a; }
  show();
  var a = "inner";
  show();
}
`
	assertOutput(t, source, "outer", "outer")
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "undefined variable", source: "print missing;"},
		{name: "assignment to undefined variable", source: "missing = 1;"},
		{name: "subtraction on strings", source: `print "a" - "b";`},
		{name: "negating a string", source: `print -"a";`},
		{name: "comparison on mixed operands", source: `print 1 < "2";`},
		{name: "calling a non-callable", source: "var x = 1; x();"},
		{name: "arity mismatch", source: "fun f(a) {} f(1, 2);"},
		{name: "class constructor takes no arguments", source: "class C {} C(1);"},
		{name: "property on a non-instance", source: "var x = 1; print x.y;"},
		{name: "field on a non-instance", source: "var x = 1; x.y = 2;"},
		{name: "undefined property", source: "class C {} var c = C(); print c.missing;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runSource(t, tt.source)
			if err == nil {
				t.Fatalf("expected a runtime error")
			}
			if _, ok := err.(RuntimeError); !ok {
				t.Errorf("expected RuntimeError, got %T", err)
			}
		})
	}
}

func TestErrorAbortsRemainingStatements(t *testing.T) {
	output, err := runSource(t, `print "before"; print missing; print "after";`)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	if output != "before\n" {
		t.Errorf("statements after the failure must not run, got output: %q", output)
	}
}

func TestNativeClock(t *testing.T) {
	output, err := runSource(t, "print clock() > 0;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "true\n" {
		t.Errorf("clock() should return a positive number of seconds, got: %q", output)
	}
}

func TestNativeClockAcceptsAnyArity(t *testing.T) {
	_, err := runSource(t, "clock(1, 2, 3);")
	if err != nil {
		t.Fatalf("clock must accept any number of arguments: %v", err)
	}
}

func TestNativeSyscallRequiresAnArgument(t *testing.T) {
	_, err := runSource(t, "syscall();")
	if err == nil {
		t.Fatalf("syscall with no arguments should be an arity error")
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{value: nil, expected: "nil"},
		{value: 3.0, expected: "3"},
		{value: 3.5, expected: "3.5"},
		{value: true, expected: "true"},
		{value: "text", expected: "text"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.value); got != tt.expected {
			t.Errorf("Stringify(%v) - want: %q, got: %q", tt.value, tt.expected, got)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value    any
		expected bool
	}{
		{value: nil, expected: false},
		{value: false, expected: false},
		{value: true, expected: true},
		{value: 0.0, expected: true},
		{value: "", expected: true},
		{value: "x", expected: true},
	}

	for _, tt := range tests {
		if got := IsTruthy(tt.value); got != tt.expected {
			t.Errorf("IsTruthy(%v) - want: %v, got: %v", tt.value, tt.expected, got)
		}
	}
}

func TestEvaluateExpression(t *testing.T) {
	lex := lexer.New("(1 + 2) * 3")
	tokens, _ := lex.Scan()
	p := parser.Make(tokens)
	expression, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	interp := Make()
	result, evalErr := interp.Evaluate(expression)
	if evalErr != nil {
		t.Fatalf("unexpected runtime error: %v", evalErr)
	}
	if result != 9.0 {
		t.Errorf("want: 9, got: %v", result)
	}
}

var _ ast.ExpressionVisitor = (*TreeWalkInterpreter)(nil)
var _ ast.StmtVisitor = (*TreeWalkInterpreter)(nil)
