package resolver

import (
	"lumen/ast"
	"lumen/lexer"
	"lumen/parser"
	"testing"
)

func resolveSource(t *testing.T, source string) (*Resolver, []ast.Stmt, []error) {
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
	r := Make()
	errs := r.Resolve(statements)
	return r, statements, errs
}

// findVariable walks the statements and returns the identity of the
// first Variable expression with the given name.
func findVariable(statements []ast.Stmt, name string) (int, bool) {
	finder := &variableFinder{name: name, id: -1}
	for _, statement := range statements {
		statement.Accept(finder)
	}
	return finder.id, finder.id != -1
}

type variableFinder struct {
	name string
	id   int
}

func (f *variableFinder) VisitVariableExpression(v ast.Variable) any {
	if f.id == -1 && v.Name.Lexeme == f.name {
		f.id = v.ID()
	}
	return nil
}

func (f *variableFinder) VisitAssignExpression(a ast.Assign) any { a.Value.Accept(f); return nil }
func (f *variableFinder) VisitBinary(b ast.Binary) any {
	b.Left.Accept(f)
	b.Right.Accept(f)
	return nil
}
func (f *variableFinder) VisitLogicalExpression(l ast.Logical) any {
	l.Left.Accept(f)
	l.Right.Accept(f)
	return nil
}
func (f *variableFinder) VisitUnary(u ast.Unary) any       { u.Right.Accept(f); return nil }
func (f *variableFinder) VisitGrouping(g ast.Grouping) any { g.Expression.Accept(f); return nil }
func (f *variableFinder) VisitLiteral(l ast.Literal) any   { return nil }
func (f *variableFinder) VisitCallExpression(c ast.Call) any {
	c.Callee.Accept(f)
	for _, a := range c.Arguments {
		a.Accept(f)
	}
	return nil
}
func (f *variableFinder) VisitGetExpression(g ast.Get) any { g.Object.Accept(f); return nil }
func (f *variableFinder) VisitSetExpression(s ast.Set) any {
	s.Object.Accept(f)
	s.Value.Accept(f)
	return nil
}

func (f *variableFinder) VisitExpressionStmt(s ast.ExpressionStmt) any {
	s.Expression.Accept(f)
	return nil
}
func (f *variableFinder) VisitPrintStmt(s ast.PrintStmt) any { s.Expression.Accept(f); return nil }
func (f *variableFinder) VisitVarStmt(s ast.VarStmt) any {
	if s.Initializer != nil {
		s.Initializer.Accept(f)
	}
	return nil
}
func (f *variableFinder) VisitBlockStmt(s ast.BlockStmt) any {
	for _, stmt := range s.Statements {
		stmt.Accept(f)
	}
	return nil
}
func (f *variableFinder) VisitIfStmt(s ast.IfStmt) any {
	s.Condition.Accept(f)
	s.Then.Accept(f)
	if s.Else != nil {
		s.Else.Accept(f)
	}
	return nil
}
func (f *variableFinder) VisitWhileStmt(s ast.WhileStmt) any {
	s.Condition.Accept(f)
	s.Body.Accept(f)
	return nil
}
func (f *variableFinder) VisitBreakStmt(s ast.BreakStmt) any       { return nil }
func (f *variableFinder) VisitContinueStmt(s ast.ContinueStmt) any { return nil }
func (f *variableFinder) VisitReturnStmt(s ast.ReturnStmt) any {
	if s.Value != nil {
		s.Value.Accept(f)
	}
	return nil
}
func (f *variableFinder) VisitFunctionStmt(s ast.FunctionStmt) any {
	for _, stmt := range s.Body {
		stmt.Accept(f)
	}
	return nil
}
func (f *variableFinder) VisitClassStmt(s ast.ClassStmt) any {
	for _, method := range s.Methods {
		f.VisitFunctionStmt(method)
	}
	return nil
}

func TestResolveHopDistances(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		variable string
		expected int
	}{
		{
			name:     "same scope",
			source:   "{ var a = 1; print a; }",
			variable: "a",
			expected: 0,
		},
		{
			name:     "one scope out",
			source:   "{ var a = 1; { print a; } }",
			variable: "a",
			expected: 1,
		},
		{
			name:     "top level",
			source:   "var a = 1; print a;",
			variable: "a",
			expected: 0,
		},
		{
			name:     "closure captures through a function scope",
			source:   "fun outer() { var x = 1; fun inner() { print x; } }",
			variable: "x",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, statements, errs := resolveSource(t, tt.source)
			if len(errs) > 0 {
				t.Fatalf("unexpected resolve errors: %v", errs)
			}
			id, found := findVariable(statements, tt.variable)
			if !found {
				t.Fatalf("variable %q not found in the AST", tt.variable)
			}
			distance, resolved := r.ResolvedExpressions()[id]
			if !resolved {
				t.Fatalf("variable %q was not resolved", tt.variable)
			}
			if distance != tt.expected {
				t.Errorf("wrong hop distance - want: %d, got: %d", tt.expected, distance)
			}
		})
	}
}

func TestUnknownReferenceIsLeftForGlobals(t *testing.T) {
	r, statements, errs := resolveSource(t, "print clock;")
	if len(errs) > 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	id, found := findVariable(statements, "clock")
	if !found {
		t.Fatalf("variable not found in the AST")
	}
	if _, resolved := r.ResolvedExpressions()[id]; resolved {
		t.Errorf("a name without a lexical binding should stay unresolved")
	}
}

func TestDoubleDeclareIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "{ var a = 1; var a = 2; }")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got: %v", errs)
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	_, _, errs := resolveSource(t, "break;")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got: %v", errs)
	}
}

func TestContinueOutsideLoop(t *testing.T) {
	_, _, errs := resolveSource(t, "continue;")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got: %v", errs)
	}
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	_, _, errs := resolveSource(t, "while (true) { break; }")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestReturnOutsideFunction(t *testing.T) {
	_, _, errs := resolveSource(t, "return 1;")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got: %v", errs)
	}
}

func TestReturnInsideFunctionIsFine(t *testing.T) {
	_, _, errs := resolveSource(t, "fun f() { return 1; }")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestReturnInsideMethodIsFine(t *testing.T) {
	_, _, errs := resolveSource(t, "class C { m() { return 1; } }")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestBreakInsideMethodBodyOutsideLoopIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "class C { m() { break; } }")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got: %v", errs)
	}
}

func TestUseInOwnInitializerIsAWarning(t *testing.T) {
	r, _, errs := resolveSource(t, "{ var a = a; }")
	if len(errs) > 0 {
		t.Fatalf("self-reference should not be a hard error: %v", errs)
	}
	if len(r.Warnings()) != 1 {
		t.Fatalf("expected one warning, got: %v", r.Warnings())
	}
}
