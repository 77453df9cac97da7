package parser

import (
	"lumen/ast"
	"lumen/lexer"
	"lumen/token"
	"testing"
)

func parseSource(t *testing.T, source string) ([]ast.Stmt, []error) {
	t.Helper()
	lex := lexer.New(source)
	tokens, lexErrors := lex.Scan()
	if len(lexErrors) > 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrors)
	}
	parser := Make(tokens)
	return parser.Parse()
}

func mustParse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	statements, errs := parseSource(t, source)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return statements
}

func TestParsePrecedence(t *testing.T) {
	statements := mustParse(t, "print 1 + 2 * 3;")

	printStmt, ok := statements[0].(ast.PrintStmt)
	if !ok {
		t.Fatalf("expected PrintStmt, got %T", statements[0])
	}
	binary, ok := printStmt.Expression.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary, got %T", printStmt.Expression)
	}
	// The multiplication binds tighter, so + is the root.
	if binary.Operator.TokenType != token.ADD {
		t.Errorf("expected + at the root, got %s", binary.Operator.TokenType)
	}
	right, ok := binary.Right.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary on the right, got %T", binary.Right)
	}
	if right.Operator.TokenType != token.MULT {
		t.Errorf("expected * on the right, got %s", right.Operator.TokenType)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	statements := mustParse(t, "a = b = 1;")

	exprStmt := statements[0].(ast.ExpressionStmt)
	assign, ok := exprStmt.Expression.(ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", exprStmt.Expression)
	}
	if assign.Name.Lexeme != "a" {
		t.Errorf("expected assignment to 'a', got %q", assign.Name.Lexeme)
	}
	inner, ok := assign.Value.(ast.Assign)
	if !ok {
		t.Fatalf("expected nested Assign, got %T", assign.Value)
	}
	if inner.Name.Lexeme != "b" {
		t.Errorf("expected nested assignment to 'b', got %q", inner.Name.Lexeme)
	}
}

func TestParsePropertyAssignment(t *testing.T) {
	statements := mustParse(t, "p.n = 7;")

	exprStmt := statements[0].(ast.ExpressionStmt)
	set, ok := exprStmt.Expression.(ast.Set)
	if !ok {
		t.Fatalf("expected Set, got %T", exprStmt.Expression)
	}
	if set.Name.Lexeme != "n" {
		t.Errorf("expected property 'n', got %q", set.Name.Lexeme)
	}
	if _, ok := set.Object.(ast.Variable); !ok {
		t.Errorf("expected Variable object, got %T", set.Object)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, errs := parseSource(t, "1 + 2 = 3;")
	if len(errs) != 1 {
		t.Fatalf("expected one diagnostic, got: %v", errs)
	}
	syntaxErr, ok := errs[0].(SyntaxError)
	if !ok {
		t.Fatalf("expected SyntaxError, got %T", errs[0])
	}
	if syntaxErr.Message != "Invalid assignment target." {
		t.Errorf("wrong message: %q", syntaxErr.Message)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	statements := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")

	block, ok := statements[0].(ast.BlockStmt)
	if !ok {
		t.Fatalf("expected BlockStmt wrapper, got %T", statements[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected initializer + loop, got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(ast.VarStmt); !ok {
		t.Errorf("expected VarStmt initializer, got %T", block.Statements[0])
	}
	loop, ok := block.Statements[1].(ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", block.Statements[1])
	}
	body, ok := loop.Body.(ast.BlockStmt)
	if !ok {
		t.Fatalf("expected body block with increment, got %T", loop.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("expected body + increment, got %d statements", len(body.Statements))
	}
}

func TestParseForWithoutClauses(t *testing.T) {
	statements := mustParse(t, "for (;;) break;")

	loop, ok := statements[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("expected bare WhileStmt, got %T", statements[0])
	}
	condition, ok := loop.Condition.(ast.Literal)
	if !ok {
		t.Fatalf("expected Literal condition, got %T", loop.Condition)
	}
	if condition.Value != true {
		t.Errorf("missing condition should desugar to true, got %v", condition.Value)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	statements := mustParse(t, "fun add(a, b) { return a + b; }")

	function, ok := statements[0].(ast.FunctionStmt)
	if !ok {
		t.Fatalf("expected FunctionStmt, got %T", statements[0])
	}
	if function.Name.Lexeme != "add" {
		t.Errorf("wrong function name: %q", function.Name.Lexeme)
	}
	if len(function.Parameters) != 2 {
		t.Errorf("wrong parameter count: %d", len(function.Parameters))
	}
	if len(function.Body) != 1 {
		t.Errorf("wrong body length: %d", len(function.Body))
	}
	if function.Kind != ast.FunctionKindFunction {
		t.Errorf("wrong kind: %v", function.Kind)
	}
}

func TestParseClassDeclarationKeepsMethods(t *testing.T) {
	statements := mustParse(t, "class Point { x() { return 1; } y() { return 2; } }")

	class, ok := statements[0].(ast.ClassStmt)
	if !ok {
		t.Fatalf("expected ClassStmt, got %T", statements[0])
	}
	if class.Name.Lexeme != "Point" {
		t.Errorf("wrong class name: %q", class.Name.Lexeme)
	}
	if len(class.Methods) != 2 {
		t.Fatalf("expected two methods, got %d", len(class.Methods))
	}
	if class.Methods[0].Kind != ast.FunctionKindMethod {
		t.Errorf("methods should carry the method kind")
	}
}

func TestParseCall(t *testing.T) {
	statements := mustParse(t, "f(1)(2);")

	exprStmt := statements[0].(ast.ExpressionStmt)
	outer, ok := exprStmt.Expression.(ast.Call)
	if !ok {
		t.Fatalf("expected Call, got %T", exprStmt.Expression)
	}
	if _, ok := outer.Callee.(ast.Call); !ok {
		t.Errorf("curried call should nest, got %T", outer.Callee)
	}
}

func TestParseArityOverflowIsDiagnosticOnly(t *testing.T) {
	source := "f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			source += ", "
		}
		source += "1"
	}
	source += ");"

	statements, errs := parseSource(t, source)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(errs), errs)
	}
	// The call still parsed with all its arguments.
	exprStmt := statements[0].(ast.ExpressionStmt)
	call := exprStmt.Expression.(ast.Call)
	if len(call.Arguments) != 256 {
		t.Errorf("expected 256 arguments, got %d", len(call.Arguments))
	}
}

func TestParseSynchronizeCollectsMultipleErrors(t *testing.T) {
	statements, errs := parseSource(t, "var = 1; print 2; var = 3; print 4;")
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %d: %v", len(errs), errs)
	}
	// Both valid print statements survived the recovery.
	if len(statements) != 2 {
		t.Fatalf("expected two recovered statements, got %d", len(statements))
	}
}

func TestExpressionIdentitiesAreUnique(t *testing.T) {
	statements := mustParse(t, "print 1 + 2 * (3 - 4);")

	seen := map[int]bool{}
	var walk func(expression ast.Expression)
	walk = func(expression ast.Expression) {
		if seen[expression.ID()] {
			t.Fatalf("duplicate expression identity %d", expression.ID())
		}
		seen[expression.ID()] = true
		switch e := expression.(type) {
		case ast.Binary:
			walk(e.Left)
			walk(e.Right)
		case ast.Grouping:
			walk(e.Expression)
		case ast.Unary:
			walk(e.Right)
		}
	}
	walk(statements[0].(ast.PrintStmt).Expression)

	if len(seen) != 8 {
		t.Errorf("expected 8 distinct expressions, got %d", len(seen))
	}
}

func TestParseExpressionEntryPoint(t *testing.T) {
	lex := lexer.New("1 + 2")
	tokens, _ := lex.Scan()
	parser := Make(tokens)
	expression, err := parser.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := expression.(ast.Binary); !ok {
		t.Fatalf("expected Binary, got %T", expression)
	}
}
