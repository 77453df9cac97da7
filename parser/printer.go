package parser

import (
	"encoding/json"
	"fmt"
	"lumen/ast"
	"os"
	"strconv"
	"strings"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements the Visitor interfaces and builds a
// JSON-friendly representation of the AST using maps and slices.
// Each Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	return map[string]any{
		"type":       "ExpressionStmt",
		"expression": exprStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	return map[string]any{
		"type":       "PrintStmt",
		"expression": printStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitVarStmt(varStmt ast.VarStmt) any {
	return map[string]any{
		"type":        "VarStmt",
		"name":        varStmt.Name.Lexeme,
		"initializer": nilOrAccept(varStmt.Initializer, p),
	}
}

func (p astPrinter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	stmts := make([]any, 0, len(blockStmt.Statements))
	for _, stmt := range blockStmt.Statements {
		stmts = append(stmts, stmt.Accept(p))
	}
	return map[string]any{
		"type":       "BlockStmt",
		"statements": stmts,
	}
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return map[string]any{
		"type":      "WhileStmt",
		"condition": stmt.Condition.Accept(p),
		"body":      stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	var elseVal any
	if stmt.Else != nil {
		elseVal = stmt.Else.Accept(p)
	} else {
		elseVal = nil
	}
	return map[string]any{
		"type":      "IfStmt",
		"condition": stmt.Condition.Accept(p),
		"then":      stmt.Then.Accept(p),
		"else":      elseVal,
	}
}

func (p astPrinter) VisitBreakStmt(stmt ast.BreakStmt) any {
	return map[string]any{
		"type": "BreakStmt",
	}
}

func (p astPrinter) VisitContinueStmt(stmt ast.ContinueStmt) any {
	return map[string]any{
		"type": "ContinueStmt",
	}
}

func (p astPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	return map[string]any{
		"type":  "ReturnStmt",
		"value": nilOrAccept(stmt.Value, p),
	}
}

func (p astPrinter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	parameters := make([]any, 0, len(stmt.Parameters))
	for _, parameter := range stmt.Parameters {
		parameters = append(parameters, parameter.Lexeme)
	}
	body := make([]any, 0, len(stmt.Body))
	for _, s := range stmt.Body {
		body = append(body, s.Accept(p))
	}
	return map[string]any{
		"type":       "FunctionStmt",
		"name":       stmt.Name.Lexeme,
		"parameters": parameters,
		"body":       body,
	}
}

func (p astPrinter) VisitClassStmt(stmt ast.ClassStmt) any {
	methods := make([]any, 0, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods = append(methods, p.VisitFunctionStmt(method))
	}
	return map[string]any{
		"type":    "ClassStmt",
		"name":    stmt.Name.Lexeme,
		"methods": methods,
	}
}

func (p astPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return map[string]any{
		"type":     "Logical",
		"operator": expr.Operator.Lexeme,
		"left":     expr.Left.Accept(p),
		"right":    expr.Right.Accept(p),
	}
}

func (p astPrinter) VisitAssignExpression(assign ast.Assign) any {
	return map[string]any{
		"type":  "Assign",
		"name":  assign.Name.Lexeme,
		"value": assign.Value.Accept(p),
	}
}

func (p astPrinter) VisitVariableExpression(variable ast.Variable) any {
	return map[string]any{
		"type": "Variable",
		"name": variable.Name.Lexeme,
	}
}

func (p astPrinter) VisitCallExpression(call ast.Call) any {
	arguments := make([]any, 0, len(call.Arguments))
	for _, argument := range call.Arguments {
		arguments = append(arguments, argument.Accept(p))
	}
	return map[string]any{
		"type":      "Call",
		"callee":    call.Callee.Accept(p),
		"arguments": arguments,
	}
}

func (p astPrinter) VisitGetExpression(get ast.Get) any {
	return map[string]any{
		"type":   "Get",
		"object": get.Object.Accept(p),
		"name":   get.Name.Lexeme,
	}
}

func (p astPrinter) VisitSetExpression(set ast.Set) any {
	return map[string]any{
		"type":   "Set",
		"object": set.Object.Accept(p),
		"name":   set.Name.Lexeme,
		"value":  set.Value.Accept(p),
	}
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": b.Operator.Lexeme,
		"left":     b.Left.Accept(p),
		"right":    b.Right.Accept(p),
	}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{
		"type":     "Unary",
		"operator": u.Operator.Lexeme,
		"right":    u.Right.Accept(p),
	}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	// literals are terminal values and can be used directly in JSON
	return l.Value
}

func (p astPrinter) VisitGrouping(g ast.Grouping) any {
	return map[string]any{
		"type":       "Grouping",
		"expression": g.Expression.Accept(p),
	}
}

// nilOrAccept returns nil if expr is nil, otherwise it continues
// processing the expression and returns the result.
func nilOrAccept(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

// PrintASTJSON converts a slice of statements into a prettified JSON string.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	s, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}

	_, error := fDescriptor.Write([]byte(s))
	if error != nil {
		return fmt.Errorf("error writing AST to file: %s", error.Error())
	}
	defer fDescriptor.Close()
	return nil
}

// sexprPrinter renders expressions in a parenthesized prefix form, e.g
// "(+ 1.0 (group 2.0))". Used by the `parse` command.
type sexprPrinter struct{}

func (p sexprPrinter) VisitBinary(b ast.Binary) any {
	return p.parenthesize(b.Operator.Lexeme, b.Left, b.Right)
}

func (p sexprPrinter) VisitLogicalExpression(l ast.Logical) any {
	return p.parenthesize(l.Operator.Lexeme, l.Left, l.Right)
}

func (p sexprPrinter) VisitUnary(u ast.Unary) any {
	return p.parenthesize(u.Operator.Lexeme, u.Right)
}

func (p sexprPrinter) VisitGrouping(g ast.Grouping) any {
	return p.parenthesize("group", g.Expression)
}

func (p sexprPrinter) VisitLiteral(l ast.Literal) any {
	return FormatLiteral(l.Value)
}

func (p sexprPrinter) VisitVariableExpression(v ast.Variable) any {
	return v.Name.Lexeme
}

func (p sexprPrinter) VisitAssignExpression(a ast.Assign) any {
	return p.parenthesize("= "+a.Name.Lexeme, a.Value)
}

func (p sexprPrinter) VisitCallExpression(c ast.Call) any {
	expressions := append([]ast.Expression{c.Callee}, c.Arguments...)
	return p.parenthesize("call", expressions...)
}

func (p sexprPrinter) VisitGetExpression(g ast.Get) any {
	return p.parenthesize("get "+g.Name.Lexeme, g.Object)
}

func (p sexprPrinter) VisitSetExpression(s ast.Set) any {
	return p.parenthesize("set "+s.Name.Lexeme, s.Object, s.Value)
}

func (p sexprPrinter) parenthesize(name string, expressions ...ast.Expression) string {
	var builder strings.Builder
	builder.WriteString("(")
	builder.WriteString(name)
	for _, expression := range expressions {
		builder.WriteString(" ")
		builder.WriteString(expression.Accept(p).(string))
	}
	builder.WriteString(")")
	return builder.String()
}

// PrintSExpression renders a single expression in parenthesized prefix
// form.
func PrintSExpression(expression ast.Expression) string {
	return expression.Accept(sexprPrinter{}).(string)
}

// FormatLiteral renders a literal value the way the `tokenize` and
// `parse` commands display it: numbers always carry at least one decimal
// digit, nil prints as "nil".
func FormatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatFloat(v, 'f', 1, 64)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
