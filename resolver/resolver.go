// Package resolver implements the static scope analysis pass that runs
// between parsing and tree-walking evaluation. It walks the statement list
// once and annotates every variable reference with its lexical hop
// distance: the number of enclosing scopes between the use site and the
// scope holding the binding. References it cannot resolve belong to the
// globals namespace and carry no annotation.
package resolver

import (
	"fmt"
	"lumen/ast"
	"lumen/token"
)

type functionKind int

const (
	functionKindNone functionKind = iota
	functionKindFunction
)

// Resolver performs the pre-execution scope walk. It maintains a stack of
// scopes mapping names to a `defined` flag: a name is declared (false)
// while its initializer is being resolved and defined (true) afterwards,
// which is how self-referencing initializers are detected.
type Resolver struct {
	scopes          []map[string]bool
	currentFunction functionKind

	// Nesting depth of loops currently being resolved. break/continue are
	// only legal while this is positive.
	loopDepth int

	// Maps expression identity -> hop distance for every reference that
	// resolved to a lexical scope. Globals are absent on purpose.
	resolved map[int]int

	errors   []error
	warnings []error
}

// Make creates a Resolver with the top-level scope already open.
func Make() *Resolver {
	return &Resolver{
		scopes:          []map[string]bool{{}},
		currentFunction: functionKindNone,
		resolved:        map[int]int{},
	}
}

// Resolve walks the given statements and returns all static errors found.
// Warnings (see Warnings) never abort the pass and are not included.
func (r *Resolver) Resolve(statements []ast.Stmt) []error {
	r.resolveStatements(statements)
	return r.errors
}

// Warnings returns the non-fatal diagnostics collected during Resolve,
// such as reading a variable inside its own initializer.
func (r *Resolver) Warnings() []error {
	return r.warnings
}

// ResolvedExpressions returns the hop-distance map keyed by expression
// identity. The tree evaluator consumes this to look variables up in the
// correct scope.
func (r *Resolver) ResolvedExpressions() map[int]int {
	return r.resolved
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) {
	for _, statement := range statements {
		statement.Accept(r)
	}
}

func (r *Resolver) resolveExpression(expression ast.Expression) {
	expression.Accept(r)
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare inserts the name into the innermost scope with defined=false.
// Declaring a name that the innermost scope already holds is an error.
func (r *Resolver) declare(name token.Token) {
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		message := fmt.Sprintf("Variable '%s' is already declared in this scope.", name.Lexeme)
		r.errors = append(r.errors, CreateResolveError(name.Line, name.Column, message))
	}
	scope[name.Lexeme] = false
}

// define marks the name as fully initialized in the innermost scope.
func (r *Resolver) define(name token.Token) {
	scope := r.scopes[len(r.scopes)-1]
	scope[name.Lexeme] = true
}

// resolveLocal walks the scope stack innermost-to-outermost looking for
// the name. The first scope containing it determines the hop distance
// stored for the expression identity; if no scope holds the name the
// reference is left for the globals namespace.
func (r *Resolver) resolveLocal(id int, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, exists := r.scopes[i][name.Lexeme]; exists {
			r.resolved[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

// resolveFunction opens a fresh scope for the parameters and body of a
// function or method declaration. The current-function kind is saved and
// restored so nested declarations track the innermost function.
func (r *Resolver) resolveFunction(function ast.FunctionStmt) {
	enclosingFunction := r.currentFunction
	r.currentFunction = functionKindFunction

	r.beginScope()
	for _, parameter := range function.Parameters {
		r.declare(parameter)
		r.define(parameter)
	}
	r.resolveStatements(function.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	r.beginScope()
	r.resolveStatements(blockStmt.Statements)
	r.endScope()
	return nil
}

func (r *Resolver) VisitVarStmt(varStmt ast.VarStmt) any {
	r.declare(varStmt.Name)
	if varStmt.Initializer != nil {
		r.resolveExpression(varStmt.Initializer)
	}
	r.define(varStmt.Name)
	return nil
}

func (r *Resolver) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt)
	return nil
}

// VisitClassStmt resolves a class declaration. The class name becomes a
// binding in the enclosing scope; each method body is resolved as its own
// function scope so diagnostics inside methods are still reported, even
// though the runtime never populates the class's method map.
func (r *Resolver) VisitClassStmt(stmt ast.ClassStmt) any {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	for _, method := range stmt.Methods {
		r.resolveFunction(method)
	}
	return nil
}

func (r *Resolver) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	r.resolveExpression(exprStmt.Expression)
	return nil
}

func (r *Resolver) VisitPrintStmt(printStmt ast.PrintStmt) any {
	r.resolveExpression(printStmt.Expression)
	return nil
}

func (r *Resolver) VisitIfStmt(stmt ast.IfStmt) any {
	r.resolveExpression(stmt.Condition)
	stmt.Then.Accept(r)
	if stmt.Else != nil {
		stmt.Else.Accept(r)
	}
	return nil
}

func (r *Resolver) VisitWhileStmt(stmt ast.WhileStmt) any {
	r.resolveExpression(stmt.Condition)
	r.loopDepth++
	stmt.Body.Accept(r)
	r.loopDepth--
	return nil
}

func (r *Resolver) VisitBreakStmt(stmt ast.BreakStmt) any {
	if r.loopDepth == 0 {
		err := CreateResolveError(stmt.Keyword.Line, stmt.Keyword.Column, "Can't use 'break' outside of a loop.")
		r.errors = append(r.errors, err)
	}
	return nil
}

func (r *Resolver) VisitContinueStmt(stmt ast.ContinueStmt) any {
	if r.loopDepth == 0 {
		err := CreateResolveError(stmt.Keyword.Line, stmt.Keyword.Column, "Can't use 'continue' outside of a loop.")
		r.errors = append(r.errors, err)
	}
	return nil
}

func (r *Resolver) VisitReturnStmt(stmt ast.ReturnStmt) any {
	if r.currentFunction == functionKindNone {
		err := CreateResolveError(stmt.Keyword.Line, stmt.Keyword.Column, "Can't return from top-level code.")
		r.errors = append(r.errors, err)
	}
	if stmt.Value != nil {
		r.resolveExpression(stmt.Value)
	}
	return nil
}

func (r *Resolver) VisitVariableExpression(variable ast.Variable) any {
	scope := r.scopes[len(r.scopes)-1]
	if defined, exists := scope[variable.Name.Lexeme]; exists && !defined {
		message := fmt.Sprintf("Variable '%s' is read in its own initializer.", variable.Name.Lexeme)
		warning := CreateResolveError(variable.Name.Line, variable.Name.Column, message)
		r.warnings = append(r.warnings, warning)
	}
	r.resolveLocal(variable.ID(), variable.Name)
	return nil
}

func (r *Resolver) VisitAssignExpression(assign ast.Assign) any {
	r.resolveExpression(assign.Value)
	r.resolveLocal(assign.ID(), assign.Name)
	return nil
}

func (r *Resolver) VisitBinary(binary ast.Binary) any {
	r.resolveExpression(binary.Left)
	r.resolveExpression(binary.Right)
	return nil
}

func (r *Resolver) VisitLogicalExpression(logical ast.Logical) any {
	r.resolveExpression(logical.Left)
	r.resolveExpression(logical.Right)
	return nil
}

func (r *Resolver) VisitUnary(unary ast.Unary) any {
	r.resolveExpression(unary.Right)
	return nil
}

func (r *Resolver) VisitGrouping(grouping ast.Grouping) any {
	r.resolveExpression(grouping.Expression)
	return nil
}

func (r *Resolver) VisitLiteral(literal ast.Literal) any {
	return nil
}

func (r *Resolver) VisitCallExpression(call ast.Call) any {
	r.resolveExpression(call.Callee)
	for _, argument := range call.Arguments {
		r.resolveExpression(argument)
	}
	return nil
}

func (r *Resolver) VisitGetExpression(get ast.Get) any {
	r.resolveExpression(get.Object)
	return nil
}

func (r *Resolver) VisitSetExpression(set ast.Set) any {
	r.resolveExpression(set.Object)
	r.resolveExpression(set.Value)
	return nil
}
