// expressions.go contains all the expression AST nodes. A expression node always evaluates to a value.

package ast

import (
	"lumen/token"
)

// Binary represents a binary operation expression (e.g., "a + b").
// It consists of a left-hand side expression, an operator token (e.g., +, -, *, /),
// and a right-hand side expression.
type Binary struct {
	Node
	Left     Expression  // The left-hand expression (e.g., "a" in "a + b")
	Operator token.Token // The operator (e.g., "+")
	Right    Expression  // The right-hand expression (e.g., "b" in "a + b")
}

func (binary Binary) Accept(v ExpressionVisitor) any {
	return v.VisitBinary(binary)
}

// Logical represents a short-circuiting logical expression ("a and b",
// "a or b"). Unlike Binary, the right-hand side may never be evaluated.
type Logical struct {
	Node
	Left     Expression
	Operator token.Token // Either an AND or an OR token
	Right    Expression
}

func (logical Logical) Accept(v ExpressionVisitor) any {
	return v.VisitLogicalExpression(logical)
}

// Unary represents a unary operation expression (e.g., "!a" or "-b").
// It consists of an operator token and a single right-hand expression.
type Unary struct {
	Node
	Operator token.Token // The operator (e.g., "!" or "-")
	Right    Expression  // The expression the operator is applied to (e.g., "a" or "b")
}

func (unary Unary) Accept(v ExpressionVisitor) any {
	return v.VisitUnary(unary)
}

// Literal represents a literal value in the source code
// (e.g., numbers, strings, booleans, or nil).
type Literal struct {
	Node
	Value any // The literal value (Go's `any` allows different possible types)
}

func (literal Literal) Accept(v ExpressionVisitor) any {
	return v.VisitLiteral(literal)
}

// Grouping represents a parenthesized expression (e.g., "(a + b)").
// Useful for controlling evaluation precedence.
type Grouping struct {
	Node
	Expression Expression // The inner expression inside the parentheses
}

func (grouping Grouping) Accept(v ExpressionVisitor) any {
	return v.VisitGrouping(grouping)
}

// Variable represents a variable expression in the abstract syntax tree (AST).
// It models the retrieval of a value previously bound to a variable name.
//
// Fields:
//   - Name: The token corresponding to the variable's identifier. This is an
//     IDENTIFIER token that holds the variable's name (lexeme).
type Variable struct {
	Node
	Name token.Token // An IDENTIFIER token
}

func (variable Variable) Accept(v ExpressionVisitor) any {
	return v.VisitVariableExpression(variable)
}

// Assign represents an assignment expression in the abstract syntax tree (AST).
// It models the operation of assigning a new value to an existing variable.
//
// Fields:
//   - Name: The token corresponding to the variable's identifier.
//   - Value: The expression that produces the value being assigned to the variable.
//     This can be any valid expression node in the AST, which will be
//     evaluated and then stored in the environment.
type Assign struct {
	Node
	Name  token.Token
	Value Expression
}

func (assign Assign) Accept(v ExpressionVisitor) any {
	return v.VisitAssignExpression(assign)
}

// Call represents a call expression (e.g., "f(1, 2)"). The callee is an
// arbitrary expression that must evaluate to a callable value or a class at
// runtime. The closing parenthesis token is kept for error reporting.
type Call struct {
	Node
	Callee    Expression
	Paren     token.Token // The ")" token closing the argument list
	Arguments []Expression
}

func (call Call) Accept(v ExpressionVisitor) any {
	return v.VisitCallExpression(call)
}

// Get represents a property access expression (e.g., "p.n"). The object
// must evaluate to a class instance at runtime.
type Get struct {
	Node
	Object Expression
	Name   token.Token // The property's IDENTIFIER token
}

func (get Get) Accept(v ExpressionVisitor) any {
	return v.VisitGetExpression(get)
}

// Set represents a property assignment expression (e.g., "p.n = 7").
// The object must evaluate to a class instance at runtime.
type Set struct {
	Node
	Object Expression
	Name   token.Token // The property's IDENTIFIER token
	Value  Expression
}

func (set Set) Accept(v ExpressionVisitor) any {
	return v.VisitSetExpression(set)
}
