// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
//	A Recursive descent parser is a top-down parser because it starts from the top
//
// grammar rule and works its way down in to the nested sub-expressions before reaching
// the leaves of the syntax tree (terminal rules)
package parser

import (
	"fmt"
	"lumen/ast"
	"lumen/token"
)

// maxArity bounds both parameter lists and argument lists. Violations are
// reported as diagnostics but parsing continues.
const maxArity = 255

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
}

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorExpressionTypes = []token.TokenType{
	token.MULT,
	token.DIV,
}

var unaryExpressionTypes = []token.TokenType{
	token.BANG,
	token.SUB,
}

// Token types that begin a new statement. Used by synchronize to find a
// safe point to resume parsing after an error.
var statementStartTokenTypes = []token.TokenType{
	token.CLASS,
	token.FUN,
	token.VAR,
	token.FOR,
	token.IF,
	token.WHILE,
	token.PRINT,
	token.RETURN,
}

type Parser struct {
	tokens   []token.Token
	position int

	// Monotonic counter handing out stable identities to every AST node
	// constructed during this parse. The resolver keys its hop-distance
	// map on these identities, so they must never be reused.
	nextID int

	// Diagnostics collected during the parse: those that do not abort the
	// statement being parsed (arity overflows, invalid assignment targets)
	// are added where they occur, and Parse also appends every error that
	// aborted a statement.
	errors []error
}

// NOTE: The parsers position is always one unit ahead of the
// current token

// Make initializes and returns a new Parser instance.
//
// Parameters:
//   - tokens: []token.Token
//     The tokens created by the lexer.
//
// Returns:
//   - *Parser: A pointer to a newly created Parser instance.
func Make(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		position: 0,
	}
}

// Print prints the AST as prettified JSON to standard output.
func (parser *Parser) Print(statements []ast.Stmt) {
	_, err := PrintASTJSON(statements)
	if err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}

// PrintToFile writes the AST for the provided statements to a .json file at the given path.
func (parser *Parser) PrintToFile(statements []ast.Stmt, path string) error {
	return WriteASTJSONToFile(statements, path)
}

// makeNode mints a new AST node with the next available identity and the
// given source span.
func (parser *Parser) makeNode(span token.Range) ast.Node {
	node := ast.MakeNode(parser.nextID, span)
	parser.nextID++
	return node
}

// Peeks the token at the parser's current position,
// without advancing the parser's position.
// Returns:
//   - token.Token: The token at the parser's current position
func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// Retrieves the token at the parser's previous position
// (position -1)
//
// Returns:
//   - token.Token: The token at the previous position
func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

// Increments the parser's position by one unit and
// consumes the current token
//
// Returns:
//   - token.Token: The token at the previous position
func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

// Determines if the parser has finished scanning all the tokens.
//
// Returns:
//   - bool: true if the parser has finished scanning, false otherwise
func (parser *Parser) isFinished() bool {
	tok := parser.peek()
	return tok.TokenType == token.EOF
}

// Determines if the provided tokenType matches the TokenType
// at the parser's current position
//
// Returns
//   - bool: true if the TokenType matches, false otherwise
func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return false
	}
	tok := parser.peek()
	return tok.TokenType == tokenType
}

// Determines if the TokenType at the current
// position matches any of the provided tokenTypes. If a match is
// found the parser increments its position and consumes the
// current token
//
// Returns
//   - bool: true if a match was found, false otherwise
func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for i := range tokenTypes {
		tokenType := tokenTypes[i]

		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// synchronize skips tokens until the parser is positioned just past a
// semicolon or at the start of the next statement. Called after a parse
// error so one bad statement does not cascade into spurious diagnostics
// for everything that follows it.
func (parser *Parser) synchronize() {
	parser.advance()

	for !parser.isFinished() {
		if parser.previous().TokenType == token.SEMICOLON {
			return
		}
		for _, tokenType := range statementStartTokenTypes {
			if parser.peek().TokenType == tokenType {
				return
			}
		}
		parser.advance()
	}
}

// Parse parses the entire token stream into a slice of Stmt (statement) nodes,
// continuing until the end of input. Errors during parsing are collected
// but parsing continues to find additional errors where possible.
//
// Returns:
//   - []Stmt: the successfully parsed statements.
//   - []error: all errors that occurred during parsing.
func (parser *Parser) Parse() ([]ast.Stmt, []error) {
	statements := []ast.Stmt{}

	for {
		if parser.isFinished() {
			break
		}
		statement, err := parser.declaration()
		if err != nil {
			parser.errors = append(parser.errors, err)
			parser.synchronize()
			continue
		}
		statements = append(statements, statement)
	}

	return statements, parser.errors
}

// ParseExpression parses the token stream as a single expression. Used by
// the `parse` and `evaluate` commands, which operate on bare expressions
// rather than full programs.
func (parser *Parser) ParseExpression() (ast.Expression, error) {
	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if len(parser.errors) > 0 {
		return nil, parser.errors[0]
	}
	return expression, nil
}

// declaration parses a declaration statement.
//
// It selects among class, function and variable declarations; anything
// else is parsed as a plain statement.
//
// Returns the parsed statement (Stmt) or an error if parsing fails.
func (parser *Parser) declaration() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.CLASS}) {
		return parser.classDeclaration()
	}
	if parser.isMatch([]token.TokenType{token.FUN}) {
		return parser.functionDeclaration(ast.FunctionKindFunction)
	}
	if parser.isMatch([]token.TokenType{token.VAR}) {
		return parser.variableDeclaration()
	}
	return parser.statement()
}

// classDeclaration parses a class declaration: the class name followed by
// a braced body of method declarations.
// Returns:
//   - ast.ClassStmt: A ClassStmt AST node with the parsed methods.
//   - error: A SyntaxError if parsing fails.
func (parser *Parser) classDeclaration() (ast.Stmt, error) {
	name, consumeError := parser.consume(token.IDENTIFIER, "Expect class name.")
	if consumeError != nil {
		return nil, consumeError
	}
	_, consumeError = parser.consume(token.LCUR, "Expect '{' before class body.")
	if consumeError != nil {
		return nil, consumeError
	}

	methods := []ast.FunctionStmt{}
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		method, err := parser.functionDeclaration(ast.FunctionKindMethod)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method.(ast.FunctionStmt))
	}

	closing, consumeError := parser.consume(token.RCUR, "Expect '}' after class body.")
	if consumeError != nil {
		return nil, consumeError
	}

	return ast.ClassStmt{
		Node:    parser.makeNode(name.Range().Merge(closing.Range())),
		Name:    name,
		Methods: methods,
	}, nil
}

// functionDeclaration parses a function or method declaration: name,
// parenthesized parameter list and braced body. Parameter lists longer
// than 255 entries are reported as a diagnostic but parsing continues.
func (parser *Parser) functionDeclaration(kind ast.FunctionKind) (ast.Stmt, error) {
	name, consumeError := parser.consume(token.IDENTIFIER, "Expect function name.")
	if consumeError != nil {
		return nil, consumeError
	}
	_, consumeError = parser.consume(token.LPA, "Expect '(' after function name.")
	if consumeError != nil {
		return nil, consumeError
	}

	parameters := []token.Token{}
	if !parser.checkType(token.RPA) {
		for {
			if len(parameters) >= maxArity {
				bad := parser.peek()
				diagnostic := CreateSyntaxError(bad.Line, bad.Column, "Can't have more than 255 parameters.")
				parser.errors = append(parser.errors, diagnostic)
			}
			parameter, err := parser.consume(token.IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			parameters = append(parameters, parameter)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	_, consumeError = parser.consume(token.RPA, "Expect ')' after parameters.")
	if consumeError != nil {
		return nil, consumeError
	}

	_, consumeError = parser.consume(token.LCUR, "Expect '{' before function body.")
	if consumeError != nil {
		return nil, consumeError
	}
	body, err := parser.block()
	if err != nil {
		return nil, err
	}

	return ast.FunctionStmt{
		Node:       parser.makeNode(name.Range().Merge(parser.previous().Range())),
		Kind:       kind,
		Name:       name,
		Parameters: parameters,
		Body:       body,
	}, nil
}

// variableDeclaration parses a variable declaration statement.
// It expects an identifier token for the variable name
// followed by an optional '=' and an initializer expression.
// Returns:
//   - ast.VarStmt: A VarStmt AST node representing the variable declaration.
//   - error: A SyntaxError if parsing fails.
func (parser *Parser) variableDeclaration() (ast.Stmt, error) {
	tok, consumeError := parser.consume(token.IDENTIFIER, "Expect variable name.")
	if consumeError != nil {
		return nil, consumeError
	}

	span := tok.Range()
	var initialiser ast.Expression
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		var err error
		initialiser, err = parser.expression()
		if err != nil {
			return nil, err
		}
		span = span.Merge(initialiser.Span())
	}

	_, consumeError = parser.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	if consumeError != nil {
		return nil, consumeError
	}

	return ast.VarStmt{
		Node:        parser.makeNode(span),
		Name:        tok,
		Initializer: initialiser,
	}, nil
}

// statement parses a single statement: print, return, loop and branch
// statements, blocks, break/continue, or an expression statement.
//
// Returns:
//   - Stmt: the parsed statement node.
//   - error: if parsing fails, otherwise nil.
func (parser *Parser) statement() (ast.Stmt, error) {

	if parser.isMatch([]token.TokenType{token.PRINT}) {
		return parser.printStatement()
	}

	if parser.isMatch([]token.TokenType{token.RETURN}) {
		return parser.returnStatement()
	}

	if parser.isMatch([]token.TokenType{token.LCUR}) {
		opening := parser.previous()
		statements, err := parser.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{
			Node:       parser.makeNode(opening.Range().Merge(parser.previous().Range())),
			Statements: statements,
		}, nil
	}

	if parser.isMatch([]token.TokenType{token.IF}) {
		return parser.ifStatement()
	}

	if parser.isMatch([]token.TokenType{token.WHILE}) {
		return parser.whileStatement()
	}

	if parser.isMatch([]token.TokenType{token.FOR}) {
		return parser.forStatement()
	}

	if parser.isMatch([]token.TokenType{token.BREAK}) {
		keyword := parser.previous()
		_, err := parser.consume(token.SEMICOLON, "Expect ';' after 'break'.")
		if err != nil {
			return nil, err
		}
		return ast.BreakStmt{
			Node:    parser.makeNode(keyword.Range()),
			Keyword: keyword,
		}, nil
	}

	if parser.isMatch([]token.TokenType{token.CONTINUE}) {
		keyword := parser.previous()
		_, err := parser.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
		if err != nil {
			return nil, err
		}
		return ast.ContinueStmt{
			Node:    parser.makeNode(keyword.Range()),
			Keyword: keyword,
		}, nil
	}

	return parser.expressionStatement()
}

// printStatement parses a print statement of the form "print <expression>;".
//
// Returns:
//   - Stmt: a PrintStmt containing the expression to print.
//   - error: if the inner expression fails to parse.
func (parser *Parser) printStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	_, err = parser.consume(token.SEMICOLON, "Expect ';' after value.")
	if err != nil {
		return nil, err
	}
	return ast.PrintStmt{
		Node:       parser.makeNode(keyword.Range().Merge(expression.Span())),
		Expression: expression,
	}, nil
}

// returnStatement parses a return statement with an optional value
// expression. "return;" returns nil.
func (parser *Parser) returnStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	span := keyword.Range()

	var value ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		var err error
		value, err = parser.expression()
		if err != nil {
			return nil, err
		}
		span = span.Merge(value.Span())
	}
	_, err := parser.consume(token.SEMICOLON, "Expect ';' after return value.")
	if err != nil {
		return nil, err
	}

	return ast.ReturnStmt{
		Node:    parser.makeNode(span),
		Keyword: keyword,
		Value:   value,
	}, nil
}

// whileStatement parses a while loop statement from the token stream.
// It parses a parenthesized condition expression followed by a statement
// representing the loop body.
// Returns:
//   - ast.WhileStmt with the parsed condition and body.
//   - error: if parsing the condition or body fails.
func (parser *Parser) whileStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	_, err := parser.consume(token.LPA, "Expect '(' after 'while'.")
	if err != nil {
		return nil, err
	}
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	_, err = parser.consume(token.RPA, "Expect ')' after condition.")
	if err != nil {
		return nil, err
	}

	// NOTE: the statement contains the ast node encompassing all
	// the loops body.
	body, err := parser.statement()
	if err != nil {
		return nil, err
	}

	return ast.WhileStmt{
		Node:      parser.makeNode(keyword.Range().Merge(body.Span())),
		Condition: condition,
		Body:      body,
	}, nil
}

// forStatement parses a for loop and desugars it into existing AST nodes:
//
//	for (init; cond; incr) body
//
// becomes
//
//	{ init; while (cond) { body; incr; } }
//
// A missing condition is replaced with a true literal, so "for (;;)" loops
// forever. There is no ForStmt node; the back-ends only ever see the
// desugared form.
func (parser *Parser) forStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	_, err := parser.consume(token.LPA, "Expect '(' after 'for'.")
	if err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	if parser.isMatch([]token.TokenType{token.SEMICOLON}) {
		initializer = nil
	} else if parser.isMatch([]token.TokenType{token.VAR}) {
		initializer, err = parser.variableDeclaration()
		if err != nil {
			return nil, err
		}
	} else {
		initializer, err = parser.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		condition, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	semicolon, err := parser.consume(token.SEMICOLON, "Expect ';' after loop condition.")
	if err != nil {
		return nil, err
	}
	if condition == nil {
		condition = ast.Literal{
			Node:  parser.makeNode(semicolon.Range()),
			Value: true,
		}
	}

	var increment ast.Expression
	if !parser.checkType(token.RPA) {
		increment, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	_, err = parser.consume(token.RPA, "Expect ')' after for clauses.")
	if err != nil {
		return nil, err
	}

	body, err := parser.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		incrementStmt := ast.ExpressionStmt{
			Node:       parser.makeNode(increment.Span()),
			Expression: increment,
		}
		body = ast.BlockStmt{
			Node:       parser.makeNode(body.Span().Merge(increment.Span())),
			Statements: []ast.Stmt{body, incrementStmt},
		}
	}

	loop := ast.WhileStmt{
		Node:      parser.makeNode(keyword.Range().Merge(body.Span())),
		Condition: condition,
		Body:      body,
	}

	if initializer == nil {
		return loop, nil
	}
	return ast.BlockStmt{
		Node:       parser.makeNode(keyword.Range().Merge(body.Span())),
		Statements: []ast.Stmt{initializer, loop},
	}, nil
}

// ifStatement parses an if-statement from the token stream.
// It expects a parenthesized condition expression followed by a 'then'
// branch, and optionally parses an 'else' branch if present.
// Returns:
//   - ast.IfStmt: an IfStmt AST node.
//   - error: if any part fails to parse.
func (parser *Parser) ifStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	_, err := parser.consume(token.LPA, "Expect '(' after 'if'.")
	if err != nil {
		return nil, err
	}
	conditionExpr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	_, err = parser.consume(token.RPA, "Expect ')' after if condition.")
	if err != nil {
		return nil, err
	}

	thenStmt, err := parser.statement()
	if err != nil {
		return nil, err
	}
	span := keyword.Range().Merge(thenStmt.Span())

	var elseStmt ast.Stmt = nil
	if parser.isMatch([]token.TokenType{token.ELSE}) {
		stmt, err := parser.statement()
		if err != nil {
			return nil, err
		}
		elseStmt = stmt
		span = span.Merge(elseStmt.Span())
	}

	return ast.IfStmt{
		Node:      parser.makeNode(span),
		Condition: conditionExpr,
		Then:      thenStmt,
		Else:      elseStmt,
	}, nil
}

// expressionStatement parses a statement consisting of a single expression.
//
// Returns:
//   - Stmt: an ExpressionStmt wrapping the parsed expression.
//   - error: if the expression cannot be parsed.
func (parser *Parser) expressionStatement() (ast.Stmt, error) {
	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	_, err = parser.consume(token.SEMICOLON, "Expect ';' after expression.")
	if err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{
		Node:       parser.makeNode(expression.Span()),
		Expression: expression,
	}, nil
}

// block parses a block statement consisting of a list of
// statement AST nodes.
// Returns:
//   - [] Stmt: A list of parsed declarations or statements
//   - error: If the block statement cant be parsed.
func (parser *Parser) block() ([]ast.Stmt, error) {
	statements := []ast.Stmt{}

	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	_, err := parser.consume(token.RCUR, "Expect '}' after block.")
	if err != nil {
		return nil, err
	}
	return statements, nil
}

// expression is the entry point for parsing expressions. It begins at
// the assignment rule, which encompasses all lower-precedence rules.
//
// Returns:
//   - Expression: the parsed expression AST node.
//   - error: if parsing fails.
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.assignment()
}

// assignment parses an assignment expression from the token stream.
//
// Steps:
//  1. First, parse the left-hand side (LHS) as a logical-or expression.
//     This ensures proper precedence, so assignment has lower precedence
//     than every other operator.
//  2. If the next token is an '=' (ASSIGN), then:
//     - Recursively call `assignment` to parse the right-hand side (RHS),
//     making assignment right-associative.
//     - Check if the LHS is a valid assignment target:
//     * A Variable produces an Assign node.
//     * A property access (Get) produces a Set node.
//     * Anything else reports "Invalid assignment target." as a
//     diagnostic; the RHS is still returned so parsing continues.
//  3. If no '=' follows, just return the previously parsed expression
//     as the result.
//
// Returns:
//   - Expression: Either an Assign/Set node (for valid assignment targets) or
//     the underlying expression if no assignment is found.
//   - error: Parsing errors from failed sub-expressions.
//
// Example:
// Input:  x = 10
// AST:    Assign{Name: x, Value: Literal(10)}
func (parser *Parser) assignment() (ast.Expression, error) {
	expression, err := parser.or()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		equalsToken := parser.previous()
		value, err := parser.assignment()
		if err != nil {
			return nil, err
		}
		switch v := expression.(type) {
		case ast.Variable:
			return ast.Assign{
				Node:  parser.makeNode(v.Name.Range().Merge(value.Span())),
				Name:  v.Name,
				Value: value,
			}, nil

		case ast.Get:
			return ast.Set{
				Node:   parser.makeNode(v.Span().Merge(value.Span())),
				Object: v.Object,
				Name:   v.Name,
				Value:  value,
			}, nil

		default:
			diagnostic := CreateSyntaxError(equalsToken.Line, equalsToken.Column, "Invalid assignment target.")
			parser.errors = append(parser.errors, diagnostic)
			return value, nil
		}
	}

	return expression, nil
}

// or parses a logical OR expression from the token stream.
// It first parses an AND expression on the left side, then consumes
// any sequence of OR operators, building a left-associative AST of logical expressions.
// Returns:
//   - ast.Expression: The constructed ast.Expression node
//   - error: An error if parsing fails.
func (parser *Parser) or() (ast.Expression, error) {
	expr, err := parser.and()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.OR}) {
		op := parser.previous()
		rightExpr, err := parser.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{
			Node:     parser.makeNode(expr.Span().Merge(rightExpr.Span())),
			Left:     expr,
			Operator: op,
			Right:    rightExpr,
		}
	}

	return expr, nil
}

// and parses a logical AND expression from the token stream.
// It first parses an equality expression on the left side,
// then consumes any sequence of AND operators, building a left-associative
// abstract syntax tree (AST) of logical expressions.
// Returns:
//   - ast.Expression: The constructed ast.Expression node
//   - error: An error if parsing fails.
func (parser *Parser) and() (ast.Expression, error) {
	expr, err := parser.equality()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.AND}) {
		op := parser.previous()
		rightExpr, err := parser.equality()
		if err != nil {
			return nil, err
		}

		expr = ast.Logical{
			Node:     parser.makeNode(expr.Span().Merge(rightExpr.Span())),
			Left:     expr,
			Operator: op,
			Right:    rightExpr,
		}
	}
	return expr, nil
}

// equality parses equality expressions using operators "==" and "!=".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing equality comparison.
//   - error: if parsing fails.
func (parser *Parser) equality() (ast.Expression, error) {
	exp, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes) {
		operator := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Node:     parser.makeNode(exp.Span().Merge(right.Span())),
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// comparison parses comparison expressions using operators "<", "<=", ">", ">=".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing a comparison.
//   - error: if parsing fails.
func (parser *Parser) comparison() (ast.Expression, error) {
	exp, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes) {
		operator := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Node:     parser.makeNode(exp.Span().Merge(right.Span())),
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// term parses addition and subtraction expressions using operators "+" and "-".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing addition or subtraction.
//   - error: if parsing fails.
func (parser *Parser) term() (ast.Expression, error) {
	exp, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes) {
		operator := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Node:     parser.makeNode(exp.Span().Merge(right.Span())),
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// factor parses multiplication and division expressions using operators "*" and "/".
//
// Returns:
//   - Expression: a Binary node (or sub-expression) representing multiplication or division.
//   - error: if parsing fails.
func (parser *Parser) factor() (ast.Expression, error) {
	exp, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{
			Node:     parser.makeNode(exp.Span().Merge(right.Span())),
			Left:     exp,
			Operator: operator,
			Right:    right,
		}
	}
	return exp, nil
}

// unary parses unary prefix expressions using operators "!" or "-".
// Examples: "!true", "-x".
//
// Returns:
//   - Expression: a Unary node if a unary operator was found, otherwise defers to call().
//   - error: if parsing fails.
func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(unaryExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{
			Node:     parser.makeNode(operator.Range().Merge(right.Span())),
			Operator: operator,
			Right:    right,
		}, nil
	}
	return parser.call()
}

// call parses call and property-access postfix expressions. A primary
// expression may be followed by any mix of "(args)" and ".name" suffixes,
// each wrapping the expression built so far.
func (parser *Parser) call() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}

	for {
		if parser.isMatch([]token.TokenType{token.LPA}) {
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
		} else if parser.isMatch([]token.TokenType{token.DOT}) {
			name, consumeErr := parser.consume(token.IDENTIFIER, "Expect property name after '.'.")
			if consumeErr != nil {
				return nil, consumeErr
			}
			expr = ast.Get{
				Node:   parser.makeNode(expr.Span().Merge(name.Range())),
				Object: expr,
				Name:   name,
			}
		} else {
			break
		}
	}

	return expr, nil
}

// finishCall parses the argument list of a call expression; the opening
// parenthesis has already been consumed. Argument lists longer than 255
// entries are reported as a diagnostic but parsing continues.
func (parser *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	arguments := []ast.Expression{}

	if !parser.checkType(token.RPA) {
		for {
			if len(arguments) >= maxArity {
				bad := parser.peek()
				diagnostic := CreateSyntaxError(bad.Line, bad.Column, "Can't have more than 255 arguments.")
				parser.errors = append(parser.errors, diagnostic)
			}
			argument, err := parser.expression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, argument)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}

	paren, err := parser.consume(token.RPA, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}

	return ast.Call{
		Node:      parser.makeNode(callee.Span().Merge(paren.Range())),
		Callee:    callee,
		Paren:     paren,
		Arguments: arguments,
	}, nil
}

// primary parses the most basic forms of expressions:
//   - Literals: true, false, nil, strings, numbers
//   - Variables, including the `this` keyword
//   - Grouping: (expression)
//
// If no valid token matches, returns a syntax error.
//
// Returns:
//   - Expression: a Literal, Variable or Grouping expression.
//   - error: if no valid primary expression can be parsed.
func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.FALSE}) {
		return ast.Literal{
			Node:  parser.makeNode(parser.previous().Range()),
			Value: false,
		}, nil
	}
	if parser.isMatch([]token.TokenType{token.NIL}) {
		return ast.Literal{
			Node:  parser.makeNode(parser.previous().Range()),
			Value: nil,
		}, nil
	}
	if parser.isMatch([]token.TokenType{token.TRUE}) {
		return ast.Literal{
			Node:  parser.makeNode(parser.previous().Range()),
			Value: true,
		}, nil
	}

	if parser.isMatch([]token.TokenType{token.NUMBER, token.STRING}) {
		return ast.Literal{
			Node:  parser.makeNode(parser.previous().Range()),
			Value: parser.previous().Literal,
		}, nil
	}

	// `this` parses as an ordinary variable reference. Nothing binds it at
	// runtime: class method maps are never populated, so method bodies
	// never run.
	if parser.isMatch([]token.TokenType{token.IDENTIFIER, token.THIS}) {
		return ast.Variable{
			Node: parser.makeNode(parser.previous().Range()),
			Name: parser.previous(),
		}, nil
	}

	if parser.isMatch([]token.TokenType{token.LPA}) {
		opening := parser.previous()
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		closing, consumeErr := parser.consume(token.RPA, "Expect ')' after expression.")
		if consumeErr != nil {
			return nil, consumeErr
		}
		return ast.Grouping{
			Node:       parser.makeNode(opening.Range().Merge(closing.Range())),
			Expression: expr,
		}, nil
	}

	currentToken := parser.peek()
	return nil, CreateSyntaxError(currentToken.Line, currentToken.Column, "Expect expression.")
}

// Consumes the current token by advancing the parsers current position by
// one unit if the `tokenType` matches the token type of the parsers current
// position.
//
//	Returns:
//	- A SyntaxError if the provided `tokenType` does not match the `TokenType`
//		at the parsers current position
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	return token.CreateToken(token.EOF, 0, 0), CreateSyntaxError(currentToken.Line, currentToken.Column, errorMessage)
}
