package interpreter

import (
	"fmt"
	"io"
	"lumen/ast"
	"lumen/token"
	"os"
)

// TreeWalkInterpreter executes parsed statements and evaluates expressions.
//
// It owns the environment chain for the current execution, the hop-distance
// map produced by the resolver, and the three control-flow flags that
// implement break, continue and return. The interpreter is single-threaded
// and synchronous; the flags live directly on the struct and call frames
// save/restore them around function invocations.
type TreeWalkInterpreter struct {
	globals     *Environment
	environment *Environment

	// Maps expression identity -> hop distance as produced by the
	// resolver. References absent from this map are looked up in globals.
	resolved map[int]int

	// Where print statements write. Defaults to standard output; tests
	// substitute a buffer.
	Output io.Writer

	breakFlag    bool
	continueFlag bool
	hasReturn    bool
	returnValue  any
}

// Make creates an instance of a "Tree-Walk Interpreter" with the native
// functions already installed in its globals.
func Make() *TreeWalkInterpreter {
	globals := MakeEnvironment()
	installNatives(globals)
	return &TreeWalkInterpreter{
		globals:     globals,
		environment: globals,
		resolved:    map[int]int{},
		Output:      os.Stdout,
	}
}

// AddResolved merges the resolver's hop-distance map into the
// interpreter. The REPL resolves each submission separately, so merging
// keeps annotations from earlier lines alive.
func (i *TreeWalkInterpreter) AddResolved(resolved map[int]int) {
	for id, distance := range resolved {
		i.resolved[id] = distance
	}
}

// Interpret executes a list of statements.
// Runtime errors abort execution of the remaining statements and are
// returned to the caller; internally they propagate as panics so deeply
// nested evaluation does not have to thread an error return through
// every visitor.
func (i *TreeWalkInterpreter) Interpret(statements []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			runtimeErr, ok := r.(RuntimeError)
			if !ok {
				panic(r)
			}
			err = runtimeErr
		}
	}()
	i.executeStatements(statements)
	return nil
}

// Evaluate evaluates a single expression and returns its value. Used by
// the `evaluate` command, which operates on bare expressions.
func (i *TreeWalkInterpreter) Evaluate(expression ast.Expression) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			runtimeErr, ok := r.(RuntimeError)
			if !ok {
				panic(r)
			}
			err = runtimeErr
		}
	}()
	return i.evaluate(expression), nil
}

// executeStatements executes each statement by invoking its Accept method.
func (i *TreeWalkInterpreter) executeStatements(statements []ast.Stmt) {
	for _, s := range statements {
		i.executeStmt(s)
	}
}

// executeStmt executes the given AST node statement by invoking its Accept
// method, which calls the appropriate Visit method of the interpreter.
// When any of the break/continue/return flags is already set the statement
// is a no-op: the flag is on its way up to the loop or call that consumes
// it and nothing in between may run.
func (i *TreeWalkInterpreter) executeStmt(stmt ast.Stmt) {
	if i.breakFlag || i.continueFlag || i.hasReturn {
		return
	}
	stmt.Accept(i)
}

// VisitBlockStmt executes all statements in the given ast.BlockStmt
// within a new nested environment. It temporarily replaces the current
// interpreter environment with a new one scoped as a child of the previous
// environment. The previous environment is restored on every exit path,
// including a runtime error propagating out as a panic.
func (i *TreeWalkInterpreter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	previous := i.environment
	i.environment = MakeNestedEnvironment(i.environment)
	defer func() {
		i.environment = previous
	}()

	i.executeStatements(blockStmt.Statements)
	return nil
}

// VisitExpressionStmt visits an ExpressionStmt node.
// Evaluates the expression but does not return a value.
//
// Returns:
//   - any: always nil because statements do not produce values.
func (i *TreeWalkInterpreter) VisitExpressionStmt(exprStatement ast.ExpressionStmt) any {
	i.evaluate(exprStatement.Expression)
	return nil
}

// VisitIfStmt evaluates the condition of the given ast.IfStmt.
// If the condition evaluates to true (according to interpreter semantics),
// it executes the 'Then' branch.
// If an 'Else' branch is present and if the condition is false, it
// is executed.
//
// Returns:
//   - any: always nil because statements do not produce values.
func (i *TreeWalkInterpreter) VisitIfStmt(stmt ast.IfStmt) any {
	if IsTruthy(i.evaluate(stmt.Condition)) {
		i.executeStmt(stmt.Then)
	} else if stmt.Else != nil {
		i.executeStmt(stmt.Else)
	}
	return nil
}

// VisitWhileStmt runs the loop body for as long as the condition holds.
// The break and return flags terminate the loop; continue only skips to
// the next condition check. Break and continue are consumed here, return
// propagates to the enclosing call.
func (i *TreeWalkInterpreter) VisitWhileStmt(stmt ast.WhileStmt) any {
	for IsTruthy(i.evaluate(stmt.Condition)) {
		i.executeStmt(stmt.Body)
		if i.hasReturn {
			break
		}
		if i.breakFlag {
			i.breakFlag = false
			break
		}
		i.continueFlag = false
	}
	return nil
}

// VisitBreakStmt raises the break flag. The statement short-circuit in
// executeStmt carries it to the nearest enclosing loop.
func (i *TreeWalkInterpreter) VisitBreakStmt(stmt ast.BreakStmt) any {
	i.breakFlag = true
	return nil
}

// VisitContinueStmt raises the continue flag.
func (i *TreeWalkInterpreter) VisitContinueStmt(stmt ast.ContinueStmt) any {
	i.continueFlag = true
	return nil
}

// VisitReturnStmt evaluates the optional value expression and raises the
// return flag. Function.Call consumes the flag and the value.
func (i *TreeWalkInterpreter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	var value any = nil
	if stmt.Value != nil {
		value = i.evaluate(stmt.Value)
	}
	i.returnValue = value
	i.hasReturn = true
	return nil
}

// VisitFunctionStmt constructs a callable from the declaration, capturing
// the current environment as its closure, and binds it in the current
// scope.
func (i *TreeWalkInterpreter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	function := &Function{
		Declaration: stmt,
		Closure:     i.environment,
	}
	i.environment.set(stmt.Name.Lexeme, function)
	return nil
}

// VisitClassStmt constructs a class value and binds it in the current
// scope. The method map is created empty regardless of the parsed method
// declarations; see DESIGN.md.
func (i *TreeWalkInterpreter) VisitClassStmt(stmt ast.ClassStmt) any {
	class := &Class{
		Name:    stmt.Name.Lexeme,
		Methods: map[string]*Function{},
	}
	i.environment.set(stmt.Name.Lexeme, class)
	return nil
}

// VisitPrintStmt visits a PrintStmt node.
// Evaluates the expression and prints the result.
//
// Returns:
//   - any: always nil because print statements have no return value.
func (i *TreeWalkInterpreter) VisitPrintStmt(printStmt ast.PrintStmt) any {
	value := i.evaluate(printStmt.Expression)
	fmt.Fprintln(i.Output, Stringify(value))
	return nil
}

// VisitVarStmt visits a VarStmt node.
// It evaluates the initialiser expression of the statement if it contains
// one and binds the variable's name to the evaluated value in the
// innermost scope. A variable declared without an initializer holds nil.
// Returns:
//   - nil: This method returns nil, as it mutates its own state to store
//     a variable name to its value
func (i *TreeWalkInterpreter) VisitVarStmt(varStmt ast.VarStmt) any {
	var value any = nil
	if varStmt.Initializer != nil {
		value = i.evaluate(varStmt.Initializer)
	}
	i.environment.set(varStmt.Name.Lexeme, value)
	return nil
}

// lookUpVariable retrieves the value for a reference: resolved references
// walk the environment chain by their hop distance, everything else is a
// globals lookup.
func (i *TreeWalkInterpreter) lookUpVariable(id int, name token.Token) any {
	if distance, ok := i.resolved[id]; ok {
		value, err := i.environment.getAt(distance, name)
		if err != nil {
			panic(err.(RuntimeError))
		}
		return value
	}
	value, err := i.globals.get(name)
	if err != nil {
		panic(err.(RuntimeError))
	}
	return value
}

// VisitVariableExpression retrieves the value bound to a variable.
// Returns:
//   - The value of the variable
//
// Raises:
//   - RuntimeError: panics with a RuntimeError if attempting to access an
//     undefined variable
func (i *TreeWalkInterpreter) VisitVariableExpression(expression ast.Variable) any {
	return i.lookUpVariable(expression.ID(), expression.Name)
}

// VisitAssignExpression evaluates an assignment expression node and updates
// the value of the corresponding variable: at its resolved hop distance
// when the resolver annotated the reference, in globals otherwise.
//
// Returns:
//   - any: The value resulting from evaluating `assign.Value`, which is
//     also the value bound to the variable after the assignment.
func (i *TreeWalkInterpreter) VisitAssignExpression(assign ast.Assign) any {
	value := i.evaluate(assign.Value)

	var err error
	if distance, ok := i.resolved[assign.ID()]; ok {
		err = i.environment.assignAt(distance, assign.Name, value)
	} else {
		err = i.globals.assign(assign.Name, value)
	}
	if err != nil {
		panic(err.(RuntimeError))
	}
	return value
}

// VisitBinary evaluates a binary expression node.
//
// Parameters:
//   - binary: the ast.Binary expression node.
//
// Returns:
//   - any: evaluated result of the binary expression (number, string, bool).
//
// Panics with a RuntimeError on invalid operands or unsupported operators.
func (i *TreeWalkInterpreter) VisitBinary(binary ast.Binary) any {
	leftResult := i.evaluate(binary.Left)
	rightResult := i.evaluate(binary.Right)
	operator := binary.Operator.TokenType

	switch operator {
	case token.ADD:
		leftNumber, leftIsNumber := leftResult.(float64)
		rightNumber, rightIsNumber := rightResult.(float64)
		if leftIsNumber && rightIsNumber {
			return leftNumber + rightNumber
		}
		_, leftIsString := leftResult.(string)
		_, rightIsString := rightResult.(string)
		if leftIsString || rightIsString {
			return Stringify(leftResult) + Stringify(rightResult)
		}
		message := "Operands must be two numbers or two strings."
		panic(CreateRuntimeError(binary.Operator.Line, binary.Operator.Column, message))

	case token.SUB:
		leftValue, rightValue := i.requireNumbers(binary.Operator, leftResult, rightResult)
		return leftValue - rightValue

	case token.MULT:
		leftValue, rightValue := i.requireNumbers(binary.Operator, leftResult, rightResult)
		return leftValue * rightValue

	case token.DIV:
		leftValue, rightValue := i.requireNumbers(binary.Operator, leftResult, rightResult)
		return leftValue / rightValue

	case token.EQUAL_EQUAL:
		return leftResult == rightResult

	case token.NOT_EQUAL:
		return leftResult != rightResult

	case token.LARGER:
		leftValue, rightValue := i.requireNumbers(binary.Operator, leftResult, rightResult)
		return leftValue > rightValue

	case token.LARGER_EQUAL:
		leftValue, rightValue := i.requireNumbers(binary.Operator, leftResult, rightResult)
		return leftValue >= rightValue

	case token.LESS:
		leftValue, rightValue := i.requireNumbers(binary.Operator, leftResult, rightResult)
		return leftValue < rightValue

	case token.LESS_EQUAL:
		leftValue, rightValue := i.requireNumbers(binary.Operator, leftResult, rightResult)
		return leftValue <= rightValue

	default:
		message := fmt.Sprintf("operator '%s' not supported", operator)
		panic(CreateRuntimeError(binary.Operator.Line, binary.Operator.Column, message))
	}
}

// VisitLogicalExpression implements the short-circuiting and/or
// operators. The result is whichever operand decided the outcome, not a
// coerced boolean.
func (i *TreeWalkInterpreter) VisitLogicalExpression(logical ast.Logical) any {
	leftResult := i.evaluate(logical.Left)

	if logical.Operator.TokenType == token.OR {
		if IsTruthy(leftResult) {
			return leftResult
		}
	} else {
		if !IsTruthy(leftResult) {
			return leftResult
		}
	}

	return i.evaluate(logical.Right)
}

// VisitUnary evaluates a unary expression node.
//
// Parameters:
//   - unary: the ast.Unary expression node.
//
// Returns:
//   - any: the evaluated result of the unary operation.
//
// Panics with a RuntimeError on invalid operand types.
func (i *TreeWalkInterpreter) VisitUnary(unary ast.Unary) any {
	rightResult := i.evaluate(unary.Right)
	operator := unary.Operator.TokenType
	switch operator {
	case token.SUB:
		number, isNumber := rightResult.(float64)
		if !isNumber {
			message := "Operand must be a number."
			panic(CreateRuntimeError(unary.Operator.Line, unary.Operator.Column, message))
		}
		return -number
	case token.BANG:
		return !IsTruthy(rightResult)
	default:
		message := fmt.Sprintf("operator '%s' not supported for unary operations", operator)
		panic(CreateRuntimeError(unary.Operator.Line, unary.Operator.Column, message))
	}
}

// VisitCallExpression evaluates the callee and the arguments left to
// right, checks that the callee is callable and that the argument count
// matches, then invokes it.
func (i *TreeWalkInterpreter) VisitCallExpression(call ast.Call) any {
	callee := i.evaluate(call.Callee)

	arguments := make([]any, 0, len(call.Arguments))
	for _, argument := range call.Arguments {
		arguments = append(arguments, i.evaluate(argument))
	}

	callable, isCallable := callee.(Callable)
	if !isCallable {
		message := "Can only call functions and classes."
		panic(CreateRuntimeError(call.Paren.Line, call.Paren.Column, message))
	}

	if !callable.CheckArity(len(arguments)) {
		message := fmt.Sprintf("Expected %s arguments but got %d.", callable.Arity(), len(arguments))
		panic(CreateRuntimeError(call.Paren.Line, call.Paren.Column, message))
	}

	result, err := callable.Call(i, arguments)
	if err != nil {
		panic(CreateRuntimeError(call.Paren.Line, call.Paren.Column, err.Error()))
	}
	return result
}

// VisitGetExpression evaluates a property read. Only instances have
// properties; methods on the class shadow fields on the instance.
func (i *TreeWalkInterpreter) VisitGetExpression(get ast.Get) any {
	object := i.evaluate(get.Object)
	instance, isInstance := object.(*Instance)
	if !isInstance {
		message := "Only instances have properties."
		panic(CreateRuntimeError(get.Name.Line, get.Name.Column, message))
	}

	value, err := instance.Get(get.Name)
	if err != nil {
		panic(err.(RuntimeError))
	}
	return value
}

// VisitSetExpression evaluates a property write. Only instances have
// fields; the named field is inserted or overwritten with the value.
func (i *TreeWalkInterpreter) VisitSetExpression(set ast.Set) any {
	object := i.evaluate(set.Object)
	instance, isInstance := object.(*Instance)
	if !isInstance {
		message := "Only instances have fields."
		panic(CreateRuntimeError(set.Name.Line, set.Name.Column, message))
	}

	value := i.evaluate(set.Value)
	instance.Set(set.Name, value)
	return value
}

// VisitLiteral returns the value of a Literal node.
//
// Parameters:
//   - literal: the ast.Literal node.
//
// Returns:
//   - any: the literal's underlying value.
func (i *TreeWalkInterpreter) VisitLiteral(literal ast.Literal) any {
	return literal.Value
}

// VisitGrouping evaluates a Grouping expression by evaluating its inner expression.
//
// Parameters:
//   - grouping: the ast.Grouping node.
//
// Returns:
//   - any: the value of the enclosed expression.
func (i *TreeWalkInterpreter) VisitGrouping(grouping ast.Grouping) any {
	return i.evaluate(grouping.Expression)
}

// evaluate evaluates any expression node by invoking its Accept method
// with the Interpreter visitor.
//
// Returns:
//   - any: the evaluated value of the expression.
func (i *TreeWalkInterpreter) evaluate(expression ast.Expression) any {
	return expression.Accept(i)
}

// requireNumbers validates that both operands are numbers.
// Panics with a RuntimeError positioned at the operator otherwise.
func (i *TreeWalkInterpreter) requireNumbers(operator token.Token, left any, right any) (float64, float64) {
	leftNumber, leftIsNumber := left.(float64)
	rightNumber, rightIsNumber := right.(float64)
	if leftIsNumber && rightIsNumber {
		return leftNumber, rightNumber
	}
	message := "Operands must be numbers."
	panic(CreateRuntimeError(operator.Line, operator.Column, message))
}
