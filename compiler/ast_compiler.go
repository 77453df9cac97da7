// This file implements the ASTCompiler, which compiles the abstract syntax tree (AST) directly to bytecode.

package compiler

import (
	"fmt"
	"lumen/ast"
	"lumen/token"
	"os"
)

// Local represents a local variable in the compiler.
type Local struct {

	// The variable's name
	name string
	// The variable's depth in the scope stack. Used to determine when variables go out of scope.
	depth int
	// Whether the variable's initializer has finished compiling. Used to
	// reject reads of a local inside its own initializer.
	initialized bool
}

// loopContext tracks one enclosing loop while its body is being
// compiled: where the loop's condition starts, the scope depth at loop
// entry (so break/continue can discard deeper locals), and the pending
// break jumps to patch once the loop's exit offset is known.
type loopContext struct {
	start      int
	scopeDepth int
	breakJumps []int
}

// ASTCompiler is a visitor that compiles AST nodes directly to bytecode.
// It implements both ast.ExpressionVisitor and ast.StmtVisitor interfaces
// to traverse and compile the abstract syntax tree to a chunk.
//
// The compiler performs its own local-slot discipline rather than
// consuming the resolver's output: a local's slot index is its position
// in the locals stack, which by construction equals the operand-stack
// position its value lives at during execution.
type ASTCompiler struct {

	// The chunk under construction.
	chunk *Chunk

	// A stack of local variables in the current scope. Used for local variable management and access.
	// Locals are ordered by their declaration order that appears in the code. The most recently declared variable
	// will always be at the top of the stack.
	locals []Local

	// The current depth of nested scopes. Used to determine when local variables go out of scope.
	// Depth 0 is the top level, where declarations define globals.
	scopeDepth int

	// The stack of loops enclosing the code being compiled.
	loops []loopContext

	// Source range attributed to the bytes being emitted. Updated at
	// every statement and expression visit so the chunk's line table
	// tracks the AST walk.
	currentSpan token.Range
}

// NewASTCompiler creates a new AST-to-bytecode compiler.
func NewASTCompiler() *ASTCompiler {
	return &ASTCompiler{
		chunk:  NewChunk(),
		locals: []Local{},
		loops:  []loopContext{},
	}
}

// CompileAST compiles the given statements into the compiler's chunk and
// returns it. Compile errors propagate internally as panics and are
// translated back into error returns here.
//
// Calling CompileAST again on the same compiler appends to the previous
// chunk, which is how the compiled REPL accumulates code across
// submissions: a trailing OP_RETURN left by the previous call is dropped
// before the new statements are compiled.
func (ac *ASTCompiler) CompileAST(statements []ast.Stmt) (chunk *Chunk, err error) {
	// Recover from any panic that may occur during compilation
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case SemanticError:
				err = v
			case DeveloperError:
				err = v
			case LiteralToValueError:
				err = v
			case VariableAlreadyDefinedError:
				err = v
			case VariableNotDefinedError:
				err = v
			case UnsupportedError:
				err = v
			default:
				panic(r)
			}
		}
	}()

	// If a previous compilation left an OP_RETURN at the end, drop it
	if length := len(ac.chunk.Code); length > 0 {
		if ac.chunk.Code[length-1] == byte(OP_RETURN) {
			ac.chunk.Code = ac.chunk.Code[:length-1]
			ac.chunk.Lines = ac.chunk.Lines[:length-1]
		}
	}

	for _, stmt := range statements {
		ac.compileStmt(stmt)
	}

	ac.emit(OP_RETURN)
	return ac.chunk, nil
}

// Chunk returns the chunk under construction.
func (ac *ASTCompiler) Chunk() *Chunk {
	return ac.chunk
}

func (ac *ASTCompiler) compileStmt(stmt ast.Stmt) {
	ac.currentSpan = stmt.Span()
	stmt.Accept(ac)
}

func (ac *ASTCompiler) compileExpression(expression ast.Expression) {
	ac.currentSpan = expression.Span()
	expression.Accept(ac)
}

// VisitBinary handles binary expressions. The comparison operators
// without a dedicated opcode compile to their complement followed by
// OP_NOT: `!=` is EQUAL+NOT, `<=` is GREATER+NOT, `>=` is LESS+NOT.
func (ac *ASTCompiler) VisitBinary(binary ast.Binary) any {

	// NOTE: Left expression is compiled first to ensure correct evaluation order
	ac.compileExpression(binary.Left)
	ac.compileExpression(binary.Right)
	ac.currentSpan = binary.Operator.Range()

	switch binary.Operator.TokenType {
	case token.ADD:
		ac.emit(OP_ADD)
	case token.SUB:
		ac.emit(OP_SUBTRACT)
	case token.MULT:
		ac.emit(OP_MULTIPLY)
	case token.DIV:
		ac.emit(OP_DIVIDE)

	case token.EQUAL_EQUAL:
		ac.emit(OP_EQUAL)
	case token.NOT_EQUAL:
		ac.emit(OP_EQUAL)
		ac.emit(OP_NOT)
	case token.LARGER:
		ac.emit(OP_GREATER)
	case token.LESS:
		ac.emit(OP_LESS)
	case token.LESS_EQUAL:
		ac.emit(OP_GREATER)
		ac.emit(OP_NOT)
	case token.LARGER_EQUAL:
		ac.emit(OP_LESS)
		ac.emit(OP_NOT)
	}

	return nil
}

// VisitUnary handles unary expressions (operators: -, !)
func (ac *ASTCompiler) VisitUnary(unary ast.Unary) any {

	ac.compileExpression(unary.Right)
	ac.currentSpan = unary.Operator.Range()

	switch unary.Operator.TokenType {
	case token.SUB:
		ac.emit(OP_NEGATE)
	case token.BANG:
		ac.emit(OP_NOT)
	}
	return nil
}

// VisitLiteral handles literal values. Booleans and nil have dedicated
// opcodes; numbers and strings go through the constant pool.
func (ac *ASTCompiler) VisitLiteral(literal ast.Literal) any {
	switch value := literal.Value.(type) {
	case nil:
		ac.emit(OP_NIL)
	case bool:
		if value {
			ac.emit(OP_TRUE)
		} else {
			ac.emit(OP_FALSE)
		}
	case float64:
		ac.emitConstant(value)
	case string:
		ac.emitConstant(value)
	default:
		panic(LiteralToValueError{Value: literal.Value})
	}
	return nil
}

// VisitGrouping handles parenthesized expressions
func (ac *ASTCompiler) VisitGrouping(grouping ast.Grouping) any {
	// Recursively compile the inner expression
	ac.compileExpression(grouping.Expression)
	return nil
}

// VisitVariableExpression handles variable references. A reference that
// resolves through the locals stack emits OP_GET_LOCAL with the slot
// index; everything else falls through to OP_GET_GLOBAL, leaving the
// existence check to the VM.
func (ac *ASTCompiler) VisitVariableExpression(variable ast.Variable) any {
	identifier := variable.Name.Lexeme

	slot := ac.resolveLocal(identifier)
	if slot != -1 {
		ac.emit(OP_GET_LOCAL, slot)
		return nil
	}

	index := ac.chunk.InternName(identifier)
	ac.emit(OP_GET_GLOBAL, index)
	return nil
}

// VisitAssignExpression handles an assignment expression and updates
// the variable's value. OP_SET_LOCAL and OP_SET_GLOBAL leave the value
// on the stack, which is what makes assignment usable as an expression.
func (ac *ASTCompiler) VisitAssignExpression(assign ast.Assign) any {
	// Compile the expression to be assigned.
	ac.compileExpression(assign.Value)
	ac.currentSpan = assign.Name.Range()

	slot := ac.resolveLocal(assign.Name.Lexeme)
	if slot != -1 {
		ac.emit(OP_SET_LOCAL, slot)
		return nil
	}

	index := ac.chunk.InternName(assign.Name.Lexeme)
	ac.emit(OP_SET_GLOBAL, index)
	return nil
}

// VisitLogicalExpression compiles the short-circuiting and/or operators
// with conditional jumps over the right-hand side.
//
// `and`: if the left value is falsy it stays on the stack as the result
// and the right-hand side is jumped over; otherwise it is popped and the
// right-hand side produces the result.
//
// `or`: mirrored — a falsy left value falls through to the right-hand
// side, a truthy one jumps over it and remains as the result.
func (ac *ASTCompiler) VisitLogicalExpression(logical ast.Logical) any {
	ac.compileExpression(logical.Left)
	ac.currentSpan = logical.Operator.Range()

	switch logical.Operator.TokenType {
	case token.AND:
		endJump := ac.emitPlaceholderJump(OP_JUMP_IF_FALSE)
		ac.emit(OP_POP)
		ac.compileExpression(logical.Right)
		ac.patchJump(endJump)

	case token.OR:
		elseJump := ac.emitPlaceholderJump(OP_JUMP_IF_FALSE)
		endJump := ac.emitPlaceholderJump(OP_JUMP)
		ac.patchJump(elseJump)
		ac.emit(OP_POP)
		ac.compileExpression(logical.Right)
		ac.patchJump(endJump)
	}
	return nil
}

// VisitCallExpression rejects call expressions: the VM has no call frames.
func (ac *ASTCompiler) VisitCallExpression(call ast.Call) any {
	panic(UnsupportedError{Construct: "a call expression"})
}

// VisitGetExpression rejects property reads: the VM has no instances.
func (ac *ASTCompiler) VisitGetExpression(get ast.Get) any {
	panic(UnsupportedError{Construct: "a property access"})
}

// VisitSetExpression rejects property writes: the VM has no instances.
func (ac *ASTCompiler) VisitSetExpression(set ast.Set) any {
	panic(UnsupportedError{Construct: "a property assignment"})
}

// VisitExpressionStmt compiles the expression and discards its value.
// The OP_POP is what keeps the operand stack height constant across
// statements.
func (ac *ASTCompiler) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	ac.compileExpression(exprStmt.Expression)
	ac.emit(OP_POP)
	return nil
}

func (ac *ASTCompiler) VisitPrintStmt(printStmt ast.PrintStmt) any {
	ac.compileExpression(printStmt.Expression)
	ac.emit(OP_PRINT)
	return nil
}

// VisitVarStmt handles variable declaration statements.
//
// At the top level the initializer value is copied into the globals map
// by OP_DEFINE_GLOBAL (which does not pop) and then discarded. Inside a
// scope the value simply stays on the stack: the local's slot index is
// its stack position, so no instruction is needed for the declaration
// itself.
func (ac *ASTCompiler) VisitVarStmt(varStmt ast.VarStmt) any {
	identifier := varStmt.Name.Lexeme

	if ac.scopeDepth == 0 {
		ac.compileInitializer(varStmt)
		index := ac.chunk.InternName(identifier)
		ac.emit(OP_DEFINE_GLOBAL, index)
		ac.emit(OP_POP)
		return nil
	}

	ac.declareLocal(identifier)
	ac.compileInitializer(varStmt)
	ac.defineLocal()
	return nil
}

// compileInitializer emits the declaration's initializer expression, or
// OP_NIL when the declaration has none.
func (ac *ASTCompiler) compileInitializer(varStmt ast.VarStmt) {
	if varStmt.Initializer != nil {
		ac.compileExpression(varStmt.Initializer)
		return
	}
	ac.currentSpan = varStmt.Span()
	ac.emit(OP_NIL)
}

func (ac *ASTCompiler) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	ac.beginScope()
	for _, stmt := range blockStmt.Statements {
		ac.compileStmt(stmt)
	}
	ac.endScope()
	return nil
}

// VisitIfStmt compiles a conditional with back-patched jumps:
//
//	condition
//	OP_JUMP_IF_FALSE -> else
//	OP_POP
//	then-branch
//	OP_JUMP -> end
//	else: OP_POP
//	else-branch (if any)
//	end:
//
// Both branches start by popping the condition value, so the stack
// height is identical on every path out of the statement.
func (ac *ASTCompiler) VisitIfStmt(ifStmt ast.IfStmt) any {
	ac.compileExpression(ifStmt.Condition)

	thenJump := ac.emitPlaceholderJump(OP_JUMP_IF_FALSE)
	ac.emit(OP_POP)
	ac.compileStmt(ifStmt.Then)

	elseJump := ac.emitPlaceholderJump(OP_JUMP)
	ac.patchJump(thenJump)
	ac.emit(OP_POP)

	if ifStmt.Else != nil {
		ac.compileStmt(ifStmt.Else)
	}
	ac.patchJump(elseJump)
	return nil
}

// VisitWhileStmt compiles a loop:
//
//	start: condition
//	OP_JUMP_IF_FALSE -> exit
//	OP_POP
//	body
//	OP_LOOP -> start
//	exit: OP_POP
//
// Pending break jumps recorded while compiling the body are patched to
// the offset just past the exit OP_POP — a break leaves no condition
// value on the stack, so it must not run that pop.
func (ac *ASTCompiler) VisitWhileStmt(whileStmt ast.WhileStmt) any {
	loopStart := len(ac.chunk.Code)
	ac.loops = append(ac.loops, loopContext{
		start:      loopStart,
		scopeDepth: ac.scopeDepth,
	})

	ac.compileExpression(whileStmt.Condition)
	exitJump := ac.emitPlaceholderJump(OP_JUMP_IF_FALSE)
	ac.emit(OP_POP)

	ac.compileStmt(whileStmt.Body)
	ac.emitLoop(loopStart)

	ac.patchJump(exitJump)
	ac.emit(OP_POP)

	loop := ac.loops[len(ac.loops)-1]
	ac.loops = ac.loops[:len(ac.loops)-1]
	for _, breakJump := range loop.breakJumps {
		ac.patchJump(breakJump)
	}
	return nil
}

// VisitBreakStmt discards the locals belonging to the loop body and
// emits a forward jump to be patched once the loop's exit is known.
func (ac *ASTCompiler) VisitBreakStmt(stmt ast.BreakStmt) any {
	if len(ac.loops) == 0 {
		panic(SemanticError{Message: "'break' outside of a loop"})
	}

	loop := &ac.loops[len(ac.loops)-1]
	ac.discardLocals(loop.scopeDepth)
	breakJump := ac.emitPlaceholderJump(OP_JUMP)
	loop.breakJumps = append(loop.breakJumps, breakJump)
	return nil
}

// VisitContinueStmt discards the locals belonging to the loop body and
// loops back to the condition, which re-runs every iteration.
func (ac *ASTCompiler) VisitContinueStmt(stmt ast.ContinueStmt) any {
	if len(ac.loops) == 0 {
		panic(SemanticError{Message: "'continue' outside of a loop"})
	}

	loop := ac.loops[len(ac.loops)-1]
	ac.discardLocals(loop.scopeDepth)
	ac.emitLoop(loop.start)
	return nil
}

// VisitReturnStmt rejects return statements: without call frames there
// is no function to return from.
func (ac *ASTCompiler) VisitReturnStmt(stmt ast.ReturnStmt) any {
	panic(UnsupportedError{Construct: "a return statement"})
}

// VisitFunctionStmt rejects function declarations; the tree evaluator is
// the back-end for programs using them.
func (ac *ASTCompiler) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	panic(UnsupportedError{Construct: "a function declaration"})
}

// VisitClassStmt rejects class declarations; the tree evaluator is the
// back-end for programs using them.
func (ac *ASTCompiler) VisitClassStmt(stmt ast.ClassStmt) any {
	panic(UnsupportedError{Construct: "a class declaration"})
}

// emitConstant appends a value to the constant pool and emits the
// instruction pushing it: OP_CONSTANT for the first 256 pool entries,
// OP_CONSTANT_LONG with a 3-byte index beyond that.
func (ac *ASTCompiler) emitConstant(value any) {
	index := ac.chunk.AddConstant(value)
	if index <= 0xff {
		ac.emit(OP_CONSTANT, index)
		return
	}
	ac.emit(OP_CONSTANT_LONG, index)
}

// emit constructs a bytecode instruction and appends it to the chunk,
// recording the compiler's current source span for every emitted byte.
func (ac *ASTCompiler) emit(opcode Opcode, operands ...int) {
	instruction, err := AssembleInstruction(opcode, operands...)
	if err != nil {
		// The error returned here is of type `DeveloperError` which would
		// only be raised during development of the compiler itself.
		panic(err)
	}
	for _, b := range instruction {
		ac.chunk.write(b, ac.currentSpan)
	}
}

// emitPlaceholderJump emits the given jump opcode with a placeholder
// 16-bit operand and returns the offset of the operand so it can be
// patched once the jump target is known.
func (ac *ASTCompiler) emitPlaceholderJump(opcode Opcode) int {
	ac.emit(opcode, 0xffff)
	return len(ac.chunk.Code) - 2
}

// patchJump back-patches the 16-bit operand at the given offset with the
// distance from the end of the jump instruction to the current end of
// the chunk.
func (ac *ASTCompiler) patchJump(operandOffset int) {
	distance := len(ac.chunk.Code) - (operandOffset + 2)
	if distance > 0xffff {
		panic(SemanticError{Message: "too much code to jump over"})
	}
	ac.chunk.Code[operandOffset] = byte(distance >> 8)
	ac.chunk.Code[operandOffset+1] = byte(distance)
}

// emitLoop emits a backward jump to the given chunk offset. The operand
// counts from the end of the OP_LOOP instruction, hence the +3.
func (ac *ASTCompiler) emitLoop(loopStart int) {
	offset := len(ac.chunk.Code) + 3 - loopStart
	if offset > 0xffff {
		panic(SemanticError{Message: "loop body too large"})
	}
	ac.emit(OP_LOOP, offset)
}

func (ac *ASTCompiler) beginScope() {
	ac.scopeDepth++
}

// endScope closes the current scope and emits one OP_POP per local
// declared in it so the operand stack stays aligned with the locals
// stack.
func (ac *ASTCompiler) endScope() {
	ac.scopeDepth--
	for len(ac.locals) > 0 && ac.locals[len(ac.locals)-1].depth > ac.scopeDepth {
		ac.emit(OP_POP)
		ac.locals = ac.locals[:len(ac.locals)-1]
	}
}

// discardLocals emits an OP_POP for every local deeper than the given
// scope depth without removing them from the compiler's locals stack.
// Used by break/continue, which leave the scope at runtime while the
// compiler keeps processing the rest of the block.
func (ac *ASTCompiler) discardLocals(depth int) {
	for i := len(ac.locals) - 1; i >= 0 && ac.locals[i].depth > depth; i-- {
		ac.emit(OP_POP)
	}
}

// declareLocal records a new local at the current depth. Colliding with
// another local at the same depth is a compile error.
func (ac *ASTCompiler) declareLocal(name string) {
	for i := len(ac.locals) - 1; i >= 0; i-- {
		local := ac.locals[i]
		if local.depth < ac.scopeDepth {
			break
		}
		if local.name == name {
			panic(VariableAlreadyDefinedError{Name: name})
		}
	}
	ac.locals = append(ac.locals, Local{
		name:        name,
		depth:       ac.scopeDepth,
		initialized: false,
	})
}

// defineLocal marks the most recently declared local as initialized.
func (ac *ASTCompiler) defineLocal() {
	ac.locals[len(ac.locals)-1].initialized = true
}

// resolveLocal walks the locals stack innermost-to-outermost. It returns
// the slot index of the named local, or -1 when the name does not
// resolve locally and must be treated as a global.
func (ac *ASTCompiler) resolveLocal(name string) int {
	for i := len(ac.locals) - 1; i >= 0; i-- {
		if ac.locals[i].name == name {
			if !ac.locals[i].initialized {
				panic(VariableNotDefinedError{Name: name})
			}
			return i
		}
	}
	return -1
}

// DiassembleBytecode disassembles the compiled bytecode to a human readable format
// and optionally saves it to disk.
// It returns the disassembled bytecode as a string or an error if the file could not be created.
func (ac *ASTCompiler) DiassembleBytecode(saveToDisk bool, filePath string) (string, error) {
	diassembled, err := ac.chunk.Diassemble()
	if err != nil {
		return "", err
	}

	if saveToDisk {
		if filePath == "" {
			filePath = "bytecode.dlmc"
		} else {
			filePath = filePath + ".dlmc"
		}
		fDescriptor, err := os.Create(filePath)
		if err != nil {
			return "", fmt.Errorf("error creating diassembled bytecode file: %s", err.Error())
		}
		defer fDescriptor.Close()
		fDescriptor.WriteString(diassembled)
	}
	return diassembled, nil
}

// DumpBytecode writes the compiled bytecode to a file with a `.lmc`
// extension. The bytecode is encoded as hexadecimal so it can be viewed
// in a text editor.
func (ac *ASTCompiler) DumpBytecode(filePath string) error {
	return ac.chunk.DumpBytecode(filePath)
}
