package vm

import (
	"fmt"
	"io"
	"lumen/compiler"
	"os"
)

// Represents a stack based virtual-machine (VM).
// It is the runtime environment where Lumen bytecode gets executed.
//
// The VM owns an instruction pointer into the chunk's code array, the
// operand stack and the globals map. It is strictly single-threaded and
// not reentrant. The instruction pointer deliberately survives across
// Run calls: the compiled REPL grows one chunk across submissions and
// resumes execution where the previous OP_RETURN stopped it.
type VM struct {
	chunk *compiler.Chunk
	ip    int
	stack Stack

	// Global variable bindings, keyed by the interned names the chunk's
	// global opcodes refer to by index.
	globals map[string]any

	// When set, every executed instruction is disassembled to Output.
	debug bool

	// Where OP_PRINT and debug traces write. Defaults to standard
	// output; tests substitute a buffer.
	Output io.Writer
}

// New creates a new VM instance with an empty globals map.
func New() *VM {
	return &VM{
		globals: make(map[string]any),
		Output:  os.Stdout,
	}
}

// SetDebug toggles per-instruction disassembly during Run.
func (vm *VM) SetDebug(debug bool) {
	vm.debug = debug
}

// Run executes the provided chunk on the virtual machine (VM).
//
// It fetches and decodes each instruction starting at the VM's current
// instruction pointer (ip), processes the instruction based on its opcode,
// and modifies the VM's state accordingly (e.g. pushing constants onto the
// stack).
//
// Execution terminates normally when an OP_RETURN opcode is encountered.
// The instruction pointer is left pointing at the OP_RETURN so a later
// Run on a grown chunk resumes with the code that replaced it.
//
// Parameters:
//   - chunk: The compiled chunk to execute.
//
// Returns:
//   - error: Any error encountered during execution, including invalid
//     opcodes and operand-stack underflow.
func (vm *VM) Run(chunk *compiler.Chunk) error {
	vm.chunk = chunk

	for {
		if vm.ip >= len(chunk.Code) {
			return vm.runtimeError(vm.ip, "instruction pointer ran past the end of the chunk")
		}

		opcodeOffset := vm.ip
		opcode := compiler.Opcode(chunk.Code[vm.ip])
		vm.ip++

		if vm.debug {
			vm.trace(opcodeOffset)
		}

		switch opcode {
		case compiler.OP_RETURN:
			vm.ip = opcodeOffset
			return nil

		case compiler.OP_CONSTANT:
			index := vm.readOperand(1)
			vm.stack.Push(chunk.Constants[index])

		case compiler.OP_CONSTANT_LONG:
			index := vm.readOperand(3)
			vm.stack.Push(chunk.Constants[index])

		case compiler.OP_NIL:
			vm.stack.Push(nil)

		case compiler.OP_TRUE:
			vm.stack.Push(true)

		case compiler.OP_FALSE:
			vm.stack.Push(false)

		case compiler.OP_POP:
			if _, ok := vm.stack.Pop(); !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}

		case compiler.OP_PRINT:
			value, ok := vm.stack.Pop()
			if !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}
			fmt.Fprintln(vm.Output, stringify(value))

		case compiler.OP_DEFINE_GLOBAL:
			name := chunk.NameConstants[vm.readOperand(4)]
			if _, exists := vm.globals[name]; exists {
				return vm.runtimeError(opcodeOffset, fmt.Sprintf("Global variable '%s' is already defined.", name))
			}
			value, ok := vm.stack.Peek()
			if !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}
			vm.globals[name] = value

		case compiler.OP_GET_GLOBAL:
			name := chunk.NameConstants[vm.readOperand(4)]
			value, exists := vm.globals[name]
			if !exists {
				return vm.runtimeError(opcodeOffset, fmt.Sprintf("Undefined variable '%s'.", name))
			}
			vm.stack.Push(value)

		case compiler.OP_SET_GLOBAL:
			name := chunk.NameConstants[vm.readOperand(4)]
			if _, exists := vm.globals[name]; !exists {
				return vm.runtimeError(opcodeOffset, fmt.Sprintf("Undefined variable '%s'.", name))
			}
			value, ok := vm.stack.Peek()
			if !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}
			vm.globals[name] = value

		case compiler.OP_GET_LOCAL:
			slot := vm.readOperand(1)
			value, ok := vm.stack.At(slot)
			if !ok {
				return vm.runtimeError(opcodeOffset, fmt.Sprintf("invalid local slot %d", slot))
			}
			vm.stack.Push(value)

		case compiler.OP_SET_LOCAL:
			slot := vm.readOperand(1)
			value, ok := vm.stack.Peek()
			if !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}
			if !vm.stack.SetAt(slot, value) {
				return vm.runtimeError(opcodeOffset, fmt.Sprintf("invalid local slot %d", slot))
			}

		case compiler.OP_NEGATE:
			value, ok := vm.stack.Pop()
			if !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}
			number, isNumber := value.(float64)
			if !isNumber {
				return vm.runtimeError(opcodeOffset, "Operand must be a number.")
			}
			vm.stack.Push(-number)

		case compiler.OP_NOT:
			value, ok := vm.stack.Pop()
			if !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}
			vm.stack.Push(!isTruthy(value))

		case compiler.OP_EQUAL:
			right, left, err := vm.popPair(opcodeOffset)
			if err != nil {
				return err
			}
			vm.stack.Push(left == right)

		case compiler.OP_LESS:
			leftNumber, rightNumber, err := vm.popNumberPair(opcodeOffset)
			if err != nil {
				return err
			}
			vm.stack.Push(leftNumber < rightNumber)

		case compiler.OP_GREATER:
			leftNumber, rightNumber, err := vm.popNumberPair(opcodeOffset)
			if err != nil {
				return err
			}
			vm.stack.Push(leftNumber > rightNumber)

		case compiler.OP_ADD:
			right, left, err := vm.popPair(opcodeOffset)
			if err != nil {
				return err
			}
			leftNumber, leftIsNumber := left.(float64)
			rightNumber, rightIsNumber := right.(float64)
			if leftIsNumber && rightIsNumber {
				vm.stack.Push(leftNumber + rightNumber)
				break
			}
			_, leftIsString := left.(string)
			_, rightIsString := right.(string)
			if leftIsString || rightIsString {
				vm.stack.Push(stringify(left) + stringify(right))
				break
			}
			return vm.runtimeError(opcodeOffset, "Operands must be two numbers or two strings.")

		case compiler.OP_SUBTRACT:
			leftNumber, rightNumber, err := vm.popNumberPair(opcodeOffset)
			if err != nil {
				return err
			}
			vm.stack.Push(leftNumber - rightNumber)

		case compiler.OP_MULTIPLY:
			leftNumber, rightNumber, err := vm.popNumberPair(opcodeOffset)
			if err != nil {
				return err
			}
			vm.stack.Push(leftNumber * rightNumber)

		case compiler.OP_DIVIDE:
			leftNumber, rightNumber, err := vm.popNumberPair(opcodeOffset)
			if err != nil {
				return err
			}
			vm.stack.Push(leftNumber / rightNumber)

		case compiler.OP_JUMP:
			offset := vm.readOperand(2)
			vm.ip += offset

		case compiler.OP_JUMP_IF_FALSE:
			offset := vm.readOperand(2)
			value, ok := vm.stack.Peek()
			if !ok {
				return vm.runtimeError(opcodeOffset, "operand stack underflow")
			}
			if !isTruthy(value) {
				vm.ip += offset
			}

		case compiler.OP_LOOP:
			offset := vm.readOperand(2)
			vm.ip -= offset

		default:
			return vm.runtimeError(opcodeOffset, fmt.Sprintf("invalid instruction %d", opcode))
		}
	}
}

// readOperand decodes an operand of the given width at the instruction
// pointer and advances past it.
func (vm *VM) readOperand(width int) int {
	operand := compiler.ReadOperand(vm.chunk.Code, vm.ip, width)
	vm.ip += width
	return operand
}

// popPair pops the two topmost values. The top of the stack is the
// right-hand operand.
func (vm *VM) popPair(opcodeOffset int) (right any, left any, err error) {
	right, ok := vm.stack.Pop()
	if !ok {
		return nil, nil, vm.runtimeError(opcodeOffset, "operand stack underflow")
	}
	left, ok = vm.stack.Pop()
	if !ok {
		return nil, nil, vm.runtimeError(opcodeOffset, "operand stack underflow")
	}
	return right, left, nil
}

// popNumberPair pops the two topmost values and requires both to be
// numbers, returning them in left-to-right order.
func (vm *VM) popNumberPair(opcodeOffset int) (float64, float64, error) {
	right, left, err := vm.popPair(opcodeOffset)
	if err != nil {
		return 0, 0, err
	}
	leftNumber, leftIsNumber := left.(float64)
	rightNumber, rightIsNumber := right.(float64)
	if !leftIsNumber || !rightIsNumber {
		return 0, 0, vm.runtimeError(opcodeOffset, "Operands must be numbers.")
	}
	return leftNumber, rightNumber, nil
}

// runtimeError builds a RuntimeError attributed to the source range the
// line table records for the failing instruction.
func (vm *VM) runtimeError(opcodeOffset int, message string) error {
	return RuntimeError{
		Span:    vm.chunk.LineAt(opcodeOffset),
		Message: message,
	}
}

// trace disassembles the instruction at the given offset to the VM's
// output, together with the current stack contents.
func (vm *VM) trace(opcodeOffset int) {
	opcode := compiler.Opcode(vm.chunk.Code[opcodeOffset])
	def, err := compiler.Get(opcode)
	if err != nil {
		return
	}
	instructionLength := 1
	for _, width := range def.OperandWidths {
		instructionLength += width
	}
	rendered, err := compiler.DiassembleInstruction(vm.chunk.Code[opcodeOffset : opcodeOffset+instructionLength])
	if err != nil {
		return
	}
	fmt.Fprintf(vm.Output, "%04d %s, stack: %v\n", opcodeOffset, rendered, []any(vm.stack))
}

// stringify renders a runtime value the way OP_PRINT displays it. The
// VM's value set is the literal subset: numbers, strings, booleans and
// nil.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// isTruthy implements the language's truthiness rule: false and nil are
// falsy, every other value is truthy.
func isTruthy(value any) bool {
	if value == nil {
		return false
	}
	if boolean, isBool := value.(bool); isBool {
		return boolean
	}
	return true
}
