package compiler

import (
	"encoding/binary"
	"fmt"
)

type Opcode byte

// opcodes
// iota generates a distinct byte for each opcode
const (
	// halts execution successfully. Always the last instruction of a chunk.
	OP_RETURN Opcode = iota

	// pushes a constant-pool entry. The single operand is a 1-byte pool
	// index, which restricts it to the first 256 constants; larger
	// indices use OP_CONSTANT_LONG with a 3-byte big-endian operand.
	OP_CONSTANT
	OP_CONSTANT_LONG

	// push the corresponding literal without touching the constant pool.
	OP_NIL
	OP_TRUE
	OP_FALSE

	// discards the top of the operand stack.
	OP_POP

	// pops the top of the stack and writes it to standard output.
	OP_PRINT

	// globals. Each carries a 4-byte big-endian index into the chunk's
	// name-constant table. DEFINE and SET copy the top of the stack into
	// the globals map without popping it.
	OP_DEFINE_GLOBAL
	OP_GET_GLOBAL
	OP_SET_GLOBAL

	// locals. The operand is the 1-byte stack slot the local lives at.
	OP_GET_LOCAL
	OP_SET_LOCAL

	OP_NEGATE
	OP_NOT
	OP_EQUAL
	OP_LESS
	OP_GREATER
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE

	// control flow. Each carries a 2-byte big-endian offset: OP_JUMP and
	// OP_JUMP_IF_FALSE advance the instruction pointer, OP_LOOP rewinds it.
	OP_JUMP
	OP_JUMP_IF_FALSE
	OP_LOOP
)

// Represents a definition of an opcode.
// Fields:
//   - Name: The human-readable name for the opcode e.g "OP_CONSTANT"
//   - OperandWidths: The number of bytes each operand takes up.
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*OpCodeDefinition{
	OP_RETURN:        {Name: "OP_RETURN", OperandWidths: []int{}},
	OP_CONSTANT:      {Name: "OP_CONSTANT", OperandWidths: []int{1}},
	OP_CONSTANT_LONG: {Name: "OP_CONSTANT_LONG", OperandWidths: []int{3}},
	OP_NIL:           {Name: "OP_NIL", OperandWidths: []int{}},
	OP_TRUE:          {Name: "OP_TRUE", OperandWidths: []int{}},
	OP_FALSE:         {Name: "OP_FALSE", OperandWidths: []int{}},
	OP_POP:           {Name: "OP_POP", OperandWidths: []int{}},
	OP_PRINT:         {Name: "OP_PRINT", OperandWidths: []int{}},
	OP_DEFINE_GLOBAL: {Name: "OP_DEFINE_GLOBAL", OperandWidths: []int{4}},
	OP_GET_GLOBAL:    {Name: "OP_GET_GLOBAL", OperandWidths: []int{4}},
	OP_SET_GLOBAL:    {Name: "OP_SET_GLOBAL", OperandWidths: []int{4}},
	OP_GET_LOCAL:     {Name: "OP_GET_LOCAL", OperandWidths: []int{1}},
	OP_SET_LOCAL:     {Name: "OP_SET_LOCAL", OperandWidths: []int{1}},
	OP_NEGATE:        {Name: "OP_NEGATE", OperandWidths: []int{}},
	OP_NOT:           {Name: "OP_NOT", OperandWidths: []int{}},
	OP_EQUAL:         {Name: "OP_EQUAL", OperandWidths: []int{}},
	OP_LESS:          {Name: "OP_LESS", OperandWidths: []int{}},
	OP_GREATER:       {Name: "OP_GREATER", OperandWidths: []int{}},
	OP_ADD:           {Name: "OP_ADD", OperandWidths: []int{}},
	OP_SUBTRACT:      {Name: "OP_SUBTRACT", OperandWidths: []int{}},
	OP_MULTIPLY:      {Name: "OP_MULTIPLY", OperandWidths: []int{}},
	OP_DIVIDE:        {Name: "OP_DIVIDE", OperandWidths: []int{}},
	OP_JUMP:          {Name: "OP_JUMP", OperandWidths: []int{2}},
	OP_JUMP_IF_FALSE: {Name: "OP_JUMP_IF_FALSE", OperandWidths: []int{2}},
	OP_LOOP:          {Name: "OP_LOOP", OperandWidths: []int{2}},
}

func Get(op Opcode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode: '%d' undefined", op)
	}
	return def, nil
}

// AssembleInstruction constructs a bytecode instruction from an opcode and
// its operands. Operands are encoded in Big-Endian order.
//
// The resulting byte slice always begins with the opcode, followed by each
// operand encoded according to its defined width in Big-Endian order. This
// means that a `uint16` operand will be encoded with the most significant
// byte first, followed by the least significant byte.
// For example, the OP_JUMP instruction with operand 65000 encodes as
// [opcode, 253, 232].
//
// Parameters:
//   - op: The opcode representing the instruction to encode.
//   - operands: A variadic list of integers providing the operand values
//     corresponding to the opcode's expected operand widths.
//
// Returns:
//   - A byte slice containing the encoded instruction.
//   - A DeveloperError if the opcode is unknown or an operand does not
//     fit its defined width.
func AssembleInstruction(op Opcode, operands ...int) ([]byte, error) {
	def, err := Get(op)
	if err != nil {
		return nil, DeveloperError{Message: err.Error()}
	}
	if len(operands) != len(def.OperandWidths) {
		message := fmt.Sprintf("%s expects %d operands, got %d", def.Name, len(def.OperandWidths), len(operands))
		return nil, DeveloperError{Message: message}
	}

	instructionLength := 1 // starts at one for the opcode
	for _, width := range def.OperandWidths {
		instructionLength += width
	}

	instruction := make([]byte, instructionLength)

	// The first byte of the instruction will be the opcode
	instruction[0] = byte(op)

	byteOffset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 1:
			if operand > 0xff {
				message := fmt.Sprintf("%s operand %d does not fit in one byte", def.Name, operand)
				return nil, DeveloperError{Message: message}
			}
			instruction[byteOffset] = byte(operand)
		case 2:
			binary.BigEndian.PutUint16(instruction[byteOffset:], uint16(operand))
		case 3:
			instruction[byteOffset] = byte(operand >> 16)
			instruction[byteOffset+1] = byte(operand >> 8)
			instruction[byteOffset+2] = byte(operand)
		case 4:
			binary.BigEndian.PutUint32(instruction[byteOffset:], uint32(operand))
		}
		byteOffset += width
	}
	return instruction, nil
}

// ReadOperand decodes the operand of the given width starting at `code[offset]`.
func ReadOperand(code []byte, offset int, width int) int {
	switch width {
	case 1:
		return int(code[offset])
	case 2:
		return int(binary.BigEndian.Uint16(code[offset : offset+2]))
	case 3:
		return int(code[offset])<<16 | int(code[offset+1])<<8 | int(code[offset+2])
	case 4:
		return int(binary.BigEndian.Uint32(code[offset : offset+4]))
	default:
		return 0
	}
}
