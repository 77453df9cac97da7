package compiler

import (
	"fmt"
	"lumen/token"
	"os"
	"strings"
)

// Chunk is the unit of compiled code handed to the VM: the instruction
// bytes, the constant pool, a line table carrying one source range per
// code byte, and the name-constant table that global-variable opcodes
// index into.
//
// Fields:
//   - Code: The instruction stream, opcodes and their inline operands.
//   - Constants: All constant values referenced from the code. Append-only
//     within a single compilation.
//   - Lines: One source range per byte of Code, always kept the same
//     length as Code so runtime errors can be attributed to source.
//   - NameConstants: The interned global-variable names. Instruction
//     operands refer to names by index into this table, never by value.
type Chunk struct {
	Code          []byte
	Constants     []any
	Lines         []token.Range
	NameConstants []string
}

func NewChunk() *Chunk {
	return &Chunk{
		Code:          []byte{},
		Constants:     []any{},
		Lines:         []token.Range{},
		NameConstants: []string{},
	}
}

// write appends a single byte together with its source range. All code
// emission funnels through here, which is what keeps the Code and Lines
// arrays the same length.
func (c *Chunk) write(b byte, span token.Range) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, span)
}

// AddConstant appends a value to the constant pool and returns its index.
func (c *Chunk) AddConstant(value any) int {
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

// InternName returns the index of the given name in the name-constant
// table, adding it if not present. Interning the same name twice yields
// the same index, so every global opcode referring to a name shares one
// table entry.
func (c *Chunk) InternName(name string) int {
	for i, existing := range c.NameConstants {
		if existing == name {
			return i
		}
	}
	c.NameConstants = append(c.NameConstants, name)
	return len(c.NameConstants) - 1
}

// LineAt returns the source range recorded for the code byte at the
// given offset.
func (c *Chunk) LineAt(offset int) token.Range {
	if offset < 0 || offset >= len(c.Lines) {
		return token.Range{}
	}
	return c.Lines[offset]
}

// DiassembleInstruction renders one instruction in a human readable
// format. The instruction slice must contain the opcode byte and all of
// its operand bytes.
func DiassembleInstruction(instruction []byte) (string, error) {
	opcode := Opcode(instruction[0])
	def, err := Get(opcode)
	if err != nil {
		return "", DeveloperError{Message: err.Error()}
	}

	if len(def.OperandWidths) == 0 {
		return fmt.Sprintf("opcode: %s, operand: None, operand widths: 0 bytes", def.Name), nil
	}

	width := def.OperandWidths[0]
	operand := ReadOperand(instruction, 1, width)
	return fmt.Sprintf("opcode: %s, operand: %d, operand widths: %d bytes", def.Name, operand, width), nil
}

// Diassemble renders the whole chunk in a human readable format, one
// instruction per line. Constant and global-name operands are annotated
// with the value they refer to.
func (c *Chunk) Diassemble() (string, error) {
	var builder strings.Builder
	ip := 0

	for ip < len(c.Code) {
		opcode := Opcode(c.Code[ip])
		def, err := Get(opcode)
		if err != nil {
			return "", DeveloperError{Message: err.Error()}
		}

		instructionLength := 1
		for _, width := range def.OperandWidths {
			instructionLength += width
		}

		result, err := DiassembleInstruction(c.Code[ip : ip+instructionLength])
		if err != nil {
			return "", err
		}
		builder.WriteString(result)

		switch opcode {
		case OP_CONSTANT, OP_CONSTANT_LONG:
			index := ReadOperand(c.Code, ip+1, def.OperandWidths[0])
			builder.WriteString(fmt.Sprintf(", value: %v", c.Constants[index]))
		case OP_DEFINE_GLOBAL, OP_GET_GLOBAL, OP_SET_GLOBAL:
			index := ReadOperand(c.Code, ip+1, def.OperandWidths[0])
			builder.WriteString(fmt.Sprintf(", name: %s", c.NameConstants[index]))
		}
		builder.WriteString("\n")

		ip += instructionLength
	}
	return builder.String(), nil
}

// DumpBytecode writes the chunk's instruction stream to a file with a
// `.lmc` extension. The bytecode is encoded as hexadecimal so it can be
// viewed in a text editor.
func (c *Chunk) DumpBytecode(filePath string) error {
	if filePath == "" {
		filePath = "bytecode.lmc"
	} else {
		filePath = filePath + ".lmc"
	}
	fDescriptor, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating lumen bytecode file: %s", err.Error())
	}
	defer fDescriptor.Close()

	encoded := fmt.Sprintf("%x", c.Code)
	_, err = fDescriptor.Write([]byte(encoded))
	return err
}
