package compiler

import (
	"testing"
)

func TestAssembleInstruction(t *testing.T) {
	tests := []struct {
		name     string
		opcode   Opcode
		operands []int
		expected []byte
	}{
		{
			name:     "no operands",
			opcode:   OP_ADD,
			operands: []int{},
			expected: []byte{byte(OP_ADD)},
		},
		{
			name:     "one byte operand",
			opcode:   OP_CONSTANT,
			operands: []int{42},
			expected: []byte{byte(OP_CONSTANT), 42},
		},
		{
			name:     "two byte big-endian operand",
			opcode:   OP_JUMP,
			operands: []int{65000},
			expected: []byte{byte(OP_JUMP), 253, 232},
		},
		{
			name:     "three byte big-endian operand",
			opcode:   OP_CONSTANT_LONG,
			operands: []int{65793}, // 0x010101
			expected: []byte{byte(OP_CONSTANT_LONG), 1, 1, 1},
		},
		{
			name:     "four byte big-endian operand",
			opcode:   OP_GET_GLOBAL,
			operands: []int{16909060}, // 0x01020304
			expected: []byte{byte(OP_GET_GLOBAL), 1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instruction, err := AssembleInstruction(tt.opcode, tt.operands...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(instruction) != len(tt.expected) {
				t.Fatalf("wrong length - want: %d, got: %d", len(tt.expected), len(instruction))
			}
			for i, b := range tt.expected {
				if instruction[i] != b {
					t.Errorf("wrong byte at index %d - want: %d, got: %d", i, b, instruction[i])
				}
			}
		})
	}
}

func TestAssembleInstructionRejectsWrongOperandCount(t *testing.T) {
	_, err := AssembleInstruction(OP_CONSTANT)
	if err == nil {
		t.Fatalf("expected an error for a missing operand")
	}
	if _, ok := err.(DeveloperError); !ok {
		t.Errorf("expected DeveloperError, got %T", err)
	}
}

func TestReadOperandRoundTrip(t *testing.T) {
	tests := []struct {
		opcode  Opcode
		operand int
		width   int
	}{
		{opcode: OP_CONSTANT, operand: 200, width: 1},
		{opcode: OP_JUMP, operand: 513, width: 2},
		{opcode: OP_CONSTANT_LONG, operand: 70000, width: 3},
		{opcode: OP_DEFINE_GLOBAL, operand: 1 << 20, width: 4},
	}

	for _, tt := range tests {
		instruction, err := AssembleInstruction(tt.opcode, tt.operand)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := ReadOperand(instruction, 1, tt.width); got != tt.operand {
			t.Errorf("round trip failed for %v - want: %d, got: %d", tt.opcode, tt.operand, got)
		}
	}
}

func TestDiassembleInstruction(t *testing.T) {
	tests := []struct {
		opcode   Opcode
		operands []int
		expected string
	}{
		{
			opcode:   OP_ADD,
			operands: []int{},
			expected: "opcode: OP_ADD, operand: None, operand widths: 0 bytes",
		},
		{
			opcode:   OP_CONSTANT,
			operands: []int{3},
			expected: "opcode: OP_CONSTANT, operand: 3, operand widths: 1 bytes",
		},
		{
			opcode:   OP_JUMP_IF_FALSE,
			operands: []int{7},
			expected: "opcode: OP_JUMP_IF_FALSE, operand: 7, operand widths: 2 bytes",
		},
	}

	for _, tt := range tests {
		instruction, err := AssembleInstruction(tt.opcode, tt.operands...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result, err := DiassembleInstruction(instruction)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != tt.expected {
			t.Errorf("want: %q, got: %q", tt.expected, result)
		}
	}
}

func TestInternNameDeduplicates(t *testing.T) {
	chunk := NewChunk()
	first := chunk.InternName("a")
	second := chunk.InternName("b")
	again := chunk.InternName("a")

	if first != again {
		t.Errorf("interning the same name twice must yield the same index - got %d and %d", first, again)
	}
	if first == second {
		t.Errorf("different names must not share an index")
	}
	if len(chunk.NameConstants) != 2 {
		t.Errorf("expected 2 interned names, got %d", len(chunk.NameConstants))
	}
}
