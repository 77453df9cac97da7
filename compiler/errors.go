package compiler

import "fmt"

type SemanticError struct {
	Message string
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("💥 SemanticError: %s", e.Message)
}

type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}

// LiteralToValueError reports a literal that has no compile-time
// representation in the VM's value set.
type LiteralToValueError struct {
	Value any
}

func (e LiteralToValueError) Error() string {
	return fmt.Sprintf("💥 LiteralToValueError: literal %v cannot be represented as a runtime value", e.Value)
}

// VariableAlreadyDefinedError reports a local variable colliding with
// another local at the same scope depth.
type VariableAlreadyDefinedError struct {
	Name string
}

func (e VariableAlreadyDefinedError) Error() string {
	return fmt.Sprintf("💥 VariableAlreadyDefinedError: variable '%s' is already defined in this scope", e.Name)
}

// VariableNotDefinedError reports a local variable read before its
// initializer has completed.
type VariableNotDefinedError struct {
	Name string
}

func (e VariableNotDefinedError) Error() string {
	return fmt.Sprintf("💥 VariableNotDefinedError: can't read local variable '%s' in its own initializer", e.Name)
}

// UnsupportedError reports a language construct the bytecode back-end
// does not compile. The tree evaluator remains the back-end for these.
type UnsupportedError struct {
	Construct string
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("💥 UnsupportedError: %s is not supported by the bytecode back-end", e.Construct)
}
