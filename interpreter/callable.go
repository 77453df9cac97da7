// callable.go defines the runtime values that can appear on the left of a
// call expression: user-declared functions, native (Go) functions and
// classes used as constructors, plus the instances classes produce.

package interpreter

import (
	"fmt"
	"lumen/ast"
	"lumen/token"
	"strconv"
)

// Callable is the protocol shared by everything that can be invoked. The
// interpreter evaluates the callee and the arguments, checks the arity
// via CheckArity and then hands control to Call. Arity returns a
// printable description of the accepted argument count for error
// messages, String a printable form of the callable itself.
type Callable interface {
	CheckArity(count int) bool
	Call(i *TreeWalkInterpreter, arguments []any) (any, error)
	Arity() string
	String() string
}

// Function is a user-declared function or method: the declaration that
// produced it plus the environment that was current at declaration time.
// The captured environment is what makes closures work — the function
// body resolves free variables through it no matter where the call
// happens.
type Function struct {
	Declaration ast.FunctionStmt
	Closure     *Environment
}

func (f *Function) CheckArity(count int) bool {
	return count == len(f.Declaration.Parameters)
}

func (f *Function) Arity() string {
	return strconv.Itoa(len(f.Declaration.Parameters))
}

// Call executes the function body in a fresh environment nested inside
// the closure, with the parameters bound to the argument values. The
// interpreter's control-flow flags are saved and restored around the
// call so a return inside the body never leaks into the caller's frame.
func (f *Function) Call(i *TreeWalkInterpreter, arguments []any) (any, error) {
	environment := MakeNestedEnvironment(f.Closure)
	for index, parameter := range f.Declaration.Parameters {
		environment.set(parameter.Lexeme, arguments[index])
	}

	previousEnvironment := i.environment
	previousBreak := i.breakFlag
	previousContinue := i.continueFlag
	previousReturn := i.hasReturn
	previousValue := i.returnValue

	i.environment = environment
	i.breakFlag = false
	i.continueFlag = false
	i.hasReturn = false
	i.returnValue = nil

	defer func() {
		i.environment = previousEnvironment
		i.breakFlag = previousBreak
		i.continueFlag = previousContinue
		i.hasReturn = previousReturn
		i.returnValue = previousValue
	}()

	i.executeStatements(f.Declaration.Body)
	return i.returnValue, nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

// NativeFunction wraps a Go function as a language callable. The arity
// predicate is a function rather than a count because the natives accept
// open-ended argument ranges.
type NativeFunction struct {
	Name        string
	ArityCheck  func(count int) bool
	ArityFormat string
	Invoke      func(i *TreeWalkInterpreter, arguments []any) (any, error)
}

func (n *NativeFunction) CheckArity(count int) bool {
	return n.ArityCheck(count)
}

func (n *NativeFunction) Arity() string {
	return n.ArityFormat
}

func (n *NativeFunction) Call(i *TreeWalkInterpreter, arguments []any) (any, error) {
	return n.Invoke(i, arguments)
}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}

// Class is a class value. Calling a class constructs an instance of it.
//
// The method map is created empty at declaration time and never filled
// from the parsed method declarations; see DESIGN.md for why this gap is
// preserved. Constructing therefore always takes the zero-argument path.
type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) CheckArity(count int) bool {
	return count == 0
}

func (c *Class) Arity() string {
	return "0"
}

func (c *Class) Call(i *TreeWalkInterpreter, arguments []any) (any, error) {
	return &Instance{
		Class:  c,
		Fields: make(map[string]any),
	}, nil
}

// FindMethod looks a method up by name, returning nil when absent.
func (c *Class) FindMethod(name string) *Function {
	return c.Methods[name]
}

func (c *Class) String() string {
	return c.Name
}

// Instance is an object produced by calling a class. Fields live in a
// mutable per-instance map; methods are looked up through the class.
type Instance struct {
	Class  *Class
	Fields map[string]any
}

// Get resolves a property read: methods on the class take precedence
// over fields on the instance.
func (inst *Instance) Get(name token.Token) (any, error) {
	if method := inst.Class.FindMethod(name.Lexeme); method != nil {
		return method, nil
	}
	if value, ok := inst.Fields[name.Lexeme]; ok {
		return value, nil
	}
	msg := fmt.Sprintf("Undefined property '%s'.", name.Lexeme)
	return nil, CreateRuntimeError(name.Line, name.Column, msg)
}

// Set inserts or overwrites the named field with the given value.
func (inst *Instance) Set(name token.Token, value any) {
	inst.Fields[name.Lexeme] = value
}

func (inst *Instance) String() string {
	return fmt.Sprintf("%s instance", inst.Class.Name)
}
