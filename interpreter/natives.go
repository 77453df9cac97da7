// natives.go installs the native-function surface available in the
// global namespace of every interpretation.

package interpreter

import (
	"fmt"
	"os"
	"time"
)

// installNatives binds the built-in native functions into the given
// globals environment.
func installNatives(globals *Environment) {
	globals.set("clock", &NativeFunction{
		Name:        "clock",
		ArityCheck:  func(count int) bool { return true },
		ArityFormat: "any",
		Invoke: func(i *TreeWalkInterpreter, arguments []any) (any, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})

	globals.set("syscall", &NativeFunction{
		Name:        "syscall",
		ArityCheck:  func(count int) bool { return count >= 1 },
		ArityFormat: "1+",
		Invoke: func(i *TreeWalkInterpreter, arguments []any) (any, error) {
			name, ok := arguments[0].(string)
			if !ok {
				return nil, fmt.Errorf("syscall name must be a string")
			}
			switch name {
			case "exit":
				code := 0
				if len(arguments) > 1 {
					if number, ok := arguments[1].(float64); ok {
						code = int(number)
					}
				}
				os.Exit(code)
				return nil, nil
			default:
				return nil, fmt.Errorf("unknown syscall '%s'", name)
			}
		},
	})
}
