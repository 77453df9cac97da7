package interpreter

import "fmt"

// Stringify renders a runtime value the way `print` displays it:
// numbers drop a trailing ".0", nil prints as the keyword, callables and
// instances use their printable form.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsTruthy implements the language's truthiness rule: false and nil are
// falsy, every other value is truthy — including the number zero and the
// empty string.
func IsTruthy(value any) bool {
	if value == nil {
		return false
	}
	if boolean, isBool := value.(bool); isBool {
		return boolean
	}
	return true
}
