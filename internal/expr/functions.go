package expr

import "sort"

// builtins lists the unary functions the template language understands.
var builtins = map[string]struct{}{
	"log":    {},
	"log10":  {},
	"log2":   {},
	"exp":    {},
	"abs":    {},
	"sqrt":   {},
	"sin":    {},
	"cos":    {},
	"tan":    {},
	"sinh":   {},
	"cosh":   {},
	"tanh":   {},
	"square": {},
	"cube":   {},
	"inv":    {},
	"sign":   {},
}

// IsBuiltin reports whether name is a built-in unary function.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Builtins returns the built-in function names in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
