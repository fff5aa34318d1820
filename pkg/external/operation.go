package external

// Kind tags an Operation.
type Kind int

const (
	KindInit Kind = iota + 1
	KindDispose
	KindCommand
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindDispose:
		return "dispose"
	case KindCommand:
		return "command"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Operation is one entry point exposed by a package. Fn holds the Go func
// value; its shape is checked when the package is loaded:
//
//	init:     func(Engine) | func(Engine) error
//	dispose:  func() | func() error
//	command:  func([...]string) [string|error|(string, error)]
//	function: func([...]string) string | (string, error)
//
// where [...]string is either no parameter or a single []string.
type Operation struct {
	Kind  Kind
	Alias string
	Fn    any
}

// As returns a copy of o registered under alias instead of the name derived
// from the func symbol. Commands and functions built from func literals have
// no symbol name and must use As.
func (o Operation) As(alias string) Operation {
	o.Alias = alias
	return o
}

// Init marks fn as the package's init hook.
func Init(fn any) Operation { return Operation{Kind: KindInit, Fn: fn} }

// Dispose marks fn as the package's dispose hook.
func Dispose(fn any) Operation { return Operation{Kind: KindDispose, Fn: fn} }

// Command exposes fn as a command.
func Command(fn any) Operation { return Operation{Kind: KindCommand, Fn: fn} }

// Function exposes fn as a function.
func Function(fn any) Operation { return Operation{Kind: KindFunction, Fn: fn} }

// Package is a unit of operations loaded from a library.
type Package interface {
	Operations() []Operation
}

// Factory produces a fresh Package instance. It is called once per load of
// the library that declares the identifier.
type Factory func() (Package, error)
