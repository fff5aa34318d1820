package xlib

import (
	"time"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

// ParamKind is the parameter arity of an operation.
type ParamKind int

const (
	ParamsNone ParamKind = iota
	ParamsArray
)

func (k ParamKind) String() string {
	if k == ParamsArray {
		return "array"
	}
	return "none"
}

// ReturnKind is the result shape of a command.
type ReturnKind int

const (
	ReturnVoid ReturnKind = iota
	ReturnString
)

func (k ReturnKind) String() string {
	if k == ReturnString {
		return "string"
	}
	return "void"
}

// Invoker is the marshalled form of an operation. args is nil for
// operations that take no parameters.
type Invoker func(args []string) (string, error)

// Command is a named operation whose result may be void.
type Command struct {
	Name    string
	Package string
	Params  ParamKind
	Returns ReturnKind
	call    Invoker
}

// NewCommand binds call as a command.
func NewCommand(name, pkg string, params ParamKind, returns ReturnKind, call Invoker) *Command {
	return &Command{Name: name, Package: pkg, Params: params, Returns: returns, call: call}
}

// Invoke runs the command. Void commands always yield "".
func (c *Command) Invoke(args []string) (string, error) {
	out, err := invoke(external.KindCommand, c.Name, c.Params, c.call, args)
	if err != nil {
		return "", err
	}
	if c.Returns == ReturnVoid {
		return "", nil
	}
	return out, nil
}

// Function is a named operation that always yields a string.
type Function struct {
	Name    string
	Package string
	Params  ParamKind
	call    Invoker
}

// NewFunction binds call as a function.
func NewFunction(name, pkg string, params ParamKind, call Invoker) *Function {
	return &Function{Name: name, Package: pkg, Params: params, call: call}
}

// Invoke runs the function.
func (f *Function) Invoke(args []string) (string, error) {
	return invoke(external.KindFunction, f.Name, f.Params, f.call, args)
}

// Package is a validated package instance.
type Package struct {
	Identifier string
	Object     external.Package
	Init       func(external.Engine) error
	Dispose    func() error
	Commands   []*Command
	Functions  []*Function
}

// RunDispose calls the dispose hook if there is one. A panic in the hook is
// returned as an error.
func (p *Package) RunDispose() error {
	if p.Dispose == nil {
		return nil
	}
	return Guard(p.Dispose)
}

// CodeSource resolves package identifiers for one bundle and owns whatever
// runtime state those packages live in. It is released when the bundle is
// unloaded.
type CodeSource interface {
	ID() string
	Resolve(identifier string) (external.Package, error)
	Close() error
}

// Bundle is a loaded library.
type Bundle struct {
	Name     string
	Path     string
	Packages []*Package
	Source   CodeSource
	LoadedAt time.Time
	// Checksum is the archive digest ("sha256:<hex>"), empty if it could
	// not be computed.
	Checksum string
}

// CommandCount returns the number of commands across all packages.
func (b *Bundle) CommandCount() int {
	n := 0
	for _, p := range b.Packages {
		n += len(p.Commands)
	}
	return n
}

// FunctionCount returns the number of functions across all packages.
func (b *Bundle) FunctionCount() int {
	n := 0
	for _, p := range b.Packages {
		n += len(p.Functions)
	}
	return n
}
