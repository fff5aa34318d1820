// Package introspect turns a resolved package object into a validated
// xlib.Package: it classifies every declared operation, checks its shape,
// and runs the init hook.
package introspect

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/GriffinCanCode/xhost/internal/xlib"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	stringType = reflect.TypeOf("")
	argsType   = reflect.TypeOf([]string(nil))

	namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// Compiler names for func literals: pkg.Outer.func1, pkg.Outer.func1.2,
	// pkg.glob..func1.
	closurePattern = regexp.MustCompile(`\.func\d+(\.\d+)*$`)
)

// Resolver produces the package object declared under an identifier.
type Resolver interface {
	Resolve(identifier string) (external.Package, error)
}

// Inspect resolves identifier, validates every operation of the resulting
// object and, when all of them are well-formed, runs the init hook with
// engine. Nothing about the package is observable to callers unless the
// whole sequence succeeds.
func Inspect(identifier string, r Resolver, engine external.Engine) (*xlib.Package, error) {
	obj, err := resolve(identifier, r)
	if err != nil {
		return nil, err
	}

	pkg, err := Classify(identifier, obj)
	if err != nil {
		return nil, err
	}

	if pkg.Init != nil {
		if err := xlib.Guard(func() error { return pkg.Init(engine) }); err != nil {
			return nil, fmt.Errorf("%w: %w", xlib.ErrPackageInitFailed, err)
		}
	}
	return pkg, nil
}

func resolve(identifier string, r Resolver) (obj external.Package, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			obj = nil
			err = fmt.Errorf("%w: %s: panic: %v", xlib.ErrPackageNotInstantiable, identifier, rec)
		}
	}()

	obj, err = r.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: %s: factory returned nil", xlib.ErrPackageNotInstantiable, identifier)
	}
	return obj, nil
}

// Classify validates obj's operations without running any of them.
func Classify(identifier string, obj external.Package) (*xlib.Package, error) {
	ops, err := operations(identifier, obj)
	if err != nil {
		return nil, err
	}

	pkg := &xlib.Package{Identifier: identifier, Object: obj}
	for _, op := range ops {
		switch op.Kind {
		case external.KindInit:
			if pkg.Init != nil {
				return nil, fmt.Errorf("%w: more than one init hook", xlib.ErrInvalidInitSignature)
			}
			hook, err := initHook(op.Fn)
			if err != nil {
				return nil, err
			}
			pkg.Init = hook

		case external.KindDispose:
			if pkg.Dispose != nil {
				return nil, fmt.Errorf("%w: more than one dispose hook", xlib.ErrInvalidDisposeSignature)
			}
			hook, err := disposeHook(op.Fn)
			if err != nil {
				return nil, err
			}
			pkg.Dispose = hook

		case external.KindCommand:
			cmd, err := command(identifier, op)
			if err != nil {
				return nil, err
			}
			pkg.Commands = append(pkg.Commands, cmd)

		case external.KindFunction:
			fn, err := function(identifier, op)
			if err != nil {
				return nil, err
			}
			pkg.Functions = append(pkg.Functions, fn)

		default:
			return nil, fmt.Errorf("%w: %s: unknown operation kind %d", xlib.ErrPackageNotInstantiable, identifier, op.Kind)
		}
	}

	if len(pkg.Commands) == 0 && len(pkg.Functions) == 0 {
		return nil, fmt.Errorf("%w: %s", xlib.ErrPackageEmpty, identifier)
	}
	return pkg, nil
}

func operations(identifier string, obj external.Package) (ops []external.Operation, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: panic listing operations: %v", xlib.ErrPackageNotInstantiable, identifier, rec)
		}
	}()
	return obj.Operations(), nil
}

func initHook(fn any) (func(external.Engine) error, error) {
	switch f := fn.(type) {
	case func(external.Engine) error:
		if f != nil {
			return f, nil
		}
	case func(external.Engine):
		if f != nil {
			return func(e external.Engine) error { f(e); return nil }, nil
		}
	}
	return nil, fmt.Errorf("%w: want func(external.Engine) [error], have %s", xlib.ErrInvalidInitSignature, describe(fn))
}

func disposeHook(fn any) (func() error, error) {
	switch f := fn.(type) {
	case func() error:
		if f != nil {
			return f, nil
		}
	case func():
		if f != nil {
			return func() error { f(); return nil }, nil
		}
	}
	return nil, fmt.Errorf("%w: want func() [error], have %s", xlib.ErrInvalidDisposeSignature, describe(fn))
}

func command(identifier string, op external.Operation) (*xlib.Command, error) {
	v, params, err := callable(op.Fn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xlib.ErrInvalidCommandSignature, err)
	}
	name, err := operationName(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xlib.ErrInvalidCommandSignature, err)
	}

	t := v.Type()
	var returns xlib.ReturnKind
	switch {
	case t.NumOut() == 0:
		returns = xlib.ReturnVoid
	case t.NumOut() == 1 && t.Out(0) == errorType:
		returns = xlib.ReturnVoid
	case t.NumOut() == 1 && t.Out(0) == stringType:
		returns = xlib.ReturnString
	case t.NumOut() == 2 && t.Out(0) == stringType && t.Out(1) == errorType:
		returns = xlib.ReturnString
	default:
		return nil, fmt.Errorf("%w: %s returns %s, want nothing, error, string or (string, error)",
			xlib.ErrInvalidCommandSignature, name, t)
	}

	return xlib.NewCommand(name, identifier, params, returns, invoker(v, params)), nil
}

func function(identifier string, op external.Operation) (*xlib.Function, error) {
	v, params, err := callable(op.Fn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xlib.ErrInvalidFunctionSignature, err)
	}
	name, err := operationName(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xlib.ErrInvalidFunctionSignature, err)
	}

	t := v.Type()
	ok := (t.NumOut() == 1 && t.Out(0) == stringType) ||
		(t.NumOut() == 2 && t.Out(0) == stringType && t.Out(1) == errorType)
	if !ok {
		return nil, fmt.Errorf("%w: %s returns %s, want string or (string, error)",
			xlib.ErrInvalidFunctionSignature, name, t)
	}

	return xlib.NewFunction(name, identifier, params, invoker(v, params)), nil
}

// callable checks that fn is a non-nil func taking nothing or a single
// []string.
func callable(fn any) (reflect.Value, xlib.ParamKind, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return reflect.Value{}, 0, fmt.Errorf("not a func: %s", describe(fn))
	}

	t := v.Type()
	if t.IsVariadic() {
		return reflect.Value{}, 0, fmt.Errorf("variadic parameters not supported: %s", t)
	}
	switch {
	case t.NumIn() == 0:
		return v, xlib.ParamsNone, nil
	case t.NumIn() == 1 && t.In(0) == argsType:
		return v, xlib.ParamsArray, nil
	}
	return reflect.Value{}, 0, fmt.Errorf("parameters must be none or a single []string: %s", t)
}

func invoker(v reflect.Value, params xlib.ParamKind) xlib.Invoker {
	t := v.Type()
	return func(args []string) (string, error) {
		var in []reflect.Value
		if params == xlib.ParamsArray {
			in = []reflect.Value{reflect.ValueOf(args)}
		}
		out := v.Call(in)

		var result string
		for i, o := range out {
			switch t.Out(i) {
			case stringType:
				result = o.String()
			case errorType:
				if err, _ := o.Interface().(error); err != nil {
					return "", err
				}
			}
		}
		return result, nil
	}
}

func operationName(op external.Operation) (string, error) {
	name := op.Alias
	if name == "" {
		name = symbolName(op.Fn)
	}
	if name == "" {
		return "", fmt.Errorf("operation has no name; use As")
	}
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("bad operation name %q", name)
	}
	return name, nil
}

// symbolName derives an operation name from the Go symbol of fn: the last
// path element with any method-value suffix removed and its first letter
// lowered, so (*Greeter).EtHello becomes etHello.
func symbolName(fn any) string {
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return ""
	}
	name := strings.TrimSuffix(rf.Name(), "-fm")
	if strings.HasPrefix(name, "reflect.") || closurePattern.MatchString(name) {
		// Func literals and reflect.MakeFunc funcs have no name of their own.
		return ""
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToLower(r)) + name[size:]
}

func describe(fn any) string {
	if fn == nil {
		return "nil"
	}
	return reflect.TypeOf(fn).String()
}
