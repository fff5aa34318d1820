package script

import (
	"reflect"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

// scriptPackage collects the operations a package body declared.
type scriptPackage struct {
	ops []external.Operation
}

func (p *scriptPackage) Operations() []external.Operation {
	return p.ops
}

type options struct {
	alias   string
	params  string
	returns string
}

// builder returns the xpackage object handed to a package body.
func (r *Runtime) builder(pkg *scriptPackage) *goja.Object {
	b := r.vm.NewObject()
	for name, kind := range map[string]external.Kind{
		"init":     external.KindInit,
		"dispose":  external.KindDispose,
		"command":  external.KindCommand,
		"function": external.KindFunction,
	} {
		b.Set(name, func(call goja.FunctionCall) goja.Value {
			pkg.ops = append(pkg.ops, r.operation(kind, call))
			return goja.Undefined()
		})
	}
	return b
}

// operation turns one builder call into an Operation. A non-function
// argument leaves Fn nil so the loader reports the signature violation.
func (r *Runtime) operation(kind external.Kind, call goja.FunctionCall) external.Operation {
	fnVal := call.Argument(0)
	opts := r.options(call.Argument(1))
	op := external.Operation{Kind: kind, Alias: opts.alias}

	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return op
	}

	switch kind {
	case external.KindInit:
		op.Fn = func(e external.Engine) error {
			_, err := r.call(fn, e)
			return err
		}
	case external.KindDispose:
		op.Fn = func() error {
			_, err := r.call(fn)
			return err
		}
	default:
		if op.Alias == "" {
			op.Alias = r.property(fnVal, "name")
		}
		op.Fn = r.makeFunc(kind, fn, r.arity(fnVal), opts)
	}
	return op
}

func (r *Runtime) options(v goja.Value) options {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return options{}
	}
	return options{
		alias:   r.property(v, "alias"),
		params:  r.property(v, "params"),
		returns: r.property(v, "returns"),
	}
}

func (r *Runtime) property(v goja.Value, name string) string {
	p := v.ToObject(r.vm).Get(name)
	if p == nil || goja.IsUndefined(p) || goja.IsNull(p) {
		return ""
	}
	return p.String()
}

func (r *Runtime) arity(fnVal goja.Value) int64 {
	p := fnVal.ToObject(r.vm).Get("length")
	if p == nil {
		return 0
	}
	return p.ToInteger()
}

// makeFunc builds a Go func whose type mirrors the declared shape, so the
// loader validates script operations exactly like native ones.
func (r *Runtime) makeFunc(kind external.Kind, fn goja.Callable, arity int64, opts options) any {
	var in []reflect.Type
	switch opts.params {
	case "none":
	case "", "string[]":
		if opts.params != "" || arity > 0 {
			in = []reflect.Type{typeNamed("string[]")}
		}
	default:
		in = []reflect.Type{typeNamed(opts.params)}
	}

	returns := opts.returns
	if returns == "" {
		returns = "string"
		if kind == external.KindCommand {
			returns = "void"
		}
	}
	var out []reflect.Type
	switch returns {
	case "void":
		out = []reflect.Type{errorType}
	default:
		out = []reflect.Type{typeNamed(returns), errorType}
	}

	ft := reflect.FuncOf(in, out, false)
	return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		goArgs := make([]any, len(args))
		for i, a := range args {
			goArgs[i] = a.Interface()
		}
		s, err := r.call(fn, goArgs...)
		return results(ft, s, err)
	}).Interface()
}

func results(ft reflect.Type, s string, err error) []reflect.Value {
	out := make([]reflect.Value, ft.NumOut())
	for i := range out {
		out[i] = reflect.Zero(ft.Out(i))
	}
	if err != nil {
		ev := reflect.New(errorType).Elem()
		ev.Set(reflect.ValueOf(err))
		out[len(out)-1] = ev
		return out
	}
	if len(out) == 2 && ft.Out(0) == stringType {
		out[0] = reflect.ValueOf(s)
	}
	return out
}

func typeNamed(name string) reflect.Type {
	switch name {
	case "string":
		return stringType
	case "string[]":
		return reflect.TypeOf([]string(nil))
	case "number":
		return reflect.TypeOf(float64(0))
	case "boolean":
		return reflect.TypeOf(false)
	case "engine":
		return engineType
	default:
		return anyType
	}
}
