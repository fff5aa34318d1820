package script

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

var (
	// ErrTimeout is returned when a package body runs longer than the
	// configured load timeout.
	ErrTimeout = errors.New("script timeout exceeded")

	// ErrClosed is returned when a closed runtime is used.
	ErrClosed = errors.New("script runtime closed")
)

// Config controls a Runtime.
type Config struct {
	// Timeout bounds the evaluation of a package body at load time. Calls
	// into loaded operations are not bounded.
	Timeout time.Duration
	Logger  *logging.Logger
}

// DefaultConfig returns the runtime defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
		Logger:  logging.NewNop(),
	}
}

// Runtime wraps a goja VM owned by one bundle.
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex
}

// New creates a runtime with the globals a package may rely on.
func New(config Config) *Runtime {
	if config.Logger == nil {
		config.Logger = logging.NewNop()
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	r := &Runtime{vm: vm, config: config}
	r.setupGlobals()
	return r
}

// setupGlobals removes module loaders and installs console and the search
// modifier constants.
func (r *Runtime) setupGlobals() {
	r.vm.Set("require", goja.Undefined())
	r.vm.Set("process", goja.Undefined())
	r.vm.Set("module", goja.Undefined())
	r.vm.Set("exports", goja.Undefined())

	r.vm.Set("setTimeout", func(goja.FunctionCall) goja.Value { return goja.Undefined() })
	r.vm.Set("setInterval", func(goja.FunctionCall) goja.Value { return goja.Undefined() })

	console := r.vm.NewObject()
	console.Set("log", r.makeConsoleFunc(r.config.Logger.Info))
	console.Set("info", r.makeConsoleFunc(r.config.Logger.Info))
	console.Set("warn", r.makeConsoleFunc(r.config.Logger.Warn))
	console.Set("error", r.makeConsoleFunc(r.config.Logger.Error))
	r.vm.Set("console", console)

	modifiers := r.vm.NewObject()
	modifiers.Set("NONE", int(external.SearchNone))
	modifiers.Set("CARD", int(external.SearchCard))
	modifiers.Set("BACKGROUND", int(external.SearchBackground))
	r.vm.Set("SearchModifier", modifiers)
}

func (r *Runtime) makeConsoleFunc(log func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		log("script console", zap.String("message", strings.Join(parts, " ")))
		return goja.Undefined()
	}
}

// Load evaluates a package body and returns the package it declared.
func (r *Runtime) Load(identifier, source string) (external.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return nil, ErrClosed
	}

	pkg := &scriptPackage{}
	err := r.withTimeout(func() error {
		// No newline after the opening brace so stack line numbers match
		// the file.
		body, err := r.vm.RunScript(FileName(identifier), "(function (xpackage) {"+source+"\n})")
		if err != nil {
			return err
		}
		fn, ok := goja.AssertFunction(body)
		if !ok {
			return fmt.Errorf("package body of %s is not callable", identifier)
		}
		_, err = fn(goja.Undefined(), r.builder(pkg))
		return err
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return pkg, nil
}

// Close discards the VM. Operations created by this runtime fail with
// ErrClosed afterwards.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm != nil {
		r.vm.Interrupt(ErrClosed)
		r.vm = nil
	}
	return nil
}

func (r *Runtime) withTimeout(fn func() error) error {
	if r.config.Timeout <= 0 {
		return fn()
	}

	vm := r.vm
	timer := time.AfterFunc(r.config.Timeout, func() {
		vm.Interrupt(ErrTimeout)
	})
	err := fn()
	timer.Stop()
	vm.ClearInterrupt()
	return err
}

// call invokes fn with Go arguments converted to JS values and returns the
// result rendered as a string.
func (r *Runtime) call(fn goja.Callable, args ...any) (string, error) {
	vm := r.vm
	if vm == nil {
		return "", ErrClosed
	}

	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jsArgs[i] = r.toJS(a)
	}

	v, err := fn(goja.Undefined(), jsArgs...)
	if err != nil {
		return "", wrapError(err)
	}
	return stringOf(v), nil
}

func (r *Runtime) toJS(v any) goja.Value {
	if ss, ok := v.([]string); ok {
		items := make([]any, len(ss))
		for i, s := range ss {
			items[i] = s
		}
		return r.vm.NewArray(items...)
	}
	return r.vm.ToValue(v)
}

func stringOf(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// FileName is the bundle entry holding the script package identifier.
func FileName(identifier string) string {
	return strings.ReplaceAll(identifier, ".", "/") + ".js"
}

// Error is a JavaScript exception raised by a package.
type Error struct {
	Message string
	Stack   string
}

func (e *Error) Error() string { return e.Message }

// Trace returns the exception with its JS stack.
func (e *Error) Trace() string { return e.Stack }

func wrapError(err error) error {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return &Error{Message: ex.Error(), Stack: ex.String()}
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if v, ok := interrupted.Value().(error); ok {
			return v
		}
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	stringType = reflect.TypeOf("")
	engineType = reflect.TypeOf((*external.Engine)(nil)).Elem()
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
)
