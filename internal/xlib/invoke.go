package xlib

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Tracer is implemented by errors that carry a richer rendering than
// Error(), such as a script stack trace.
type Tracer interface {
	Trace() string
}

func invoke(kind external.Kind, name string, params ParamKind, call Invoker, args []string) (result string, err error) {
	var in []string
	if params == ParamsArray {
		in = make([]string, len(args))
		copy(in, args)
	}

	defer func() {
		if r := recover(); r != nil {
			result = ""
			err = &InvocationError{
				Kind:  kind,
				Name:  name,
				Trace: fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack()),
				Err:   fmt.Errorf("panic: %v", r),
			}
		}
	}()

	result, err = call(in)
	if err != nil {
		return "", &InvocationError{Kind: kind, Name: name, Trace: traceOf(err), Err: err}
	}
	return result, nil
}

func traceOf(err error) string {
	var t Tracer
	if errors.As(err, &t) {
		return t.Trace()
	}
	return err.Error()
}

// Guard runs fn and converts a panic into an error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
