package xlib

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Load-time validation errors.
var (
	ErrInvalidBundleFile   = errors.New("invalid bundle file")
	ErrDescriptorMissing   = errors.New("descriptor missing")
	ErrDescriptorMalformed = errors.New("descriptor malformed")
	ErrDescriptorInvalid   = errors.New("descriptor invalid")

	ErrPackageNotFound        = errors.New("package not found")
	ErrPackageNotInstantiable = errors.New("package not instantiable")
	ErrPackageEmpty           = errors.New("package exposes no commands or functions")
	ErrPackageInitFailed      = errors.New("package init failed")

	ErrInvalidInitSignature     = errors.New("invalid init signature")
	ErrInvalidDisposeSignature  = errors.New("invalid dispose signature")
	ErrInvalidCommandSignature  = errors.New("invalid command signature")
	ErrInvalidFunctionSignature = errors.New("invalid function signature")

	ErrDuplicateBundleName = errors.New("duplicate bundle name")
	ErrBundleNotLoaded     = errors.New("bundle not loaded")
)

// Invocation-time errors.
var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrInvocationFailed = errors.New("invocation failed")
)

// ErrInvalidArgument is the precondition failure shared with the engine
// callback surface.
var ErrInvalidArgument = external.ErrInvalidArgument

// IsSignatureError reports whether err is one of the signature violations.
func IsSignatureError(err error) bool {
	return errors.Is(err, ErrInvalidInitSignature) ||
		errors.Is(err, ErrInvalidDisposeSignature) ||
		errors.Is(err, ErrInvalidCommandSignature) ||
		errors.Is(err, ErrInvalidFunctionSignature)
}

// LoadError is the single error a failed load reports. Identifier is empty
// when the failure happened before any package was examined.
type LoadError struct {
	Path       string
	Identifier string
	Err        error
}

func (e *LoadError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("library %q could not be loaded: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("library %q could not be loaded: package %q: %v", e.Path, e.Identifier, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// InvocationError reports a command or function that ran and failed. Trace
// carries the callee's failure text verbatim.
type InvocationError struct {
	Kind  external.Kind
	Name  string
	Trace string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s '%s' encountered an error\n%s", e.Kind, e.Name, e.Trace)
}

// Unwrap exposes both ErrInvocationFailed and the callee's own error.
func (e *InvocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvocationFailed}
	}
	return []error{ErrInvocationFailed, e.Err}
}
