package external

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a precondition failure: a required argument was
	// empty or out of range. The engine was never consulted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEngine marks an engine-side failure: the call was well-formed but the
	// engine could not carry it out.
	ErrEngine = errors.New("engine failure")
)

// SearchModifier scopes control lookups to the card layer, the background
// layer, or neither.
type SearchModifier int

const (
	SearchNone SearchModifier = iota
	SearchCard
	SearchBackground
)

func (m SearchModifier) String() string {
	switch m {
	case SearchCard:
		return "card"
	case SearchBackground:
		return "background"
	default:
		return "none"
	}
}

// ParseSearchModifier converts "card", "background" or "none" (or "") to a
// SearchModifier.
func ParseSearchModifier(s string) (SearchModifier, error) {
	switch s {
	case "", "none":
		return SearchNone, nil
	case "card", "cd":
		return SearchCard, nil
	case "background", "bg":
		return SearchBackground, nil
	}
	return SearchNone, fmt.Errorf("%w: unknown search modifier %q", ErrInvalidArgument, s)
}

// Bytes is a byte buffer exchanged with the engine for binary-safe variable
// access.
type Bytes []byte

func (b Bytes) String() string { return string(b) }

// Engine is the callback surface the host exposes to loaded packages.
//
// Every method returns an error wrapping ErrInvalidArgument when a required
// argument is empty or a numeric id or index is not positive, and an
// *EngineError when the engine cannot locate the target or cannot complete
// the action.
type Engine interface {
	SendMessage(message string) error
	EvaluateExpression(expression string) (string, error)

	Global(name string) (string, error)
	SetGlobal(name, value string) error

	Variable(name string) (string, error)
	SetVariable(name, value string) error

	// VariableBytes reads the element key of variable name. An empty key
	// addresses the variable as a non-array value.
	VariableBytes(name, key string) (Bytes, error)
	SetVariableBytes(name, key string, value Bytes) error

	VariableMap(name string) (*OrderedMap, error)
	SetVariableMap(name string, value *OrderedMap) error

	FieldTextByName(mod SearchModifier, name string) (string, error)
	FieldTextByNumber(mod SearchModifier, number int) (string, error)
	FieldTextByID(mod SearchModifier, id int64) (string, error)
	SetFieldTextByName(mod SearchModifier, name, text string) error
	SetFieldTextByNumber(mod SearchModifier, number int, text string) error
	SetFieldTextByID(mod SearchModifier, id int64, text string) error

	RepaintImageByName(mod SearchModifier, name string) error
	RepaintImageByNumber(mod SearchModifier, number int) error
	RepaintImageByID(mod SearchModifier, id int64) error
}

// EngineError reports an engine call that was well-formed but failed.
type EngineError struct {
	Op     string
	Target string
	Reason string
}

func (e *EngineError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Op, e.Target, e.Reason)
}

// Is reports whether target is ErrEngine.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngine
}
