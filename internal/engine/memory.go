package engine

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Field is a text control.
type Field struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Image is an image control. Repaints counts repaint requests.
type Image struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Repaints int    `json:"repaints"`
}

type layer struct {
	fields []*Field
	images []*Image
}

type variable struct {
	value    external.Bytes
	elements *external.OrderedMap
}

// Memory is an in-memory engine. It is safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	globals    map[string]string
	variables  map[string]*variable
	card       layer
	background layer
	messages   []string
	nextID     int64

	evaluator func(expression string) (string, error)
	onMessage func(message string) error
}

var _ external.Engine = (*Memory)(nil)

// Option configures a Memory engine.
type Option func(*Memory)

// WithEvaluator replaces the default expression evaluator.
func WithEvaluator(fn func(expression string) (string, error)) Option {
	return func(m *Memory) { m.evaluator = fn }
}

// WithMessageHandler observes messages sent by packages. A handler error is
// reported back to the package as an engine failure.
func WithMessageHandler(fn func(message string) error) Option {
	return func(m *Memory) { m.onMessage = fn }
}

// NewMemory creates an empty engine.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		globals:   make(map[string]string),
		variables: make(map[string]*variable),
		nextID:    1000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{external.ErrInvalidArgument}, args...)...)
}

func failure(op, target, reason string) error {
	return &external.EngineError{Op: op, Target: target, Reason: reason}
}

// SendMessage records message and passes it to the message handler.
func (m *Memory) SendMessage(message string) error {
	if message == "" {
		return invalid("message cannot be empty")
	}

	m.mu.Lock()
	m.messages = append(m.messages, message)
	handler := m.onMessage
	m.mu.Unlock()

	if handler != nil {
		if err := handler(message); err != nil {
			return failure("send", message, err.Error())
		}
	}
	return nil
}

// Messages returns the messages sent so far.
func (m *Memory) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// EvaluateExpression evaluates expression. Without a custom evaluator it
// understands quoted string literals, numbers, globals and variables.
func (m *Memory) EvaluateExpression(expression string) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return "", invalid("expression cannot be empty")
	}
	if m.evaluator != nil {
		out, err := m.evaluator(expression)
		if err != nil {
			return "", failure("evaluate", expression, err.Error())
		}
		return out, nil
	}

	expr := strings.TrimSpace(expression)
	if len(expr) >= 2 && expr[0] == '"' && expr[len(expr)-1] == '"' {
		return expr[1 : len(expr)-1], nil
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		return expr, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.variables[expr]; ok {
		return string(v.value), nil
	}
	if v, ok := m.globals[expr]; ok {
		return v, nil
	}
	return "", failure("evaluate", expression, "cannot evaluate")
}

// Global returns the value of a global. Globals that were never set are
// empty.
func (m *Memory) Global(name string) (string, error) {
	if name == "" {
		return "", invalid("global name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.globals[name], nil
}

// SetGlobal sets a global.
func (m *Memory) SetGlobal(name, value string) error {
	if name == "" {
		return invalid("global name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globals[name] = value
	return nil
}

// Variable returns the value of a variable as a string.
func (m *Memory) Variable(name string) (string, error) {
	if name == "" {
		return "", invalid("variable name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.variables[name]
	if !ok {
		return "", failure("variable", name, "no such variable")
	}
	return string(v.value), nil
}

// SetVariable sets a variable to a scalar value, creating it if needed.
func (m *Memory) SetVariable(name, value string) error {
	if name == "" {
		return invalid("variable name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variables[name] = &variable{value: external.Bytes(value)}
	return nil
}

// VariableBytes reads element key of a variable, or the variable itself
// when key is empty. Missing elements read as empty.
func (m *Memory) VariableBytes(name, key string) (external.Bytes, error) {
	if name == "" {
		return nil, invalid("variable name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.variables[name]
	if !ok {
		return nil, failure("variable", name, "no such variable")
	}
	if key == "" {
		return append(external.Bytes{}, v.value...), nil
	}
	elem, _ := v.elements.Get(key)
	return append(external.Bytes{}, elem...), nil
}

// SetVariableBytes writes element key of a variable, or the variable itself
// when key is empty. Writing an element turns the variable into an array.
func (m *Memory) SetVariableBytes(name, key string, value external.Bytes) error {
	if name == "" {
		return invalid("variable name cannot be empty")
	}
	if value == nil {
		return invalid("value cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data := append(external.Bytes{}, value...)
	if key == "" {
		m.variables[name] = &variable{value: data}
		return nil
	}

	v, ok := m.variables[name]
	if !ok || v.elements == nil {
		v = &variable{elements: external.NewOrderedMap()}
		m.variables[name] = v
	}
	v.elements.Set(key, data)
	return nil
}

// VariableMap returns the elements of an array variable in insertion order.
// A scalar variable yields an empty map.
func (m *Memory) VariableMap(name string) (*external.OrderedMap, error) {
	if name == "" {
		return nil, invalid("variable name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.variables[name]
	if !ok {
		return nil, failure("variable", name, "no such variable")
	}
	if v.elements == nil {
		return external.NewOrderedMap(), nil
	}
	return v.elements.Clone(), nil
}

// SetVariableMap replaces a variable with an array holding value's entries.
func (m *Memory) SetVariableMap(name string, value *external.OrderedMap) error {
	if name == "" {
		return invalid("variable name cannot be empty")
	}
	if value == nil {
		return invalid("map cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variables[name] = &variable{elements: value.Clone()}
	return nil
}
