// Package greeter is a native example package that exercises every part of
// the engine callback interface. Importing it registers the package under
// Identifier in the default catalog.
package greeter

import (
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Identifier is the name libraries use in their descriptor to declare this
// package.
const Identifier = "examples.Greeter"

// Names the package reads and writes in the engine.
const (
	GlobalName   = "gJVMglobal"
	VariableName = "tJVMlocal"
	ArrayName    = "tJVMlocalA"
	FieldName    = "RevField"
	FieldNumber  = 2
	FieldID      = 1010
)

var registeredAt = time.Now()

func init() {
	external.Register(Identifier, New)
}

// Greeter holds the engine handed to it by its init hook.
type Greeter struct {
	engine    external.Engine
	createdAt time.Time
	initAt    time.Time
}

// New returns a fresh Greeter. It is the package factory.
func New() (external.Package, error) {
	return &Greeter{createdAt: time.Now()}, nil
}

func (g *Greeter) Operations() []external.Operation {
	return []external.Operation{
		external.Init(g.Init),

		external.Command(g.EtSendCardMessage),
		external.Function(g.EtEvaluateExpression),
		external.Function(g.EtGetGlobal),
		external.Command(g.EtSetGlobal),
		external.Function(g.EtGetVariable),
		external.Command(g.EtSetVariable),
		external.Function(g.EtGetVariableBytes),
		external.Command(g.EtSetVariableBytes),
		external.Function(g.EtGetVariableElement),
		external.Command(g.EtSetVariableElement),
		external.Function(g.EtGetVariableMap),
		external.Command(g.EtSetVariableMap),
		external.Function(g.EtGetFieldByName),
		external.Command(g.EtSetFieldByName),
		external.Function(g.EtGetFieldByNumber),
		external.Command(g.EtSetFieldByNumber),
		external.Function(g.EtGetFieldByID),
		external.Command(g.EtSetFieldByID),
		external.Command(g.EtRepaint),

		external.Function(g.EtHello),
		external.Function(g.EtHelloVar),
		external.Function(g.EtHelloArrVar),
		external.Function(g.EtHelloMapVar),
		external.Function(g.EtLoadDatetime),
		external.Function(g.EtInstDatetime),
		external.Function(g.EtInitDatetime),
	}
}

func (g *Greeter) Init(engine external.Engine) {
	g.engine = engine
	g.initAt = time.Now()
}

func (g *Greeter) EtSendCardMessage() error {
	return g.engine.SendMessage("xhost_callbackcommand 1")
}

func (g *Greeter) EtEvaluateExpression() (string, error) {
	return g.engine.EvaluateExpression("xhost_callbackfunction(1)")
}

func (g *Greeter) EtGetGlobal() (string, error) {
	return g.engine.Global(GlobalName)
}

// EtSetGlobal sets GlobalName to a fixed value, or to the first argument
// when one is given.
func (g *Greeter) EtSetGlobal(args []string) error {
	value := "value set by the etSetGlobal command"
	if len(args) > 0 {
		value = args[0]
	}
	return g.engine.SetGlobal(GlobalName, value)
}

func (g *Greeter) EtGetVariable() (string, error) {
	return g.engine.Variable(VariableName)
}

func (g *Greeter) EtSetVariable() error {
	return g.engine.SetVariable(VariableName, "value set by the etSetVariable command")
}

func (g *Greeter) EtGetVariableBytes() (string, error) {
	data, err := g.engine.VariableBytes(VariableName, "")
	if err != nil {
		return "", err
	}
	return describe(data), nil
}

func (g *Greeter) EtSetVariableBytes() error {
	return g.engine.SetVariableBytes(VariableName, "", external.Bytes("value set by the etSetVariableBytes command"))
}

func (g *Greeter) EtGetVariableElement() (string, error) {
	data, err := g.engine.VariableBytes(ArrayName, "name")
	if err != nil {
		return "", err
	}
	return describe(data), nil
}

func (g *Greeter) EtSetVariableElement() error {
	return g.engine.SetVariableBytes(ArrayName, "name", external.Bytes("value set by the etSetVariableElement command"))
}

func (g *Greeter) EtGetVariableMap() (string, error) {
	m, err := g.engine.VariableMap(ArrayName)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Variable name: " + ArrayName)
	m.Range(func(key string, value external.Bytes) bool {
		fmt.Fprintf(&b, "\n  '%s' => %s", key, describe(value))
		return true
	})
	return b.String(), nil
}

func (g *Greeter) EtSetVariableMap() error {
	m := external.NewOrderedMap()
	m.Set("name", external.Bytes("first value set by the etSetVariableMap command"))
	m.Set("data", external.Bytes("second value set by the etSetVariableMap command"))
	return g.engine.SetVariableMap(ArrayName, m)
}

func (g *Greeter) EtGetFieldByName() (string, error) {
	return g.engine.FieldTextByName(external.SearchNone, FieldName)
}

func (g *Greeter) EtSetFieldByName() error {
	return g.engine.SetFieldTextByName(external.SearchNone, FieldName, "reset by etSetFieldByName")
}

func (g *Greeter) EtGetFieldByNumber() (string, error) {
	return g.engine.FieldTextByNumber(external.SearchNone, FieldNumber)
}

func (g *Greeter) EtSetFieldByNumber() error {
	return g.engine.SetFieldTextByNumber(external.SearchNone, FieldNumber, "reset by etSetFieldByNumber")
}

func (g *Greeter) EtGetFieldByID() (string, error) {
	return g.engine.FieldTextByID(external.SearchNone, FieldID)
}

func (g *Greeter) EtSetFieldByID() error {
	return g.engine.SetFieldTextByID(external.SearchNone, FieldID, "reset by etSetFieldByID")
}

// EtRepaint repaints the image named by the first argument. A second
// argument of "card" or "background" narrows the search.
func (g *Greeter) EtRepaint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: image name required", external.ErrInvalidArgument)
	}
	mod := external.SearchNone
	if len(args) > 1 {
		var err error
		if mod, err = external.ParseSearchModifier(args[1]); err != nil {
			return err
		}
	}
	return g.engine.RepaintImageByName(mod, args[0])
}

func (g *Greeter) EtHello() string {
	return "Hello, world"
}

// EtHelloVar greets the contents of the variable named by the first
// argument, or a stranger when it cannot be read.
func (g *Greeter) EtHelloVar(args []string) string {
	if len(args) > 0 {
		if v, err := g.engine.Variable(args[0]); err == nil {
			return "Hello, " + v
		}
	}
	return "Hello, stranger"
}

func (g *Greeter) EtHelloArrVar(args []string) string {
	if len(args) > 0 {
		if data, err := g.engine.VariableBytes(args[0], "name"); err == nil && len(data) > 0 {
			return "Howdy, " + describe(data)
		}
	}
	return "Howdy, stranger"
}

func (g *Greeter) EtHelloMapVar(args []string) string {
	if len(args) > 0 {
		if m, err := g.engine.VariableMap(args[0]); err == nil {
			if data, ok := m.Get("name"); ok {
				return "Yello, " + describe(data)
			}
		}
	}
	return "Yello, stranger"
}

func (g *Greeter) EtLoadDatetime() string { return registeredAt.Format(time.RFC3339) }
func (g *Greeter) EtInstDatetime() string { return g.createdAt.Format(time.RFC3339) }
func (g *Greeter) EtInitDatetime() string { return g.initAt.Format(time.RFC3339) }

func describe(data external.Bytes) string {
	if len(data) == 0 {
		return "(length: 0)"
	}
	return fmt.Sprintf("(length: %d | first byte: %d | content: %s)", len(data), data[0], data)
}
