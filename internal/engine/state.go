package engine

import (
	"sort"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Element is one entry of an array variable.
type Element struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// VariableState is the exported view of a variable.
type VariableState struct {
	Name     string    `json:"name"`
	Value    string    `json:"value,omitempty"`
	Elements []Element `json:"elements,omitempty"`
}

// LayerState is the exported view of a card or background layer.
type LayerState struct {
	Fields []Field `json:"fields"`
	Images []Image `json:"images"`
}

// State is a point-in-time copy of everything the engine holds.
type State struct {
	Globals    map[string]string `json:"globals"`
	Variables  []VariableState   `json:"variables"`
	Card       LayerState        `json:"card"`
	Background LayerState        `json:"background"`
	Messages   []string          `json:"messages"`
}

// Seed sets every global in globals.
func (m *Memory) Seed(globals map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range globals {
		m.globals[k] = v
	}
}

// State returns a copy of the engine state. Variables are sorted by name.
func (m *Memory) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := State{
		Globals:    make(map[string]string, len(m.globals)),
		Variables:  make([]VariableState, 0, len(m.variables)),
		Card:       m.card.state(),
		Background: m.background.state(),
		Messages:   append([]string{}, m.messages...),
	}
	for k, v := range m.globals {
		st.Globals[k] = v
	}
	for name, v := range m.variables {
		vs := VariableState{Name: name, Value: string(v.value)}
		v.elements.Range(func(key string, value external.Bytes) bool {
			vs.Elements = append(vs.Elements, Element{Key: key, Value: string(value)})
			return true
		})
		st.Variables = append(st.Variables, vs)
	}
	sort.Slice(st.Variables, func(i, j int) bool {
		return st.Variables[i].Name < st.Variables[j].Name
	})
	return st
}

// Dump renders the engine state as indented JSON.
func (m *Memory) Dump() ([]byte, error) {
	return sonic.MarshalIndent(m.State(), "", "  ")
}

func (l *layer) state() LayerState {
	out := LayerState{
		Fields: make([]Field, 0, len(l.fields)),
		Images: make([]Image, 0, len(l.images)),
	}
	for _, f := range l.fields {
		out.Fields = append(out.Fields, *f)
	}
	for _, img := range l.images {
		out.Images = append(out.Images, *img)
	}
	return out
}
