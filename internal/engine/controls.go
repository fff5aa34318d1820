package engine

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/xhost/pkg/external"
)

func (m *Memory) layer(mod external.SearchModifier) *layer {
	if mod == external.SearchBackground {
		return &m.background
	}
	return &m.card
}

// layers returns the layers searched for mod. An unqualified search looks at
// the card first and then the background.
func (m *Memory) layers(mod external.SearchModifier) []*layer {
	switch mod {
	case external.SearchCard:
		return []*layer{&m.card}
	case external.SearchBackground:
		return []*layer{&m.background}
	default:
		return []*layer{&m.card, &m.background}
	}
}

// AddField creates a field on the layer selected by mod and returns its id.
// SearchNone places it on the card.
func (m *Memory) AddField(mod external.SearchModifier, name, text string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	l := m.layer(mod)
	l.fields = append(l.fields, &Field{ID: m.nextID, Name: name, Text: text})
	return m.nextID
}

// AddImage creates an image on the layer selected by mod and returns its id.
func (m *Memory) AddImage(mod external.SearchModifier, name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	l := m.layer(mod)
	l.images = append(l.images, &Image{ID: m.nextID, Name: name})
	return m.nextID
}

// Repaints reports how many times the image with the given id was repainted.
func (m *Memory) Repaints(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.layers(external.SearchNone) {
		for _, img := range l.images {
			if img.ID == id {
				return img.Repaints
			}
		}
	}
	return 0
}

func (m *Memory) fieldByName(mod external.SearchModifier, name string) (*Field, error) {
	if name == "" {
		return nil, invalid("field name cannot be empty")
	}
	for _, l := range m.layers(mod) {
		for _, f := range l.fields {
			if strings.EqualFold(f.Name, name) {
				return f, nil
			}
		}
	}
	return nil, failure("field", qualify(mod, name), "no such field")
}

func (m *Memory) fieldByNumber(mod external.SearchModifier, number int) (*Field, error) {
	if number < 1 {
		return nil, invalid("field number must be positive, got %d", number)
	}
	l := m.layer(mod)
	if number > len(l.fields) {
		return nil, failure("field", qualify(mod, fmt.Sprint(number)), "no such field")
	}
	return l.fields[number-1], nil
}

func (m *Memory) fieldByID(mod external.SearchModifier, id int64) (*Field, error) {
	if id <= 0 {
		return nil, invalid("field id must be positive, got %d", id)
	}
	for _, l := range m.layers(mod) {
		for _, f := range l.fields {
			if f.ID == id {
				return f, nil
			}
		}
	}
	return nil, failure("field", qualify(mod, fmt.Sprintf("id %d", id)), "no such field")
}

func (m *Memory) imageByName(mod external.SearchModifier, name string) (*Image, error) {
	if name == "" {
		return nil, invalid("image name cannot be empty")
	}
	for _, l := range m.layers(mod) {
		for _, img := range l.images {
			if strings.EqualFold(img.Name, name) {
				return img, nil
			}
		}
	}
	return nil, failure("image", qualify(mod, name), "no such image")
}

func (m *Memory) imageByNumber(mod external.SearchModifier, number int) (*Image, error) {
	if number < 1 {
		return nil, invalid("image number must be positive, got %d", number)
	}
	l := m.layer(mod)
	if number > len(l.images) {
		return nil, failure("image", qualify(mod, fmt.Sprint(number)), "no such image")
	}
	return l.images[number-1], nil
}

func (m *Memory) imageByID(mod external.SearchModifier, id int64) (*Image, error) {
	if id <= 0 {
		return nil, invalid("image id must be positive, got %d", id)
	}
	for _, l := range m.layers(mod) {
		for _, img := range l.images {
			if img.ID == id {
				return img, nil
			}
		}
	}
	return nil, failure("image", qualify(mod, fmt.Sprintf("id %d", id)), "no such image")
}

func qualify(mod external.SearchModifier, target string) string {
	if mod == external.SearchNone {
		return target
	}
	return mod.String() + " " + target
}

func (m *Memory) FieldTextByName(mod external.SearchModifier, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.fieldByName(mod, name)
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

func (m *Memory) FieldTextByNumber(mod external.SearchModifier, number int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.fieldByNumber(mod, number)
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

func (m *Memory) FieldTextByID(mod external.SearchModifier, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.fieldByID(mod, id)
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

func (m *Memory) SetFieldTextByName(mod external.SearchModifier, name, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.fieldByName(mod, name)
	if err != nil {
		return err
	}
	f.Text = text
	return nil
}

func (m *Memory) SetFieldTextByNumber(mod external.SearchModifier, number int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.fieldByNumber(mod, number)
	if err != nil {
		return err
	}
	f.Text = text
	return nil
}

func (m *Memory) SetFieldTextByID(mod external.SearchModifier, id int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.fieldByID(mod, id)
	if err != nil {
		return err
	}
	f.Text = text
	return nil
}

func (m *Memory) RepaintImageByName(mod external.SearchModifier, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, err := m.imageByName(mod, name)
	if err != nil {
		return err
	}
	img.Repaints++
	return nil
}

func (m *Memory) RepaintImageByNumber(mod external.SearchModifier, number int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, err := m.imageByNumber(mod, number)
	if err != nil {
		return err
	}
	img.Repaints++
	return nil
}

func (m *Memory) RepaintImageByID(mod external.SearchModifier, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, err := m.imageByID(mod, id)
	if err != nil {
		return err
	}
	img.Repaints++
	return nil
}
