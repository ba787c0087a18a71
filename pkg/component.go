package lzt

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Component is a framework processing object: a kind (the framework class), an
// instance name, properties in the order they were set and, for filters,
// the generators they wrap.
type Component struct {
	Kind     string
	Name     string
	keys     []string
	props    map[string]any
	Children []*Component
}

func NewComponent(kind, name string) *Component {
	return &Component{
		Kind:  kind,
		Name:  name,
		props: make(map[string]any),
	}
}

// SetProperty sets or replaces a property. Replacing keeps the original position.
func (c *Component) SetProperty(key string, value any) *Component {
	if _, ok := c.props[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.props[key] = value
	return c
}

func (c *Component) Property(key string) (any, bool) {
	v, ok := c.props[key]
	return v, ok
}

// PropertyNames returns the property keys in insertion order.
func (c *Component) PropertyNames() []string {
	return append([]string(nil), c.keys...)
}

// Child returns the wrapped component with the given name.
func (c *Component) Child(name string) *Component {
	for _, ch := range c.Children {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

func (c *Component) String() string {
	return fmt.Sprintf("%s/%s", c.Kind, c.Name)
}

func (c *Component) MarshalJSON() ([]byte, error) {
	var props bytes.Buffer
	props.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			props.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.props[k])
		if err != nil {
			return nil, fmt.Errorf("property %s of %s: %w", k, c, err)
		}
		props.Write(key)
		props.WriteByte(':')
		props.Write(value)
	}
	props.WriteByte('}')

	return json.Marshal(struct {
		Kind       string          `json:"kind"`
		Name       string          `json:"name"`
		Properties json.RawMessage `json:"properties"`
		Children   []*Component    `json:"children,omitempty"`
	}{c.Kind, c.Name, props.Bytes(), c.Children})
}
