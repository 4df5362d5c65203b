// Package route models the resolved routing context of one request: the
// route's named parameters, including any parameters upcast to entities.
// The extractor consumes it; HTTP and MCP surfaces construct it.
package route

import "inlay/internal/entity"

// Match holds the named parameters of a matched route.
type Match struct {
	params map[string]any
}

// NewMatch creates an empty route match.
func NewMatch() *Match {
	return &Match{params: make(map[string]any)}
}

// SetParameter stores a named parameter on the match.
func (m *Match) SetParameter(name string, value any) {
	m.params[name] = value
}

// Parameter returns a named parameter and whether it is present.
func (m *Match) Parameter(name string) (any, bool) {
	v, ok := m.params[name]
	return v, ok
}

// Record returns the parameter under name if it is a content record.
// A present parameter of another type (e.g. a raw string ID) reports false.
func (m *Match) Record(name string) (*entity.Record, bool) {
	v, ok := m.params[name]
	if !ok {
		return nil, false
	}
	r, ok := v.(*entity.Record)
	return r, ok
}
