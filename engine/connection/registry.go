package connection

import (
	"fmt"
	"strings"
)

// Registry collects connection declarations in order and indexes them by role. It never
// fails; malformed declarations are kept as problems for Builder.Build to report.
type Registry struct {
	order    []string
	conns    map[string]*Connection
	roles    map[Role][]string
	problems []string
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Connection),
		roles: make(map[Role][]string),
	}
}

// Add records a copy of c under attr.
func (r *Registry) Add(attr string, c *Connection) {
	switch {
	case c == nil:
		r.problems = append(r.problems, fmt.Sprintf("connection %q is nil", attr))
		return
	case strings.TrimSpace(attr) == "":
		r.problems = append(r.problems, fmt.Sprintf("connection %s has an empty attribute name", c.name))
		return
	}
	if _, exists := r.conns[attr]; exists {
		r.problems = append(r.problems, fmt.Sprintf("connection %q declared twice", attr))
		return
	}
	stored := c.clone()
	stored.attribute = attr
	r.conns[attr] = stored
	r.order = append(r.order, attr)
	r.roles[stored.role] = append(r.roles[stored.role], attr)
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Problems lists the declarations Add rejected.
func (r *Registry) Problems() []string {
	out := make([]string, len(r.problems))
	copy(out, r.problems)
	return out
}
