// Package connection declares the datasets a task reads and writes and resolves those
// declarations against the configuration of a task instance and the references of a quantum.
//
// A connections class is declared once with a Builder:
//
//	cls, err := connection.NewBuilder("CoaddConnections").
//		Dimensions("tract", "patch", "band", "skymap").
//		DefaultTemplates(map[string]string{"coaddName": "deep"}).
//		Add("calexps", connection.Input("calexp", "ExposureF",
//			connection.WithDimensions("visit", "detector"), connection.AsMultiple())).
//		Add("coadd", connection.Output("{coaddName}Coadd", "ExposureF",
//			connection.WithDimensions("tract", "patch", "band", "skymap"))).
//		Build()
//
// and each task instance resolves it through NewConnections.
package connection

import (
	"fmt"
	"slices"
)

type Role int

const (
	RoleInput Role = iota
	RoleAuxiliaryInput
	RoleOutput
	RoleInitInput
	RoleInitOutput
)

var roleNames = [...]string{
	RoleInput:          "Input",
	RoleAuxiliaryInput: "AuxiliaryInput",
	RoleOutput:         "Output",
	RoleInitInput:      "InitInput",
	RoleInitOutput:     "InitOutput",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// IsInit reports whether the role describes a dataset read or written once per task
// construction rather than once per quantum.
func (r Role) IsInit() bool {
	return r == RoleInitInput || r == RoleInitOutput
}

// Connection describes one dataset a task reads or writes. It is never modified after
// construction.
type Connection struct {
	role         Role
	name         string
	storageClass string
	dimensions   []string
	multiple     bool
	deferLoad    bool
	check        func(any) error
	attribute    string
}

type Option func(*Connection)

// WithDimensions sets the dimensions of the dataset. Only quantum roles accept dimensions.
func WithDimensions(dims ...string) Option {
	return func(c *Connection) {
		c.dimensions = append(c.dimensions, dims...)
	}
}

// AsMultiple allows any number of datasets to be bound to the connection.
func AsMultiple() Option {
	return func(c *Connection) {
		c.multiple = true
	}
}

// WithDeferLoad marks the dataset as loaded by the task itself on demand.
func WithDeferLoad() Option {
	return func(c *Connection) {
		c.deferLoad = true
	}
}

// WithCheck attaches a validation callback for loaded objects.
func WithCheck(fn func(any) error) Option {
	return func(c *Connection) {
		c.check = fn
	}
}

func newConnection(role Role, name, storageClass string, opts []Option) *Connection {
	c := &Connection{role: role, name: name, storageClass: storageClass}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func Input(name, storageClass string, opts ...Option) *Connection {
	return newConnection(RoleInput, name, storageClass, opts)
}

func AuxiliaryInput(name, storageClass string, opts ...Option) *Connection {
	return newConnection(RoleAuxiliaryInput, name, storageClass, opts)
}

func Output(name, storageClass string, opts ...Option) *Connection {
	return newConnection(RoleOutput, name, storageClass, opts)
}

func InitInput(name, storageClass string, opts ...Option) *Connection {
	return newConnection(RoleInitInput, name, storageClass, opts)
}

func InitOutput(name, storageClass string, opts ...Option) *Connection {
	return newConnection(RoleInitOutput, name, storageClass, opts)
}

func (c *Connection) Role() Role {
	return c.role
}

// Name is the dataset type name, possibly holding {placeholder} tokens until resolved.
func (c *Connection) Name() string {
	return c.name
}

func (c *Connection) StorageClass() string {
	return c.storageClass
}

// Dimensions returns the sorted, de-duplicated dimension names.
func (c *Connection) Dimensions() []string {
	dims := slices.Clone(c.dimensions)
	slices.Sort(dims)
	return slices.Compact(dims)
}

func (c *Connection) Multiple() bool {
	return c.multiple
}

func (c *Connection) DeferLoad() bool {
	return c.deferLoad
}

func (c *Connection) Check() func(any) error {
	return c.check
}

// Attribute is the name the connection was declared under, empty before registration.
func (c *Connection) Attribute() string {
	return c.attribute
}

func (c *Connection) String() string {
	return fmt.Sprintf("%s(%s, %s, name=%q)", c.role, c.attribute, c.storageClass, c.name)
}

func (c *Connection) clone() *Connection {
	cp := *c
	cp.dimensions = slices.Clone(c.dimensions)
	return &cp
}

func (c *Connection) withName(name string) *Connection {
	cp := c.clone()
	cp.name = name
	return cp
}
