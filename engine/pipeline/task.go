// Package pipeline defines tasks, their registry and the execution of one quantum.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/compozy/pipebase/engine/pipeconfig"
	"github.com/compozy/pipebase/engine/resource"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrDuplicateTask    = errors.New("task already registered")
	ErrMissingOutput    = errors.New("task did not produce a declared output")
	ErrOutputMismatched = errors.New("task output does not match connection cardinality")
)

// Task processes the inputs of one quantum. Inputs and outputs are keyed by connection
// attribute; multiple connections carry []any.
type Task interface {
	Run(ctx context.Context, inputs map[string]any) (map[string]any, error)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context, inputs map[string]any) (map[string]any, error)

func (f TaskFunc) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	return f(ctx, inputs)
}

// TaskClass describes a kind of task and how to construct it from its configuration.
type TaskClass struct {
	Name            string
	ConfigClass     *pipeconfig.Class
	New             func(cfg *pipeconfig.Config) (Task, error)
	CanMultiprocess bool
	// PerDatasetTypeDimensions names the quantum dimensions whose values may differ between
	// the dataset types of one quantum. Nil means none.
	PerDatasetTypeDimensions func(cfg *pipeconfig.Config) []string
}

// DatasetTypeDimensions returns the per-dataset-type dimensions of cfg, sorted and without
// duplicates. It is empty unless the class sets PerDatasetTypeDimensions.
func (c *TaskClass) DatasetTypeDimensions(cfg *pipeconfig.Config) []string {
	if c.PerDatasetTypeDimensions == nil {
		return []string{}
	}
	dims := slices.Clone(c.PerDatasetTypeDimensions(cfg))
	slices.Sort(dims)
	return slices.Compact(dims)
}

func (c *TaskClass) Validate() error {
	switch {
	case c == nil:
		return errors.New("task class is nil")
	case c.Name == "":
		return errors.New("task class name is required")
	case c.ConfigClass == nil:
		return fmt.Errorf("task class %s has no config class", c.Name)
	case c.New == nil:
		return fmt.Errorf("task class %s has no constructor", c.Name)
	}
	return nil
}

// Registry maps task names to task classes. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*TaskClass
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*TaskClass)}
}

func (r *Registry) Register(tc *TaskClass) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[tc.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, tc.Name)
	}
	r.classes[tc.Name] = tc
	return nil
}

func (r *Registry) Get(name string) (*TaskClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tc, ok := r.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}
	return tc, nil
}

// Names returns the registered task names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ResourceConfig decodes the resource requirements of a task configuration.
func ResourceConfig(ctx context.Context, cfg *pipeconfig.Config) (*resource.Requirements, error) {
	resources, err := cfg.Resources()
	if err != nil {
		return nil, err
	}
	return resource.FromConfig(ctx, resources)
}
