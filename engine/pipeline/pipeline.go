package pipeline

import (
	"fmt"
	"strings"

	"github.com/compozy/pipebase/engine/pipeconfig"
)

// TaskDef is one configured task of a pipeline.
type TaskDef struct {
	TaskName  string
	Config    *pipeconfig.Config
	TaskClass *TaskClass
	Label     string
}

// NewTaskDef creates a definition with a default configuration. The label defaults to the
// task name.
func NewTaskDef(tc *TaskClass, label string) (*TaskDef, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if label == "" {
		label = tc.Name
	}
	return &TaskDef{TaskName: tc.Name, Config: tc.ConfigClass.New(), TaskClass: tc, Label: label}, nil
}

func (d *TaskDef) String() string {
	s := "TaskDef(" + d.TaskName
	if d.Label != "" {
		s += ", label=" + d.Label
	}
	return s + ")"
}

// Instantiate constructs the task from the definition's configuration.
func (d *TaskDef) Instantiate() (Task, error) {
	if d.TaskClass == nil {
		return nil, fmt.Errorf("task definition %s has no task class", d.Label)
	}
	return d.TaskClass.New(d.Config)
}

// Pipeline is an ordered list of task definitions.
type Pipeline []*TaskDef

// LabelIndex returns the position of the task with label, or -1.
func (p Pipeline) LabelIndex(label string) int {
	for i, d := range p {
		if d.Label == label {
			return i
		}
	}
	return -1
}

func (p Pipeline) String() string {
	parts := make([]string, len(p))
	for i, d := range p {
		parts[i] = d.String()
	}
	return "Pipeline(" + strings.Join(parts, ", ") + ")"
}
