package connection

import (
	"slices"

	"github.com/compozy/pipebase/engine/core"
	"github.com/compozy/pipebase/engine/quantum"
)

// Quantum supplies the dataset references of one execution by dataset type name. A type
// with no references yields an empty slice.
type Quantum interface {
	Refs(datasetType string) []quantum.DatasetRef
}

// Binding holds what is bound to one connection: a single Value for scalar connections,
// the ordered Values otherwise.
type Binding[T any] struct {
	Multiple bool
	Value    T
	Values   []T
}

// All returns the bound values as a slice regardless of cardinality.
func (b Binding[T]) All() []T {
	if b.Multiple {
		return slices.Clone(b.Values)
	}
	return []T{b.Value}
}

type DatasetRefs struct {
	Inputs  map[string]Binding[quantum.DatasetRef]
	Outputs map[string]Binding[quantum.DatasetRef]
}

type DataIDs struct {
	Inputs  map[string]Binding[quantum.DataID]
	Outputs map[string]Binding[quantum.DataID]
}

// BuildDatasetRefs binds the references of q to the input-like and output connections by
// resolved name. Scalar connections must receive exactly one reference. The butler is
// accepted for deferred loading and is not used here; q is never modified.
func (c *Connections) BuildDatasetRefs(q Quantum, _ quantum.Butler) (*DatasetRefs, *DataIDs, error) {
	if isNilQuantum(q) {
		return nil, nil, core.NewValidationErrorf("quantum is required")
	}
	refs := &DatasetRefs{
		Inputs:  make(map[string]Binding[quantum.DatasetRef]),
		Outputs: make(map[string]Binding[quantum.DatasetRef]),
	}
	ids := &DataIDs{
		Inputs:  make(map[string]Binding[quantum.DataID]),
		Outputs: make(map[string]Binding[quantum.DataID]),
	}
	inputs := append(c.class.Inputs(), c.class.AuxiliaryInputs()...)
	if err := c.bind(q, inputs, refs.Inputs, ids.Inputs); err != nil {
		return nil, nil, err
	}
	if err := c.bind(q, c.class.Outputs(), refs.Outputs, ids.Outputs); err != nil {
		return nil, nil, err
	}
	return refs, ids, nil
}

func (c *Connections) bind(
	q Quantum,
	attrs []string,
	refs map[string]Binding[quantum.DatasetRef],
	ids map[string]Binding[quantum.DataID],
) error {
	for _, attr := range attrs {
		found := q.Refs(c.nameOverrides[attr])
		if !c.class.conns[attr].multiple {
			if len(found) != 1 {
				return core.NewScalarError(attr, len(found))
			}
			refs[attr] = Binding[quantum.DatasetRef]{Value: found[0]}
			ids[attr] = Binding[quantum.DataID]{Value: found[0].DataID}
			continue
		}
		rs := make([]quantum.DatasetRef, len(found))
		ds := make([]quantum.DataID, len(found))
		for i, ref := range found {
			rs[i] = ref
			ds[i] = ref.DataID
		}
		refs[attr] = Binding[quantum.DatasetRef]{Multiple: true, Values: rs}
		ids[attr] = Binding[quantum.DataID]{Multiple: true, Values: ds}
	}
	return nil
}

func isNilQuantum(q Quantum) bool {
	if q == nil {
		return true
	}
	qq, ok := q.(*quantum.Quantum)
	return ok && qq == nil
}
