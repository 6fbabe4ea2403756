package pipeline

import (
	"context"
	"fmt"

	"github.com/compozy/pipebase/engine/connection"
	"github.com/compozy/pipebase/engine/quantum"
	"github.com/compozy/pipebase/pkg/logger"
)

// RunQuantum reads the inputs of q through butler, runs task and writes every declared
// output back. Inputs whose connection defers loading are passed as their references.
func RunQuantum(
	ctx context.Context,
	task Task,
	conns *connection.Connections,
	q connection.Quantum,
	butler quantum.Butler,
) error {
	refs, _, err := conns.BuildDatasetRefs(q, butler)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx).With("connections", conns.Class().Name())
	inputs := make(map[string]any, len(refs.Inputs))
	for attr, binding := range refs.Inputs {
		conn, err := conns.Resolve(attr)
		if err != nil {
			return err
		}
		value, err := loadBinding(ctx, butler, conn, binding)
		if err != nil {
			return fmt.Errorf("failed to load input %s: %w", attr, err)
		}
		inputs[attr] = value
	}
	log.Debug("Running task on quantum", "inputs", len(inputs))
	outputs, err := task.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("task failed: %w", err)
	}
	for attr, binding := range refs.Outputs {
		obj, ok := outputs[attr]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingOutput, attr)
		}
		if err := storeBinding(ctx, butler, attr, binding, obj); err != nil {
			return err
		}
	}
	log.Debug("Stored task outputs", "outputs", len(refs.Outputs))
	return nil
}

func loadBinding(
	ctx context.Context,
	butler quantum.Butler,
	conn *connection.Connection,
	binding connection.Binding[quantum.DatasetRef],
) (any, error) {
	if conn.DeferLoad() {
		if binding.Multiple {
			return binding.Values, nil
		}
		return binding.Value, nil
	}
	load := func(ref quantum.DatasetRef) (any, error) {
		obj, err := butler.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		if check := conn.Check(); check != nil {
			if err := check(obj); err != nil {
				return nil, fmt.Errorf("check of %s failed: %w", ref, err)
			}
		}
		return obj, nil
	}
	if !binding.Multiple {
		return load(binding.Value)
	}
	out := make([]any, len(binding.Values))
	for i, ref := range binding.Values {
		obj, err := load(ref)
		if err != nil {
			return nil, err
		}
		out[i] = obj
	}
	return out, nil
}

func storeBinding(
	ctx context.Context,
	butler quantum.Butler,
	attr string,
	binding connection.Binding[quantum.DatasetRef],
	obj any,
) error {
	if !binding.Multiple {
		if _, isList := obj.([]any); isList {
			return fmt.Errorf("%w: %s expects a single object", ErrOutputMismatched, attr)
		}
		return butler.Put(ctx, obj, binding.Value)
	}
	objs, ok := obj.([]any)
	if !ok || len(objs) != len(binding.Values) {
		return fmt.Errorf(
			"%w: %s expects a list of %d objects",
			ErrOutputMismatched,
			attr,
			len(binding.Values),
		)
	}
	for i, ref := range binding.Values {
		if err := butler.Put(ctx, objs[i], ref); err != nil {
			return fmt.Errorf("failed to store output %s: %w", attr, err)
		}
	}
	return nil
}
