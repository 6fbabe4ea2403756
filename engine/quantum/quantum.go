// Package quantum models the unit of work handed to a task: the dataset references it reads
// and writes, grouped by dataset type.
package quantum

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// DataID maps dimension names to values, e.g. {"visit": 903334, "detector": 22}.
type DataID map[string]any

func (d DataID) String() string {
	keys := slices.Sorted(maps.Keys(d))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, d[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// DatasetRef identifies one dataset.
type DatasetRef struct {
	ID           uuid.UUID
	DatasetType  string
	DataID       DataID
	StorageClass string
}

// NewDatasetRef creates a reference with a fresh random ID.
func NewDatasetRef(datasetType string, dataID DataID, storageClass string) DatasetRef {
	return DatasetRef{
		ID:           uuid.New(),
		DatasetType:  datasetType,
		DataID:       dataID,
		StorageClass: storageClass,
	}
}

func (r DatasetRef) String() string {
	return fmt.Sprintf("DatasetRef(%s, %s, id=%s)", r.DatasetType, r.DataID, r.ID)
}

// Quantum groups the references of one task execution by dataset type name.
type Quantum struct {
	taskLabel string
	dataID    DataID
	order     []string
	refs      map[string][]DatasetRef
}

func New(taskLabel string, dataID DataID) *Quantum {
	return &Quantum{taskLabel: taskLabel, dataID: dataID, refs: make(map[string][]DatasetRef)}
}

func (q *Quantum) TaskLabel() string {
	return q.taskLabel
}

func (q *Quantum) DataID() DataID {
	return q.dataID
}

// Add appends refs under their own dataset type name, preserving order.
func (q *Quantum) Add(refs ...DatasetRef) *Quantum {
	for _, ref := range refs {
		if _, ok := q.refs[ref.DatasetType]; !ok {
			q.order = append(q.order, ref.DatasetType)
		}
		q.refs[ref.DatasetType] = append(q.refs[ref.DatasetType], ref)
	}
	return q
}

// Refs returns a copy of the references of datasetType; unknown types and a nil quantum
// yield an empty slice.
func (q *Quantum) Refs(datasetType string) []DatasetRef {
	if q == nil {
		return nil
	}
	return slices.Clone(q.refs[datasetType])
}

// DatasetTypes returns the dataset type names in first-added order.
func (q *Quantum) DatasetTypes() []string {
	if q == nil {
		return nil
	}
	return slices.Clone(q.order)
}

// Butler reads and writes datasets.
type Butler interface {
	Get(ctx context.Context, ref DatasetRef) (any, error)
	Put(ctx context.Context, obj any, ref DatasetRef) error
}
