package festival

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
)

//go:embed data/festivals.json
var defaultDatasetJSON []byte

// DefaultDataset returns the dataset compiled into the binary.
func DefaultDataset() (Dataset, error) {
	return ParseDataset(defaultDatasetJSON)
}

// ParseDataset decodes and validates a JSON dataset.
func ParseDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// ReadDataset reads a JSON dataset from r.
func ReadDataset(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return ParseDataset(data)
}

// MustDefaultRegistry builds a registry from the compiled-in dataset and
// panics if it does not validate.
func MustDefaultRegistry() *Registry {
	ds, err := DefaultDataset()
	if err != nil {
		panic(err)
	}
	reg, err := NewRegistry(ds)
	if err != nil {
		panic(err)
	}
	return reg
}
