package scenario

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/testrank/internal/errors"
)

// FileSource reads a batch from a YAML or JSON file. The document is either
// a bare list of scenarios or a mapping with a "scenarios" key.
type FileSource struct {
	Path string
}

type document struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenarios implements Source
func (f FileSource) Scenarios(ctx context.Context) ([]Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(f.Path)
}

// LoadFile reads and decodes a scenario file. JSON parses as YAML.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read scenario file", err)
	}
	return Parse(data, path)
}

// Parse decodes scenario data; name is only used in error messages.
func Parse(data []byte, name string) ([]Scenario, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.NewFileUnmarshalError(name, "scenario", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []Scenario
		if err := root.Decode(&list); err != nil {
			return nil, errors.NewFileUnmarshalError(name, "scenario", err)
		}
		return list, nil
	default:
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, errors.NewFileUnmarshalError(name, "scenario", err)
		}
		return doc.Scenarios, nil
	}
}
