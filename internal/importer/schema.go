package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutlineSchema is the top-level structure of an outline import file: one
// model and a nested tree per node kind.
type OutlineSchema struct {
	Model         ModelImport   `json:"model" yaml:"model"`
	Decisions     []OutlineNode `json:"decisions,omitempty" yaml:"decisions,omitempty"`
	Uncertainties []OutlineNode `json:"uncertainties,omitempty" yaml:"uncertainties,omitempty"`
	Requirements  []OutlineNode `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// ModelImport defines the model the imported trees belong to.
type ModelImport struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// OutlineNode is one node and its children. Text becomes the decision
// title, the uncertainty name or the requirement statement.
type OutlineNode struct {
	Text        string        `json:"text" yaml:"text"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Children    []OutlineNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// LoadOutlineSchema reads an outline import file. Files ending in .json are
// parsed as JSON, anything else as YAML.
func LoadOutlineSchema(path string) (*OutlineSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema OutlineSchema
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &schema)
	} else {
		err = yaml.Unmarshal(data, &schema)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
