package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() *OutlineSchema {
	return &OutlineSchema{
		Model: ModelImport{Name: "Bridge"},
		Decisions: []OutlineNode{
			{Text: "Intended use", Children: []OutlineNode{
				{Text: "Load cases", Children: []OutlineNode{{Text: "Pedestrian"}}},
				{Text: "Environment"},
			}},
			{Text: "Acceptance"},
		},
		Requirements: []OutlineNode{{Text: "Peak stress below yield"}},
	}
}

func TestValidateOutlineSchema_Valid(t *testing.T) {
	assert.Empty(t, ValidateOutlineSchema(validSchema()))
}

func TestValidateOutlineSchema_CollectsAllErrors(t *testing.T) {
	schema := &OutlineSchema{
		Decisions: []OutlineNode{
			{Text: " ", Children: []OutlineNode{{Text: ""}}},
		},
	}
	errs := ValidateOutlineSchema(schema)
	require.Len(t, errs, 3)
	assert.EqualError(t, errs[0], "model.name is required")
	assert.EqualError(t, errs[1], "decisions[0].text is required")
	assert.EqualError(t, errs[2], "decisions[0].children[0].text is required")
}

func TestValidateOutlineSchema_RequiresSomeNodes(t *testing.T) {
	errs := ValidateOutlineSchema(&OutlineSchema{Model: ModelImport{Name: "Empty"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one")
}

func TestValidateOutlineSchema_DepthLimit(t *testing.T) {
	deep := OutlineNode{Text: "leaf"}
	for i := 0; i < maxDepth+1; i++ {
		deep = OutlineNode{Text: "level", Children: []OutlineNode{deep}}
	}
	errs := ValidateOutlineSchema(&OutlineSchema{Model: ModelImport{Name: "Deep"}, Uncertainties: []OutlineNode{deep}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "nesting deeper than")
}

func TestConvert_ParentsPrecedeChildren(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := Convert(validSchema(), "user-1", now)

	assert.Equal(t, "Bridge", out.Model.Name)
	assert.Equal(t, 6, out.NodeCount())
	require.Len(t, out.Decisions, 5)

	titles := make([]string, len(out.Decisions))
	for i, d := range out.Decisions {
		titles[i] = d.Title
	}
	assert.Equal(t, []string{"Intended use", "Acceptance", "Load cases", "Environment", "Pedestrian"}, titles)

	byTitle := map[string]int{}
	for i, d := range out.Decisions {
		byTitle[d.Title] = i
		assert.Equal(t, out.Model.ID, d.ModelID)
		assert.Equal(t, "user-1", d.CreatedBy)
		assert.Nil(t, d.GeneratedID)
		assert.True(t, now.Equal(d.CreatedAt))
	}
	intended := out.Decisions[byTitle["Intended use"]]
	load := out.Decisions[byTitle["Load cases"]]
	ped := out.Decisions[byTitle["Pedestrian"]]
	assert.Nil(t, intended.ParentID)
	assert.Equal(t, 0, intended.Level)
	require.NotNil(t, load.ParentID)
	assert.Equal(t, intended.ID, *load.ParentID)
	assert.Equal(t, 1, load.Level)
	require.NotNil(t, ped.ParentID)
	assert.Equal(t, load.ID, *ped.ParentID)
	assert.Equal(t, 2, ped.Level)

	require.Len(t, out.Requirements, 1)
	assert.Equal(t, "Peak stress below yield", out.Requirements[0].Statement)
	assert.Empty(t, out.Uncertainties)
}

func TestLoadOutlineSchema_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.yaml")
	content := `model:
  name: Airfoil
  description: wind tunnel campaign
uncertainties:
  - text: Inflow
    children:
      - text: Turbulence intensity
        description: hot-wire measured
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	schema, err := LoadOutlineSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "Airfoil", schema.Model.Name)
	assert.Equal(t, "wind tunnel campaign", schema.Model.Description)
	require.Len(t, schema.Uncertainties, 1)
	require.Len(t, schema.Uncertainties[0].Children, 1)
	assert.Equal(t, "hot-wire measured", schema.Uncertainties[0].Children[0].Description)
}

func TestLoadOutlineSchema_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.json")
	content := `{"model": {"name": "Valve"}, "requirements": [{"text": "Leak rate", "children": [{"text": "At 2 bar"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	schema, err := LoadOutlineSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "Valve", schema.Model.Name)
	require.Len(t, schema.Requirements, 1)
	assert.Equal(t, "At 2 bar", schema.Requirements[0].Children[0].Text)
}

func TestLoadOutlineSchema_Errors(t *testing.T) {
	_, err := LoadOutlineSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0o644))
	_, err = LoadOutlineSchema(path)
	assert.ErrorContains(t, err, "parsing import file")
}
