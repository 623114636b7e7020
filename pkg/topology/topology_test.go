package topology

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridtree/gridtree-go/pkg/grid"
)

const kitchenYAML = `
outlets: 1
slots:
  - strip:
      outlets: 3
      slots:
        - strip:
            outlets: 3
            slots:
              - device: Iron
        - device: kettle
`

const kitchenStatus = "PowerStrip:\n" +
	"\tPowerStrip:\n" +
	"\t\tPowerStrip:\n" +
	"\t\t\tholds device Iron\n" +
	"\t\t\thas power, empty\n" +
	"\t\t\thas power, empty\n" +
	"\t\tholds device Electric kettle\n" +
	"\t\thas power, empty\n"

func TestBuildKitchen(t *testing.T) {
	doc, err := Parse([]byte(kitchenYAML))
	require.NoError(t, err)

	root, err := Build(doc)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Equal(t, kitchenStatus, grid.Status(root))
}

func TestExportRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(kitchenYAML))
	require.NoError(t, err)
	root, err := Build(doc)
	require.NoError(t, err)

	data, err := Marshal(Export(root))
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	rebuilt, err := Build(again)
	require.NoError(t, err)
	assert.Equal(t, grid.Status(root), grid.Status(rebuilt))
}

func TestExportEmptySlots(t *testing.T) {
	root, err := grid.NewWallStrip("desk", 3)
	require.NoError(t, err)
	n, err := root.Child(1)
	require.NoError(t, err)
	require.NoError(t, grid.Plug(n, grid.NewDevice("Lamp")))

	doc := Export(root)
	assert.Equal(t, "desk", doc.Name)
	assert.Equal(t, 3, doc.Outlets)
	require.Len(t, doc.Slots, 2, "trailing empty slot is dropped")
	assert.True(t, doc.Slots[0].IsEmpty())
	assert.Equal(t, "Lamp", doc.Slots[1].Device)

	data, err := Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- {}")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"Empty", "", ""},
		{"UnknownKey", "outlets: 1\ncolour: red\n", ""},
		{"ZeroOutlets", "outlets: 0\n", "outlets"},
		{"TooManySlots", "outlets: 1\nslots:\n  - {}\n  - {}\n", ""},
		{"DeviceAndStrip", "outlets: 1\nslots:\n  - device: x\n    strip:\n      outlets: 1\n", "slots[0]"},
		{"NestedZeroOutlets", "outlets: 2\nslots:\n  - {}\n  - strip:\n      outlets: -1\n", "slots[1].strip.outlets"},
		{"NestedUnknownKey", "outlets: 1\nslots:\n  - strip:\n      outlets: 1\n      plugs: 2\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.field, le.Field)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kitchen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(kitchenYAML), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Outlets)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, filepath.Join(dir, "missing.yaml"), le.File)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("outlets: 0\n"), 0o644))
	_, err = Load(bad)
	require.True(t, errors.As(err, &le))
	assert.Equal(t, bad, le.File)
	assert.Contains(t, err.Error(), "outlets: outlet count must be positive")
}

func TestSave(t *testing.T) {
	root, err := grid.NewWallStrip("wall", 2)
	require.NoError(t, err)
	_, err = root.PlugFree(grid.NewDevice("Toaster"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	require.NoError(t, Save(path, root))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wall", doc.Name)
	require.Len(t, doc.Slots, 1)
	assert.Equal(t, "Toaster", doc.Slots[0].Device)
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, Validate(nil))
	_, err := Build(nil)
	assert.Error(t, err)
}
