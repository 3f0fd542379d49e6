package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	tx := Default()
	assert.Contains(t, tx.MainClasses(), "SN Ia")
	assert.Contains(t, tx.MainClasses(), "Other")
	assert.Contains(t, tx.Subclasses("SN Ia"), "Ia-91bg")
	assert.Equal(t, []string{}, tx.Subclasses("Other"))
}

func TestSubclassesUnknownIsEmpty(t *testing.T) {
	tx := Default()
	got := tx.Subclasses("Kilonova")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSubclassesReturnsCopy(t *testing.T) {
	tx := Default()
	got := tx.Subclasses("SN II")
	require.NotEmpty(t, got)
	got[0] = "mutated"
	assert.NotEqual(t, "mutated", tx.Subclasses("SN II")[0])
}

func TestResolve(t *testing.T) {
	tx := Default()
	main, ok := tx.Resolve("IIn")
	require.True(t, ok)
	assert.Equal(t, "SN II", main)

	_, ok = tx.Resolve("nope")
	assert.False(t, ok)
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("classifications:\n  - name: A\n  - name: A\n"))
	require.Error(t, err)

	_, err = Parse([]byte("classifications: []\n"))
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classifications:\n  - name: Kilonova\n    subclasses: [blue, red]\n"), 0o600))

	tx, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kilonova"}, tx.MainClasses())
	assert.Equal(t, []string{"blue", "red"}, tx.Subclasses("Kilonova"))
	assert.True(t, tx.HasClass("Kilonova"))
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	tx, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().MainClasses(), tx.MainClasses())
}
