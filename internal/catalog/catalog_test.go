package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
products:
  - id: bolo-pote
    name: Bolo de Pote
    price: 12.5
    category: doces
    active: true
  - id: brigadeiro
    name: Brigadeiro
    price: 3
    category: doces
    active: true
  - id: coxinha
    name: Coxinha
    price: 6
    category: salgados
    active: false
`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(testCatalog))
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "bolo-pote", list[0].ID)
	assert.Equal(t, "brigadeiro", list[1].ID)

	p, ok := c.Product("coxinha")
	require.True(t, ok)
	assert.False(t, p.Active)
	assert.Equal(t, 6.0, p.Price)

	_, ok = c.Product("pastel")
	assert.False(t, ok)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing_id",
			body: "products:\n  - name: Bolo\n    price: 1\n",
		},
		{
			name: "negative_price",
			body: "products:\n  - id: bolo\n    price: -1\n",
		},
		{
			name: "duplicate_id",
			body: "products:\n  - id: bolo\n  - id: bolo\n",
		},
		{
			name: "not_yaml",
			body: "products: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, c.List())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))

	c, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, c.List(), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
