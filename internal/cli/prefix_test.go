package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resourceNames = []string{"collections", "customers", "inventory", "orders", "products", "services", "taxes"}

func TestMatchResource(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"products", "products"},
		{"PRODUCTS", "products"},
		{"product", "products"},
		{"tax", "taxes"},
		{"order", "orders"},
		{"prod", "products"},
		{"inv", "inventory"},
		{"inventory", "inventory"},
		{"se", "services"},
		{"col", "collections"},
		{" orders ", "orders"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MatchResource(tt.input, resourceNames)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchResourceErrors(t *testing.T) {
	t.Run("ambiguous prefix lists candidates", func(t *testing.T) {
		_, err := MatchResource("c", resourceNames)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
		assert.Contains(t, err.Error(), "collections, customers")
	})

	t.Run("unknown lists choices", func(t *testing.T) {
		_, err := MatchResource("widgets", resourceNames)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown resource \"widgets\"")
		assert.Contains(t, err.Error(), "products")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := MatchResource("  ", resourceNames)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "resource", ve.Field)
	})

	t.Run("no names", func(t *testing.T) {
		_, err := MatchResource("x", nil)
		require.Error(t, err)
	})
}
