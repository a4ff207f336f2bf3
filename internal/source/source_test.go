package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleNameFromPath(t *testing.T) {
	testCases := []struct {
		name      string
		rel       string
		expectErr bool
		expected  string
	}{
		{name: "top-level file", rel: "main.dzl", expected: "main"},
		{name: "nested file", rel: "billing/core.dzl", expected: "billing.core"},
		{name: "deeply nested file", rel: "a/b/c.dzl", expected: "a.b.c"},
		{name: "error - extension only", rel: ".dzl", expectErr: true},
		{name: "error - empty path", rel: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ModuleNameFromPath(tc.rel)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestInput_Sorted(t *testing.T) {
	in := Input{
		Modules: []Module{
			{Name: "zeta"},
			{Name: "alpha"},
			{Name: "main"},
		},
		Root: "main",
	}

	sorted := in.Sorted()
	assert.Equal(t, "alpha", sorted[0].Name)
	assert.Equal(t, "main", sorted[1].Name)
	assert.Equal(t, "zeta", sorted[2].Name)

	// The input itself stays untouched.
	assert.Equal(t, "zeta", in.Modules[0].Name)
}
