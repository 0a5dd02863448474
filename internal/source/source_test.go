package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxIsEmbedded(t *testing.T) {
	p := Max()
	assert.Equal(t, "max", p.Name)
	assert.Equal(t, "max.c", p.Filename)
	assert.Contains(t, string(p.Text), "int max(int val1, int val2)")
	assert.Contains(t, string(p.Text), "if (val1 < val2)")
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("min")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"min"`)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"max"}, Names())
}
