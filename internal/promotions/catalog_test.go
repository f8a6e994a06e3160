package promotions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
discounts:
  - code: WELCOME10
    message: "10% off your first order has been applied!"
  - code: FREESHIP
    message: "Free standard shipping has been applied!"
`

func TestCatalogApply(t *testing.T) {
	c, err := ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)

	tests := []struct {
		name    string
		code    string
		success bool
		message string
	}{
		{"known code", "WELCOME10", true, "10% off your first order has been applied!"},
		{"another known code", "FREESHIP", true, "Free standard shipping has been applied!"},
		{"unknown code", "BOGUS", false, InvalidCodeMessage},
		{"empty code", "", false, InvalidCodeMessage},
		{"codes are case sensitive", "welcome10", false, InvalidCodeMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Apply(tt.code)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.code, res.Code)
		})
	}
}

func TestCatalogIsACopy(t *testing.T) {
	src := map[string]string{"A": "a applied"}
	c, err := NewCatalog(src)
	require.NoError(t, err)

	src["B"] = "b applied"
	delete(src, "A")

	assert.Equal(t, []string{"A"}, c.Codes())
	assert.Equal(t, 1, c.Len())
}

func TestParseCatalogErrors(t *testing.T) {
	_, err := ParseCatalog([]byte("discounts: [\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("discounts:\n  - code: A\n    message: x\n  - code: A\n    message: y\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseCatalog([]byte("discounts:\n  - code: A\n"))
	assert.ErrorContains(t, err, "no message")

	_, err = ParseCatalog([]byte("discounts:\n  - code: \"\"\n    message: x\n"))
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promotions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"FREESHIP", "WELCOME10"}, c.Codes())

	empty, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
