package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenarioYAML = `
name: minimal
ufunc: add
operands:
  - kind: array
    data: [1, 2]
  - kind: scalar
    value: 3
expect:
  outcome: no-override
`

func TestValidateScenarioBytes(t *testing.T) {
	t.Run("valid scenario passes", func(t *testing.T) {
		assert.NoError(t, ValidateScenarioBytes([]byte(validScenarioYAML)))
	})

	t.Run("missing required field", func(t *testing.T) {
		yaml := `
name: broken
operands: []
expect:
  outcome: no-override
`
		assert.Error(t, ValidateScenarioBytes([]byte(yaml)))
	})

	t.Run("bad behavior enum", func(t *testing.T) {
		yaml := `
name: broken
ufunc: add
operands:
  - kind: override
    class: Masked
    behavior: maybe
expect:
  outcome: result
`
		assert.Error(t, ValidateScenarioBytes([]byte(yaml)))
	})

	t.Run("bad method enum", func(t *testing.T) {
		yaml := `
name: broken
ufunc: add
method: accumulate
operands: []
expect:
  outcome: no-override
`
		assert.Error(t, ValidateScenarioBytes([]byte(yaml)))
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		yaml := validScenarioYAML + "\nretries: 3\n"
		assert.Error(t, ValidateScenarioBytes([]byte(yaml)))
	})

	t.Run("negative call position rejected", func(t *testing.T) {
		yaml := `
name: broken
ufunc: add
operands: []
expect:
  outcome: result
  calls:
    - position: -1
      status: accepted
`
		assert.Error(t, ValidateScenarioBytes([]byte(yaml)))
	})

	t.Run("empty input rejected", func(t *testing.T) {
		assert.Error(t, ValidateScenarioBytes(nil))
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		assert.Error(t, ValidateScenarioBytes([]byte(":\n  - ][")))
	})
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(validScenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "minimal", sc.Name)
	assert.Equal(t, "__call__", sc.Method, "method defaults to __call__")
	require.Len(t, sc.Operands, 2)
	assert.Equal(t, []float64{1, 2}, sc.Operands[0].Data)
	assert.Equal(t, 3.0, sc.Operands[1].Value)

	_, err = ParseScenario([]byte("name: broken"))
	assert.Error(t, err)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does-not-exist.yaml")
	assert.Error(t, err)
}
