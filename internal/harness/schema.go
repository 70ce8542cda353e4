package harness

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// scenarioSchema compiles the embedded schema once.
func scenarioSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		compiled := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := compiled.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaValue = compiled.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Scenario: %w", err)
		}
	})
	return schemaValue, schemaErr
}

// ValidateScenarioBytes checks scenario YAML against the embedded CUE
// schema. Returns a multi-line error listing every violation.
func ValidateScenarioBytes(data []byte) error {
	schema, err := scenarioSchema()
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse scenario YAML: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("scenario is empty")
	}

	ctx := schema.Context()
	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode scenario for validation: %w", err)
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("scenario schema violation:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}
