package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "styleaudit-config.schema.json"

// Validate checks a config file against the embedded JSON Schema and then
// against the value checks applied by Load. Unknown keys are reported.
func Validate(path string) error {
	k, err := loadKoanf(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	_, err = Load(path)
	return err
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid embedded schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
}
