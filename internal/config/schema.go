package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaBytes []byte

// Issue is one schema violation found in a config file.
type Issue struct {
	Field       string
	Description string
}

// ValidateFile checks a YAML config file against the embedded schema and
// returns the violations found. An empty result means the file is valid.
// Errors cover unreadable or unparseable files, not schema violations.
func ValidateFile(path string) ([]Issue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc any

	err = yaml.Unmarshal(raw, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if doc == nil {
		doc = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))

	for _, resultErr := range result.Errors() {
		issues = append(issues, Issue{
			Field:       resultErr.Field(),
			Description: resultErr.Description(),
		})
	}

	return issues, nil
}
