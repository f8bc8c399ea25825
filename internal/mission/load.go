// YAML mission loader with CUE schema validation integration
package mission

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML mission document, validates it against the CUE schema,
// decodes it, and runs full definition validation. A schemaPath of "" skips
// the CUE pass.
func Load(missionPath, schemaPath string) (*Mission, error) {
	if schemaPath != "" {
		if err := ValidateWithCue(missionPath, schemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(missionPath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML mission document.
func Parse(data []byte) (*Mission, error) {
	var m Mission
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mission: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mission: %w", err)
	}
	return &m, nil
}

// ValidateWithCue validates a YAML mission file using a CUE schema file.
func ValidateWithCue(missionFile, cueFile string) error {
	ctx := cuecontext.New()

	yamlBytes, err := os.ReadFile(missionFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML mission: %w", err)
	}
	missionAST, err := cueyaml.Extract(missionFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML mission: %w", err)
	}
	missionVal := ctx.BuildFile(missionAST)

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)

	final := missionVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
