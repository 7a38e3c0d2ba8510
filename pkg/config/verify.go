package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// schemaDoc is the part of the generated schema used for verification
type schemaDoc struct {
	Ref  string `json:"$ref"`
	Defs map[string]struct {
		Properties map[string]struct {
			Enum []any `json:"enum"`
		} `json:"properties"`
	} `json:"$defs"`
}

// VerifyAgainstEmbeddedSchema checks the config against the embedded JSON schema:
// every top-level section the schema lists must be present and enum values must match.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema schemaDoc
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root, ok := schema.Defs[strings.TrimPrefix(schema.Ref, "#/$defs/")]
	if !ok || len(root.Properties) == 0 {
		return fmt.Errorf("embedded schema has no root definition")
	}
	for key := range root.Properties {
		if _, ok := configMap[key]; !ok {
			return fmt.Errorf("config misses %q", key)
		}
	}

	if engine, ok := schema.Defs["StoreConfig"].Properties["engine"]; ok && len(engine.Enum) > 0 &&
		!slices.Contains(engine.Enum, any(cfg.Store.Engine)) {
		return fmt.Errorf("store.engine %q not in %v", cfg.Store.Engine, engine.Enum)
	}

	return validateRequiredFields(cfg)
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Extraction.Enabled && cfg.Extraction.Timeout == 0 {
		return fmt.Errorf("extraction.timeout is required when extraction is enabled")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
