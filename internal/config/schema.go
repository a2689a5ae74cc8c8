package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates the config file violates the schema.
var ErrInvalidConfig = errors.New("invalid configuration")

// configSchema is the JSON schema every config file must satisfy.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "diff": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "whitespace": {
          "type": "string",
          "enum": ["exact", "ignore-leading-trailing", "ignore-all", "language-aware"]
        },
        "include_formatting": {"type": "boolean"},
        "minimum_impact": {
          "type": "string",
          "enum": ["formatting-only", "non-breaking", "breaking-internal", "breaking-public"]
        },
        "ignore_comments": {"type": "boolean"},
        "parallel_threshold": {"type": "integer", "minimum": 0}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"type": "string", "enum": ["terminal", "json", "html"]},
        "color": {"type": "boolean"}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "dir": {"type": "string"}
      }
    },
    "observability": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "otlp_endpoint": {"type": "string"},
        "otlp_insecure": {"type": "boolean"},
        "metrics_addr": {"type": "string"},
        "log_level": {"type": "string", "enum": ["debug", "info", "warn", "warning", "error"]},
        "log_json": {"type": "boolean"}
      }
    }
  }
}`

// ValidateFile checks a YAML config file against the embedded schema and
// returns a descriptive error listing every violation.
func ValidateFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	return ValidateBytes(raw)
}

// ValidateBytes checks raw YAML config content against the embedded schema.
func ValidateBytes(raw []byte) error {
	var doc any

	err := yaml.Unmarshal(raw, &doc)
	if err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if doc == nil {
		return nil
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert config to json: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))

	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(messages, "; "))
}
