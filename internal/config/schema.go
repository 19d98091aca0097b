package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "plugins": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "keyword"],
        "properties": {
          "id": {"type": "string", "minLength": 1, "pattern": "^[^/\\\\]+$"},
          "keyword": {"type": "string", "minLength": 1, "pattern": "^\\S+$"}
        }
      }
    },
    "search_engines": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["keyword", "name", "url"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "keyword": {"type": "string", "minLength": 1, "pattern": "^\\S+$"},
          "name": {"type": "string"},
          "url": {"type": "string", "pattern": "%s"}
        }
      }
    },
    "theme": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "height": {"type": "integer", "minimum": 1, "maximum": 65535},
    "width": {"type": "integer", "minimum": 1, "maximum": 65535},
    "default_search_engine": {"type": "integer", "minimum": 0},
    "bookmarks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "url"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "name": {"type": "string"},
          "url": {"type": "string"}
        }
      }
    },
    "emojis_keyword": {"type": "string"},
    "enable_emojis": {"type": "boolean"},
    "bookmarks_keyword": {"type": "string"},
    "enable_bookmarks": {"type": "boolean"},
    "session_manager_keyword": {"type": "string"},
    "enable_session_manager": {"type": "boolean"},
    "show_bookmarks_favicon": {"type": "boolean"}
  }
}`

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// SchemaError lists the schema violations found in a config document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// ValidateDocument checks raw JSON against the config schema.
func ValidateDocument(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &SchemaError{Problems: problems}
}
