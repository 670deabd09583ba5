package http

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const matchRequestSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "quantity", "unit"],
        "properties": {
          "name": {"type": "string"},
          "quantity": {"type": "number", "exclusiveMinimum": 0},
          "unit": {"type": "string"},
          "expiry_date": {"type": ["string", "null"]},
          "location": {"enum": ["pantry", "fridge", "freezer", null]}
        }
      }
    },
    "max_missing": {"type": "integer", "minimum": 0},
    "time_limit_minutes": {"type": ["integer", "null"], "minimum": 0},
    "cuisine": {"type": ["string", "null"]},
    "spice_level": {"enum": ["mild", "medium", "hot", null]},
    "budget_mode": {"type": "boolean"}
  }
}`

var matchRequestSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(matchRequestSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("match request schema: %v", err))
	}
	return schema
}()

// validateMatchBody checks a raw /match body against the request schema.
// The returned error lists every violation.
func validateMatchBody(body []byte) error {
	result, err := matchRequestSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("request validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
