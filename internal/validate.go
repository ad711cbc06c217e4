package internal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// messageSchema describes a message as written by the UI layer. Timestamps
// are optional and may be numbers or strings.
var messageSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"text", "isUser"},
	"properties": map[string]interface{}{
		"text":      map[string]interface{}{"type": "string"},
		"isUser":    map[string]interface{}{"type": "boolean"},
		"timestamp": map[string]interface{}{"type": []string{"number", "string", "null"}},
	},
}

var (
	compiledMessageSchema *gojsonschema.Schema
	compileMessageSchema  sync.Once
	messageSchemaErr      error
)

func loadMessageSchema() (*gojsonschema.Schema, error) {
	compileMessageSchema.Do(func() {
		compiledMessageSchema, messageSchemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(messageSchema))
	})
	return compiledMessageSchema, messageSchemaErr
}

// ValidateRawMessage checks that raw is a JSON message carrying the
// required text and isUser fields
func ValidateRawMessage(raw []byte) error {
	schema, err := loadMessageSchema()
	if err != nil {
		return fmt.Errorf("failed to compile message schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationError{Field: "message", Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	field := first.Field()
	if first.Type() == "required" {
		if property, ok := first.Details()["property"].(string); ok {
			field = property
		}
	}

	reasons := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		reasons = append(reasons, desc.Description())
	}
	return &ValidationError{Field: field, Reason: strings.Join(reasons, "; ")}
}
