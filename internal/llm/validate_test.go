package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func rubricSchema() *Schema {
	return &Schema{
		Name:        "test-rubric",
		Description: "A scored rubric",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":    map[string]any{"type": "number"},
				"feedback": map[string]any{"type": "string"},
				"level":    map[string]any{"type": "string", "enum": []any{"beginner", "intermediate", "advanced"}},
			},
			"required": []any{"score"},
		},
	}
}

func TestValidateJSON_Valid(t *testing.T) {
	raw := json.RawMessage(`{"score":82,"feedback":"iyi","level":"intermediate"}`)
	if err := ValidateJSON(rubricSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateJSON_ZeroScoreIsValid(t *testing.T) {
	raw := json.RawMessage(`{"score":0}`)
	if err := ValidateJSON(rubricSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateJSON_ExtraFieldsAllowed(t *testing.T) {
	raw := json.RawMessage(`{"score":71.5,"grammar":{"score":70}}`)
	if err := ValidateJSON(rubricSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateJSON_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"feedback":"no score"}`)
	err := ValidateJSON(rubricSchema(), raw)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateJSON_WrongType(t *testing.T) {
	raw := json.RawMessage(`{"score":"85"}`)
	err := ValidateJSON(rubricSchema(), raw)
	if err == nil {
		t.Fatal("expected error for string score")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateJSON_InvalidEnum(t *testing.T) {
	raw := json.RawMessage(`{"score":50,"level":"native"}`)
	if err := ValidateJSON(rubricSchema(), raw); err == nil {
		t.Fatal("expected error for invalid enum value")
	}
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{not json}`)
	err := ValidateJSON(rubricSchema(), raw)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
	if string(invErr.Content) != `{not json}` {
		t.Fatalf("expected raw content to be kept, got %q", invErr.Content)
	}
}

func TestValidateJSON_EmptyResponse(t *testing.T) {
	if err := ValidateJSON(rubricSchema(), json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateJSON_NestedArrays(t *testing.T) {
	schema := &Schema{
		Name:        "test-nested",
		Description: "Nested test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"suggestions": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"suggestions"},
		},
	}

	valid := json.RawMessage(`{"suggestions":["read more","practice daily"]}`)
	if err := ValidateJSON(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"suggestions":[1,2]}`)
	if err := ValidateJSON(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}
