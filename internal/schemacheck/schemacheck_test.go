package schemacheck

import (
	"strings"
	"testing"
)

var personSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{"type": "string"},
		"age":  map[string]any{"type": "integer", "minimum": 0},
		"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required": []string{"name", "age"},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"valid", `{"name":"Ada","age":36}`, ""},
		{"valid with optional", `{"name":"Ada","age":36,"tags":["x"]}`, ""},
		{"missing required", `{"name":"Ada"}`, "schema validation failed"},
		{"wrong type", `{"name":"Ada","age":"old"}`, "schema validation failed"},
		{"below minimum", `{"name":"Ada","age":-1}`, "schema validation failed"},
		{"not json", `{name:`, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("test-person", personSchema, []byte(tt.raw))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_Cached(t *testing.T) {
	a, err := Compile("test-cached", personSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := Compile("test-cached", map[string]any{"type": "string"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if a != b {
		t.Error("expected the cached schema for a repeated name")
	}
}

func TestCompile_InvalidDefinition(t *testing.T) {
	_, err := Compile("test-invalid", map[string]any{"type": 42})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
