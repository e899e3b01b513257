package validation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/goliatone/go-kiosk/internal/validation"
	"github.com/goliatone/go-kiosk/pkg/testsupport"
)

func TestValidatePayload_AcceptsMatchingPayload(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"calories": map[string]any{"type": "integer"},
			"sku":      map[string]any{"type": "string"},
		},
		"required": []any{"sku"},
	}

	err := validation.ValidatePayload(schema, map[string]any{
		"sku":      "ESP-01",
		"calories": 12,
	})
	if err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestValidatePayload_ReportsIssues(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sku": map[string]any{"type": "string"},
		},
		"required": []any{"sku"},
	}

	err := validation.ValidatePayload(schema, map[string]any{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if issues := validation.Issues(err); len(issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestValidatePayload_FieldShorthand(t *testing.T) {
	schema := map[string]any{
		"fields": []any{
			map[string]any{"name": "sku", "type": "string", "required": true},
			map[string]any{"name": "calories", "type": "integer"},
		},
	}

	if err := validation.ValidatePayload(schema, map[string]any{"sku": "ESP-01"}); err != nil {
		t.Fatalf("shorthand schema must validate, got %v", err)
	}
	if err := validation.ValidatePayload(schema, map[string]any{"sku": 42}); err == nil {
		t.Fatal("expected type mismatch to fail")
	}
	if err := validation.ValidatePayload(schema, map[string]any{"sku": "ESP-01", "extra": true}); err == nil {
		t.Fatal("expected additional property to fail")
	}
}

func TestValidatePartialPayload_SkipsRequired(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sku": map[string]any{"type": "string"},
		},
		"required": []any{"sku"},
	}

	if err := validation.ValidatePartialPayload(schema, map[string]any{}); err != nil {
		t.Fatalf("partial validation must skip required fields, got %v", err)
	}
}

func TestValidateSchema_RejectsBroken(t *testing.T) {
	err := validation.ValidateSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sku": map[string]any{"type": "no-such-type"},
		},
	})
	if !errors.Is(err, validation.ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidatePayload_SchemaFromFixture(t *testing.T) {
	var schema map[string]any
	if err := testsupport.LoadGolden("testdata/menu_item_schema.json", &schema); err != nil {
		t.Fatalf("load schema fixture: %v", err)
	}

	raw, err := testsupport.LoadFixture("testdata/menu_item_payload.json")
	if err != nil {
		t.Fatalf("load payload fixture: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode payload fixture: %v", err)
	}

	if err := validation.ValidatePayload(schema, payload); err != nil {
		t.Fatalf("fixture payload must validate, got %v", err)
	}

	payload["spice_level"] = 3
	if err := validation.ValidatePayload(schema, payload); err == nil {
		t.Fatal("expected additional property to fail")
	}
}

func TestValidatePayload_NilSchemaIsNoOp(t *testing.T) {
	if err := validation.ValidatePayload(nil, map[string]any{"anything": true}); err != nil {
		t.Fatalf("nil schema must accept everything, got %v", err)
	}
}
