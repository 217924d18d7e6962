package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name: "test-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{"type": "boolean"},
			"feedback":   map[string]any{"type": "string"},
		},
		"required":             []string{"is_correct", "feedback"},
		"additionalProperties": false,
	},
}

func TestValidateResponseConforming(t *testing.T) {
	raw := json.RawMessage(`{"is_correct": true, "feedback": "good"}`)
	if err := validateResponse(testSchema, raw); err != nil {
		t.Errorf("validateResponse: %v", err)
	}
}

func TestValidateResponseNotJSON(t *testing.T) {
	err := validateResponse(testSchema, json.RawMessage("the answer is yes"))

	var inv *InvalidResponseError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidResponseError, got %v", err)
	}
}

func TestValidateResponseMissingRequired(t *testing.T) {
	err := validateResponse(testSchema, json.RawMessage(`{"is_correct": true}`))

	var inv *InvalidResponseError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidResponseError, got %v", err)
	}
}

func TestValidateResponseExtraProperty(t *testing.T) {
	raw := json.RawMessage(`{"is_correct": true, "feedback": "ok", "mood": "great"}`)
	if err := validateResponse(testSchema, raw); err == nil {
		t.Fatal("expected rejection of additional properties")
	}
}

func TestValidateResponseNilSchemaSkips(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage("plain text, no schema")); err != nil {
		t.Errorf("nil schema must skip validation, got %v", err)
	}
}
