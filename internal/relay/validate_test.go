package relay

import (
	"strings"
	"testing"
)

func TestValidateAppliesDefaults(t *testing.T) {
	req := RunRequest{InputValue: "hello"}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	if req.SessionID != DefaultSessionID {
		t.Errorf("SessionID = %q, want %q", req.SessionID, DefaultSessionID)
	}
	if req.OutputType != ChatType {
		t.Errorf("OutputType = %q, want %q", req.OutputType, ChatType)
	}
	if req.InputType != ChatType {
		t.Errorf("InputType = %q, want %q", req.InputType, ChatType)
	}
	if _, ok := req.Tweaks["AmazonBedrockModel-2gBD9"]; !ok {
		t.Errorf("Tweaks missing default provider block: %#v", req.Tweaks)
	}
}

func TestValidateKeepsProvidedFields(t *testing.T) {
	tweaks := map[string]any{"CustomModel-1": map[string]any{"model_id": "m"}}
	req := RunRequest{
		InputValue: "hello",
		SessionID:  "S-42",
		OutputType: "debug",
		InputType:  "voice",
		Tweaks:     tweaks,
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	if req.SessionID != "S-42" || req.OutputType != "debug" || req.InputType != "voice" {
		t.Errorf("provided fields were overwritten: %+v", req)
	}
	if _, ok := req.Tweaks["CustomModel-1"]; !ok {
		t.Errorf("provided tweaks were replaced: %#v", req.Tweaks)
	}
}

func TestValidateRejectsEmptyInput(t *testing.T) {
	req := RunRequest{InputValue: ""}
	err := req.Validate()
	if err == nil {
		t.Fatal("expected validation error for empty input_value")
	}
	if !strings.Contains(err.Error(), "input_value: Message cannot be empty") {
		t.Fatalf("error = %q, want it to mention the input_value rule", err.Error())
	}
	if strings.Contains(err.Error(), "*") {
		t.Fatalf("error = %q, want plain field lines without list markers", err.Error())
	}
}
